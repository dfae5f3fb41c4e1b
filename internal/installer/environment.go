package installer

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"winget-bootstrap/internal/logger"
)

// Environment is an explicit snapshot of environment variables.
// It is handed to every subprocess instead of mutating the process environment.
// Names compare case-insensitively, matching Windows semantics.
type Environment map[string]string

// reloadScript prints every variable a fresh session would see. Persisted machine and
// user variables only fill in names the process scope lacks, so live values such as
// USERNAME are never replaced by their HKLM defaults. Path is rebuilt from both
// persisted scopes. Values spanning several lines cannot be told apart from extra
// NAME=VALUE lines, so they are left out.
const reloadScript = `[Console]::OutputEncoding = [System.Text.Encoding]::UTF8
$vars = @{}
foreach ($scope in 'Machine', 'User', 'Process') {
  $e = [Environment]::GetEnvironmentVariables($scope)
  foreach ($k in $e.Keys) { $vars[$k] = $e[$k] }
}
$vars['Path'] = [Environment]::GetEnvironmentVariable('Path', 'Machine') + ';' + [Environment]::GetEnvironmentVariable('Path', 'User')
$vars.GetEnumerator() | Where-Object { [string]$_.Value -notmatch '[\r\n]' } | ForEach-Object { $_.Name + '=' + $_.Value }`

// sessionVariables describe the running logon session. A reload never replaces them,
// whatever the persisted scopes hold.
var sessionVariables = []string{"USERNAME", "USERDOMAIN", "PROCESSOR_ARCHITECTURE"}

// CurrentEnvironment snapshots the environment of the running process.
func CurrentEnvironment() Environment {
	return EnvironmentFrom(os.Environ())
}

// EnvironmentFrom builds a snapshot from NAME=VALUE pairs, as returned by os.Environ.
func EnvironmentFrom(pairs []string) Environment {
	env := make(Environment, len(pairs))
	for _, kv := range pairs {
		name, value, ok := strings.Cut(kv, "=")
		// Windows keeps per-drive cwd entries like "=C:=C:\"; they carry no useful name.
		if !ok || name == "" {
			continue
		}
		env.Set(name, value)
	}
	return env
}

// Get returns the value for name, matching case-insensitively when no exact key exists.
func (e Environment) Get(name string) (string, bool) {
	if v, ok := e[name]; ok {
		return v, true
	}
	for k, v := range e {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// Set adds or overwrites name. An existing entry that differs only in case is replaced
// so that "Path" and "PATH" never coexist.
func (e Environment) Set(name, value string) {
	for k := range e {
		if k != name && strings.EqualFold(k, name) {
			delete(e, k)
		}
	}
	e[name] = value
}

// Clone returns an independent copy of the snapshot.
func (e Environment) Clone() Environment {
	c := make(Environment, len(e))
	for k, v := range e {
		c[k] = v
	}
	return c
}

// Merge returns a copy of e with every entry of fresh added or overwritten.
// Nothing is ever deleted.
func (e Environment) Merge(fresh map[string]string) Environment {
	merged := e.Clone()
	for k, v := range fresh {
		merged.Set(k, v)
	}
	return merged
}

// Slice renders the snapshot as sorted NAME=VALUE pairs for exec.Cmd.Env.
func (e Environment) Slice() []string {
	out := make([]string, 0, len(e))
	for k, v := range e {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// ParseEnvironment parses NAME=VALUE lines. Only the first '=' separates name from value,
// so values such as "C:\a;C:\b=c" survive intact. Blank lines and lines without '=' are skipped.
func ParseEnvironment(output string) map[string]string {
	vars := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, value, ok := strings.Cut(line, "=")
		if !ok || name == "" {
			logger.Debug("[DEBUG] Skipping environment line without name: %q\n", line)
			continue
		}
		vars[name] = value
	}
	return vars
}

// ReloadEnvironment asks a fresh PowerShell session for its environment and merges it into env.
// Any output on stderr counts as failure. The input snapshot is never modified.
func ReloadEnvironment(ctx context.Context, runner Runner, shell string, env Environment) (Environment, error) {
	logger.Info("[INFO] Reloading environment variables...\n")

	out, err := runner.Run(ctx, env, shell, PowerShellArgs(reloadScript)...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvironmentReload, err)
	}
	if stderr := strings.TrimSpace(string(out.Stderr)); stderr != "" {
		return nil, fmt.Errorf("%w: %s", ErrEnvironmentReload, stderr)
	}

	fresh := ParseEnvironment(string(out.Stdout))
	logger.Debug("[DEBUG] Reloaded %d environment variables\n", len(fresh))

	reloaded := env.Merge(withoutSessionVariables(fresh, env))
	logger.Info("[INFO] Environment variables reloaded.\n")
	return reloaded, nil
}

// withoutSessionVariables drops from fresh every session variable that env already defines.
func withoutSessionVariables(fresh map[string]string, env Environment) map[string]string {
	kept := make(map[string]string, len(fresh))
	for k, v := range fresh {
		kept[k] = v
	}
	for _, name := range sessionVariables {
		if _, ok := env.Get(name); !ok {
			continue
		}
		for k := range kept {
			if strings.EqualFold(k, name) {
				delete(kept, k)
			}
		}
	}
	return kept
}
