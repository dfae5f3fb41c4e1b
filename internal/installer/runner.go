package installer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"winget-bootstrap/internal/logger"
)

// Output holds the captured streams of a finished subprocess.
type Output struct {
	Stdout []byte
	Stderr []byte
}

// Runner executes a program with an explicit environment snapshot.
// Arguments are always passed as a vector, never through a shell command string.
type Runner interface {
	Run(ctx context.Context, env Environment, name string, args ...string) (Output, error)
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct{}

// Run starts name with args and env, waits for it and returns both output streams.
// A bare name is resolved against the PATH of env, so a program installed after
// the process started is still found. A non-zero exit wraps ErrSubprocess.
func (ExecRunner) Run(ctx context.Context, env Environment, name string, args ...string) (Output, error) {
	path := lookPath(name, env)

	cmd := exec.CommandContext(ctx, path, args...)
	// A nil Env inherits the process environment; an empty snapshot must stay empty.
	if env != nil {
		cmd.Env = env.Slice()
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("[DEBUG] Running command: %s %s\n", path, strings.Join(args, " "))
	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrSubprocess, name, err)
	}
	return out, nil
}

// PowerShellArgs builds the argument vector that runs script in a non-interactive session.
// Data reaches the script through environment variables, never by splicing it into the text.
func PowerShellArgs(script string) []string {
	return []string{"-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass", "-Command", script}
}

// lookPath resolves name against the PATH (and PATHEXT on Windows) of env.
// It falls back to name itself, leaving resolution to os/exec.
func lookPath(name string, env Environment) string {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return name
	}

	pathVar, ok := env.Get("PATH")
	if !ok || pathVar == "" {
		return name
	}

	exts := []string{""}
	if runtime.GOOS == "windows" {
		exts = windowsExtensions(name, env)
	}

	for _, dir := range filepath.SplitList(pathVar) {
		if dir == "" {
			continue
		}
		for _, ext := range exts {
			candidate := filepath.Join(dir, name+ext)
			if isExecutable(candidate) {
				return candidate
			}
		}
	}
	return name
}

func windowsExtensions(name string, env Environment) []string {
	pathExt, ok := env.Get("PATHEXT")
	if !ok || pathExt == "" {
		pathExt = ".COM;.EXE;.BAT;.CMD"
	}

	var exts []string
	// A name that already carries an executable extension is tried as is first.
	for _, ext := range strings.Split(pathExt, ";") {
		if ext != "" && strings.EqualFold(filepath.Ext(name), ext) {
			exts = append(exts, "")
			break
		}
	}
	for _, ext := range strings.Split(pathExt, ";") {
		if ext != "" {
			exts = append(exts, strings.ToLower(ext))
		}
	}
	return exts
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		// App execution aliases (WindowsApps\winget.exe) are reparse points that Stat cannot follow.
		info, err = os.Lstat(path)
		if err != nil {
			return false
		}
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
