package installer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// runnerCall is one recorded invocation of fakeRunner.
type runnerCall struct {
	name string
	args []string
	env  Environment
}

// fakeRunner records calls and answers them with handle.
type fakeRunner struct {
	calls  []runnerCall
	handle func(name string, args []string, env Environment) (Output, error)
}

func (f *fakeRunner) Run(_ context.Context, env Environment, name string, args ...string) (Output, error) {
	f.calls = append(f.calls, runnerCall{name: name, args: args, env: env.Clone()})
	if f.handle == nil {
		return Output{}, nil
	}
	return f.handle(name, args, env)
}

// script returns the PowerShell script of a call, or "" for other programs.
func (c runnerCall) script() string {
	if len(c.args) < 2 || c.args[len(c.args)-2] != "-Command" {
		return ""
	}
	return c.args[len(c.args)-1]
}

// countingServer serves fixed bodies by path and counts every request.
type countingServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newCountingServer(t *testing.T, bodies map[string]string) *countingServer {
	t.Helper()

	cs := &countingServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.hits.Add(1)
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(strings.ReplaceAll(body, "{{server}}", cs.URL)))
	}))
	t.Cleanup(cs.Close)
	return cs
}
