package installer

import (
	"errors"
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"
)

type fakeProcess struct {
	pid int
	exe string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.exe }

// Not parallel: swaps the package-level process lister.
func TestOtherInstances(t *testing.T) {
	orig := listProcesses
	t.Cleanup(func() { listProcesses = orig })

	listProcesses = func() ([]ps.Process, error) {
		return []ps.Process{
			fakeProcess{pid: 10, exe: "winget-bootstrap.exe"},
			fakeProcess{pid: 11, exe: "WINGET-BOOTSTRAP.EXE"},
			fakeProcess{pid: 12, exe: "winget.exe"},
		}, nil
	}

	pids, err := OtherInstances(10, "winget-bootstrap.exe")
	require.NoError(t, err)
	require.Equal(t, []int{11}, pids)

	listProcesses = func() ([]ps.Process, error) { return nil, errors.New("denied") }
	_, err = OtherInstances(10, "winget-bootstrap.exe")
	require.Error(t, err)
}
