package installer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"

	"winget-bootstrap/internal/logger"
)

// listProcesses is swapped out in tests.
var listProcesses = ps.Processes

// OtherInstances returns the PIDs of processes, other than self, running the executable exe.
func OtherInstances(self int, exe string) ([]int, error) {
	procs, err := listProcesses()
	if err != nil {
		return nil, err
	}

	var pids []int
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		if strings.EqualFold(p.Executable(), exe) {
			pids = append(pids, p.Pid())
		}
	}
	return pids, nil
}

// WarnIfAlreadyRunning logs a warning when another copy of this program is running.
// Two runs share the same temp files, so the outcome of overlapping runs is undefined.
func WarnIfAlreadyRunning() {
	exe, err := os.Executable()
	if err != nil {
		logger.Debug("[DEBUG] Cannot determine own executable: %v\n", err)
		return
	}

	pids, err := OtherInstances(os.Getpid(), filepath.Base(exe))
	if err != nil {
		logger.Debug("[DEBUG] Cannot list processes: %v\n", err)
		return
	}
	if len(pids) > 0 {
		logger.Warn("[WARN] Another instance is already running (pid %v); concurrent runs are not supported.\n", pids)
	}
}
