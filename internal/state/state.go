package state

import (
	"encoding/json" // For JSON encoding and decoding of the state file
	"os"            // For file system operations like reading and writing files
	"time"

	"winget-bootstrap/internal/logger"
)

// Package install outcomes recorded in PackageState.Status.
const (
	StatusInstalled = "installed"
	StatusFailed    = "failed"
)

// WingetState records what the last run learned about winget.
type WingetState struct {
	Version              string    `json:"version"`                // Output of "winget --version"
	InstalledByBootstrap bool      `json:"installed_by_bootstrap"` // True if a run of this tool provisioned winget
	CheckedAt            time.Time `json:"checked_at"`
}

// PackageState is the result of the last install attempt of one package id.
type PackageState struct {
	Status    string    `json:"status"`          // StatusInstalled or StatusFailed
	Error     string    `json:"error,omitempty"` // Failure message, empty on success
	UpdatedAt time.Time `json:"updated_at"`
}

// State is the JSON record of previous runs. It is informational only:
// every configured package is attempted on every run regardless of it.
type State struct {
	Winget   WingetState             `json:"winget"`
	Packages map[string]PackageState `json:"packages"` // Map from package id to its last result
}

// LoadState loads the saved state from a JSON file at the given path.
// A missing or unreadable file yields a new empty State.
func LoadState(path string) *State {
	file, err := os.ReadFile(path)
	if err != nil {
		return &State{Packages: make(map[string]PackageState)}
	}

	var st State
	if err := json.Unmarshal(file, &st); err != nil {
		logger.Warn("[WARN] Ignoring corrupt state file %s: %v\n", path, err)
		return &State{Packages: make(map[string]PackageState)}
	}

	if st.Packages == nil {
		st.Packages = make(map[string]PackageState)
	}

	return &st
}

// RecordWinget stores the winget version seen at now. Once set, InstalledByBootstrap stays true.
func (st *State) RecordWinget(version string, installed bool, now time.Time) {
	st.Winget.Version = version
	st.Winget.InstalledByBootstrap = st.Winget.InstalledByBootstrap || installed
	st.Winget.CheckedAt = now
}

// RecordPackage stores the outcome of installing id at now.
func (st *State) RecordPackage(id string, err error, now time.Time) {
	ps := PackageState{Status: StatusInstalled, UpdatedAt: now}
	if err != nil {
		ps.Status = StatusFailed
		ps.Error = err.Error()
	}
	st.Packages[id] = ps
}

// SaveState writes the given State struct to a JSON file at the given path.
// Errors are logged but not propagated; a lost record never fails a run.
func SaveState(path string, st *State) {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		logger.Error("[ERROR] Failed to marshal state: %v\n", err)
		return
	}

	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(file))

	if err := os.WriteFile(path, file, 0o644); err != nil {
		logger.Error("[ERROR] Failed to write state file %s: %v\n", path, err)
	}
}
