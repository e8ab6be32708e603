package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Report is the on-disk shape written by the profiling collector: a list of
// snapshots plus optional collector metadata.
type Report struct {
	// CollectedAt is the collector's own timestamp string, passed through
	// untouched.
	CollectedAt string `json:"collected_at,omitempty" yaml:"collected_at,omitempty"`

	// Suite is the name of the test suite the snapshots came from.
	Suite string `json:"suite,omitempty" yaml:"suite,omitempty"`

	// Snapshots is the list of per-example telemetry records.
	Snapshots []*Snapshot `json:"snapshots" yaml:"snapshots"`
}

// LoadReport reads a profile report from path. The format is chosen by file
// extension: .json for JSON, .yaml/.yml for YAML. Durations are nanosecond
// integers in both formats (Go's default time.Duration encoding).
//
// A file containing a single top-level snapshot object (no "snapshots" list)
// is accepted and wrapped into a one-entry report.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: reading %s: %w", path, err)
	}

	var report Report
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &report)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &report)
	default:
		return nil, fmt.Errorf("profile: unsupported profile format %q (want .json, .yaml, or .yml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("profile: parsing %s: %w", path, err)
	}

	if len(report.Snapshots) == 0 {
		// Fall back to a single top-level snapshot object.
		single, serr := loadSingle(path, data)
		if serr != nil {
			return nil, fmt.Errorf("profile: %s contains no snapshots", path)
		}
		report.Snapshots = []*Snapshot{single}
	}

	for i, snap := range report.Snapshots {
		if err := snap.Validate(); err != nil {
			return nil, fmt.Errorf("profile: %s: snapshot[%d]: %w", path, i, err)
		}
	}

	return &report, nil
}

// loadSingle attempts to parse the file contents as one bare snapshot.
func loadSingle(path string, data []byte) (*Snapshot, error) {
	var snap Snapshot
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &snap)
	default:
		err = yaml.Unmarshal(data, &snap)
	}
	if err != nil {
		return nil, err
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}
