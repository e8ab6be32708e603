// Package profile defines the execution telemetry consumed by the analyzers.
//
// A Snapshot captures what one test example actually did at runtime — how long
// it ran, which object-construction strategies it used, how often it touched
// the persistence layer, and which lifecycle events fired. Snapshots are
// produced upstream by the profiling collector and are treated as immutable
// inputs here: nothing in lightspec ever mutates one.
package profile

import (
	"fmt"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Snapshot is the per-example telemetry record for one analysis run.
type Snapshot struct {
	// Location identifies the example, typically "path/to/file_test.rb:42".
	Location string `json:"location" yaml:"location"`

	// Description is the human-readable example description.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Category is the declared test category (e.g. "model", "unit", "request").
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// Duration is the measured wall-clock execution time.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Construction maps object-construction strategy names to invocation
	// counts (e.g. create: 12, build: 3, build_stubbed: 0).
	Construction map[string]int `json:"construction,omitempty" yaml:"construction,omitempty"`

	// Persistence maps persistence-layer operations to counts
	// (e.g. insert: 12, query: 0, transaction: 1).
	Persistence map[string]int `json:"persistence,omitempty" yaml:"persistence,omitempty"`

	// Events maps lifecycle event names to counts (e.g. callback: 40,
	// mutation: 2).
	Events map[string]int `json:"events,omitempty" yaml:"events,omitempty"`

	// Metadata carries free-form collector annotations.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Validate reports whether the snapshot is usable as analysis input.
// A snapshot without a location or with a negative duration cannot be
// analyzed; callers must treat this as "no analysis possible" rather than
// "no action recommended".
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("profile: nil snapshot")
	}
	if s.Location == "" {
		return fmt.Errorf("profile: snapshot missing location")
	}
	if s.Duration < 0 {
		return fmt.Errorf("profile: snapshot %s has negative duration %s", s.Location, s.Duration)
	}
	return nil
}

// Fingerprint returns a stable 64-bit hash of the snapshot's identifying
// fields, used to correlate log lines and reports for the same example across
// invocations. Map iteration order is neutralized by hashing sorted keys.
func (s *Snapshot) Fingerprint() uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(s.Location)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(s.Category)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(s.Duration.String())
	writeSortedCounts(h, s.Construction)
	writeSortedCounts(h, s.Persistence)
	writeSortedCounts(h, s.Events)
	return h.Sum64()
}

// writeSortedCounts feeds a count map into the hash in deterministic order.
func writeSortedCounts(h *xxhash.Digest, m map[string]int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = h.WriteString(fmt.Sprintf("\x00%s=%d", k, m[k]))
	}
}

// TotalConstruction returns the sum of all construction strategy counts.
func (s *Snapshot) TotalConstruction() int {
	return sumCounts(s.Construction)
}

// TotalPersistence returns the sum of all persistence operation counts.
func (s *Snapshot) TotalPersistence() int {
	return sumCounts(s.Persistence)
}

// PersistenceReads returns the number of persistence operations that read
// data back (query/select/find counts).
func (s *Snapshot) PersistenceReads() int {
	return s.Persistence["query"] + s.Persistence["select"] + s.Persistence["find"]
}

// PersistenceWrites returns the number of persistence operations that write
// data (insert/update/delete counts).
func (s *Snapshot) PersistenceWrites() int {
	return s.Persistence["insert"] + s.Persistence["update"] + s.Persistence["delete"]
}

// DominantConstruction returns the construction strategy with the highest
// count and that count. Ties break alphabetically so the result is
// deterministic. Returns ("", 0) when no construction was recorded.
func (s *Snapshot) DominantConstruction() (string, int) {
	var (
		best      string
		bestCount int
	)
	keys := make([]string, 0, len(s.Construction))
	for k := range s.Construction {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s.Construction[k] > bestCount {
			best = k
			bestCount = s.Construction[k]
		}
	}
	return best, bestCount
}

func sumCounts(m map[string]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}
