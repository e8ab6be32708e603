package profile

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter selects snapshots by matching their Location against doublestar glob
// patterns. Include patterns are applied first (empty means "everything"),
// then exclude patterns remove matches. The line suffix of a location
// ("file_test.rb:42") is stripped before matching so patterns target paths.
//
// Pattern validity is checked up front; an invalid pattern is an error rather
// than a silent no-match.
func Filter(snapshots []*Snapshot, include, exclude []string) ([]*Snapshot, error) {
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("profile: invalid glob pattern %q", p)
		}
	}

	var out []*Snapshot
	for _, snap := range snapshots {
		path := locationPath(snap.Location)
		if len(include) > 0 && !matchesAny(path, include) {
			continue
		}
		if matchesAny(path, exclude) {
			continue
		}
		out = append(out, snap)
	}
	return out, nil
}

// locationPath strips a trailing ":<line>" suffix from a location identifier.
func locationPath(location string) string {
	if i := strings.LastIndex(location, ":"); i > 0 {
		if isAllDigits(location[i+1:]) {
			return location[:i]
		}
	}
	return location
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func matchesAny(path string, patterns []string) bool {
	for _, p := range patterns {
		// Patterns were validated in Filter; Match cannot fail here.
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}
