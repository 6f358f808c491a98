package rule

import (
	"fmt"
	"io"
	"sort"
)

// LegacyVersion labels rules without a "since" marker.
const LegacyVersion = "legacy"

// Stats tallies the rules produced by one run.
type Stats struct {
	Total     int            `json:"total"`
	ByTag     map[string]int `json:"by_tag"`
	ByVersion map[string]int `json:"by_version"`
}

// Tally counts the rules of sets.
func Tally(sets []*Set) Stats {
	st := Stats{
		ByTag:     make(map[string]int),
		ByVersion: make(map[string]int),
	}
	for _, s := range sets {
		for _, m := range s.Rules {
			st.Add(m)
		}
	}
	return st
}

// Add counts one rule.
func (s *Stats) Add(m *Model) {
	if s.ByTag == nil {
		s.ByTag = make(map[string]int)
	}
	if s.ByVersion == nil {
		s.ByVersion = make(map[string]int)
	}
	s.Total++
	for _, tag := range m.Tags {
		s.ByTag[tag]++
	}
	version := m.Version
	if version == "" {
		version = LegacyVersion
	}
	s.ByVersion[version]++
}

// Print writes the tallies sorted by label.
func (s Stats) Print(w io.Writer) {
	fmt.Fprintf(w, "%d rules processed\n", s.Total)
	printCounts(w, "Rules by tag", s.ByTag)
	printCounts(w, "Rules by version", s.ByVersion)
}

func printCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	fmt.Fprintf(w, "\n%s:\n", title)
	for _, label := range labels {
		fmt.Fprintf(w, "  %-20s %d\n", label, counts[label])
	}
}
