// Package catalog describes the check implementations to document: their
// rule sets, priorities, "since" versions and property defaults.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoRules is returned when a catalog lists no checks.
var ErrNoRules = errors.New("catalog lists no rules")

// File is the YAML catalog document.
type File struct {
	// Generator names the tool the rules were generated from (e.g. "CodeNarc 1.6").
	Generator string `yaml:"generator,omitempty"`

	// Sets lists rule sets in processing order.
	Sets []SetSpec `yaml:"sets"`
}

// SetSpec is a named batch of checks.
type SetSpec struct {
	Name  string      `yaml:"name"`
	Rules []CheckSpec `yaml:"rules"`
}

// CheckSpec describes one check implementation.
type CheckSpec struct {
	// Class is the fully qualified class name.
	Class string `yaml:"class"`

	// Since is the version the check first appeared in (empty = legacy).
	Since string `yaml:"since,omitempty"`

	// Level is the declared priority (1, 2 or 3).
	Level int `yaml:"priority,omitempty"`

	// Defaults maps property names to their default values.
	Defaults map[string]string `yaml:"defaults,omitempty"`
}

// ClassName returns the fully qualified class name.
func (c CheckSpec) ClassName() string { return c.Class }

// Priority returns the declared priority.
func (c CheckSpec) Priority() int { return c.Level }

// DefaultValue returns the default of a property.
func (c CheckSpec) DefaultValue(name string) (string, bool) {
	v, ok := c.Defaults[name]
	return v, ok
}

// Load reads and validates a catalog file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks structure only. Priorities are checked when rules are built.
func (f *File) Validate() error {
	total := 0
	for i, s := range f.Sets {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("sets[%d].name is required", i)
		}
		for j, c := range s.Rules {
			if strings.TrimSpace(c.Class) == "" {
				return fmt.Errorf("sets[%d].rules[%d].class is required", i, j)
			}
		}
		total += len(s.Rules)
	}
	if total == 0 {
		return ErrNoRules
	}
	return nil
}

// Len returns the number of checks across all sets.
func (f *File) Len() int {
	n := 0
	for _, s := range f.Sets {
		n += len(s.Rules)
	}
	return n
}

// Enrich fills priorities and defaults the catalog leaves unset from scanned
// sources. Values written in the catalog always win. It returns the number of
// checks that received data.
func (f *File) Enrich(scanned map[string]*ScannedCheck) int {
	enriched := 0
	for i := range f.Sets {
		for j := range f.Sets[i].Rules {
			c := &f.Sets[i].Rules[j]
			sc, ok := scanned[c.Class]
			if !ok {
				continue
			}
			changed := false
			if c.Level == 0 && sc.HasPriority {
				c.Level = sc.Priority
				changed = true
			}
			for name, v := range sc.Defaults {
				if _, exists := c.Defaults[name]; exists {
					continue
				}
				if c.Defaults == nil {
					c.Defaults = make(map[string]string)
				}
				c.Defaults[name] = v
				changed = true
			}
			if changed {
				enriched++
			}
		}
	}
	return enriched
}
