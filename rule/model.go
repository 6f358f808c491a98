// Package rule assembles rule models from check metadata and parsed documentation.
package rule

import (
	"strings"

	"github.com/c360studio/ruledoc/source"
)

// Check exposes the metadata of one check implementation.
type Check interface {
	// ClassName returns the fully qualified class name.
	ClassName() string

	// Priority returns the declared priority, expected in {1,2,3}.
	Priority() int

	// DefaultValue returns the default of a configurable property.
	DefaultValue(name string) (string, bool)
}

// Messages looks up base HTML descriptions by internal key.
type Messages interface {
	Description(internalKey string) string
}

// Model is a fully assembled rule.
type Model struct {
	Key         string             `json:"key"`
	InternalKey string             `json:"internalKey"`
	Name        string             `json:"name"`
	Severity    Severity           `json:"severity"`
	Version     string             `json:"version,omitempty"`
	Tags        []string           `json:"tags"`
	Description string             `json:"-"`
	Parameters  []source.Parameter `json:"parameters"`
}

// HasVersion reports whether the rule carries a "since" marker.
func (m *Model) HasVersion() bool {
	return m.Version != ""
}

// FileName returns the filesystem-safe form of the rule key.
func (m *Model) FileName() string {
	return strings.ReplaceAll(m.Key, ".", "_")
}

// Set is a named batch of rules in processing order.
type Set struct {
	Name  string
	Rules []*Model
}
