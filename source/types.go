// Package source provides types and parsers for rule documentation ingestion.
package source

import (
	"sort"
	"strings"
)

// Parameter is a user-configurable setting of a rule as described in documentation.
type Parameter struct {
	// Key is the parameter name. Two parameters are the same entity iff their keys are equal.
	Key string `json:"key"`

	// Description is free text, possibly accumulated from wrapped table cells.
	Description string `json:"description,omitempty"`

	// DefaultValue is the documented or declared default, empty when unknown.
	DefaultValue string `json:"defaultValue,omitempty"`
}

// IsEmpty returns true if key, description and default value are all blank.
func (p Parameter) IsEmpty() bool {
	return isBlank(p.Key) && isBlank(p.Description) && isBlank(p.DefaultValue)
}

// HasDefaultValue returns true if the parameter carries a non-blank default value.
func (p Parameter) HasDefaultValue() bool {
	return !isBlank(p.DefaultValue)
}

// Merge folds other into p when both share the same key.
// Existing non-blank values are kept; blank ones are filled from other.
func (p *Parameter) Merge(other Parameter) {
	if p.Key != other.Key {
		return
	}
	p.Description = selectValue(p.Description, other.Description)
	p.DefaultValue = selectValue(p.DefaultValue, other.DefaultValue)
}

func selectValue(current, incoming string) string {
	if isBlank(current) && !isBlank(incoming) {
		return incoming
	}
	return current
}

// ParameterSet is a set of parameters unique by key.
// The zero value is ready to use.
type ParameterSet struct {
	byKey map[string]*Parameter
}

// NewParameterSet creates a set holding the given parameters.
func NewParameterSet(params ...Parameter) *ParameterSet {
	s := &ParameterSet{}
	for _, p := range params {
		s.Add(p)
	}
	return s
}

// Add inserts p, merging it into an existing parameter with the same key.
func (s *ParameterSet) Add(p Parameter) {
	if s.byKey == nil {
		s.byKey = make(map[string]*Parameter)
	}
	if existing, ok := s.byKey[p.Key]; ok {
		existing.Merge(p)
		return
	}
	cp := p
	s.byKey[p.Key] = &cp
}

// Get returns the parameter stored under key.
func (s *ParameterSet) Get(key string) (Parameter, bool) {
	if s == nil || s.byKey == nil {
		return Parameter{}, false
	}
	p, ok := s.byKey[key]
	if !ok {
		return Parameter{}, false
	}
	return *p, true
}

// Len returns the number of distinct keys.
func (s *ParameterSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.byKey)
}

// Sorted returns a copy of the parameters ordered by key.
func (s *ParameterSet) Sorted() []Parameter {
	if s.Len() == 0 {
		return nil
	}
	out := make([]Parameter, 0, len(s.byKey))
	for _, p := range s.byKey {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Clone returns an independent copy of the set.
func (s *ParameterSet) Clone() *ParameterSet {
	c := &ParameterSet{}
	for _, p := range s.Sorted() {
		c.Add(p)
	}
	return c
}

// Document is the description text and parameters parsed for one rule.
type Document struct {
	// Rule is the rule name the document was found under.
	Rule string `json:"rule"`

	// Description is accumulated HTML-ish text (<p>, <pre>, <code> markup).
	Description string `json:"description"`

	// Parameters holds the parameters found in parameter tables.
	Parameters *ParameterSet `json:"-"`
}

// NewDocument creates an empty document for a rule.
func NewDocument(rule string) *Document {
	return &Document{
		Rule:       rule,
		Parameters: &ParameterSet{},
	}
}

// HasDescription returns true if the description is not blank.
func (d *Document) HasDescription() bool {
	return d != nil && !isBlank(d.Description)
}

// HasParameters returns true if at least one parameter was collected.
func (d *Document) HasParameters() bool {
	return d != nil && d.Parameters.Len() > 0
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	return &Document{
		Rule:        d.Rule,
		Description: d.Description,
		Parameters:  d.Parameters.Clone(),
	}
}

// FileDocuments holds the documents parsed from one source file.
type FileDocuments struct {
	// Path is the file the documents were read from.
	Path string

	// Documents maps rule name to its parsed document.
	Documents map[string]*Document
}

// RuleNames returns the rule names of the file in sorted order.
func (f FileDocuments) RuleNames() []string {
	names := make([]string, 0, len(f.Documents))
	for name := range f.Documents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
