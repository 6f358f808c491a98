package source

import (
	"log/slog"
)

// Conflict records two files supplying different descriptions for the same rule.
type Conflict struct {
	// Rule is the rule name.
	Rule string `json:"rule"`

	// KeptFrom is the file whose description was kept.
	KeptFrom string `json:"kept_from"`

	// Kept is the description that was kept (first encountered).
	Kept string `json:"kept"`

	// RejectedFrom is the file whose description was dropped.
	RejectedFrom string `json:"rejected_from"`

	// Rejected is the description that was dropped.
	Rejected string `json:"rejected"`
}

// Merger combines per-file documents into one mapping keyed by rule name.
type Merger struct {
	logger *slog.Logger
}

// NewMerger creates a merger that reports conflicts on logger.
func NewMerger(logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{logger: logger}
}

// Merge unions parameters by key across files and keeps the first non-blank
// description seen for each rule. Files are processed in slice order.
// Inputs are not modified.
func (m *Merger) Merge(files []FileDocuments) (map[string]*Document, []Conflict) {
	merged := make(map[string]*Document)
	origin := make(map[string]string)
	var conflicts []Conflict

	for _, file := range files {
		for _, name := range file.RuleNames() {
			incoming := file.Documents[name]
			if incoming == nil {
				continue
			}

			current, ok := merged[name]
			if !ok {
				current = NewDocument(name)
				merged[name] = current
			}

			for _, p := range incoming.Parameters.Sorted() {
				current.Parameters.Add(p)
			}

			switch {
			case !incoming.HasDescription():
			case !current.HasDescription():
				current.Description = incoming.Description
				origin[name] = file.Path
			case current.Description != incoming.Description:
				c := Conflict{
					Rule:         name,
					KeptFrom:     origin[name],
					Kept:         current.Description,
					RejectedFrom: file.Path,
					Rejected:     incoming.Description,
				}
				conflicts = append(conflicts, c)
				m.logger.Warn("Conflicting rule descriptions, keeping first",
					"rule", name,
					"kept_from", c.KeptFrom,
					"rejected_from", c.RejectedFrom,
					"kept", c.Kept,
					"rejected", c.Rejected)
			}
		}
	}

	return merged, conflicts
}
