package rule

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/c360studio/ruledoc/source"
)

// Properties implied by fixed description phrases.
var impliedProperties = []struct {
	phrase string
	name   string
}{
	{"length property", "length"},
	{"sameLine property", "sameLine"},
}

// Builder assembles Models.
type Builder struct {
	messages  Messages
	documents map[string]*source.Document
	baseURL   string
	logger    *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithBaseURL sets the base used for relative documentation links.
func WithBaseURL(url string) BuilderOption {
	return func(b *Builder) {
		b.baseURL = url
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a Builder over a messages lookup and merged documents
// keyed by internal key. Either may be nil.
func NewBuilder(messages Messages, documents map[string]*source.Document, opts ...BuilderOption) *Builder {
	b := &Builder{
		messages:  messages,
		documents: documents,
		baseURL:   DefaultBaseURL,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build assembles the Model of one check. An invalid priority is fatal.
func (b *Builder) Build(check Check, version string) (*Model, error) {
	key := check.ClassName()
	severity, err := SeverityFromPriority(key, check.Priority())
	if err != nil {
		return nil, fmt.Errorf("build rule: %w", err)
	}

	internalKey := InternalKey(key)
	doc := b.documents[internalKey]
	baseText := b.baseDescription(internalKey)

	m := &Model{
		Key:         key,
		InternalKey: internalKey,
		Name:        DisplayName(internalKey),
		Severity:    severity,
		Version:     version,
		Tags:        Tags(key, internalKey),
		Description: b.description(doc, baseText),
		Parameters:  b.parameters(check, doc, baseText).Sorted(),
	}

	if err := source.CheckMarkup(m.Description); err != nil {
		b.logger.Warn("Unbalanced rule description markup", "rule", key, "error", err)
	}
	return m, nil
}

func (b *Builder) baseDescription(internalKey string) string {
	if b.messages == nil {
		return ""
	}
	return b.messages.Description(internalKey)
}

func (b *Builder) description(doc *source.Document, baseText string) string {
	text := baseText
	if doc != nil && doc.HasDescription() {
		text = doc.Description
	}
	return CleanDescription(text, b.baseURL)
}

// parameters unions the documented parameters with those named by stock
// phrases of the base description, taking defaults from the check.
func (b *Builder) parameters(check Check, doc *source.Document, baseText string) *source.ParameterSet {
	params := source.NewParameterSet()
	if doc != nil {
		for _, p := range doc.Parameters.Sorted() {
			if strings.TrimSpace(p.Key) == "" {
				b.logger.Warn("Skipping documented parameter without key",
					"rule", check.ClassName(), "description", p.Description)
				continue
			}
			params.Add(p)
		}
	}

	for _, name := range ReferencedProperties(baseText) {
		p := source.Parameter{Key: name}
		if v, ok := check.DefaultValue(name); ok {
			p.DefaultValue = v
		} else {
			b.logger.Debug("No default value for property", "rule", check.ClassName(), "property", name)
		}
		params.Add(p)
	}
	return params
}

// ReferencedProperties lists the property names a description refers to
// through "<em>X</em> property", "configured in <em>X</em>" and the fixed
// "length property"/"sameLine property" phrases, in order of discovery.
func ReferencedProperties(description string) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	for _, name := range substringsBetween(description, "<em>", "</em> property") {
		if i := strings.LastIndex(name, "<em>"); i >= 0 {
			name = name[i+len("<em>"):]
		}
		add(name)
	}
	for _, name := range substringsBetween(description, "configured in <em>", "</em>") {
		add(name)
	}
	for _, p := range impliedProperties {
		if strings.Contains(description, p.phrase) {
			add(p.name)
		}
	}
	return names
}
