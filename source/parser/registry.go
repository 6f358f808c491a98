package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/c360studio/ruledoc/source"
)

// Parser defines the interface for rule documentation parsers.
type Parser interface {
	// Parse parses a documentation file into documents keyed by rule name.
	Parse(filename string, content []byte) (source.FileDocuments, error)

	// Extensions returns the file extensions this parser handles.
	Extensions() []string
}

// Registry manages documentation parsers by file extension.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser // keyed by lower-case extension
}

// DefaultRegistry is the global parser registry with default parsers.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a new parser registry with default parsers.
func NewRegistry() *Registry {
	r := &Registry{
		parsers: make(map[string]Parser),
	}

	r.Register(NewAptParser())

	return r
}

// Register adds a parser for each of its extensions.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range p.Extensions() {
		r.parsers[strings.ToLower(ext)] = p
	}
}

// GetByFilename returns the parser for a file, preferring the longest
// matching extension so that "x.apt.vm" resolves before "x.vm".
func (r *Registry) GetByFilename(filename string) Parser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	base := strings.ToLower(filepath.Base(filename))
	var (
		best    Parser
		bestLen int
	)
	for ext, p := range r.parsers {
		if strings.HasSuffix(base, ext) && len(ext) > bestLen {
			best, bestLen = p, len(ext)
		}
	}
	return best
}

// Parse parses a file using the appropriate parser.
func (r *Registry) Parse(filename string, content []byte) (source.FileDocuments, error) {
	p := r.GetByFilename(filename)
	if p == nil {
		return source.FileDocuments{}, fmt.Errorf("no parser for file type: %s", filepath.Ext(filename))
	}
	return p.Parse(filename, content)
}

// ListExtensions returns all registered extensions in sorted order.
func (r *Registry) ListExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
