// Package export serializes assembled rules as a combined XML document or
// as a directory of per-rule JSON and HTML files.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/c360studio/ruledoc/rule"
	"github.com/c360studio/ruledoc/source"
)

// XMLFileName is the combined-mode artifact name.
const XMLFileName = "rules.xml"

// Exporter writes rule sets to an output directory.
type Exporter struct {
	format    Format
	generator string
	markdown  bool
	logger    *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithGenerator sets the tool name written in the XML header comment.
func WithGenerator(generator string) Option {
	return func(e *Exporter) {
		e.generator = generator
	}
}

// WithMarkdown enables Markdown companion files in split mode.
func WithMarkdown(enabled bool) Option {
	return func(e *Exporter) {
		e.markdown = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// NewExporter creates an exporter for format.
func NewExporter(format Format, opts ...Option) (*Exporter, error) {
	if _, ok := GetFormatInfo(format); !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	e := &Exporter{format: format, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Export writes sets under outDir and returns the path of the artifact
// (file or directory). Any previous artifact is deleted first.
func (e *Exporter) Export(outDir string, sets []*rule.Set) (string, error) {
	switch e.format {
	case FormatXML:
		return e.exportXML(outDir, sets)
	case FormatJSONHTML:
		return e.exportSplit(outDir, sets)
	default:
		return "", fmt.Errorf("unsupported format: %s", e.format)
	}
}

func (e *Exporter) exportXML(outDir string, sets []*rule.Set) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(outDir, XMLFileName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to remove previous output: %w", err)
	}
	if err := writeFile(path, []byte(RenderXML(e.generator, sets))); err != nil {
		return "", err
	}
	e.logger.Debug("Wrote rules document", "path", path)
	return path, nil
}

func (e *Exporter) exportSplit(outDir string, sets []*rule.Set) (string, error) {
	dir := filepath.Join(outDir, RulesFolder)
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("failed to remove previous output: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewSplitWriter(dir, e.markdown)
	for _, s := range sets {
		for _, m := range s.Rules {
			if err := w.WriteRule(m); err != nil {
				return "", err
			}
		}
	}
	e.logger.Debug("Wrote rule files", "dir", dir, "rules", w.Len())
	return dir, nil
}

func sortedCopy(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}

func sortedParameters(params []source.Parameter) []source.Parameter {
	if len(params) == 0 {
		return nil
	}
	out := append([]source.Parameter(nil), params...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
