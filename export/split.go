package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"

	"github.com/c360studio/ruledoc/rule"
	"github.com/c360studio/ruledoc/source"
)

// RulesFolder is the directory holding split-mode artifacts.
const RulesFolder = "rules"

// jsonRule is the metadata record of one rule in split mode.
type jsonRule struct {
	Key         string             `json:"key"`
	InternalKey string             `json:"internalKey"`
	Name        string             `json:"name"`
	Severity    rule.Severity      `json:"severity"`
	Version     string             `json:"version,omitempty"`
	Tags        []string           `json:"tags"`
	Parameters  []source.Parameter `json:"parameters"`
}

func newJSONRule(m *rule.Model) jsonRule {
	params := sortedParameters(m.Parameters)
	if params == nil {
		params = []source.Parameter{}
	}
	tags := sortedCopy(m.Tags)
	if tags == nil {
		tags = []string{}
	}
	return jsonRule{
		Key:         m.Key,
		InternalKey: m.InternalKey,
		Name:        m.Name,
		Severity:    m.Severity,
		Version:     m.Version,
		Tags:        tags,
		Parameters:  params,
	}
}

// RenderJSON renders the pretty-printed metadata record of a rule.
func RenderJSON(m *rule.Model) ([]byte, error) {
	data, err := json.MarshalIndent(newJSONRule(m), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", m.Key, err)
	}
	return append(data, '\n'), nil
}

// SplitWriter writes one JSON and one HTML file per rule, plus an optional
// Markdown rendering of the description.
type SplitWriter struct {
	dir       string
	markdown  *md.Converter
	filenames map[string]string
}

// NewSplitWriter creates a writer targeting dir, which must exist.
func NewSplitWriter(dir string, markdown bool) *SplitWriter {
	w := &SplitWriter{dir: dir, filenames: make(map[string]string)}
	if markdown {
		w.markdown = md.NewConverter("", true, nil)
		w.markdown.Use(plugin.GitHubFlavored())
	}
	return w
}

// WriteRule writes the artifacts of one rule.
func (w *SplitWriter) WriteRule(m *rule.Model) error {
	base := m.FileName()
	if other, ok := w.filenames[base]; ok {
		return fmt.Errorf("rules %s and %s map to the same file name %s", other, m.Key, base)
	}
	w.filenames[base] = m.Key

	data, err := RenderJSON(m)
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(w.dir, base+".json"), data); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(w.dir, base+".html"), []byte(m.Description)); err != nil {
		return err
	}

	if w.markdown == nil {
		return nil
	}
	text, err := w.markdown.ConvertString(m.Description)
	if err != nil {
		return fmt.Errorf("convert %s description to markdown: %w", m.Key, err)
	}
	doc := "# " + m.Name + "\n\n" + text + "\n"
	return writeFile(filepath.Join(w.dir, base+".md"), []byte(doc))
}

// Len returns the number of rules written.
func (w *SplitWriter) Len() int {
	return len(w.filenames)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
