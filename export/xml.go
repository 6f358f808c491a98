package export

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/c360studio/ruledoc/rule"
	"github.com/c360studio/ruledoc/source"
)

// XMLWriter writes the combined rule definitions document.
type XMLWriter struct {
	sb strings.Builder
}

// NewXMLWriter creates a new XML writer.
func NewXMLWriter() *XMLWriter {
	return &XMLWriter{}
}

// WriteStart writes the optional generator comment and opens the root element.
func (w *XMLWriter) WriteStart(generator string) {
	if generator != "" {
		w.sb.WriteString("<!-- Generated using " + comment(generator) + " -->\n")
	}
	w.sb.WriteString("<rules>\n\n")
}

// WriteSet writes the comment introducing a rule set.
func (w *XMLWriter) WriteSet(name string) {
	w.sb.WriteString("  <!-- " + comment(name) + " rules -->\n\n")
}

// WriteRule writes one rule element followed by a blank line.
func (w *XMLWriter) WriteRule(m *rule.Model) {
	if m.HasVersion() {
		w.sb.WriteString("  <!-- since " + comment(m.Version) + " -->\n")
	}
	w.sb.WriteString("  <rule>\n")
	w.element(4, "key", m.Key)
	w.element(4, "severity", string(m.Severity))
	w.cdata(4, "name", m.Name)
	w.cdata(4, "internalKey", m.InternalKey)
	w.cdata(4, "description", m.Description)
	for _, tag := range sortedCopy(m.Tags) {
		w.element(4, "tag", tag)
	}
	for _, p := range sortedParameters(m.Parameters) {
		w.writeParam(p)
	}
	w.sb.WriteString("  </rule>\n\n")
}

func (w *XMLWriter) writeParam(p source.Parameter) {
	w.sb.WriteString("    <param>\n")
	w.element(6, "key", p.Key)
	if strings.TrimSpace(p.Description) != "" {
		w.cdata(6, "description", p.Description)
	}
	if strings.TrimSpace(p.DefaultValue) != "" {
		w.element(6, "defaultValue", p.DefaultValue)
	}
	w.sb.WriteString("    </param>\n")
}

// WriteEnd closes the root element.
func (w *XMLWriter) WriteEnd() {
	w.sb.WriteString("</rules>\n")
}

// String returns the accumulated document.
func (w *XMLWriter) String() string {
	return w.sb.String()
}

func (w *XMLWriter) element(indent int, name, text string) {
	w.sb.WriteString(strings.Repeat(" ", indent) + "<" + name + ">")
	w.sb.WriteString(escapeText(text))
	w.sb.WriteString("</" + name + ">\n")
}

func (w *XMLWriter) cdata(indent int, name, text string) {
	w.sb.WriteString(strings.Repeat(" ", indent) + "<" + name + ">")
	w.sb.WriteString(wrapCDATA(text))
	w.sb.WriteString("</" + name + ">\n")
}

// RenderXML renders rule sets as one document, in set order.
func RenderXML(generator string, sets []*rule.Set) string {
	w := NewXMLWriter()
	w.WriteStart(generator)
	for _, s := range sets {
		w.WriteSet(s.Name)
		for _, m := range s.Rules {
			w.WriteRule(m)
		}
	}
	w.WriteEnd()
	return w.String()
}

func escapeText(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails when the writer does.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// wrapCDATA splits any "]]>" so the text cannot terminate the section early.
func wrapCDATA(s string) string {
	return "<![CDATA[" + strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>") + "]]>"
}

// comment keeps text from closing an XML comment. Runs of dashes are
// split until no "--" remains.
func comment(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "- -")
	}
	return s
}
