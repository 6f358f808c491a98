// Package parser provides rule documentation parsing functionality.
package parser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/c360studio/ruledoc/source"
)

// APT patterns
var (
	// Parameter table top border: *---+---+---+
	aptTableStart = regexp.MustCompile(`^\*-+\+-+\+-+\+$`)

	// Parameter table internal border: +---+---+
	aptTableSeparator = regexp.MustCompile(`^\+(-+\+)+$`)

	// Parameter table content row: | key | description | default |
	aptTableRow = regexp.MustCompile(`^\|.*$`)

	// Verbatim block delimiters: ---- or +----
	aptExampleSeparator = regexp.MustCompile(`^\+?-+$`)

	// Table leader/filler dashes inside key cells
	aptKeyFiller = regexp.MustCompile(`-+`)
)

const (
	aptHeadingPrefix = "* "
	aptLinkPrefix    = "* {{"
	aptHeaderLabel   = "<<Property>>"
	aptRuleSuffix    = "Rule"
)

// aptNoisePrefixes mark directive, list and border lines that carry no description text.
var aptNoisePrefixes = []string{
	"<Since",
	"~~~",
	"<New",
	"** ",
	"[]",
	"*----",
	"+----",
	"|",
}

// aptNonRuleNames are bullet headings that look like rules but are not.
var aptNonRuleNames = map[string]bool{
	"References": true,
}

// AptParser parses APT ("Almost Plain Text") rule documentation.
type AptParser struct{}

// NewAptParser creates a new APT parser.
func NewAptParser() *AptParser {
	return &AptParser{}
}

// Parse parses an APT file into documents keyed by rule name.
func (p *AptParser) Parse(filename string, content []byte) (source.FileDocuments, error) {
	return source.FileDocuments{
		Path:      filename,
		Documents: p.ParseLines(splitLines(content)),
	}, nil
}

// ParseLines runs the scan over already split lines.
// Malformed lines never fail the scan; they are treated as noise.
func (p *AptParser) ParseLines(lines []string) map[string]*source.Document {
	s := newAptScanner()
	for _, line := range lines {
		s.feed(line)
	}
	return s.finish()
}

// Extensions returns the file extensions handled by this parser.
func (p *AptParser) Extensions() []string {
	return []string{".apt", ".apt.vm"}
}

// splitLines splits content on LF or CRLF. Lines have no length limit.
func splitLines(content []byte) []string {
	text := strings.TrimSuffix(string(content), "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// ruleName extracts a rule name from a heading line, or returns false when
// the line is not a rule heading. Accepted forms:
//
//	* EmptyIfStatement
//	* EmptyIfStatement Rule
//	* {EmptyIfStatement} Rule
func ruleName(line string) (string, bool) {
	if !strings.HasPrefix(line, aptHeadingPrefix) || strings.HasPrefix(line, aptLinkPrefix) {
		return "", false
	}

	name := strings.TrimSpace(line[len(aptHeadingPrefix):])
	if strings.HasPrefix(name, "{") {
		end := strings.Index(name, "}")
		if end < 0 {
			return "", false
		}
		name = name[1:end]
	}
	name = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name), aptRuleSuffix))

	if name == "" || isAllLower(name) || !isAlphanumeric(name) || aptNonRuleNames[name] {
		return "", false
	}
	return name, true
}

func isAllLower(s string) bool {
	for _, r := range s {
		if !unicode.IsLower(r) {
			return false
		}
	}
	return true
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isExampleSeparator(line string) bool {
	return aptExampleSeparator.MatchString(line)
}

func isTableBorder(line string) bool {
	return aptTableSeparator.MatchString(line) || aptTableStart.MatchString(line)
}

// isNoise reports structural lines that are skipped in description mode.
func isNoise(line string) bool {
	for _, prefix := range aptNoisePrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return isTableBorder(line)
}

// cleanDescription rewrites <<<code>>> markup. Parameter text has the
// delimiters stripped; description text gets <code> tags.
func cleanDescription(text string, forParameter bool) string {
	if forParameter {
		return strings.NewReplacer("<<<", "", ">>>", "").Replace(text)
	}
	return strings.NewReplacer("<<<", "<code>", ">>>", "</code>").Replace(text)
}

// cleanDefaultValue strips code markup and one pair of surrounding quotes or angle brackets.
func cleanDefaultValue(value string) string {
	v := cleanDescription(value, true)
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '\'' && last == '\'') || (first == '<' && last == '>') {
			v = v[1 : len(v)-1]
		}
	}
	return v
}
