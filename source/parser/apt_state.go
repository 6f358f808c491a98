package parser

import (
	"strings"

	"github.com/c360studio/ruledoc/source"
)

// aptState is the mode of the APT scan.
type aptState int

const (
	stateIdle aptState = iota
	stateDescription
	stateExample
	stateParameterTable
)

func (s aptState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateDescription:
		return "description"
	case stateExample:
		return "example"
	case stateParameterTable:
		return "parameter-table"
	default:
		return "unknown"
	}
}

// aptScanner holds the state of a single-file APT scan.
type aptScanner struct {
	state   aptState
	results map[string]*source.Document

	current *source.Document
	param   source.Parameter

	// column boundaries recorded from the table top border
	splits [3]int
}

func newAptScanner() *aptScanner {
	return &aptScanner{
		state:   stateIdle,
		results: make(map[string]*source.Document),
	}
}

// feed dispatches one physical line to the transition function of the current state.
func (s *aptScanner) feed(fullLine string) {
	line := strings.TrimSpace(fullLine)
	switch s.state {
	case stateIdle:
		s.idle(line)
	case stateDescription:
		s.description(line)
	case stateExample:
		s.example(fullLine, line)
	case stateParameterTable:
		s.parameterTable(line)
	}
}

// finish closes any open block and returns the collected documents.
func (s *aptScanner) finish() map[string]*source.Document {
	s.closeRule()
	return s.results
}

func (s *aptScanner) idle(line string) {
	if name, ok := ruleName(line); ok {
		s.startRule(name)
	}
}

func (s *aptScanner) description(line string) {
	if name, ok := ruleName(line); ok {
		s.closeRule()
		s.startRule(name)
		return
	}

	switch {
	case isExampleSeparator(line):
		s.closeParagraph()
		s.current.Description += "<pre>\n"
		s.state = stateExample
	case aptTableStart.MatchString(line):
		s.closeParagraph()
		s.openTable(line)
	case isNoise(line):
	case line == "":
		s.closeParagraph()
	default:
		if s.atBlockStart() {
			s.current.Description += "<p>"
		}
		s.current.Description += cleanDescription(line, false) + " "
	}
}

func (s *aptScanner) example(fullLine, line string) {
	if isExampleSeparator(line) {
		s.current.Description += "</pre>\n"
		s.state = stateDescription
		return
	}
	s.current.Description += fullLine + "\n"
}

func (s *aptScanner) parameterTable(line string) {
	switch {
	case aptTableRow.MatchString(line):
		s.tableRow(line)
	case isTableBorder(line):
		s.flushParameter()
	default:
		s.flushParameter()
		s.state = stateDescription
		s.description(line)
	}
}

func (s *aptScanner) startRule(name string) {
	doc, ok := s.results[name]
	if !ok {
		doc = source.NewDocument(name)
	}
	s.current = doc
	s.state = stateDescription
}

// closeRule terminates open blocks and stores the current document.
func (s *aptScanner) closeRule() {
	if s.current == nil {
		return
	}
	switch s.state {
	case stateExample:
		s.current.Description += "</pre>\n"
	case stateParameterTable:
		s.flushParameter()
	case stateDescription:
		s.closeParagraph()
	}
	s.results[s.current.Rule] = s.current
	s.current = nil
	s.state = stateIdle
}

// atBlockStart reports whether the next text opens a new paragraph.
func (s *aptScanner) atBlockStart() bool {
	d := s.current.Description
	return d == "" || strings.HasSuffix(d, "\n")
}

func (s *aptScanner) closeParagraph() {
	if strings.TrimSpace(s.current.Description) != "" && !s.atBlockStart() {
		s.current.Description += "</p>\n"
	}
}

// openTable records the column boundaries of the border as rune offsets.
func (s *aptScanner) openTable(border string) {
	runes := []rune(border)
	s.splits[0] = indexRune(runes, '*', 0) + 1
	s.splits[1] = indexRune(runes, '+', s.splits[0]) + 1
	s.splits[2] = indexRune(runes, '+', s.splits[1]) + 1
	s.param = source.Parameter{}
	s.state = stateParameterTable
}

func (s *aptScanner) tableRow(line string) {
	runes := []rune(line)
	key := strings.TrimSpace(cell(runes, s.splits[0], s.splits[1]-1))
	if strings.EqualFold(key, aptHeaderLabel) {
		return
	}
	desc := strings.TrimSpace(cell(runes, s.splits[1], s.splits[2]-1))
	def := strings.TrimSpace(cell(runes, s.splits[2], len(runes)-1))

	if key != "" {
		s.param.Key += aptKeyFiller.ReplaceAllString(key, "")
	}
	if def != "" && !s.param.HasDefaultValue() {
		s.param.DefaultValue = cleanDefaultValue(def)
	}
	if desc != "" {
		s.param.Description += cleanDescription(desc, true) + " "
	}
}

// flushParameter adds the pending parameter when it has a key and starts a
// fresh one. A row group without a key cannot be referenced and is dropped.
func (s *aptScanner) flushParameter() {
	if !s.param.IsEmpty() && strings.TrimSpace(s.param.Key) != "" {
		s.current.Parameters.Add(s.param)
	}
	s.param = source.Parameter{}
}

// cell returns the runes line[from:to], clamped to the line bounds.
func cell(line []rune, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(line) {
		to = len(line)
	}
	if from >= to {
		return ""
	}
	return string(line[from:to])
}

// indexRune returns the index of r in runes at or after from, or from-1 when absent.
func indexRune(runes []rune, r rune, from int) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == r {
			return i
		}
	}
	return from - 1
}
