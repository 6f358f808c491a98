package parser

import (
	"strings"
	"testing"

	"github.com/c360studio/ruledoc/source"
)

const cellWidth = 20

// tableBorder builds "*----+----+----+" with cells of cellWidth dashes.
func tableBorder() string {
	d := strings.Repeat("-", cellWidth)
	return "*" + d + "+" + d + "+" + d + "+"
}

// tableSeparator builds "+----+----+----+".
func tableSeparator() string {
	d := strings.Repeat("-", cellWidth)
	return "+" + d + "+" + d + "+" + d + "+"
}

// tableRow builds a pipe-delimited row aligned with tableBorder.
func tableRow(key, desc, def string) string {
	pad := func(s string) string {
		s = " " + s
		return s + strings.Repeat(" ", cellWidth-len(s))
	}
	return "|" + pad(key) + "|" + pad(desc) + "|" + pad(def) + "|"
}

func parse(t *testing.T, lines ...string) map[string]*source.Document {
	t.Helper()
	return NewAptParser().ParseLines(lines)
}

func TestAptParser_Extensions(t *testing.T) {
	p := NewAptParser()
	exts := p.Extensions()
	if len(exts) != 2 || exts[0] != ".apt" || exts[1] != ".apt.vm" {
		t.Errorf("unexpected extensions %v", exts)
	}
}

func TestRuleName(t *testing.T) {
	tests := []struct {
		line   string
		want   string
		wantOK bool
	}{
		{"* {EmptyIfStatement} Rule", "EmptyIfStatement", true},
		{"* EmptyIfStatement Rule", "EmptyIfStatement", true},
		{"* EmptyIfStatementRule", "EmptyIfStatement", true},
		{"* EmptyIfStatement", "EmptyIfStatement", true},
		{"* {JUnitAssertAlwaysFails}", "JUnitAssertAlwaysFails", true},
		{"* Md5Check", "Md5Check", true},
		{"* lowercase", "", false},
		{"* Not A Heading", "", false},
		{"* References", "", false},
		{"* {{{http://example.com/x}label}}", "", false},
		{"* {Unclosed Rule", "", false},
		{"* Rule", "", false},
		{"** Nested", "", false},
		{"EmptyIfStatement", "", false},
		{"* with-dash", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ruleName(tt.line)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ruleName(%q) = (%q, %v), want (%q, %v)", tt.line, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAptParser_Paragraphs(t *testing.T) {
	docs := parse(t,
		"Some preamble text that is outside any rule.",
		"",
		"* {EmptyIfStatement} Rule",
		"",
		"<Since CodeNarc 0.11>",
		"",
		"Checks for empty if statements.",
		"Spans lines with <<<code>>>.",
		"",
		"Second paragraph.",
	)

	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	doc, ok := docs["EmptyIfStatement"]
	if !ok {
		t.Fatal("expected EmptyIfStatement document")
	}

	want := "<p>Checks for empty if statements. Spans lines with <code>code</code>. </p>\n" +
		"<p>Second paragraph. </p>\n"
	if doc.Description != want {
		t.Errorf("description =\n%q\nwant\n%q", doc.Description, want)
	}
	if doc.HasParameters() {
		t.Error("expected no parameters")
	}
}

func TestAptParser_ExampleBlock(t *testing.T) {
	docs := parse(t,
		"* Foo",
		"Intro.",
		"-------------------------------------------------------------------------------",
		"    if (x) {",
		"    }",
		"",
		"* NotAHeadingInsideCode",
		"-------------------------------------------------------------------------------",
		"After.",
	)

	doc := docs["Foo"]
	if doc == nil {
		t.Fatal("expected Foo document")
	}
	if _, ok := docs["NotAHeadingInsideCode"]; ok {
		t.Error("headings inside example blocks must be copied verbatim")
	}

	want := "<p>Intro. </p>\n" +
		"<pre>\n    if (x) {\n    }\n\n* NotAHeadingInsideCode\n</pre>\n" +
		"<p>After. </p>\n"
	if doc.Description != want {
		t.Errorf("description =\n%q\nwant\n%q", doc.Description, want)
	}
}

func TestAptParser_PlusExampleSeparator(t *testing.T) {
	docs := parse(t,
		"* Foo",
		"+----",
		"def x = 1",
		"+----",
	)
	want := "<pre>\ndef x = 1\n</pre>\n"
	if got := docs["Foo"].Description; got != want {
		t.Errorf("description = %q, want %q", got, want)
	}
}

func TestAptParser_ParameterTable(t *testing.T) {
	docs := parse(t,
		"* MethodCount Rule",
		"Checks the number of methods.",
		"",
		tableBorder(),
		tableRow("<<Property>>", "<<Description>>", "<<Default Value>>"),
		tableSeparator(),
		tableRow("maxMethods", "The maximum number", "30"),
		tableRow("", "of methods.", ""),
		tableSeparator(),
		tableRow("ignoreRegex", "To <<<skip>>>.", "<<<'test.*'>>>"),
		tableSeparator(),
		tableRow("", "", ""),
		tableSeparator(),
		"",
		"Trailing text.",
	)

	doc := docs["MethodCount"]
	if doc == nil {
		t.Fatal("expected MethodCount document")
	}

	wantDesc := "<p>Checks the number of methods. </p>\n<p>Trailing text. </p>\n"
	if doc.Description != wantDesc {
		t.Errorf("description =\n%q\nwant\n%q", doc.Description, wantDesc)
	}

	if doc.Parameters.Len() != 2 {
		t.Fatalf("expected 2 parameters, got %d: %+v", doc.Parameters.Len(), doc.Parameters.Sorted())
	}

	maxMethods, ok := doc.Parameters.Get("maxMethods")
	if !ok {
		t.Fatal("expected maxMethods parameter")
	}
	if maxMethods.Description != "The maximum number of methods. " {
		t.Errorf("maxMethods description = %q", maxMethods.Description)
	}
	if maxMethods.DefaultValue != "30" {
		t.Errorf("maxMethods default = %q", maxMethods.DefaultValue)
	}

	ignore, ok := doc.Parameters.Get("ignoreRegex")
	if !ok {
		t.Fatal("expected ignoreRegex parameter")
	}
	if ignore.Description != "To skip. " {
		t.Errorf("ignoreRegex description = %q", ignore.Description)
	}
	if ignore.DefaultValue != "test.*" {
		t.Errorf("ignoreRegex default = %q", ignore.DefaultValue)
	}
}

func TestAptParser_SingleRowAtEndOfInput(t *testing.T) {
	docs := parse(t,
		"* Foo",
		tableBorder(),
		tableRow("foo", "bar", "'baz'"),
	)

	p, ok := docs["Foo"].Parameters.Get("foo")
	if !ok {
		t.Fatal("expected foo parameter")
	}
	if p.Key != "foo" || p.Description != "bar " || p.DefaultValue != "baz" {
		t.Errorf("parameter = %+v", p)
	}
}

func TestAptParser_WrappedKeyAndFillers(t *testing.T) {
	docs := parse(t,
		"* Foo",
		tableBorder(),
		tableRow("applyTo", "Class names", "<*Test>"),
		tableRow("ClassNames", "to check.", "ignored"),
		tableSeparator(),
		tableRow("max--", "Dashes are filler.", ""),
		tableRow("Lines", "", ""),
		tableSeparator(),
	)

	params := docs["Foo"].Parameters
	applyTo, ok := params.Get("applyToClassNames")
	if !ok {
		t.Fatalf("expected applyToClassNames, got %+v", params.Sorted())
	}
	if applyTo.DefaultValue != "*Test" {
		t.Errorf("default = %q, want first non-blank value with brackets stripped", applyTo.DefaultValue)
	}
	if applyTo.Description != "Class names to check. " {
		t.Errorf("description = %q", applyTo.Description)
	}
	if _, ok := params.Get("maxLines"); !ok {
		t.Errorf("expected maxLines, got %+v", params.Sorted())
	}
}

func TestAptParser_ShortRowsDoNotPanic(t *testing.T) {
	docs := parse(t,
		"* Foo",
		tableBorder(),
		"| x",
		"|",
		tableSeparator(),
	)
	if docs["Foo"] == nil {
		t.Fatal("expected Foo document")
	}
	if p, ok := docs["Foo"].Parameters.Get("x"); !ok || p.Description != "" {
		t.Errorf("unexpected parameters %+v", docs["Foo"].Parameters.Sorted())
	}
}

func TestAptParser_TableExitResumesDescription(t *testing.T) {
	docs := parse(t,
		"* Foo",
		tableBorder(),
		tableRow("a", "first", ""),
		"Text right after the table.",
	)

	doc := docs["Foo"]
	if _, ok := doc.Parameters.Get("a"); !ok {
		t.Error("pending parameter should be finalized when leaving the table")
	}
	want := "<p>Text right after the table. </p>\n"
	if doc.Description != want {
		t.Errorf("description = %q, want %q", doc.Description, want)
	}
}

func TestAptParser_HeadingClosesRuleFromTable(t *testing.T) {
	docs := parse(t,
		"* Foo",
		tableBorder(),
		tableRow("a", "first", ""),
		"* Bar",
		"Bar text.",
	)

	if _, ok := docs["Foo"].Parameters.Get("a"); !ok {
		t.Error("expected Foo.a")
	}
	if docs["Bar"] == nil || docs["Bar"].Description != "<p>Bar text. </p>\n" {
		t.Errorf("unexpected Bar document %+v", docs["Bar"])
	}
}

func TestAptParser_MultipleRules(t *testing.T) {
	docs := parse(t,
		"* {Foo} Rule",
		"Foo text.",
		"* some bullet item",
		"* {Bar} Rule",
		"Bar text.",
		"* References",
		"Still Bar.",
	)

	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if got := docs["Foo"].Description; got != "<p>Foo text. * some bullet item </p>\n" {
		t.Errorf("Foo description = %q", got)
	}
	if got := docs["Bar"].Description; got != "<p>Bar text. * References Still Bar. </p>\n" {
		t.Errorf("Bar description = %q", got)
	}
}

func TestAptParser_LinkLineInsideRule(t *testing.T) {
	docs := parse(t,
		"* Foo",
		"See:",
		"",
		"* {{{http://example.com/x}label}}",
	)
	want := "<p>See: </p>\n<p>* {{{http://example.com/x}label}} </p>\n"
	if got := docs["Foo"].Description; got != want {
		t.Errorf("description = %q, want %q", got, want)
	}
}

func TestAptParser_HeadingCollisionContinuesDocument(t *testing.T) {
	docs := parse(t,
		"* Foo",
		"A.",
		"* Bar",
		"B.",
		"* Foo",
		"C.",
	)
	want := "<p>A. </p>\n<p>C. </p>\n"
	if got := docs["Foo"].Description; got != want {
		t.Errorf("description = %q, want %q", got, want)
	}
}

func TestAptParser_NoiseLinesSkipped(t *testing.T) {
	docs := parse(t,
		"* Foo",
		"Text.",
		"~~~ comment",
		"<New in CodeNarc 0.20>",
		"** sub item",
		"[]",
		"+--+--+",
		"| stray cell |",
		"More.",
	)
	want := "<p>Text. More. </p>\n"
	if got := docs["Foo"].Description; got != want {
		t.Errorf("description = %q, want %q", got, want)
	}
}

func TestAptParser_BlocksClosedAtEndOfInput(t *testing.T) {
	inputs := map[string][]string{
		"open paragraph": {"* Foo", "text"},
		"open example":   {"* Foo", "text", "----", "code"},
		"open table":     {"* Foo", tableBorder(), tableRow("a", "b", "c")},
		"closed rule":    {"* Foo", "text", "----", "code", "* Bar", "more"},
	}

	for name, lines := range inputs {
		t.Run(name, func(t *testing.T) {
			for rule, doc := range parse(t, lines...) {
				if err := source.CheckMarkup(doc.Description); err != nil {
					t.Errorf("%s: %v in %q", rule, err, doc.Description)
				}
			}
		})
	}
}

func TestAptParser_Parse(t *testing.T) {
	content := "* Foo\r\nText.\r\n"
	fd, err := NewAptParser().Parse("/tmp/codenarc-rules-basic.apt", []byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if fd.Path != "/tmp/codenarc-rules-basic.apt" {
		t.Errorf("unexpected path %q", fd.Path)
	}
	if fd.Documents["Foo"].Description != "<p>Text. </p>\n" {
		t.Errorf("unexpected description %q", fd.Documents["Foo"].Description)
	}
}

func TestCleanDefaultValue(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"'baz'", "baz"},
		{"<<<'baz'>>>", "baz"},
		{"<baz>", "baz"},
		{"30", "30"},
		{"'", "'"},
		{"'mixed>", "'mixed>"},
	}
	for _, tt := range tests {
		if got := cleanDefaultValue(tt.in); got != tt.want {
			t.Errorf("cleanDefaultValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAptParser_MultibyteTableCells(t *testing.T) {
	docs := parse(t,
		"* Foo",
		"*------+------+------+",
		"| max  | café | 10   |",
		"*------+------+------+",
		"| größe| naïve| 'é'  |",
		"*------+------+------+",
	)

	doc := docs["Foo"]
	if doc == nil {
		t.Fatal("expected Foo document")
	}

	maxParam, ok := doc.Parameters.Get("max")
	if !ok {
		t.Fatalf("expected max parameter, got %+v", doc.Parameters.Sorted())
	}
	if maxParam.Description != "café " || maxParam.DefaultValue != "10" {
		t.Errorf("max = %+v, want description %q and default %q", maxParam, "café ", "10")
	}

	size, ok := doc.Parameters.Get("größe")
	if !ok {
		t.Fatalf("expected größe parameter, got %+v", doc.Parameters.Sorted())
	}
	if size.Description != "naïve " || size.DefaultValue != "é" {
		t.Errorf("größe = %+v, want description %q and default %q", size, "naïve ", "é")
	}
}

func TestAptParser_LongLineKeepsFile(t *testing.T) {
	long := strings.Repeat("x", 2*1024*1024)
	content := "* Foo\n" + long + "\n\n* Bar\nShort.\n"

	fd, err := NewAptParser().Parse("codenarc-rules-long.apt", []byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(fd.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(fd.Documents))
	}
	if !strings.Contains(fd.Documents["Foo"].Description, long) {
		t.Error("expected long line in Foo description")
	}
	if fd.Documents["Bar"].Description != "<p>Short. </p>\n" {
		t.Errorf("unexpected Bar description %q", fd.Documents["Bar"].Description)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		content string
		want    []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"a\n\nb", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		got := splitLines([]byte(tt.content))
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("splitLines(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}
}

func TestAptParser_KeylessRowGroupDropped(t *testing.T) {
	docs := parse(t,
		"* MethodCount Rule",
		tableBorder(),
		tableRow("<<Property>>", "<<Description>>", "<<Default Value>>"),
		tableSeparator(),
		tableRow("", "Orphaned text.", "5"),
		tableSeparator(),
		tableRow("maxMethods", "The maximum.", "30"),
		tableSeparator(),
	)

	doc := docs["MethodCount"]
	if doc == nil {
		t.Fatal("expected MethodCount document")
	}
	if doc.Parameters.Len() != 1 {
		t.Fatalf("expected 1 parameter, got %d: %+v", doc.Parameters.Len(), doc.Parameters.Sorted())
	}
	if _, ok := doc.Parameters.Get(""); ok {
		t.Error("parameter without key should be dropped")
	}
	if _, ok := doc.Parameters.Get("maxMethods"); !ok {
		t.Error("expected maxMethods parameter")
	}
}
