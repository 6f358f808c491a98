package rule

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityFromPriority(t *testing.T) {
	tests := []struct {
		priority int
		want     Severity
	}{
		{1, SeverityInfo},
		{2, SeverityMinor},
		{3, SeverityMajor},
	}
	for _, tt := range tests {
		got, err := SeverityFromPriority("x.Check", tt.priority)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []int{-1, 0, 4, 99} {
		_, err := SeverityFromPriority("org.codenarc.rule.basic.FooRule", bad)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidPriority))

		var pe *PriorityError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, bad, pe.Priority)
		assert.Equal(t, "org.codenarc.rule.basic.FooRule", pe.Class)
	}
}

func TestTags(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{"org.codenarc.rule.unnecessary.UnnecessaryElseStatementRule", []string{"clumsy"}},
		{"org.codenarc.rule.formatting.LineLengthRule", []string{"convention"}},
		{"org.codenarc.rule.naming.MethodNameRule", []string{"convention"}},
		{"org.codenarc.rule.concurrency.NestedSynchronizationRule", []string{"multi-threading"}},
		{"org.codenarc.rule.exceptions.CatchThrowableRule", []string{"error-handling"}},
		{"org.codenarc.rule.grails.GrailsSessionReferenceRule", []string{"grails"}},
		{"org.codenarc.rule.junit.JUnitSetUpCallsSuperRule", []string{"junit"}},
		{"org.codenarc.rule.size.MethodSizeRule", []string{"bug"}},
		{"org.codenarc.rule.basic.EmptyIfStatementRule", []string{"unused"}},
		{"org.codenarc.rule.basic.BrokenOddnessCheckRule", []string{"bug"}},
		{"org.codenarc.rule.basic.EqualsAndHashCodeRule", []string{"pitfall"}},
		{"org.codenarc.rule.basic.ConstantIfExpressionGetRule", []string{"bug"}},
		{"org.codenarc.rule.basic.ReturnFromFinallyBlockRule", []string{"error-handling"}},
		{"org.codenarc.rule.basic.DeadCodeRule", []string{"unused"}},
		{"org.codenarc.rule.basic.ExplicitGarbageCollectionRule", []string{"unpredictable"}},
		{"org.codenarc.rule.basic.HardCodedWindowsRootDirectoryRule", []string{"pitfall"}},
		{"org.codenarc.rule.basic.ForLoopShouldBeWhileLoopRule", []string{"clumsy"}},
		{"org.codenarc.rule.basic.ClassForNameRule", []string{"leak", "owasp-a1"}},
		{"org.codenarc.rule.basic.GetterMethodCouldBePropertyRule", []string{"bug"}},
		{"Standalone", []string{"bug"}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, Tags(tt.key, InternalKey(tt.key)))
		})
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, "EmptyIfStatement", InternalKey("org.codenarc.rule.basic.EmptyIfStatementRule"))
	assert.Equal(t, "Rule", InternalKey("RuleRule"))
	assert.Equal(t, "NoSuffix", InternalKey("NoSuffix"))

	tests := map[string]string{
		"EmptyIfStatement":        "Empty If Statement",
		"JUnitAssertAlwaysFails":  "JUnit Assert Always Fails",
		"GStringAsMapKey":         "G String As Map Key",
		"HardCodedWindowsFileSep": "Hard Coded Windows File Sep",
		"AbcMetric":               "Abc Metric",
		"ABC":                     "ABC",
		"Md5Sum":                  "Md 5 Sum",
		"":                        "",
	}
	for in, want := range tests {
		assert.Equal(t, want, DisplayName(in), in)
	}
}

func TestStripPlaceholders(t *testing.T) {
	in := "Lines longer than the limit (${rule.length}) are reported (${rule.other})."
	assert.Equal(t, "Lines longer than the limit are reported.", StripPlaceholders(in))
	assert.Equal(t, "no refs", StripPlaceholders("no refs"))
	assert.Equal(t, "open (${rule.x", StripPlaceholders("open (${rule.x"))
}

func TestRewriteLinks(t *testing.T) {
	base := "http://codenarc.sourceforge.net/"
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare link", "See {{http://a.org/x}}.", `See <a href="http://a.org/x">http://a.org/x</a>.`},
		{"triple braces", "See {{{http://a.org/x}}}.", `See <a href="http://a.org/x">http://a.org/x</a>.`},
		{"labelled", "* {{{http://example.com/x}label}}", `* <a href="http://example.com/x">label</a>`},
		{"relative", "{{{./codenarc-rules-basic.html}Basic}}", `<a href="http://codenarc.sourceforge.net/codenarc-rules-basic.html">Basic</a>`},
		{"brace boundary", "{{{http://a.org}}", `<a href="http://a.org">http://a.org</a>`},
		{"two links", "{{http://a}} and {{{http://b}B}}", `<a href="http://a">http://a</a> and <a href="http://b">B</a>`},
		{"unterminated", "text {{http://a.org", "text {{http://a.org"},
		{"unterminated label", "{{{http://a.org}label", "{{{http://a.org}label"},
		{"empty", "{{}}", "{{}}"},
		{"no markers", "plain {text}", "plain {text}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RewriteLinks(tt.in, base))
		})
	}
}

func TestRewriteLinksDefaultBase(t *testing.T) {
	got := RewriteLinks("{{{./a.html}A}}", "")
	assert.Equal(t, `<a href="http://codenarc.sourceforge.net/a.html">A</a>`, got)

	got = RewriteLinks("{{{./a.html}A}}", "https://docs.example.org")
	assert.Equal(t, `<a href="https://docs.example.org/a.html">A</a>`, got)
}

func TestReferencedProperties(t *testing.T) {
	desc := "Checks <em>if</em> statements. The <em>maxLines</em> property sets the limit. " +
		"Names can be configured in <em>regex</em>. Also the length property and sameLine property."
	assert.Equal(t, []string{"maxLines", "regex", "length", "sameLine"}, ReferencedProperties(desc))
	assert.Empty(t, ReferencedProperties(""))
	assert.Equal(t, []string{"a"}, ReferencedProperties("<em>a</em> property <em>a</em> property"))
}

func TestSubstringsBetween(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, substringsBetween("[a] x [b] [c", "[", "]"))
	assert.Nil(t, substringsBetween("none", "[", "]"))
	assert.Equal(t, []string{""}, substringsBetween("[]", "[", "]"))
}

func TestStats(t *testing.T) {
	sets := []*Set{
		{Name: "basic", Rules: []*Model{
			{Key: "a", Tags: []string{"bug"}, Version: "0.1"},
			{Key: "b", Tags: []string{"leak", "owasp-a1"}},
		}},
		{Name: "size", Rules: []*Model{
			{Key: "c", Tags: []string{"bug"}, Version: "0.1"},
		}},
	}
	st := Tally(sets)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, map[string]int{"bug": 2, "leak": 1, "owasp-a1": 1}, st.ByTag)
	assert.Equal(t, map[string]int{"0.1": 2, LegacyVersion: 1}, st.ByVersion)

	var sb strings.Builder
	st.Print(&sb)
	out := sb.String()
	assert.Contains(t, out, "3 rules processed")
	assert.Less(t, strings.Index(out, "bug"), strings.Index(out, "leak"))
	assert.Contains(t, out, "legacy")

	var zero Stats
	zero.Add(&Model{Key: "z"})
	assert.Equal(t, 1, zero.ByVersion[LegacyVersion])
}

func TestModelFileName(t *testing.T) {
	m := &Model{Key: "org.codenarc.rule.basic.DeadCodeRule"}
	assert.Equal(t, "org_codenarc_rule_basic_DeadCodeRule", m.FileName())
	assert.False(t, m.HasVersion())
}
