package export_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/c360studio/ruledoc/export"
	"github.com/c360studio/ruledoc/rule"
)

func TestCompareIdentical(t *testing.T) {
	doc := export.RenderXML("CodeNarc 0.23", sampleSets())
	c, err := export.Compare(strings.NewReader(doc), strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !c.Equal() || c.Unchanged != 2 {
		t.Errorf("expected identical documents, got %+v", c)
	}
}

func TestCompareDifferences(t *testing.T) {
	generated := sampleSets()
	generated[0].Rules[0].Severity = rule.SeverityMajor
	generated[0].Rules = append(generated[0].Rules, &rule.Model{
		Key:      "org.codenarc.rule.basic.NewRule",
		Severity: rule.SeverityInfo,
	})

	reference := sampleSets()
	reference[0].Rules = reference[0].Rules[:1]
	reference = append(reference, &rule.Set{Name: "old", Rules: []*rule.Model{
		{Key: "org.codenarc.rule.old.GoneRule", Severity: rule.SeverityInfo},
	}})
	// tag order in the reference must not matter
	reference[0].Rules[0].Tags = []string{"unused"}

	gen := export.RenderXML("", generated)
	ref := export.RenderXML("", reference)

	c, err := export.Compare(strings.NewReader(gen), strings.NewReader(ref))
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if c.Equal() {
		t.Fatal("documents should differ")
	}
	if strings.Join(c.Added, ",") != "org.codenarc.rule.basic.ClassForNameRule,org.codenarc.rule.basic.NewRule" {
		t.Errorf("Added = %v", c.Added)
	}
	if strings.Join(c.Removed, ",") != "org.codenarc.rule.old.GoneRule" {
		t.Errorf("Removed = %v", c.Removed)
	}
	if len(c.Changed) != 1 || c.Changed[0].Key != "org.codenarc.rule.basic.DeadCodeRule" {
		t.Fatalf("Changed = %+v", c.Changed)
	}
	diff := c.Changed[0].Diff
	if !strings.Contains(diff, "-severity: MINOR") || !strings.Contains(diff, "+severity: MAJOR") {
		t.Errorf("unexpected diff:\n%s", diff)
	}

	var buf bytes.Buffer
	c.Print(&buf)
	if !strings.Contains(buf.String(), "0 unchanged, 1 changed, 2 added, 1 removed") {
		t.Errorf("unexpected report:\n%s", buf.String())
	}
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xml")
	if err := os.WriteFile(a, []byte(export.RenderXML("", sampleSets())), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := export.CompareFiles(a, filepath.Join(dir, "missing.xml")); err == nil {
		t.Error("expected error for missing reference")
	}

	bad := filepath.Join(dir, "bad.xml")
	if err := os.WriteFile(bad, []byte("<rules><rule>"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := export.CompareFiles(a, bad); err == nil {
		t.Error("expected error for malformed reference")
	}

	c, err := export.CompareFiles(a, a)
	if err != nil {
		t.Fatalf("CompareFiles: %v", err)
	}
	if !c.Equal() {
		t.Errorf("expected equal, got %+v", c)
	}
}
