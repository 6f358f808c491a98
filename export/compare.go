package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

type xmlDocument struct {
	XMLName xml.Name  `xml:"rules"`
	Rules   []xmlRule `xml:"rule"`
}

type xmlRule struct {
	Key         string     `xml:"key"`
	Severity    string     `xml:"severity"`
	Name        string     `xml:"name"`
	InternalKey string     `xml:"internalKey"`
	Description string     `xml:"description"`
	Tags        []string   `xml:"tag"`
	Params      []xmlParam `xml:"param"`
}

type xmlParam struct {
	Key          string `xml:"key"`
	Description  string `xml:"description"`
	DefaultValue string `xml:"defaultValue"`
}

// Difference is a rule present in both documents with different content.
type Difference struct {
	Key  string
	Diff string
}

// Comparison is the result of comparing a generated rules document with a reference.
type Comparison struct {
	// Added lists keys only present in the generated document.
	Added []string

	// Removed lists keys only present in the reference document.
	Removed []string

	// Changed lists rules whose content differs, with a unified diff.
	Changed []Difference

	// Unchanged counts identical rules.
	Unchanged int
}

// Equal reports whether both documents define the same rules.
func (c *Comparison) Equal() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// Print writes a human-readable report.
func (c *Comparison) Print(w io.Writer) {
	for _, key := range c.Added {
		fmt.Fprintf(w, "+ %s (not in reference)\n", key)
	}
	for _, key := range c.Removed {
		fmt.Fprintf(w, "- %s (missing from generated)\n", key)
	}
	for _, d := range c.Changed {
		fmt.Fprintf(w, "~ %s\n%s\n", d.Key, d.Diff)
	}
	fmt.Fprintf(w, "%d unchanged, %d changed, %d added, %d removed\n",
		c.Unchanged, len(c.Changed), len(c.Added), len(c.Removed))
}

// CompareFiles compares two rules documents on disk.
func CompareFiles(generated, reference string) (*Comparison, error) {
	g, err := os.Open(generated)
	if err != nil {
		return nil, fmt.Errorf("failed to open generated document: %w", err)
	}
	defer g.Close()

	r, err := os.Open(reference)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference document: %w", err)
	}
	defer r.Close()

	return Compare(g, r)
}

// Compare matches rules by key and diffs their normalized content.
func Compare(generated, reference io.Reader) (*Comparison, error) {
	gen, err := decodeRules(generated)
	if err != nil {
		return nil, fmt.Errorf("generated: %w", err)
	}
	ref, err := decodeRules(reference)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}

	c := &Comparison{}
	for _, key := range sortedKeys(gen) {
		want, ok := ref[key]
		if !ok {
			c.Added = append(c.Added, key)
			continue
		}
		a, b := want.normalized(), gen[key].normalized()
		if a == b {
			c.Unchanged++
			continue
		}
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(a),
			B:        difflib.SplitLines(b),
			FromFile: "reference",
			ToFile:   "generated",
			Context:  2,
		})
		if err != nil {
			return nil, fmt.Errorf("diff %s: %w", key, err)
		}
		c.Changed = append(c.Changed, Difference{Key: key, Diff: diff})
	}
	for _, key := range sortedKeys(ref) {
		if _, ok := gen[key]; !ok {
			c.Removed = append(c.Removed, key)
		}
	}
	return c, nil
}

func decodeRules(r io.Reader) (map[string]xmlRule, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	rules := make(map[string]xmlRule, len(doc.Rules))
	for _, rl := range doc.Rules {
		rules[strings.TrimSpace(rl.Key)] = rl
	}
	return rules, nil
}

// normalized renders a rule with sorted tags and parameters, one field per line.
func (r xmlRule) normalized() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "key: %s\n", strings.TrimSpace(r.Key))
	fmt.Fprintf(&sb, "severity: %s\n", strings.TrimSpace(r.Severity))
	fmt.Fprintf(&sb, "name: %s\n", r.Name)
	fmt.Fprintf(&sb, "internalKey: %s\n", r.InternalKey)

	tags := sortedCopy(r.Tags)
	fmt.Fprintf(&sb, "tags: %s\n", strings.Join(tags, ", "))

	params := append([]xmlParam(nil), r.Params...)
	sort.SliceStable(params, func(i, j int) bool { return params[i].Key < params[j].Key })
	for _, p := range params {
		fmt.Fprintf(&sb, "param %s default=%q\n", p.Key, p.DefaultValue)
		if p.Description != "" {
			fmt.Fprintf(&sb, "  %s\n", p.Description)
		}
	}

	sb.WriteString("description:\n")
	sb.WriteString(r.Description)
	if !strings.HasSuffix(r.Description, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}

func sortedKeys(m map[string]xmlRule) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
