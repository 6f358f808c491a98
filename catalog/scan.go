package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// priorityMember is the field or getter suffix holding a check's priority.
const priorityMember = "priority"

// ScannedCheck is the metadata extracted from one check class source.
type ScannedCheck struct {
	Class       string
	Priority    int
	HasPriority bool
	Defaults    map[string]string
}

// Scanner extracts check metadata from Java sources.
// It reads declared field initializers instead of instantiating classes.
type Scanner struct {
	parser *sitter.Parser
	logger *slog.Logger
}

// NewScanner creates a Java source scanner.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	p := sitter.NewParser()
	p.SetLanguage(java.GetLanguage())
	return &Scanner{parser: p, logger: logger}
}

// ScanDir scans every .java file under root and returns checks keyed by
// qualified class name. Unparseable files are logged and skipped.
func (s *Scanner) ScanDir(ctx context.Context, root string) (map[string]*ScannedCheck, error) {
	out := make(map[string]*ScannedCheck)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".java") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("Failed to read check source", "path", path, "error", err)
			return nil
		}
		checks, err := s.Scan(ctx, content)
		if err != nil {
			s.logger.Warn("Failed to parse check source", "path", path, "error", err)
			return nil
		}
		for _, c := range checks {
			out[c.Class] = c
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk sources: %w", err)
	}
	return out, nil
}

// Scan extracts the checks declared in one compilation unit.
func (s *Scanner) Scan(ctx context.Context, content []byte) ([]*ScannedCheck, error) {
	tree, err := s.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	pkg := packageName(root, content)

	var checks []*ScannedCheck
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "class_declaration" {
			continue
		}
		if c := scanClass(child, content, pkg); c != nil {
			checks = append(checks, c)
		}
	}
	return checks, nil
}

func packageName(root *sitter.Node, content []byte) string {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "package_declaration" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			n := child.NamedChild(j)
			if n.Type() == "scoped_identifier" || n.Type() == "identifier" {
				return text(n, content)
			}
		}
	}
	return ""
}

func scanClass(node *sitter.Node, content []byte, pkg string) *ScannedCheck {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	class := text(nameNode, content)
	if pkg != "" {
		class = pkg + "." + class
	}

	c := &ScannedCheck{Class: class, Defaults: make(map[string]string)}
	body := node.ChildByFieldName("body")
	if body == nil {
		return c
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "field_declaration":
			scanFields(c, member, content)
		case "method_declaration":
			scanPriorityGetter(c, member, content)
		}
	}
	return c
}

func scanFields(c *ScannedCheck, field *sitter.Node, content []byte) {
	for i := 0; i < int(field.NamedChildCount()); i++ {
		decl := field.NamedChild(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		valueNode := decl.ChildByFieldName("value")
		if nameNode == nil || valueNode == nil {
			continue
		}
		name := text(nameNode, content)
		value, ok := literal(valueNode, content)
		if !ok {
			continue
		}
		if name == priorityMember {
			c.setPriority(value)
			continue
		}
		c.Defaults[name] = value
	}
}

// scanPriorityGetter reads "int getPriority() { return N; }".
func scanPriorityGetter(c *ScannedCheck, method *sitter.Node, content []byte) {
	nameNode := method.ChildByFieldName("name")
	if nameNode == nil || text(nameNode, content) != "getPriority" {
		return
	}
	body := method.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		if stmt.Type() != "return_statement" || stmt.NamedChildCount() == 0 {
			continue
		}
		if value, ok := literal(stmt.NamedChild(0), content); ok {
			c.setPriority(value)
		}
		return
	}
}

func (c *ScannedCheck) setPriority(value string) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return
	}
	c.Priority = n
	c.HasPriority = true
}

// literal renders a constant initializer. Non-constant expressions report false.
func literal(node *sitter.Node, content []byte) (string, bool) {
	raw := text(node, content)
	switch node.Type() {
	case "string_literal":
		if s, err := strconv.Unquote(raw); err == nil {
			return s, true
		}
		return strings.Trim(raw, `"`), true
	case "character_literal":
		return strings.Trim(raw, "'"), true
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		return strings.TrimRight(raw, "lL"), true
	case "decimal_floating_point_literal":
		return strings.TrimRight(raw, "fFdD"), true
	case "true", "false":
		return raw, true
	case "unary_expression":
		if node.NamedChildCount() == 1 {
			if v, ok := literal(node.NamedChild(0), content); ok && strings.HasPrefix(raw, "-") {
				return "-" + v, true
			}
		}
	}
	return "", false
}

func text(node *sitter.Node, content []byte) string {
	return string(content[node.StartByte():node.EndByte()])
}
