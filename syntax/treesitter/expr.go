package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dhamidi/damap/syntax"
)

type modifierList struct {
	file *File
	node *sitter.Node
}

// modifiersOf returns the modifier list of a declaration, nil when it has
// none.
func modifiersOf(f *File, n *sitter.Node) syntax.ModifierList {
	m := childOfType(n, "modifiers")
	if m == nil {
		return nil
	}
	return &modifierList{file: f, node: m}
}

func (m *modifierList) Keywords() []string {
	var out []string
	for i := 0; i < int(m.node.ChildCount()); i++ {
		if c := m.node.Child(i); !c.IsNamed() {
			out = append(out, c.Type())
		}
	}
	return out
}

func (m *modifierList) Annotations() []syntax.Annotation {
	out := []syntax.Annotation{}
	for _, c := range namedChildren(m.node) {
		switch c.Type() {
		case "annotation", "marker_annotation":
			out = append(out, &annotation{file: m.file, node: c})
		}
	}
	return out
}

type annotation struct {
	file *File
	node *sitter.Node
}

func (a *annotation) Name() string {
	return a.file.text(a.node.ChildByFieldName("name"))
}

func (a *annotation) Text() string {
	return a.file.text(a.node)
}

func (a *annotation) Arguments() []syntax.AnnotationArgument {
	list := a.node.ChildByFieldName("arguments")
	var out []syntax.AnnotationArgument
	for _, c := range namedChildren(list) {
		if c.Type() == "element_value_pair" {
			out = append(out, syntax.AnnotationArgument{
				Name:  a.file.text(c.ChildByFieldName("key")),
				Value: exprOf(a.file, c.ChildByFieldName("value")),
			})
			continue
		}
		out = append(out, syntax.AnnotationArgument{Value: exprOf(a.file, c)})
	}
	return out
}

var literalKinds = map[string]syntax.LiteralKind{
	"decimal_integer_literal":        syntax.LiteralInt,
	"hex_integer_literal":            syntax.LiteralInt,
	"octal_integer_literal":          syntax.LiteralInt,
	"binary_integer_literal":         syntax.LiteralInt,
	"decimal_floating_point_literal": syntax.LiteralDouble,
	"hex_floating_point_literal":     syntax.LiteralDouble,
	"true":                           syntax.LiteralBoolean,
	"false":                          syntax.LiteralBoolean,
	"character_literal":              syntax.LiteralChar,
	"string_literal":                 syntax.LiteralString,
	"text_block":                     syntax.LiteralString,
	"null_literal":                   syntax.LiteralNull,
}

func literalKindOf(nodeType, text string) syntax.LiteralKind {
	kind, ok := literalKinds[nodeType]
	if !ok {
		return syntax.LiteralNone
	}
	switch kind {
	case syntax.LiteralInt:
		if strings.HasSuffix(text, "l") || strings.HasSuffix(text, "L") {
			return syntax.LiteralLong
		}
	case syntax.LiteralDouble:
		if strings.HasSuffix(text, "f") || strings.HasSuffix(text, "F") {
			return syntax.LiteralFloat
		}
	}
	return kind
}

// expr is an expression node seen through the few shapes annotation
// arguments and constant initializers take.
type expr struct {
	file       *File
	node       *sitter.Node
	kind       syntax.ExprKind
	text       string
	literal    syntax.LiteralKind
	qualifier  string
	identifier string
}

func exprOf(f *File, n *sitter.Node) syntax.Expr {
	for n != nil && n.Type() == "parenthesized_expression" {
		children := namedChildren(n)
		if len(children) != 1 {
			break
		}
		n = children[0]
	}
	e := &expr{file: f, node: n, kind: syntax.ExprOther, text: f.text(n)}
	if n == nil {
		return e
	}
	switch n.Type() {
	case "identifier":
		e.kind, e.identifier = syntax.ExprReference, e.text
	case "field_access":
		e.kind = syntax.ExprReference
		e.qualifier = f.text(n.ChildByFieldName("object"))
		e.identifier = f.text(n.ChildByFieldName("field"))
	case "scoped_identifier":
		e.kind = syntax.ExprReference
		e.qualifier = f.text(n.ChildByFieldName("scope"))
		e.identifier = f.text(n.ChildByFieldName("name"))
	case "class_literal":
		e.kind = syntax.ExprClassLiteral
	case "element_value_array_initializer", "array_initializer":
		e.kind = syntax.ExprArray
	case "unary_expression":
		// A signed numeric literal is folded into one literal.
		op := f.text(n.ChildByFieldName("operator"))
		operand := n.ChildByFieldName("operand")
		if operand == nil || (op != "-" && op != "+") {
			break
		}
		kind := literalKindOf(operand.Type(), f.text(operand))
		switch kind {
		case syntax.LiteralInt, syntax.LiteralLong, syntax.LiteralFloat, syntax.LiteralDouble:
			e.kind, e.literal = syntax.ExprLiteral, kind
			e.text = strings.TrimPrefix(op, "+") + f.text(operand)
		}
	default:
		if kind := literalKindOf(n.Type(), e.text); kind != syntax.LiteralNone {
			e.kind, e.literal = syntax.ExprLiteral, kind
		}
	}
	return e
}

func (e *expr) Kind() syntax.ExprKind { return e.kind }

func (e *expr) Text() string { return e.text }

func (e *expr) LiteralKind() syntax.LiteralKind { return e.literal }

func (e *expr) Qualifier() string { return e.qualifier }

func (e *expr) Identifier() string { return e.identifier }

func (e *expr) ClassType() syntax.TypeElement {
	if e.kind != syntax.ExprClassLiteral {
		return nil
	}
	children := namedChildren(e.node)
	if len(children) == 0 {
		return nil
	}
	return typeElemOf(e.file, children[0], 0)
}

func (e *expr) Elements() []syntax.Expr {
	if e.kind != syntax.ExprArray {
		return nil
	}
	var out []syntax.Expr
	for _, c := range namedChildren(e.node) {
		out = append(out, exprOf(e.file, c))
	}
	return out
}
