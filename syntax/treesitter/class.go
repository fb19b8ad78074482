package treesitter

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dhamidi/damap/syntax"
)

var classNodes = map[string]bool{
	"class_declaration":           true,
	"enum_declaration":            true,
	"interface_declaration":       true,
	"annotation_type_declaration": true,
	"record_declaration":          true,
}

func isClassNode(n *sitter.Node) bool {
	return classNodes[n.Type()]
}

// Class is a class-like declaration: class, enum, record, interface or
// annotation type.
type Class struct {
	file   *File
	node   *sitter.Node
	outer  *Class
	nested []*Class
}

func newClass(f *File, n *sitter.Node, outer *Class) *Class {
	c := &Class{file: f, node: n, outer: outer}
	eachMember(c.body(), func(m *sitter.Node) {
		if isClassNode(m) {
			c.nested = append(c.nested, newClass(f, m, c))
		}
	})
	return c
}

func (c *Class) Name() string {
	return c.file.text(c.node.ChildByFieldName("name"))
}

// Span covers the whole declaration.
func (c *Class) Span() Span { return spanOf(c.node) }

// NameSpan covers the declared name, or the whole declaration when the
// name is missing.
func (c *Class) NameSpan() Span {
	if n := c.node.ChildByFieldName("name"); n != nil {
		return spanOf(n)
	}
	return c.Span()
}

// Outer returns the enclosing class, nil for top-level declarations.
func (c *Class) Outer() *Class { return c.outer }

func (c *Class) File() *File { return c.file }

func (c *Class) ImportList() syntax.ImportList { return nil }

func (c *Class) Parent() syntax.Scope {
	if c.outer != nil {
		return c.outer
	}
	return c.file
}

func (c *Class) PackageName() string { return c.file.pkg }

func (c *Class) IsInterface() bool { return c.node.Type() == "interface_declaration" }

func (c *Class) IsAnnotationType() bool { return c.node.Type() == "annotation_type_declaration" }

func (c *Class) IsEnum() bool { return c.node.Type() == "enum_declaration" }

func (c *Class) Modifiers() syntax.ModifierList {
	return modifiersOf(c.file, c.node)
}

func (c *Class) Implements() ([]syntax.Reference, bool) {
	if c.IsInterface() || c.IsAnnotationType() {
		return nil, false
	}
	list := childOfType(c.node, "super_interfaces")
	if list == nil {
		return nil, false
	}
	refs := []syntax.Reference{}
	for _, tl := range namedChildren(list) {
		if tl.Type() != "type_list" {
			continue
		}
		for _, t := range namedChildren(tl) {
			if ref := referenceOf(c.file, unannotated(t)); ref != nil {
				refs = append(refs, ref)
			}
		}
	}
	return refs, true
}

func (c *Class) body() *sitter.Node {
	return c.node.ChildByFieldName("body")
}

// members yields the declarations of the body, looking into the trailing
// declarations section of an enum body.
func (c *Class) members(fn func(*sitter.Node)) {
	eachMember(c.body(), func(n *sitter.Node) {
		if n.Type() == "enum_body_declarations" {
			eachMember(n, fn)
			return
		}
		fn(n)
	})
}

func (c *Class) EnumConstants() []syntax.EnumConstant {
	var out []syntax.EnumConstant
	if !c.IsEnum() {
		return out
	}
	eachMember(c.body(), func(n *sitter.Node) {
		if n.Type() == "enum_constant" {
			out = append(out, enumConstant(c.file.text(n.ChildByFieldName("name"))))
		}
	})
	return out
}

func (c *Class) Methods() []syntax.MethodDecl {
	var out []syntax.MethodDecl
	c.members(func(n *sitter.Node) {
		switch n.Type() {
		case "method_declaration", "constructor_declaration", "compact_constructor_declaration":
			out = append(out, &method{file: c.file, node: n})
		}
	})
	return out
}

func (c *Class) Fields() []syntax.Field {
	var out []syntax.Field
	c.members(func(n *sitter.Node) {
		switch n.Type() {
		case "field_declaration", "constant_declaration":
		default:
			return
		}
		mods := modifiersOf(c.file, n)
		for _, d := range namedChildren(n) {
			if d.Type() == "variable_declarator" {
				out = append(out, &field{file: c.file, node: d, mods: mods})
			}
		}
	})
	return out
}

func (c *Class) Classes() []syntax.ClassDecl {
	out := make([]syntax.ClassDecl, len(c.nested))
	for i, n := range c.nested {
		out[i] = n
	}
	return out
}

func (c *Class) classes() []*Class { return c.nested }

func (c *Class) TypeParameters() []string {
	return typeParameters(c.file, c.node)
}

func typeParameters(f *File, n *sitter.Node) []string {
	params := childOfType(n, "type_parameters")
	var out []string
	for _, p := range namedChildren(params) {
		if p.Type() != "type_parameter" {
			continue
		}
		if id := childOfType(p, "type_identifier", "identifier"); id != nil {
			out = append(out, f.text(id))
		}
	}
	return out
}

type enumConstant string

func (e enumConstant) Name() string { return string(e) }

type field struct {
	file *File
	node *sitter.Node
	mods syntax.ModifierList
}

func (fd *field) Name() string {
	return fd.file.text(fd.node.ChildByFieldName("name"))
}

func (fd *field) Modifiers() syntax.ModifierList { return fd.mods }

func (fd *field) Initializer() syntax.Expr {
	v := fd.node.ChildByFieldName("value")
	if v == nil {
		return nil
	}
	return exprOf(fd.file, v)
}

type method struct {
	file *File
	node *sitter.Node
}

func (m *method) Name() string {
	return m.file.text(m.node.ChildByFieldName("name"))
}

func (m *method) IsConstructor() bool {
	return m.node.Type() != "method_declaration"
}

func (m *method) Modifiers() syntax.ModifierList {
	return modifiersOf(m.file, m.node)
}

func (m *method) Parameters() ([]syntax.Parameter, bool) {
	list := m.node.ChildByFieldName("parameters")
	if list == nil {
		return nil, false
	}
	out := []syntax.Parameter{}
	for _, p := range namedChildren(list) {
		switch p.Type() {
		case "formal_parameter", "spread_parameter":
			out = append(out, &parameter{file: m.file, node: p})
		}
	}
	return out, true
}

func (m *method) ReturnType() syntax.TypeElement {
	if m.IsConstructor() {
		return nil
	}
	t := m.node.ChildByFieldName("type")
	if t == nil || t.IsMissing() {
		return nil
	}
	return typeElemOf(m.file, t, countDims(m.node.ChildByFieldName("dimensions")))
}

func (m *method) TypeParameters() []string {
	return typeParameters(m.file, m.node)
}

type parameter struct {
	file *File
	node *sitter.Node
}

func (p *parameter) IsVarArgs() bool { return p.node.Type() == "spread_parameter" }

func (p *parameter) Name() string {
	if p.IsVarArgs() {
		if d := childOfType(p.node, "variable_declarator"); d != nil {
			return p.file.text(d.ChildByFieldName("name"))
		}
		return ""
	}
	return p.file.text(p.node.ChildByFieldName("name"))
}

// Type returns the declared type. A varargs parameter is an array of its
// written component type.
func (p *parameter) Type() syntax.TypeElement {
	if p.IsVarArgs() {
		for _, c := range namedChildren(p.node) {
			if c.Type() != "modifiers" && c.Type() != "variable_declarator" && !c.IsMissing() {
				return typeElemOf(p.file, c, 1)
			}
		}
		return nil
	}
	t := p.node.ChildByFieldName("type")
	if t == nil || t.IsMissing() {
		return nil
	}
	return typeElemOf(p.file, t, countDims(p.node.ChildByFieldName("dimensions")))
}

func (p *parameter) Modifiers() syntax.ModifierList {
	return modifiersOf(p.file, p.node)
}
