package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dhamidi/damap/syntax"
)

// typeElem is a written type. Array dimensions, wherever they were written
// (after the element type, after a parameter name or as varargs), are
// counted in dims on top of the base node.
type typeElem struct {
	file *File
	base *sitter.Node
	dims int
}

func typeElemOf(f *File, n *sitter.Node, extraDims int) *typeElem {
	n = unannotated(n)
	dims := extraDims
	for n != nil && n.Type() == "array_type" {
		dims += countDims(n.ChildByFieldName("dimensions"))
		n = unannotated(n.ChildByFieldName("element"))
	}
	return &typeElem{file: f, base: n, dims: dims}
}

// unannotated strips the type annotations of an annotated_type.
func unannotated(n *sitter.Node) *sitter.Node {
	if n == nil || n.Type() != "annotated_type" {
		return n
	}
	children := namedChildren(n)
	if len(children) == 0 {
		return nil
	}
	return children[len(children)-1]
}

func countDims(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	dims := 0
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "[" {
			dims++
		}
	}
	return dims
}

func (t *typeElem) baseType() string {
	if t.base == nil {
		return ""
	}
	return t.base.Type()
}

func (t *typeElem) Text() string {
	return t.file.text(t.base) + strings.Repeat("[]", t.dims)
}

func (t *typeElem) IsVoid() bool {
	return t.dims == 0 && t.baseType() == "void_type"
}

func (t *typeElem) IsPrimitive() bool {
	if t.dims > 0 {
		return false
	}
	switch t.baseType() {
	case "integral_type", "floating_point_type", "boolean_type":
		return true
	}
	return false
}

func (t *typeElem) IsArray() bool { return t.dims > 0 }

func (t *typeElem) IsWildcard() bool {
	return t.dims == 0 && t.baseType() == "wildcard"
}

func (t *typeElem) IsExtendsWildcard() bool {
	return t.IsWildcard() && hasToken(t.base, "extends")
}

func (t *typeElem) Children() []syntax.TypeElement {
	switch {
	case t.IsArray():
		return []syntax.TypeElement{&typeElem{file: t.file, base: t.base, dims: t.dims - 1}}
	case t.IsWildcard():
		for _, c := range namedChildren(t.base) {
			switch c.Type() {
			case "annotation", "marker_annotation", "super":
				continue
			}
			if c.IsMissing() {
				return nil
			}
			return []syntax.TypeElement{typeElemOf(t.file, c, 0)}
		}
	}
	return nil
}

func (t *typeElem) Reference() syntax.Reference {
	if t.base == nil {
		return nil
	}
	return referenceOf(t.file, t.base)
}

// reference is a class type as written: a type identifier, possibly
// qualified and possibly carrying type arguments.
type reference struct {
	file *File
	node *sitter.Node
}

func referenceOf(f *File, n *sitter.Node) syntax.Reference {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "type_identifier", "scoped_type_identifier", "generic_type", "identifier", "scoped_identifier":
		return &reference{file: f, node: n}
	}
	return nil
}

func (r *reference) Name() string {
	return lastIdentifier(r.file, r.node)
}

func lastIdentifier(f *File, n *sitter.Node) string {
	switch n.Type() {
	case "generic_type":
		if children := namedChildren(n); len(children) > 0 {
			return lastIdentifier(f, children[0])
		}
		return ""
	case "scoped_type_identifier", "scoped_identifier":
		children := namedChildren(n)
		for i := len(children) - 1; i >= 0; i-- {
			switch children[i].Type() {
			case "type_identifier", "identifier":
				return f.text(children[i])
			}
		}
		return ""
	}
	return f.text(n)
}

func (r *reference) QualifiedText() string {
	return qualifiedText(r.file, r.node)
}

func qualifiedText(f *File, n *sitter.Node) string {
	switch n.Type() {
	case "generic_type":
		if children := namedChildren(n); len(children) > 0 {
			return qualifiedText(f, children[0])
		}
		return ""
	case "scoped_type_identifier", "scoped_identifier":
		children := namedChildren(n)
		var parts []string
		for _, c := range children {
			switch c.Type() {
			case "annotation", "marker_annotation":
				continue
			}
			parts = append(parts, qualifiedText(f, c))
		}
		return strings.Join(parts, ".")
	}
	return f.text(n)
}

func (r *reference) TypeArguments() ([]syntax.TypeElement, bool) {
	if r.node.Type() != "generic_type" {
		return nil, false
	}
	list := childOfType(r.node, "type_arguments")
	if list == nil {
		return nil, false
	}
	args := []syntax.TypeElement{}
	for _, c := range namedChildren(list) {
		args = append(args, typeElemOf(r.file, c, 0))
	}
	return args, true
}
