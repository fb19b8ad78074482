package extract

import (
	"github.com/dhamidi/damap/syntax"
)

// An in-memory syntax tree used to drive the extractor through shapes a
// parser does not produce, such as missing modifier lists or type nodes.

type fakeFile struct {
	pkg     string
	imports []syntax.Import
	classes []*fakeClass
}

func newFile(pkg string, imports ...syntax.Import) *fakeFile {
	return &fakeFile{pkg: pkg, imports: imports}
}

func (f *fakeFile) add(c *fakeClass) *fakeClass {
	c.parent = f
	c.pkg = f.pkg
	f.classes = append(f.classes, c)
	return c
}

func (f *fakeFile) ImportList() syntax.ImportList {
	return fakeImports(f.imports)
}

func (f *fakeFile) PackageName() string { return f.pkg }

func (f *fakeFile) Classes() []syntax.ClassDecl {
	out := make([]syntax.ClassDecl, len(f.classes))
	for i, c := range f.classes {
		out[i] = c
	}
	return out
}

type fakeImports []syntax.Import

func (l fakeImports) Imports() []syntax.Import { return l }

func imp(name string) syntax.Import       { return syntax.Import{Name: name} }
func impAll(name string) syntax.Import    { return syntax.Import{Name: name, OnDemand: true} }
func impStatic(name string) syntax.Import { return syntax.Import{Name: name, Static: true} }

type fakeClass struct {
	name         string
	parent       syntax.Scope
	pkg          string
	kind         string
	mods         *fakeMods
	implements   []syntax.Reference
	noImplements bool
	constants    []string
	methods      []*fakeMethod
	fields       []*fakeField
	classes      []*fakeClass
	typeParams   []string
	panicOn      string
}

func newClass(name string) *fakeClass {
	return &fakeClass{name: name, kind: "class", mods: mods("public")}
}

func (c *fakeClass) nest(inner *fakeClass) *fakeClass {
	inner.parent = c
	inner.pkg = c.pkg
	c.classes = append(c.classes, inner)
	return inner
}

func (c *fakeClass) ImportList() syntax.ImportList { return nil }
func (c *fakeClass) Parent() syntax.Scope          { return c.parent }
func (c *fakeClass) PackageName() string           { return c.pkg }
func (c *fakeClass) IsInterface() bool             { return c.kind == "interface" || c.kind == "annotation" }
func (c *fakeClass) IsAnnotationType() bool        { return c.kind == "annotation" }
func (c *fakeClass) IsEnum() bool                  { return c.kind == "enum" }
func (c *fakeClass) TypeParameters() []string      { return c.typeParams }

func (c *fakeClass) Name() string {
	if c.panicOn == "Name" {
		panic("name exploded")
	}
	return c.name
}

func (c *fakeClass) Modifiers() syntax.ModifierList {
	if c.mods == nil {
		return nil
	}
	return c.mods
}

func (c *fakeClass) Implements() ([]syntax.Reference, bool) {
	if c.panicOn == "Implements" {
		panic("implements exploded")
	}
	if c.noImplements {
		return nil, false
	}
	return c.implements, true
}

func (c *fakeClass) EnumConstants() []syntax.EnumConstant {
	out := make([]syntax.EnumConstant, len(c.constants))
	for i, name := range c.constants {
		out[i] = fakeConstant(name)
	}
	return out
}

func (c *fakeClass) Methods() []syntax.MethodDecl {
	out := make([]syntax.MethodDecl, len(c.methods))
	for i, m := range c.methods {
		out[i] = m
	}
	return out
}

func (c *fakeClass) Fields() []syntax.Field {
	out := make([]syntax.Field, len(c.fields))
	for i, f := range c.fields {
		out[i] = f
	}
	return out
}

func (c *fakeClass) Classes() []syntax.ClassDecl {
	out := make([]syntax.ClassDecl, len(c.classes))
	for i, inner := range c.classes {
		out[i] = inner
	}
	return out
}

type fakeConstant string

func (c fakeConstant) Name() string { return string(c) }

type fakeMods struct {
	keywords []string
	anns     []*fakeAnnotation
}

func mods(keywords ...string) *fakeMods {
	return &fakeMods{keywords: keywords}
}

func (m *fakeMods) with(anns ...*fakeAnnotation) *fakeMods {
	m.anns = append(m.anns, anns...)
	return m
}

func (m *fakeMods) Keywords() []string { return m.keywords }

func (m *fakeMods) Annotations() []syntax.Annotation {
	out := make([]syntax.Annotation, len(m.anns))
	for i, a := range m.anns {
		out[i] = a
	}
	return out
}

type fakeAnnotation struct {
	name string
	text string
	args []syntax.AnnotationArgument
}

func ann(name string, args ...syntax.AnnotationArgument) *fakeAnnotation {
	return &fakeAnnotation{name: name, args: args}
}

func arg(name string, value syntax.Expr) syntax.AnnotationArgument {
	return syntax.AnnotationArgument{Name: name, Value: value}
}

func (a *fakeAnnotation) Name() string { return a.name }

func (a *fakeAnnotation) Text() string {
	if a.text != "" {
		return a.text
	}
	return "@" + a.name
}

func (a *fakeAnnotation) Arguments() []syntax.AnnotationArgument { return a.args }

type fakeMethod struct {
	name       string
	ctor       bool
	mods       *fakeMods
	params     []*fakeParam
	noParams   bool
	ret        syntax.TypeElement
	typeParams []string
}

func method(name string, ret syntax.TypeElement, params ...*fakeParam) *fakeMethod {
	return &fakeMethod{name: name, mods: mods("public"), ret: ret, params: params}
}

func constructor(name string, params ...*fakeParam) *fakeMethod {
	return &fakeMethod{name: name, ctor: true, mods: mods("public"), params: params}
}

func (m *fakeMethod) Name() string                  { return m.name }
func (m *fakeMethod) IsConstructor() bool           { return m.ctor }
func (m *fakeMethod) ReturnType() syntax.TypeElement { return m.ret }
func (m *fakeMethod) TypeParameters() []string       { return m.typeParams }

func (m *fakeMethod) Modifiers() syntax.ModifierList {
	if m.mods == nil {
		return nil
	}
	return m.mods
}

func (m *fakeMethod) Parameters() ([]syntax.Parameter, bool) {
	if m.noParams {
		return nil, false
	}
	out := make([]syntax.Parameter, len(m.params))
	for i, p := range m.params {
		out[i] = p
	}
	return out, true
}

type fakeParam struct {
	name    string
	typ     syntax.TypeElement
	mods    *fakeMods
	varArgs bool
}

func param(name string, typ syntax.TypeElement) *fakeParam {
	return &fakeParam{name: name, typ: typ, mods: mods()}
}

func (p *fakeParam) Name() string             { return p.name }
func (p *fakeParam) Type() syntax.TypeElement { return p.typ }
func (p *fakeParam) IsVarArgs() bool          { return p.varArgs }

func (p *fakeParam) Modifiers() syntax.ModifierList {
	if p.mods == nil {
		return nil
	}
	return p.mods
}

type fakeField struct {
	name string
	mods *fakeMods
	init syntax.Expr
}

func field(name string, init syntax.Expr, keywords ...string) *fakeField {
	return &fakeField{name: name, init: init, mods: mods(keywords...)}
}

func (f *fakeField) Name() string                   { return f.name }
func (f *fakeField) Modifiers() syntax.ModifierList { return f.mods }
func (f *fakeField) Initializer() syntax.Expr       { return f.init }

type fakeType struct {
	text     string
	shape    string
	ref      *fakeRef
	children []syntax.TypeElement
	extends  bool
}

func voidT() *fakeType           { return &fakeType{text: "void", shape: "void"} }
func prim(name string) *fakeType { return &fakeType{text: name, shape: "primitive"} }

// typ builds a declared type; args make it generic.
func typ(name string, args ...syntax.TypeElement) *fakeType {
	r := &fakeRef{written: name, args: args, hasArgs: len(args) > 0}
	text := name
	if len(args) > 0 {
		text += "<...>"
	}
	return &fakeType{text: text, shape: "declared", ref: r}
}

// raw builds a declared type whose reference has an empty parameter list.
func raw(name string) *fakeType {
	t := typ(name)
	t.ref.hasArgs = true
	return t
}

func arrayOf(elem *fakeType) *fakeType {
	return &fakeType{text: elem.text + "[]", shape: "array", children: []syntax.TypeElement{elem}}
}

func wildcard() *fakeType {
	return &fakeType{text: "?", shape: "wildcard"}
}

func extendsWildcard(bound *fakeType) *fakeType {
	t := &fakeType{text: "? extends", shape: "wildcard", extends: true}
	if bound != nil {
		t.text += " " + bound.text
		t.children = []syntax.TypeElement{bound}
	}
	return t
}

func (t *fakeType) Text() string                   { return t.text }
func (t *fakeType) IsVoid() bool                   { return t.shape == "void" }
func (t *fakeType) IsPrimitive() bool              { return t.shape == "primitive" }
func (t *fakeType) IsArray() bool                  { return t.shape == "array" }
func (t *fakeType) IsWildcard() bool               { return t.shape == "wildcard" }
func (t *fakeType) IsExtendsWildcard() bool        { return t.shape == "wildcard" && t.extends }
func (t *fakeType) Children() []syntax.TypeElement { return t.children }

func (t *fakeType) Reference() syntax.Reference {
	if t.shape == "array" && len(t.children) > 0 {
		return t.children[0].Reference()
	}
	if t.ref == nil {
		return nil
	}
	return t.ref
}

type fakeRef struct {
	written string
	args    []syntax.TypeElement
	hasArgs bool
}

func (r *fakeRef) Name() string          { return lastSegment(r.written) }
func (r *fakeRef) QualifiedText() string { return r.written }

func (r *fakeRef) TypeArguments() ([]syntax.TypeElement, bool) {
	if !r.hasArgs {
		return nil, false
	}
	return r.args, true
}

func ref(name string, args ...syntax.TypeElement) syntax.Reference {
	return &fakeRef{written: name, args: args, hasArgs: len(args) > 0}
}

type fakeExpr struct {
	kind      syntax.ExprKind
	text      string
	lit       syntax.LiteralKind
	qualifier string
	ident     string
	class     syntax.TypeElement
	elems     []syntax.Expr
}

func lit(kind syntax.LiteralKind, text string) *fakeExpr {
	return &fakeExpr{kind: syntax.ExprLiteral, lit: kind, text: text}
}

func refExpr(qualifier, ident string) *fakeExpr {
	text := ident
	if qualifier != "" {
		text = qualifier + "." + ident
	}
	return &fakeExpr{kind: syntax.ExprReference, text: text, qualifier: qualifier, ident: ident}
}

func classLit(t *fakeType) *fakeExpr {
	return &fakeExpr{kind: syntax.ExprClassLiteral, text: t.text + ".class", class: t}
}

func arrayExpr(elems ...syntax.Expr) *fakeExpr {
	return &fakeExpr{kind: syntax.ExprArray, text: "{...}", elems: elems}
}

func (e *fakeExpr) Kind() syntax.ExprKind           { return e.kind }
func (e *fakeExpr) Text() string                    { return e.text }
func (e *fakeExpr) LiteralKind() syntax.LiteralKind { return e.lit }
func (e *fakeExpr) Qualifier() string               { return e.qualifier }
func (e *fakeExpr) Identifier() string              { return e.ident }
func (e *fakeExpr) ClassType() syntax.TypeElement   { return e.class }
func (e *fakeExpr) Elements() []syntax.Expr         { return e.elems }
