// Package treesitter implements the syntax interfaces over a tree-sitter
// parse of a Java compilation unit. The tree-sitter Java grammar recovers
// from errors, so incomplete editor buffers still yield the declarations
// that could be recognized.
package treesitter

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/damap/syntax"
)

var log = commonlog.GetLogger("damap.syntax")

// Position is a zero-based line and byte column.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

type Span struct {
	Start Position
	End   Position
}

func spanOf(n *sitter.Node) Span {
	if n == nil {
		return Span{}
	}
	s, e := n.StartPoint(), n.EndPoint()
	return Span{
		Start: Position{Line: int(s.Row), Column: int(s.Column)},
		End:   Position{Line: int(e.Row), Column: int(e.Column)},
	}
}

// SyntaxError is a region the grammar could not make sense of.
type SyntaxError struct {
	Span    Span
	Message string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.Start, e.Message)
}

// ReadError is returned by ParseFile when the source cannot be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// File is a parsed compilation unit. It satisfies syntax.File and
// syntax.Scope; the classes it returns stay valid until Close.
type File struct {
	path    string
	src     []byte
	tree    *sitter.Tree
	pkg     string
	imports *importList
	classes []*Class
}

// Parse parses Java source.
func Parse(src []byte) (*File, error) {
	return ParseContext(context.Background(), src)
}

// ParseContext parses Java source, giving up when ctx is cancelled. Each
// call uses its own parser so concurrent calls are safe.
func ParseContext(ctx context.Context, src []byte) (*File, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(java.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	f := &File{src: src, tree: tree, imports: &importList{}}
	f.load(tree.RootNode())
	return f, nil
}

// ParseFile reads and parses the file at path.
func ParseFile(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return ParseNamed(context.Background(), path, src)
}

// ParseNamed parses src that was read from path.
func ParseNamed(ctx context.Context, path string, src []byte) (*File, error) {
	f, err := ParseContext(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.path = path
	return f, nil
}

func (f *File) load(root *sitter.Node) {
	eachMember(root, func(n *sitter.Node) {
		switch n.Type() {
		case "package_declaration":
			for _, c := range namedChildren(n) {
				if c.Type() == "identifier" || c.Type() == "scoped_identifier" {
					f.pkg = f.text(c)
				}
			}
		case "import_declaration":
			if imp, ok := f.importOf(n); ok {
				f.imports.imports = append(f.imports.imports, imp)
			}
		default:
			if isClassNode(n) {
				f.classes = append(f.classes, newClass(f, n, nil))
			}
		}
	})
}

func (f *File) importOf(n *sitter.Node) (syntax.Import, bool) {
	var imp syntax.Import
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "static":
			imp.Static = true
		case "asterisk":
			imp.OnDemand = true
		case "identifier", "scoped_identifier":
			imp.Name = f.text(c)
		}
	}
	return imp, imp.Name != ""
}

func (f *File) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(f.src)
}

// Path returns the path given to ParseFile, "" for in-memory sources.
func (f *File) Path() string { return f.path }

func (f *File) Source() []byte { return f.src }

func (f *File) PackageName() string { return f.pkg }

func (f *File) ImportList() syntax.ImportList { return f.imports }

func (f *File) Classes() []syntax.ClassDecl {
	out := make([]syntax.ClassDecl, len(f.classes))
	for i, c := range f.classes {
		out[i] = c
	}
	return out
}

// Declarations returns every class-like declaration of the file, nested
// ones included, in source order.
func (f *File) Declarations() []*Class {
	var out []*Class
	var walk func(cs []*Class)
	walk = func(cs []*Class) {
		for _, c := range cs {
			out = append(out, c)
			walk(c.classes())
		}
	}
	walk(f.classes)
	return out
}

func (f *File) HasErrors() bool {
	return f.tree != nil && f.tree.RootNode().HasError()
}

// Errors lists the error and missing nodes of the tree.
func (f *File) Errors() []SyntaxError {
	if !f.HasErrors() {
		return nil
	}
	var errs []SyntaxError
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch {
		case n.IsMissing():
			errs = append(errs, SyntaxError{Span: spanOf(n), Message: "missing " + n.Type()})
			return
		case n.Type() == "ERROR":
			errs = append(errs, SyntaxError{Span: spanOf(n), Message: "unexpected " + excerpt(f.text(n))})
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c.HasError() || c.IsMissing() {
				walk(c)
			}
		}
	}
	walk(f.tree.RootNode())
	return errs
}

func excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 40 {
		s = s[:37] + "..."
	}
	return fmt.Sprintf("%q", s)
}

// Tree renders the syntax tree as an S-expression.
func (f *File) Tree() string {
	if f.tree == nil {
		return ""
	}
	return f.tree.RootNode().String()
}

// Close releases the tree. The file must not be used afterwards.
func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

type importList struct {
	imports []syntax.Import
}

func (l *importList) Imports() []syntax.Import {
	return append([]syntax.Import(nil), l.imports...)
}

// eachMember calls fn for the named children of n, looking through the
// ERROR nodes the grammar wraps around unparsable stretches.
func eachMember(n *sitter.Node, fn func(*sitter.Node)) {
	for _, c := range namedChildren(n) {
		if c.Type() == "ERROR" {
			log.Debugf("descending into error node at %s", spanOf(c).Start)
			eachMember(c, fn)
			continue
		}
		fn(c)
	}
}

// namedChildren returns the named children of n without comments.
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "line_comment", "block_comment", "comment":
			continue
		}
		out = append(out, c)
	}
	return out
}

func childOfType(n *sitter.Node, types ...string) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		for _, t := range types {
			if c.Type() == t {
				return c
			}
		}
	}
	return nil
}

func hasToken(n *sitter.Node, token string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); !c.IsNamed() && c.Type() == token {
			return true
		}
	}
	return false
}
