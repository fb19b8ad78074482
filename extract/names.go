package extract

import (
	"strings"

	"github.com/dhamidi/damap/syntax"
)

// Context resolves names written inside one declaration: the package of the
// file, the import list found next to the declaration, the type variables in
// scope and the nested classes visible by simple name.
type Context struct {
	pkg       string
	imports   []syntax.Import
	hasImport bool
	typeVars  map[string]bool
	nested    map[string]string
	known     func(qualifiedName string) bool
	owner     syntax.ClassDecl
	constants *constantTable
}

// NewContext builds the resolution context of decl. known reports whether a
// qualified class name exists in the code base; it may be nil.
func NewContext(decl syntax.ClassDecl, known func(string) bool) *Context {
	c := &Context{
		pkg:      decl.PackageName(),
		typeVars: make(map[string]bool),
		nested:   make(map[string]string),
		known:    known,
		owner:    decl,
	}
	if il := importListOf(decl); il != nil {
		c.imports = il.Imports()
		c.hasImport = true
	}
	for _, tv := range decl.TypeParameters() {
		c.typeVars[tv] = true
	}
	c.registerNested(decl, headerQualifiedName(decl))
	c.constants = constantsFor(decl)
	return c
}

// importListOf returns the import list held by the parent of decl, nil when
// decl has no parent or the parent holds no import list.
func importListOf(decl syntax.ClassDecl) syntax.ImportList {
	parent := decl.Parent()
	if parent == nil {
		return nil
	}
	return parent.ImportList()
}

// HasImportList reports whether the context was built with an import list.
func (c *Context) HasImportList() bool {
	return c.hasImport
}

func (c *Context) PackageName() string {
	return c.pkg
}

func (c *Context) registerNested(decl syntax.ClassDecl, qualified string) {
	for _, inner := range decl.Classes() {
		name := inner.Name()
		if name == "" {
			continue
		}
		c.nested[name] = qualified + "." + name
		c.registerNested(inner, qualified+"."+name)
	}
}

// withTypeVars returns a copy of c that also knows the given type variables.
func (c *Context) withTypeVars(names []string) *Context {
	if len(names) == 0 {
		return c
	}
	cp := *c
	cp.typeVars = make(map[string]bool, len(c.typeVars)+len(names))
	for k := range c.typeVars {
		cp.typeVars[k] = true
	}
	for _, n := range names {
		cp.typeVars[n] = true
	}
	return &cp
}

var javaLangTypes = map[string]bool{
	"Object": true, "String": true, "Class": true, "System": true,
	"Throwable": true, "Exception": true, "RuntimeException": true, "Error": true,
	"Integer": true, "Long": true, "Short": true, "Byte": true,
	"Float": true, "Double": true, "Character": true, "Boolean": true,
	"Number": true, "Comparable": true, "CharSequence": true,
	"Iterable": true, "Cloneable": true, "Runnable": true,
	"Thread": true, "StringBuilder": true, "StringBuffer": true,
	"Math": true, "Enum": true, "Record": true, "Void": true,
	"Override": true, "Deprecated": true, "SuppressWarnings": true, "FunctionalInterface": true,
	"SafeVarargs": true, "IllegalArgumentException": true, "IllegalStateException": true,
}

// Resolve returns the qualified name of a type name as written. Type
// variables resolve to "". Names that cannot be attributed to an import,
// java.lang or a known class fall back to the current package, unless an
// on-demand import makes the origin ambiguous, in which case "" is returned.
func (c *Context) Resolve(written string) string {
	written = strings.TrimSpace(written)
	if written == "" {
		return ""
	}

	if i := strings.IndexByte(written, '.'); i >= 0 {
		if q, ok := c.lookup(written[:i]); ok {
			return q + written[i:]
		}
		return written
	}

	switch written {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double", "void":
		return written
	}

	if c.typeVars[written] {
		return ""
	}

	if q, ok := c.lookup(written); ok {
		return q
	}

	local := written
	if c.pkg != "" {
		local = c.pkg + "." + written
	}
	if c.isKnown(local) {
		return local
	}
	for _, imp := range c.imports {
		if imp.OnDemand && !imp.Static {
			return ""
		}
	}
	return local
}

func (c *Context) lookup(simpleName string) (string, bool) {
	if fullName, ok := c.nested[simpleName]; ok {
		return fullName, true
	}
	if c.owner != nil && c.owner.Name() == simpleName {
		return headerQualifiedName(c.owner), true
	}

	for _, imp := range c.imports {
		if imp.OnDemand || imp.Static {
			continue
		}
		if lastSegment(imp.Name) == simpleName {
			return imp.Name, true
		}
	}

	for _, imp := range c.imports {
		if !imp.OnDemand || imp.Static {
			continue
		}
		candidate := imp.Name + "." + simpleName
		if c.isKnown(candidate) {
			return candidate, true
		}
	}

	if javaLangTypes[simpleName] {
		return "java.lang." + simpleName, true
	}
	return "", false
}

func (c *Context) isKnown(qualifiedName string) bool {
	return c.known != nil && c.known(qualifiedName)
}

// headerQualifiedName returns the package-qualified name of decl, including
// the names of its enclosing classes.
func headerQualifiedName(decl syntax.ClassDecl) string {
	parts := []string{decl.Name()}
	for s := decl.Parent(); s != nil; {
		outer, ok := s.(syntax.ClassDecl)
		if !ok {
			break
		}
		parts = append([]string{outer.Name()}, parts...)
		s = outer.Parent()
	}
	name := strings.Join(parts, ".")
	if pkg := decl.PackageName(); pkg != "" {
		return pkg + "." + name
	}
	return name
}

func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
