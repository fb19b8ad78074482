package extract

import (
	"github.com/dhamidi/damap/model"
	"github.com/dhamidi/damap/syntax"
)

// maxConstantDepth bounds chains of constants initialized from other
// constants.
const maxConstantDepth = 8

type constantClass struct {
	name        string
	isInterface bool
	enum        map[string]bool
	fields      map[string]syntax.Field
}

type constantTable struct {
	classes map[string]*constantClass
}

// constantsFor collects the enum constants and fields of every class of the
// file containing decl, or of decl and its enclosing classes when decl is not
// attached to a file.
func constantsFor(decl syntax.ClassDecl) *constantTable {
	t := &constantTable{classes: make(map[string]*constantClass)}
	var top syntax.Scope = decl
	for s := decl.Parent(); s != nil; {
		top = s
		outer, ok := s.(syntax.ClassDecl)
		if !ok {
			break
		}
		s = outer.Parent()
	}
	switch root := top.(type) {
	case syntax.ClassDecl:
		t.add(root)
	case syntax.File:
		for _, c := range root.Classes() {
			t.add(c)
		}
	}
	return t
}

func (t *constantTable) add(decl syntax.ClassDecl) {
	cc := &constantClass{
		name:        decl.Name(),
		isInterface: decl.IsInterface(),
		enum:        make(map[string]bool),
		fields:      make(map[string]syntax.Field),
	}
	for _, ec := range decl.EnumConstants() {
		if ec.Name() != "" {
			cc.enum[ec.Name()] = true
		}
	}
	for _, f := range decl.Fields() {
		cc.fields[f.Name()] = f
	}
	if _, exists := t.classes[cc.name]; !exists {
		t.classes[cc.name] = cc
	}
	for _, inner := range decl.Classes() {
		t.add(inner)
	}
}

// ownerChain returns the simple names of the declaration and its enclosing
// classes, innermost first.
func (c *Context) ownerChain() []string {
	var names []string
	for s := syntax.Scope(c.owner); s != nil; {
		decl, ok := s.(syntax.ClassDecl)
		if !ok {
			break
		}
		names = append(names, decl.Name())
		s = decl.Parent()
	}
	return names
}

type target struct {
	enumType string
	constant string
	field    syntax.Field
}

// resolveReference finds the enum constant or field a reference expression
// designates.
func (c *Context) resolveReference(qualifier, ident string) (target, bool) {
	table := c.constants
	lookup := func(className string) (target, bool) {
		cc, ok := table.classes[className]
		if !ok {
			return target{}, false
		}
		if cc.enum[ident] {
			return target{enumType: cc.name, constant: ident}, true
		}
		if f, ok := cc.fields[ident]; ok && (cc.isInterface || hasKeyword(f.Modifiers(), "final")) {
			return target{field: f}, true
		}
		return target{}, false
	}

	if qualifier != "" {
		return lookup(lastSegment(qualifier))
	}
	for _, name := range c.ownerChain() {
		if t, ok := lookup(name); ok {
			return t, true
		}
	}
	for _, imp := range c.imports {
		if imp.Static && !imp.OnDemand && lastSegment(imp.Name) == ident {
			owner := imp.Name[:len(imp.Name)-len(ident)]
			return lookup(lastSegment(trimDot(owner)))
		}
	}
	return target{}, false
}

func trimDot(s string) string {
	if len(s) > 0 && s[len(s)-1] == '.' {
		return s[:len(s)-1]
	}
	return s
}

func hasKeyword(list syntax.ModifierList, keyword string) bool {
	if list == nil {
		return false
	}
	for _, kw := range list.Keywords() {
		if kw == keyword {
			return true
		}
	}
	return false
}

func assignable(want, got model.ValueKind) bool {
	return want == model.ValueKindAny || want == got
}

// resolveValue evaluates an annotation element value as a value of kind
// want. Enum constants resolve to their name when a string (or any value)
// is wanted, to an ENUM value when an enum is wanted. Constants and literals
// resolve only when their kind matches.
func (c *Context) resolveValue(expr syntax.Expr, want model.ValueKind, depth int) (model.Value, bool) {
	if expr == nil || depth > maxConstantDepth {
		return model.Value{}, false
	}
	switch expr.Kind() {
	case syntax.ExprReference:
		t, ok := c.resolveReference(expr.Qualifier(), expr.Identifier())
		if !ok {
			return model.Value{}, false
		}
		if t.field == nil {
			switch want {
			case model.ValueKindAny, model.ValueKindString:
				return model.StringValue(t.constant), true
			case model.ValueKindEnum:
				return model.EnumConstantValue(t.enumType, t.constant), true
			}
			return model.Value{}, false
		}
		initializer := t.field.Initializer()
		if initializer == nil {
			return model.Value{}, false
		}
		if k := initializer.Kind(); k != syntax.ExprLiteral && k != syntax.ExprReference {
			return model.Value{}, false
		}
		v, ok := c.resolveValue(initializer, model.ValueKindAny, depth+1)
		if !ok || !assignable(want, v.Kind()) {
			return model.Value{}, false
		}
		return v, true

	case syntax.ExprLiteral:
		if expr.LiteralKind() == syntax.LiteralNull {
			return model.Value{}, false
		}
		v, err := literalValue(expr.LiteralKind(), expr.Text())
		if err != nil {
			log.Debugf("ignoring literal %q: %s", expr.Text(), err)
			return model.Value{}, false
		}
		if !assignable(want, v.Kind()) {
			return model.Value{}, false
		}
		return v, true

	case syntax.ExprClassLiteral:
		if !assignable(want, model.ValueKindClass) {
			return model.Value{}, false
		}
		t, err := c.TypeOf(expr.ClassType())
		if err != nil {
			return model.Value{}, false
		}
		return model.ClassValue(t), true

	case syntax.ExprArray:
		if !assignable(want, model.ValueKindArray) {
			return model.Value{}, false
		}
		var elems []model.Value
		for _, e := range expr.Elements() {
			if v, ok := c.resolveValue(e, model.ValueKindAny, depth+1); ok {
				elems = append(elems, v)
			}
		}
		return model.ArrayValue(elems...), true
	}
	return model.Value{}, false
}

// attributeValue finds the expression given for the element param of ann.
// The single unnamed argument answers to "value".
func attributeValue(ann syntax.Annotation, param string) syntax.Expr {
	for _, arg := range ann.Arguments() {
		name := arg.Name
		if name == "" {
			name = "value"
		}
		if name == param {
			return arg.Value
		}
	}
	return nil
}

// AnnotationValue resolves the element param of ann as a value of kind
// want. ok is false when the element is missing or cannot be resolved to
// that kind.
func (c *Context) AnnotationValue(ann syntax.Annotation, param string, want model.ValueKind) (model.Value, bool) {
	expr := attributeValue(ann, param)
	if expr == nil {
		return model.Value{}, false
	}
	return c.resolveValue(expr, want, 0)
}

// AnnotationValues resolves the element param of ann, which may be written
// as a single value or as an array initializer, into the values of kind
// want. Elements that do not resolve are skipped.
func (c *Context) AnnotationValues(ann syntax.Annotation, param string, want model.ValueKind) []model.Value {
	expr := attributeValue(ann, param)
	if expr == nil {
		return []model.Value{}
	}
	if expr.Kind() != syntax.ExprArray {
		if v, ok := c.resolveValue(expr, want, 0); ok {
			return []model.Value{v}
		}
		return []model.Value{}
	}
	values := []model.Value{}
	for _, e := range expr.Elements() {
		if v, ok := c.resolveValue(e, want, 0); ok {
			values = append(values, v)
		}
	}
	return values
}

// FindAnnotation returns the annotation of list whose qualified name is
// qualifiedName, nil when there is none.
func (c *Context) FindAnnotation(list syntax.ModifierList, qualifiedName string) syntax.Annotation {
	if list == nil {
		return nil
	}
	shortName := lastSegment(qualifiedName)
	for _, ann := range list.Annotations() {
		if lastSegment(ann.Name()) != shortName {
			continue
		}
		if c.annotationType(ann).QualifiedName() == qualifiedName {
			return ann
		}
	}
	return nil
}

// IsAnnotatedWith reports whether list carries any of the annotations named
// by qualifiedNames.
func (c *Context) IsAnnotatedWith(list syntax.ModifierList, qualifiedNames ...string) bool {
	for _, name := range qualifiedNames {
		if c.FindAnnotation(list, name) != nil {
			return true
		}
	}
	return false
}

// annotationOf builds the model of ann with the values of all its
// arguments that resolve.
func (c *Context) annotationOf(ann syntax.Annotation) model.Annotation {
	var pairs []model.AnnotationValuePair
	for _, arg := range ann.Arguments() {
		name := arg.Name
		if name == "" {
			name = "value"
		}
		if v, ok := c.resolveValue(arg.Value, model.ValueKindAny, 0); ok {
			pairs = append(pairs, model.AnnotationValuePair{Name: name, Value: v})
		}
	}
	return model.NewAnnotation(c.annotationType(ann), pairs...)
}

// annotations returns the annotations of list, nil when list is nil.
func (c *Context) annotations(list syntax.ModifierList) []model.Annotation {
	if list == nil {
		return nil
	}
	anns := []model.Annotation{}
	for _, ann := range list.Annotations() {
		anns = append(anns, c.annotationOf(ann))
	}
	return anns
}
