package extract

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dhamidi/damap/model"
	"github.com/dhamidi/damap/syntax"
)

type shape int

const (
	shapeDeclared shape = iota
	shapeVoid
	shapeArray
	shapeWildcard
	shapePrimitive
)

func shapeOf(te syntax.TypeElement) shape {
	switch {
	case te.IsVoid():
		return shapeVoid
	case te.IsArray():
		return shapeArray
	case te.IsWildcard():
		return shapeWildcard
	case te.IsPrimitive():
		return shapePrimitive
	}
	return shapeDeclared
}

var upper = cases.Upper(language.English)

func kindOf(te syntax.TypeElement) (model.TypeKind, error) {
	switch shapeOf(te) {
	case shapePrimitive:
		kind, ok := model.ParseTypeKind(upper.String(te.Text()))
		if !ok || !kind.IsPrimitive() {
			return "", &MalformedASTError{Node: "primitive type", Detail: fmt.Sprintf("unknown keyword %q", te.Text())}
		}
		return kind, nil
	case shapeWildcard:
		return model.TypeKindWildcard, nil
	}
	return model.TypeKindDeclared, nil
}

func simpleName(te syntax.TypeElement) string {
	if ref := te.Reference(); ref != nil {
		return ref.Name()
	}
	if te.IsWildcard() {
		return "?"
	}
	return te.Text()
}

func (c *Context) qualifiedName(te syntax.TypeElement) string {
	switch shapeOf(te) {
	case shapeVoid, shapePrimitive, shapeWildcard:
		return ""
	}
	ref := te.Reference()
	if ref == nil {
		return ""
	}
	return c.Resolve(ref.QualifiedText())
}

// TypeOf converts a type element into its descriptor.
func (c *Context) TypeOf(te syntax.TypeElement) (model.Type, error) {
	if te == nil {
		return model.Type{}, &MalformedASTError{Node: "type", Detail: "missing type element"}
	}
	if shapeOf(te) == shapeVoid {
		return model.VoidType(), nil
	}

	inner := te
	isArray := shapeOf(te) == shapeArray
	if isArray {
		children := te.Children()
		if len(children) == 0 {
			return model.Type{}, &MalformedASTError{Node: "array type", Detail: fmt.Sprintf("%q has no component type", te.Text())}
		}
		inner = children[0]
	}

	kind, err := kindOf(inner)
	if err != nil {
		return model.Type{}, err
	}
	args, err := c.typeArgs(inner)
	if err != nil {
		return model.Type{}, err
	}
	bound, err := c.extendsBound(inner)
	if err != nil {
		return model.Type{}, err
	}
	spec := model.TypeSpec{
		Kind:          kind,
		SimpleName:    simpleName(inner),
		QualifiedName: c.qualifiedName(inner),
		TypeArgs:      args,
		ExtendsBound:  bound,
	}

	if !isArray {
		return model.NewType(spec), nil
	}
	elem, err := c.TypeOf(inner)
	if err != nil {
		return model.Type{}, err
	}
	spec.Element = &elem
	return model.NewArrayType(spec), nil
}

func (c *Context) extendsBound(te syntax.TypeElement) (*model.Type, error) {
	if !te.IsExtendsWildcard() {
		return nil, nil
	}
	children := te.Children()
	if len(children) == 0 {
		log.Warningf("no bound type found for wildcard %q", te.Text())
		return nil, nil
	}
	bound, err := c.TypeOf(children[0])
	if err != nil {
		return nil, err
	}
	return &bound, nil
}

func (c *Context) typeArgs(te syntax.TypeElement) ([]model.Type, error) {
	if te.IsWildcard() || te.IsVoid() {
		return []model.Type{}, nil
	}
	ref := te.Reference()
	if ref == nil {
		return []model.Type{}, nil
	}
	return c.referenceArgs(ref)
}

func (c *Context) referenceArgs(ref syntax.Reference) ([]model.Type, error) {
	elems, ok := ref.TypeArguments()
	if !ok {
		return []model.Type{}, nil
	}
	args := make([]model.Type, 0, len(elems))
	for _, elem := range elems {
		arg, err := c.TypeOf(elem)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// headerType describes the declaration itself. Type arguments and bounds
// are left absent.
func headerType(decl syntax.ClassDecl) model.Type {
	return model.NewType(model.TypeSpec{
		Kind:          model.TypeKindDeclared,
		SimpleName:    decl.Name(),
		QualifiedName: headerQualifiedName(decl),
	})
}

// interfaceType describes one entry of an implements clause.
func (c *Context) interfaceType(ref syntax.Reference) (model.Type, error) {
	args, err := c.referenceArgs(ref)
	if err != nil {
		return model.Type{}, err
	}
	return model.NewType(model.TypeSpec{
		Kind:          model.TypeKindDeclared,
		SimpleName:    ref.Name(),
		QualifiedName: c.Resolve(ref.QualifiedText()),
		TypeArgs:      args,
	}), nil
}

// annotationType resolves the written annotation name. A name that resolves
// to a simple name is resolved once more as a simple name.
func (c *Context) annotationType(ann syntax.Annotation) model.Type {
	qualified := c.Resolve(ann.Name())
	simple := lastSegment(qualified)
	if qualified == simple {
		qualified = c.Resolve(simple)
	}
	if simple == "" {
		simple = lastSegment(ann.Name())
	}
	return model.NewType(model.TypeSpec{
		Kind:          model.TypeKindDeclared,
		SimpleName:    simple,
		QualifiedName: qualified,
	})
}
