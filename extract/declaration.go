// Package extract turns class and enum declarations read through the syntax
// package into model declarations.
package extract

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/damap/model"
	"github.com/dhamidi/damap/syntax"
)

var log = commonlog.GetLogger("damap.extract")

// Extractor builds model declarations. It holds no per-call state and may
// be shared between goroutines.
type Extractor struct {
	rules Rules
	known func(string) bool
}

type Option func(*Extractor)

// WithKnownTypes lets on-demand imports resolve names of classes that are
// known to exist.
func WithKnownTypes(known func(qualifiedName string) bool) Option {
	return func(e *Extractor) {
		e.known = known
	}
}

func New(rules Rules, opts ...Option) *Extractor {
	e := &Extractor{rules: rules}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extractor) Rules() Rules {
	return e.rules
}

// Context returns the name resolution context of decl.
func (e *Extractor) Context(decl syntax.ClassDecl) *Context {
	return NewContext(decl, e.known)
}

// Extract builds the declaration of a class or enum. Annotation types and
// interfaces are rejected with an *UnsupportedKindError; any other failure
// is logged and returned as an *ExtractionError.
func (e *Extractor) Extract(decl syntax.ClassDecl) (d model.Declaration, err error) {
	if decl.IsAnnotationType() {
		return model.Declaration{}, &UnsupportedKindError{Name: decl.Name(), Kind: "annotation type"}
	}
	if decl.IsInterface() {
		return model.Declaration{}, &UnsupportedKindError{Name: decl.Name(), Kind: "interface"}
	}

	defer func() {
		if r := recover(); r != nil {
			d, err = model.Declaration{}, e.fail(decl, fmt.Errorf("panic: %v", r))
		}
	}()

	d, err = e.extract(decl)
	if err != nil {
		return model.Declaration{}, e.fail(decl, err)
	}
	return d, nil
}

func (e *Extractor) fail(decl syntax.ClassDecl, cause error) error {
	name := declName(decl)
	log.Errorf("an error occurred while extracting %s: %s", name, cause)
	return &ExtractionError{Declaration: name, Err: cause}
}

func declName(decl syntax.ClassDecl) (name string) {
	defer func() {
		if recover() != nil {
			name = "<unknown>"
		}
	}()
	return decl.Name()
}

func (e *Extractor) extract(decl syntax.ClassDecl) (model.Declaration, error) {
	typ := headerType(decl)

	spec := model.DeclarationSpec{Kind: model.DeclarationKindClass, Type: typ}
	if decl.IsEnum() {
		spec.Kind = model.DeclarationKindEnum
		spec.EnumValues = enumValues(decl)
	}

	ctx := e.Context(decl)

	interfaces, err := e.interfaces(ctx, decl)
	if err != nil {
		return model.Declaration{}, err
	}
	spec.Interfaces = interfaces
	spec.Annotations = ctx.annotations(decl.Modifiers())
	spec.Modifiers = Modifiers(decl.Modifiers())

	var methods []model.Method
	hasConstructor := false
	for _, md := range decl.Methods() {
		m, err := e.method(ctx, md)
		if err != nil {
			return model.Declaration{}, fmt.Errorf("method %s: %w", md.Name(), err)
		}
		hasConstructor = hasConstructor || m.IsConstructor()
		methods = append(methods, m)
	}
	methods = Classify(methods, interfaces, e.rules)
	if !hasConstructor {
		methods = append([]model.Method{defaultConstructor(decl, typ)}, methods...)
	}
	spec.Methods = methods

	return model.NewDeclaration(spec), nil
}

func enumValues(decl syntax.ClassDecl) []model.EnumValue {
	values := []model.EnumValue{}
	for _, c := range decl.EnumConstants() {
		if c == nil || c.Name() == "" {
			continue
		}
		values = append(values, model.EnumValue{Name: c.Name()})
	}
	return values
}

// interfaces returns the types of the implements clause only; it is never
// nil.
func (e *Extractor) interfaces(ctx *Context, decl syntax.ClassDecl) ([]model.Type, error) {
	types := []model.Type{}
	refs, ok := decl.Implements()
	if !ok {
		return types, nil
	}
	for _, ref := range refs {
		t, err := ctx.interfaceType(ref)
		if err != nil {
			return nil, fmt.Errorf("interface %s: %w", ref.QualifiedText(), err)
		}
		types = append(types, t)
	}
	return types, nil
}

func (e *Extractor) method(ctx *Context, md syntax.MethodDecl) (model.Method, error) {
	ctx = ctx.withTypeVars(md.TypeParameters())

	spec := model.MethodSpec{
		Name:        md.Name(),
		Modifiers:   Modifiers(md.Modifiers()),
		Annotations: ctx.annotations(md.Modifiers()),
		Role:        model.RolePlain,
	}

	params, ok := md.Parameters()
	if ok {
		for _, p := range params {
			param, err := e.parameter(ctx, p)
			if err != nil {
				return model.Method{}, err
			}
			spec.Parameters = append(spec.Parameters, param)
		}
	}

	if md.IsConstructor() {
		spec.Role = model.RoleConstructor
		return model.NewMethod(spec), nil
	}
	rt := md.ReturnType()
	if rt == nil {
		return model.Method{}, &MalformedASTError{Node: "method", Detail: fmt.Sprintf("%s has no return type", md.Name())}
	}
	ret, err := ctx.TypeOf(rt)
	if err != nil {
		return model.Method{}, err
	}
	spec.ReturnType = &ret
	return model.NewMethod(spec), nil
}

func (e *Extractor) parameter(ctx *Context, p syntax.Parameter) (model.Parameter, error) {
	te := p.Type()
	if te == nil {
		return model.Parameter{}, &MalformedASTError{Node: "parameter", Detail: fmt.Sprintf("%s has no type", p.Name())}
	}
	t, err := ctx.TypeOf(te)
	if err != nil {
		return model.Parameter{}, fmt.Errorf("parameter %s: %w", p.Name(), err)
	}
	return model.NewParameter(model.ParameterSpec{
		Name:        p.Name(),
		Type:        t,
		Modifiers:   Modifiers(p.Modifiers()),
		Annotations: ctx.annotations(p.Modifiers()),
		VarArgs:     p.IsVarArgs(),
	}), nil
}

func defaultConstructor(decl syntax.ClassDecl, typ model.Type) model.Method {
	return model.NewMethod(model.MethodSpec{
		Name:       decl.Name(),
		Modifiers:  model.NewModifiers(model.ModifierPublic),
		ReturnType: &typ,
		Role:       model.RoleConstructor,
	})
}
