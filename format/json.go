package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dhamidi/damap/model"
)

type JSONEncoder struct {
	w    io.Writer
	decl model.Declaration
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(decl model.Declaration) error {
	e.decl = decl
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(buildDeclaration(e.decl), "", "  ")
}

// MarshalDeclaration returns the compact JSON form of decl, the one read
// back by UnmarshalDeclaration.
func MarshalDeclaration(decl model.Declaration) ([]byte, error) {
	return json.Marshal(buildDeclaration(decl))
}

// The wire structs keep absent and empty apart: a nil pointer to a slice is
// an absent list, a pointer to an empty slice an empty one.

type jsonDeclaration struct {
	Kind        string            `json:"kind" yaml:"kind"`
	Type        jsonType          `json:"type" yaml:"type"`
	Modifiers   []string          `json:"modifiers" yaml:"modifiers"`
	Annotations *[]jsonAnnotation `json:"annotations" yaml:"annotations"`
	Interfaces  []jsonType        `json:"interfaces" yaml:"interfaces"`
	Methods     []jsonMethod      `json:"methods" yaml:"methods"`
	EnumValues  []string          `json:"enumValues,omitempty" yaml:"enumValues,omitempty"`
	Generated   []string          `json:"generated,omitempty" yaml:"generated,omitempty"`
}

type jsonType struct {
	Kind          string      `json:"kind" yaml:"kind"`
	SimpleName    string      `json:"simpleName" yaml:"simpleName"`
	QualifiedName string      `json:"qualifiedName,omitempty" yaml:"qualifiedName,omitempty"`
	TypeArgs      *[]jsonType `json:"typeArgs,omitempty" yaml:"typeArgs,omitempty"`
	ExtendsBound  *jsonType   `json:"extendsBound,omitempty" yaml:"extendsBound,omitempty"`
	SuperBound    *jsonType   `json:"superBound,omitempty" yaml:"superBound,omitempty"`
	Element       *jsonType   `json:"element,omitempty" yaml:"element,omitempty"`
}

type jsonMethod struct {
	Name        string            `json:"name" yaml:"name"`
	Role        string            `json:"role" yaml:"role"`
	Modifiers   []string          `json:"modifiers" yaml:"modifiers"`
	ReturnType  *jsonType         `json:"returnType,omitempty" yaml:"returnType,omitempty"`
	Parameters  []jsonParameter   `json:"parameters" yaml:"parameters"`
	Annotations *[]jsonAnnotation `json:"annotations" yaml:"annotations"`
}

type jsonParameter struct {
	Name        string            `json:"name" yaml:"name"`
	Type        jsonType          `json:"type" yaml:"type"`
	Modifiers   []string          `json:"modifiers" yaml:"modifiers"`
	VarArgs     bool              `json:"varArgs,omitempty" yaml:"varArgs,omitempty"`
	Annotations *[]jsonAnnotation `json:"annotations" yaml:"annotations"`
}

type jsonAnnotation struct {
	Type   jsonType        `json:"type" yaml:"type"`
	Values []jsonValuePair `json:"values,omitempty" yaml:"values,omitempty"`
}

type jsonValuePair struct {
	Name  string    `json:"name" yaml:"name"`
	Value jsonValue `json:"value" yaml:"value"`
}

// jsonValue holds a string, int64, float64, bool, jsonEnum, jsonType or
// []jsonValue depending on Kind. Chars are written as one-rune strings.
type jsonValue struct {
	Kind  string `json:"kind" yaml:"kind"`
	Value any    `json:"value" yaml:"value"`
}

type jsonEnum struct {
	Type string `json:"type" yaml:"type"`
	Name string `json:"name" yaml:"name"`
}

func buildDeclaration(d model.Declaration) jsonDeclaration {
	data := jsonDeclaration{
		Kind:        string(d.Kind()),
		Type:        buildType(d.Type()),
		Modifiers:   d.Modifiers().Names(),
		Annotations: buildAnnotations(d.Annotations(), d.HasAnnotations()),
		Interfaces:  buildTypes(d.Interfaces()),
		Generated:   d.GeneratedNames(),
	}
	for _, m := range d.Methods() {
		data.Methods = append(data.Methods, buildMethod(m))
	}
	if data.Methods == nil {
		data.Methods = []jsonMethod{}
	}
	for _, v := range d.EnumValues() {
		data.EnumValues = append(data.EnumValues, v.Name)
	}
	return data
}

func buildType(t model.Type) jsonType {
	data := jsonType{
		Kind:          string(t.Kind()),
		SimpleName:    t.SimpleName(),
		QualifiedName: t.QualifiedName(),
	}
	if t.HasTypeArgs() {
		args := buildTypes(t.TypeArgs())
		data.TypeArgs = &args
	}
	if b, ok := t.ExtendsBound(); ok {
		bt := buildType(b)
		data.ExtendsBound = &bt
	}
	if b, ok := t.SuperBound(); ok {
		bt := buildType(b)
		data.SuperBound = &bt
	}
	if e, ok := t.Element(); ok {
		et := buildType(e)
		data.Element = &et
	}
	return data
}

func buildTypes(types []model.Type) []jsonType {
	result := make([]jsonType, len(types))
	for i, t := range types {
		result[i] = buildType(t)
	}
	return result
}

func buildMethod(m model.Method) jsonMethod {
	data := jsonMethod{
		Name:        m.Name(),
		Role:        string(m.Role()),
		Modifiers:   m.Modifiers().Names(),
		Parameters:  []jsonParameter{},
		Annotations: buildAnnotations(m.Annotations(), m.HasAnnotations()),
	}
	if rt, ok := m.ReturnType(); ok {
		t := buildType(rt)
		data.ReturnType = &t
	}
	for _, p := range m.Parameters() {
		data.Parameters = append(data.Parameters, jsonParameter{
			Name:        p.Name(),
			Type:        buildType(p.Type()),
			Modifiers:   p.Modifiers().Names(),
			VarArgs:     p.IsVarArgs(),
			Annotations: buildAnnotations(p.Annotations(), p.HasAnnotations()),
		})
	}
	return data
}

func buildAnnotations(anns []model.Annotation, present bool) *[]jsonAnnotation {
	if !present {
		return nil
	}
	result := make([]jsonAnnotation, len(anns))
	for i, a := range anns {
		result[i] = jsonAnnotation{Type: buildType(a.Type())}
		for _, pair := range a.Values() {
			result[i].Values = append(result[i].Values, jsonValuePair{Name: pair.Name, Value: buildValue(pair.Value)})
		}
	}
	return &result
}

func buildValue(v model.Value) jsonValue {
	data := jsonValue{Kind: string(v.Kind())}
	switch v.Kind() {
	case model.ValueKindString:
		data.Value = v.Str()
	case model.ValueKindInt, model.ValueKindLong:
		data.Value = v.Int()
	case model.ValueKindFloat, model.ValueKindDouble:
		data.Value = v.Float()
	case model.ValueKindBoolean:
		data.Value = v.Bool()
	case model.ValueKindChar:
		data.Value = string(v.Char())
	case model.ValueKindEnum:
		data.Value = jsonEnum{Type: v.EnumType(), Name: v.Str()}
	case model.ValueKindClass:
		if t, ok := v.Class(); ok {
			data.Value = buildType(t)
		}
	case model.ValueKindArray:
		elems := []jsonValue{}
		for _, e := range v.Elements() {
			elems = append(elems, buildValue(e))
		}
		data.Value = elems
	}
	return data
}

// UnmarshalDeclaration reads the JSON written by MarshalDeclaration or by
// the JSON encoder.
func UnmarshalDeclaration(data []byte) (model.Declaration, error) {
	var raw jsonDeclarationIn
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Declaration{}, fmt.Errorf("decode declaration: %w", err)
	}
	return raw.declaration()
}

type jsonDeclarationIn struct {
	jsonDeclaration
	Annotations *[]jsonAnnotationIn `json:"annotations"`
	Methods     []jsonMethodIn      `json:"methods"`
}

type jsonMethodIn struct {
	jsonMethod
	Parameters  []jsonParameterIn   `json:"parameters"`
	Annotations *[]jsonAnnotationIn `json:"annotations"`
}

type jsonParameterIn struct {
	jsonParameter
	Annotations *[]jsonAnnotationIn `json:"annotations"`
}

type jsonAnnotationIn struct {
	Type   jsonType          `json:"type"`
	Values []jsonValuePairIn `json:"values"`
}

type jsonValuePairIn struct {
	Name  string      `json:"name"`
	Value jsonValueIn `json:"value"`
}

type jsonValueIn struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}

func (d jsonDeclarationIn) declaration() (model.Declaration, error) {
	mods, err := parseModifiers(d.Modifiers)
	if err != nil {
		return model.Declaration{}, err
	}
	typ, err := d.Type.model()
	if err != nil {
		return model.Declaration{}, err
	}
	anns, err := annotationsIn(d.Annotations)
	if err != nil {
		return model.Declaration{}, err
	}
	interfaces := make([]model.Type, len(d.Interfaces))
	for i, it := range d.Interfaces {
		if interfaces[i], err = it.model(); err != nil {
			return model.Declaration{}, err
		}
	}
	methods := make([]model.Method, len(d.Methods))
	for i, m := range d.Methods {
		if methods[i], err = m.method(); err != nil {
			return model.Declaration{}, fmt.Errorf("method %s: %w", m.Name, err)
		}
	}
	var values []model.EnumValue
	for _, v := range d.EnumValues {
		values = append(values, model.EnumValue{Name: v})
	}
	return model.NewDeclaration(model.DeclarationSpec{
		Kind:        model.DeclarationKind(d.Kind),
		Type:        typ,
		Modifiers:   mods,
		Annotations: anns,
		Interfaces:  interfaces,
		Methods:     methods,
		EnumValues:  values,
	}), nil
}

func (m jsonMethodIn) method() (model.Method, error) {
	mods, err := parseModifiers(m.Modifiers)
	if err != nil {
		return model.Method{}, err
	}
	anns, err := annotationsIn(m.Annotations)
	if err != nil {
		return model.Method{}, err
	}
	spec := model.MethodSpec{
		Name:        m.Name,
		Modifiers:   mods,
		Annotations: anns,
		Role:        model.Role(m.Role),
	}
	if m.ReturnType != nil {
		rt, err := m.ReturnType.model()
		if err != nil {
			return model.Method{}, err
		}
		spec.ReturnType = &rt
	}
	for _, p := range m.Parameters {
		pmods, err := parseModifiers(p.Modifiers)
		if err != nil {
			return model.Method{}, err
		}
		pt, err := p.Type.model()
		if err != nil {
			return model.Method{}, err
		}
		panns, err := annotationsIn(p.Annotations)
		if err != nil {
			return model.Method{}, err
		}
		spec.Parameters = append(spec.Parameters, model.NewParameter(model.ParameterSpec{
			Name:        p.Name,
			Type:        pt,
			Modifiers:   pmods,
			Annotations: panns,
			VarArgs:     p.VarArgs,
		}))
	}
	return model.NewMethod(spec), nil
}

func (t jsonType) model() (model.Type, error) {
	kind, ok := model.ParseTypeKind(t.Kind)
	if !ok {
		return model.Type{}, fmt.Errorf("unknown type kind %q", t.Kind)
	}
	spec := model.TypeSpec{Kind: kind, SimpleName: t.SimpleName, QualifiedName: t.QualifiedName}
	if t.TypeArgs != nil {
		spec.TypeArgs = []model.Type{}
		for _, a := range *t.TypeArgs {
			arg, err := a.model()
			if err != nil {
				return model.Type{}, err
			}
			spec.TypeArgs = append(spec.TypeArgs, arg)
		}
	}
	for _, p := range []struct {
		in  *jsonType
		out **model.Type
	}{{t.ExtendsBound, &spec.ExtendsBound}, {t.SuperBound, &spec.SuperBound}, {t.Element, &spec.Element}} {
		if p.in == nil {
			continue
		}
		nested, err := p.in.model()
		if err != nil {
			return model.Type{}, err
		}
		*p.out = &nested
	}
	if kind == model.TypeKindArray {
		return model.NewArrayType(spec), nil
	}
	return model.NewType(spec), nil
}

func annotationsIn(in *[]jsonAnnotationIn) ([]model.Annotation, error) {
	if in == nil {
		return nil, nil
	}
	out := []model.Annotation{}
	for _, a := range *in {
		t, err := a.Type.model()
		if err != nil {
			return nil, err
		}
		var pairs []model.AnnotationValuePair
		for _, p := range a.Values {
			v, err := p.Value.model()
			if err != nil {
				return nil, fmt.Errorf("annotation %s value %s: %w", t.Name(), p.Name, err)
			}
			pairs = append(pairs, model.AnnotationValuePair{Name: p.Name, Value: v})
		}
		out = append(out, model.NewAnnotation(t, pairs...))
	}
	return out, nil
}

func (v jsonValueIn) model() (model.Value, error) {
	switch model.ValueKind(v.Kind) {
	case model.ValueKindString:
		var s string
		err := json.Unmarshal(v.Value, &s)
		return model.StringValue(s), err
	case model.ValueKindInt:
		var n int32
		err := json.Unmarshal(v.Value, &n)
		return model.IntValue(n), err
	case model.ValueKindLong:
		var n int64
		err := json.Unmarshal(v.Value, &n)
		return model.LongValue(n), err
	case model.ValueKindFloat:
		var f float32
		err := json.Unmarshal(v.Value, &f)
		return model.FloatValue(f), err
	case model.ValueKindDouble:
		var f float64
		err := json.Unmarshal(v.Value, &f)
		return model.DoubleValue(f), err
	case model.ValueKindBoolean:
		var b bool
		err := json.Unmarshal(v.Value, &b)
		return model.BoolValue(b), err
	case model.ValueKindChar:
		var s string
		if err := json.Unmarshal(v.Value, &s); err != nil {
			return model.Value{}, err
		}
		r := []rune(s)
		if len(r) != 1 {
			return model.Value{}, fmt.Errorf("char value %q is not one character", s)
		}
		return model.CharValue(r[0]), nil
	case model.ValueKindEnum:
		var e jsonEnum
		err := json.Unmarshal(v.Value, &e)
		return model.EnumConstantValue(e.Type, e.Name), err
	case model.ValueKindClass:
		var t jsonType
		if err := json.Unmarshal(v.Value, &t); err != nil {
			return model.Value{}, err
		}
		mt, err := t.model()
		return model.ClassValue(mt), err
	case model.ValueKindArray:
		var elems []jsonValueIn
		if err := json.Unmarshal(v.Value, &elems); err != nil {
			return model.Value{}, err
		}
		values := make([]model.Value, len(elems))
		for i, e := range elems {
			ev, err := e.model()
			if err != nil {
				return model.Value{}, err
			}
			values[i] = ev
		}
		return model.ArrayValue(values...), nil
	}
	return model.Value{}, fmt.Errorf("unknown value kind %q", v.Kind)
}

func parseModifiers(names []string) (model.Modifiers, error) {
	var mods []model.Modifier
	for _, n := range names {
		m, ok := model.ParseModifier(n)
		if !ok {
			return model.Modifiers{}, fmt.Errorf("unknown modifier %q", n)
		}
		mods = append(mods, m)
	}
	return model.NewModifiers(mods...), nil
}
