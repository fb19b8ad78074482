package model

import "strings"

type TypeKind string

const (
	TypeKindVoid     TypeKind = "VOID"
	TypeKindBoolean  TypeKind = "BOOLEAN"
	TypeKindByte     TypeKind = "BYTE"
	TypeKindShort    TypeKind = "SHORT"
	TypeKindInt      TypeKind = "INT"
	TypeKindLong     TypeKind = "LONG"
	TypeKindChar     TypeKind = "CHAR"
	TypeKindFloat    TypeKind = "FLOAT"
	TypeKindDouble   TypeKind = "DOUBLE"
	TypeKindDeclared TypeKind = "DECLARED"
	TypeKindWildcard TypeKind = "WILDCARD"
	TypeKindArray    TypeKind = "ARRAY"
)

var typeKinds = map[TypeKind]bool{
	TypeKindVoid: true, TypeKindBoolean: true, TypeKindByte: true, TypeKindShort: true,
	TypeKindInt: true, TypeKindLong: true, TypeKindChar: true, TypeKindFloat: true,
	TypeKindDouble: true, TypeKindDeclared: true, TypeKindWildcard: true, TypeKindArray: true,
}

// ParseTypeKind returns the kind named s, which must be one of the
// upper-case kind names.
func ParseTypeKind(s string) (TypeKind, bool) {
	k := TypeKind(s)
	return k, typeKinds[k]
}

func (k TypeKind) IsPrimitive() bool {
	switch k {
	case TypeKindBoolean, TypeKindByte, TypeKindShort, TypeKindInt,
		TypeKindLong, TypeKindChar, TypeKindFloat, TypeKindDouble:
		return true
	}
	return false
}

// TypeSpec holds the parts of a Type before it is frozen by NewType or
// NewArrayType. A nil TypeArgs slice means no argument list was computed;
// an empty non-nil slice means the list is known to be empty.
type TypeSpec struct {
	Kind          TypeKind
	SimpleName    string
	QualifiedName string
	TypeArgs      []Type
	ExtendsBound  *Type
	SuperBound    *Type
	Element       *Type
}

// Type describes a Java type use: a primitive, void, a declared type with
// its type arguments, a wildcard or an array.
type Type struct {
	kind          TypeKind
	simpleName    string
	qualifiedName string
	typeArgs      []Type
	extendsBound  *Type
	superBound    *Type
	element       *Type
}

var voidType = Type{kind: TypeKindVoid, simpleName: "void", typeArgs: []Type{}}

// VoidType returns the canonical void descriptor.
func VoidType() Type {
	return voidType
}

func NewType(spec TypeSpec) Type {
	if spec.Kind == TypeKindVoid {
		return voidType
	}
	t := Type{
		kind:          spec.Kind,
		simpleName:    spec.SimpleName,
		qualifiedName: spec.QualifiedName,
	}
	if spec.Kind.IsPrimitive() {
		t.typeArgs = []Type{}
		return t
	}
	t.typeArgs = copyTypes(spec.TypeArgs)
	t.extendsBound = copyTypePtr(spec.ExtendsBound)
	t.superBound = copyTypePtr(spec.SuperBound)
	if spec.Kind == TypeKindArray {
		t.element = copyTypePtr(spec.Element)
	}
	return t
}

// NewArrayType builds an ARRAY descriptor. Names and type arguments describe
// the innermost element; spec.Element is the descriptor of the component.
func NewArrayType(spec TypeSpec) Type {
	spec.Kind = TypeKindArray
	t := NewType(spec)
	t.extendsBound = nil
	t.superBound = nil
	return t
}

func (t Type) Kind() TypeKind         { return t.kind }
func (t Type) SimpleName() string     { return t.simpleName }
func (t Type) QualifiedName() string  { return t.qualifiedName }
func (t Type) IsArray() bool          { return t.kind == TypeKindArray }
func (t Type) IsZero() bool           { return t.kind == "" }
func (t Type) HasQualifiedName() bool { return t.qualifiedName != "" }

// TypeArgs returns a copy of the type arguments.
func (t Type) TypeArgs() []Type {
	return copyTypes(t.typeArgs)
}

// HasTypeArgs reports whether an argument list was computed for t, even
// an empty one.
func (t Type) HasTypeArgs() bool {
	return t.typeArgs != nil
}

func (t Type) ExtendsBound() (Type, bool) {
	if t.extendsBound == nil {
		return Type{}, false
	}
	return *t.extendsBound, true
}

func (t Type) SuperBound() (Type, bool) {
	if t.superBound == nil {
		return Type{}, false
	}
	return *t.superBound, true
}

// Element returns the component descriptor of an array.
func (t Type) Element() (Type, bool) {
	if t.element == nil {
		return Type{}, false
	}
	return *t.element, true
}

// Name returns the qualified name when known, the simple name otherwise.
func (t Type) Name() string {
	if t.qualifiedName != "" {
		return t.qualifiedName
	}
	return t.simpleName
}

func (t Type) String() string {
	var sb strings.Builder
	t.writeTo(&sb)
	return sb.String()
}

func (t Type) writeTo(sb *strings.Builder) {
	switch t.kind {
	case TypeKindArray:
		if t.element != nil {
			t.element.writeTo(sb)
		} else {
			sb.WriteString(t.Name())
		}
		sb.WriteString("[]")
		return
	case TypeKindWildcard:
		sb.WriteString("?")
		if t.extendsBound != nil {
			sb.WriteString(" extends ")
			t.extendsBound.writeTo(sb)
		}
		if t.superBound != nil {
			sb.WriteString(" super ")
			t.superBound.writeTo(sb)
		}
		return
	}
	sb.WriteString(t.Name())
	if len(t.typeArgs) > 0 {
		sb.WriteByte('<')
		for i, arg := range t.typeArgs {
			if i > 0 {
				sb.WriteString(", ")
			}
			arg.writeTo(sb)
		}
		sb.WriteByte('>')
	}
}

// Equal reports whether t and other describe the same type, including the
// distinction between absent and empty argument lists.
func (t Type) Equal(other Type) bool {
	if t.kind != other.kind || t.simpleName != other.simpleName || t.qualifiedName != other.qualifiedName {
		return false
	}
	if (t.typeArgs == nil) != (other.typeArgs == nil) || len(t.typeArgs) != len(other.typeArgs) {
		return false
	}
	for i := range t.typeArgs {
		if !t.typeArgs[i].Equal(other.typeArgs[i]) {
			return false
		}
	}
	return equalTypePtr(t.extendsBound, other.extendsBound) &&
		equalTypePtr(t.superBound, other.superBound) &&
		equalTypePtr(t.element, other.element)
}

func equalTypePtr(a, b *Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func copyTypes(types []Type) []Type {
	if types == nil {
		return nil
	}
	return append([]Type{}, types...)
}

func copyTypePtr(t *Type) *Type {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
