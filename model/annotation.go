package model

import (
	"fmt"
	"strconv"
	"strings"
)

type ValueKind string

// ValueKindAny is used by callers that accept a value of any kind.
const ValueKindAny ValueKind = ""

const (
	ValueKindString  ValueKind = "STRING"
	ValueKindInt     ValueKind = "INT"
	ValueKindLong    ValueKind = "LONG"
	ValueKindFloat   ValueKind = "FLOAT"
	ValueKindDouble  ValueKind = "DOUBLE"
	ValueKindBoolean ValueKind = "BOOLEAN"
	ValueKindChar    ValueKind = "CHAR"
	ValueKindEnum    ValueKind = "ENUM"
	ValueKindClass   ValueKind = "CLASS"
	ValueKindArray   ValueKind = "ARRAY"
)

// Value is a resolved annotation element value.
type Value struct {
	kind     ValueKind
	str      string
	num      int64
	real     float64
	enumType string
	class    *Type
	elems    []Value
}

func StringValue(s string) Value   { return Value{kind: ValueKindString, str: s} }
func IntValue(i int32) Value       { return Value{kind: ValueKindInt, num: int64(i)} }
func LongValue(i int64) Value      { return Value{kind: ValueKindLong, num: i} }
func FloatValue(f float32) Value   { return Value{kind: ValueKindFloat, real: float64(f)} }
func DoubleValue(f float64) Value  { return Value{kind: ValueKindDouble, real: f} }
func CharValue(r rune) Value       { return Value{kind: ValueKindChar, num: int64(r)} }
func ClassValue(t Type) Value      { return Value{kind: ValueKindClass, class: &t} }
func ArrayValue(vs ...Value) Value { return Value{kind: ValueKindArray, elems: append([]Value{}, vs...)} }

func BoolValue(b bool) Value {
	v := Value{kind: ValueKindBoolean}
	if b {
		v.num = 1
	}
	return v
}

// EnumConstantValue refers to constant name of the enum type enumType.
func EnumConstantValue(enumType, name string) Value {
	return Value{kind: ValueKindEnum, enumType: enumType, str: name}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsZero() bool    { return v.kind == "" }

// Str returns the string of a STRING value or the constant name of an ENUM
// value.
func (v Value) Str() string      { return v.str }
func (v Value) Int() int64       { return v.num }
func (v Value) Float() float64   { return v.real }
func (v Value) Bool() bool       { return v.num != 0 }
func (v Value) Char() rune       { return rune(v.num) }
func (v Value) EnumType() string { return v.enumType }

func (v Value) Class() (Type, bool) {
	if v.class == nil {
		return Type{}, false
	}
	return *v.class, true
}

func (v Value) Elements() []Value {
	if v.elems == nil {
		return nil
	}
	return append([]Value{}, v.elems...)
}

func (v Value) Equal(other Value) bool {
	if v.kind != other.kind || v.str != other.str || v.num != other.num ||
		v.real != other.real || v.enumType != other.enumType {
		return false
	}
	if !equalTypePtr(v.class, other.class) || len(v.elems) != len(other.elems) {
		return false
	}
	for i := range v.elems {
		if !v.elems[i].Equal(other.elems[i]) {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case ValueKindString:
		return strconv.Quote(v.str)
	case ValueKindInt:
		return strconv.FormatInt(v.num, 10)
	case ValueKindLong:
		return strconv.FormatInt(v.num, 10) + "L"
	case ValueKindFloat:
		return strconv.FormatFloat(v.real, 'g', -1, 32) + "f"
	case ValueKindDouble:
		return strconv.FormatFloat(v.real, 'g', -1, 64)
	case ValueKindBoolean:
		return strconv.FormatBool(v.Bool())
	case ValueKindChar:
		return strconv.QuoteRune(v.Char())
	case ValueKindEnum:
		return v.enumType + "." + v.str
	case ValueKindClass:
		return v.class.String() + ".class"
	case ValueKindArray:
		parts := make([]string, len(v.elems))
		for i, e := range v.elems {
			parts[i] = e.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprintf("<%s>", v.kind)
}

type AnnotationValuePair struct {
	Name  string
	Value Value
}

type Annotation struct {
	typ    Type
	values []AnnotationValuePair
}

func NewAnnotation(t Type, values ...AnnotationValuePair) Annotation {
	return Annotation{typ: t, values: append([]AnnotationValuePair{}, values...)}
}

func (a Annotation) Type() Type { return a.typ }

func (a Annotation) Values() []AnnotationValuePair {
	return append([]AnnotationValuePair{}, a.values...)
}

// Value returns the value of the named element. The single unnamed argument
// of an annotation is named "value".
func (a Annotation) Value(name string) (Value, bool) {
	for _, p := range a.values {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Value{}, false
}

func (a Annotation) Equal(other Annotation) bool {
	if !a.typ.Equal(other.typ) || len(a.values) != len(other.values) {
		return false
	}
	for i := range a.values {
		if a.values[i].Name != other.values[i].Name || !a.values[i].Value.Equal(other.values[i].Value) {
			return false
		}
	}
	return true
}

func copyAnnotations(anns []Annotation) []Annotation {
	if anns == nil {
		return nil
	}
	return append([]Annotation{}, anns...)
}

func equalAnnotations(a, b []Annotation) bool {
	if (a == nil) != (b == nil) || len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
