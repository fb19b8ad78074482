package model

type DeclarationKind string

const (
	DeclarationKindClass DeclarationKind = "class"
	DeclarationKindEnum  DeclarationKind = "enum"
)

type Role string

const (
	RolePlain                   Role = "PLAIN"
	RoleConstructor             Role = "CONSTRUCTOR"
	RoleMapperMethod            Role = "MAPPER_METHOD"
	RoleFunctionalAdapterMethod Role = "FUNCTIONAL_ADAPTER_METHOD"
)

type EnumValue struct {
	Name string
}

// ParameterSpec holds the parts of a Parameter. A nil Annotations slice
// means the parameter had no modifier list to read annotations from.
type ParameterSpec struct {
	Name        string
	Type        Type
	Modifiers   Modifiers
	Annotations []Annotation
	VarArgs     bool
}

type Parameter struct {
	name        string
	typ         Type
	modifiers   Modifiers
	annotations []Annotation
	varArgs     bool
}

func NewParameter(spec ParameterSpec) Parameter {
	return Parameter{
		name:        spec.Name,
		typ:         spec.Type,
		modifiers:   spec.Modifiers,
		annotations: copyAnnotations(spec.Annotations),
		varArgs:     spec.VarArgs,
	}
}

func (p Parameter) Name() string         { return p.name }
func (p Parameter) Type() Type           { return p.typ }
func (p Parameter) Modifiers() Modifiers { return p.modifiers }
func (p Parameter) IsVarArgs() bool      { return p.varArgs }

func (p Parameter) Annotations() []Annotation { return copyAnnotations(p.annotations) }
func (p Parameter) HasAnnotations() bool      { return p.annotations != nil }

func (p Parameter) Equal(other Parameter) bool {
	return p.name == other.name && p.typ.Equal(other.typ) && p.modifiers == other.modifiers &&
		p.varArgs == other.varArgs && equalAnnotations(p.annotations, other.annotations)
}

// MethodSpec holds the parts of a Method. ReturnType is nil only for
// constructors.
type MethodSpec struct {
	Name        string
	Modifiers   Modifiers
	Parameters  []Parameter
	ReturnType  *Type
	Annotations []Annotation
	Role        Role
}

type Method struct {
	name        string
	modifiers   Modifiers
	parameters  []Parameter
	returnType  *Type
	annotations []Annotation
	role        Role
}

func NewMethod(spec MethodSpec) Method {
	role := spec.Role
	if role == "" {
		role = RolePlain
	}
	return Method{
		name:        spec.Name,
		modifiers:   spec.Modifiers,
		parameters:  append([]Parameter{}, spec.Parameters...),
		returnType:  copyTypePtr(spec.ReturnType),
		annotations: copyAnnotations(spec.Annotations),
		role:        role,
	}
}

func (m Method) Name() string            { return m.name }
func (m Method) Modifiers() Modifiers    { return m.modifiers }
func (m Method) Role() Role              { return m.role }
func (m Method) IsConstructor() bool     { return m.role == RoleConstructor }
func (m Method) Parameters() []Parameter { return append([]Parameter{}, m.parameters...) }

func (m Method) ReturnType() (Type, bool) {
	if m.returnType == nil {
		return Type{}, false
	}
	return *m.returnType, true
}

func (m Method) Annotations() []Annotation { return copyAnnotations(m.annotations) }
func (m Method) HasAnnotations() bool      { return m.annotations != nil }

// WithRole returns a copy of m with its role replaced.
func (m Method) WithRole(role Role) Method {
	c := m
	c.parameters = append([]Parameter{}, m.parameters...)
	c.annotations = copyAnnotations(m.annotations)
	c.role = role
	return c
}

func (m Method) Equal(other Method) bool {
	if m.name != other.name || m.modifiers != other.modifiers || m.role != other.role ||
		!equalTypePtr(m.returnType, other.returnType) ||
		!equalAnnotations(m.annotations, other.annotations) ||
		len(m.parameters) != len(other.parameters) {
		return false
	}
	for i := range m.parameters {
		if !m.parameters[i].Equal(other.parameters[i]) {
			return false
		}
	}
	return true
}

// DeclarationSpec holds the parts of a Declaration. Interfaces is never
// absent; a nil Annotations slice means the declaration had no modifier
// list.
type DeclarationSpec struct {
	Kind        DeclarationKind
	Type        Type
	Modifiers   Modifiers
	Annotations []Annotation
	Interfaces  []Type
	Methods     []Method
	EnumValues  []EnumValue
}

// Declaration is the extracted model of a Java class or enum.
type Declaration struct {
	kind        DeclarationKind
	typ         Type
	modifiers   Modifiers
	annotations []Annotation
	interfaces  []Type
	methods     []Method
	enumValues  []EnumValue
}

func NewDeclaration(spec DeclarationSpec) Declaration {
	d := Declaration{
		kind:        spec.Kind,
		typ:         spec.Type,
		modifiers:   spec.Modifiers,
		annotations: copyAnnotations(spec.Annotations),
		interfaces:  append([]Type{}, spec.Interfaces...),
		methods:     append([]Method{}, spec.Methods...),
	}
	if d.kind == "" {
		d.kind = DeclarationKindClass
	}
	if d.kind == DeclarationKindEnum {
		d.enumValues = append([]EnumValue{}, spec.EnumValues...)
	}
	return d
}

func (d Declaration) Kind() DeclarationKind { return d.kind }
func (d Declaration) IsEnum() bool          { return d.kind == DeclarationKindEnum }
func (d Declaration) Type() Type            { return d.typ }
func (d Declaration) Name() string          { return d.typ.Name() }
func (d Declaration) Modifiers() Modifiers  { return d.modifiers }
func (d Declaration) Interfaces() []Type    { return append([]Type{}, d.interfaces...) }
func (d Declaration) Methods() []Method     { return append([]Method{}, d.methods...) }

func (d Declaration) Annotations() []Annotation { return copyAnnotations(d.annotations) }
func (d Declaration) HasAnnotations() bool      { return d.annotations != nil }

// EnumValues returns the constants of an enum, nil for classes.
func (d Declaration) EnumValues() []EnumValue {
	if d.enumValues == nil {
		return nil
	}
	return append([]EnumValue{}, d.enumValues...)
}

// MethodsWithRole returns the methods classified as role, in declaration
// order.
func (d Declaration) MethodsWithRole(role Role) []Method {
	var out []Method
	for _, m := range d.methods {
		if m.role == role {
			out = append(out, m)
		}
	}
	return out
}

// GeneratedNames returns the simple names of the mapper interface and its
// implementation generated for d.
func (d Declaration) GeneratedNames() []string {
	name := d.typ.SimpleName()
	return []string{name + "Mapper", name + "MapperImpl"}
}

func (d Declaration) Equal(other Declaration) bool {
	if d.kind != other.kind || !d.typ.Equal(other.typ) || d.modifiers != other.modifiers ||
		!equalAnnotations(d.annotations, other.annotations) ||
		len(d.interfaces) != len(other.interfaces) || len(d.methods) != len(other.methods) ||
		len(d.enumValues) != len(other.enumValues) || (d.enumValues == nil) != (other.enumValues == nil) {
		return false
	}
	for i := range d.interfaces {
		if !d.interfaces[i].Equal(other.interfaces[i]) {
			return false
		}
	}
	for i := range d.methods {
		if !d.methods[i].Equal(other.methods[i]) {
			return false
		}
	}
	for i := range d.enumValues {
		if d.enumValues[i] != other.enumValues[i] {
			return false
		}
	}
	return true
}
