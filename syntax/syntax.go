// Package syntax defines the read-only view of a Java syntax tree that the
// extractor works on. Implementations may be backed by a full parse of a
// file or by a live editor tree with unresolved or missing pieces.
package syntax

// Scope is the structural parent of a class declaration.
type Scope interface {
	// ImportList returns the import list held directly by the scope, nil
	// when there is none.
	ImportList() ImportList
}

type File interface {
	Scope
	PackageName() string
	Classes() []ClassDecl
}

type ImportList interface {
	Imports() []Import
}

type Import struct {
	// Name is the imported name without a trailing ".*".
	Name     string
	Static   bool
	OnDemand bool
}

type ClassDecl interface {
	Scope
	Name() string
	// Parent returns the file or enclosing class, nil for synthetic nodes.
	Parent() Scope
	PackageName() string
	IsInterface() bool
	IsAnnotationType() bool
	IsEnum() bool
	// Modifiers returns nil when the declaration has no modifier list.
	Modifiers() ModifierList
	// Implements returns the references of the implements clause. ok is
	// false when the declaration carries no implements list at all.
	Implements() (refs []Reference, ok bool)
	EnumConstants() []EnumConstant
	Methods() []MethodDecl
	Fields() []Field
	Classes() []ClassDecl
	TypeParameters() []string
}

type EnumConstant interface {
	// Name returns "" when the constant has no name node.
	Name() string
}

type Field interface {
	Name() string
	Modifiers() ModifierList
	Initializer() Expr
}

type MethodDecl interface {
	Name() string
	IsConstructor() bool
	Modifiers() ModifierList
	// Parameters returns ok false when the method has no parameter list.
	Parameters() (params []Parameter, ok bool)
	// ReturnType returns nil for constructors and incomplete methods.
	ReturnType() TypeElement
	TypeParameters() []string
}

type Parameter interface {
	Name() string
	// Type returns nil when the parameter has no type node.
	Type() TypeElement
	Modifiers() ModifierList
	IsVarArgs() bool
}

// TypeElement is a type as written in source.
type TypeElement interface {
	Text() string
	IsVoid() bool
	IsPrimitive() bool
	IsArray() bool
	IsWildcard() bool
	IsExtendsWildcard() bool
	// Children returns the nested type elements: the component of an array
	// or the bound of a wildcard.
	Children() []TypeElement
	// Reference returns the innermost component reference, nil for void,
	// primitives and wildcards.
	Reference() Reference
}

type Reference interface {
	// Name returns the last segment of the referenced name.
	Name() string
	// QualifiedText returns the referenced name as written, without type
	// arguments.
	QualifiedText() string
	// TypeArguments returns ok false when the reference has no parameter
	// list.
	TypeArguments() (args []TypeElement, ok bool)
}

type ModifierList interface {
	Keywords() []string
	Annotations() []Annotation
}

type Annotation interface {
	// Name returns the annotation name as written, simple or qualified.
	Name() string
	Text() string
	Arguments() []AnnotationArgument
}

type AnnotationArgument struct {
	// Name is "" for the single unnamed argument.
	Name  string
	Value Expr
}

type ExprKind int

const (
	ExprOther ExprKind = iota
	ExprLiteral
	ExprReference
	ExprClassLiteral
	ExprArray
)

type LiteralKind int

const (
	LiteralNone LiteralKind = iota
	LiteralInt
	LiteralLong
	LiteralFloat
	LiteralDouble
	LiteralBoolean
	LiteralChar
	LiteralString
	LiteralNull
)

// Expr is an expression used as an annotation argument or a field
// initializer. Which accessors are meaningful depends on Kind.
type Expr interface {
	Kind() ExprKind
	Text() string
	LiteralKind() LiteralKind
	// Qualifier and Identifier split a reference such as Color.RED.
	Qualifier() string
	Identifier() string
	ClassType() TypeElement
	Elements() []Expr
}
