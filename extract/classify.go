package extract

import (
	"github.com/dhamidi/damap/model"
)

// InterfaceRule names a single-method interface by its qualified name and
// the name and arity of its method.
type InterfaceRule struct {
	QualifiedName string
	Method        string
	Arity         int
}

// Rules configures what a mapper is made of.
type Rules struct {
	MapperAnnotation     string
	MappingInterface     InterfaceRule
	FunctionalInterfaces []InterfaceRule
}

func DefaultRules() Rules {
	return Rules{
		MapperAnnotation: "fr.javatronic.damapping.annotation.Mapper",
		MappingInterface: InterfaceRule{
			QualifiedName: "fr.javatronic.damapping.util.Function",
			Method:        "apply",
			Arity:         1,
		},
		FunctionalInterfaces: []InterfaceRule{
			{QualifiedName: "com.google.common.base.Function", Method: "apply", Arity: 1},
			{QualifiedName: "java.util.function.Function", Method: "apply", Arity: 1},
		},
	}
}

// Classify assigns a role to each method given the interfaces its
// declaration implements. Methods are returned in the same order; the input
// is left untouched.
func Classify(methods []model.Method, interfaces []model.Type, rules Rules) []model.Method {
	out := make([]model.Method, len(methods))
	for i, m := range methods {
		out[i] = m.WithRole(roleOf(m, interfaces, rules))
	}
	return out
}

func roleOf(m model.Method, interfaces []model.Type, rules Rules) model.Role {
	if m.IsConstructor() {
		return model.RoleConstructor
	}
	if implementsMatching(m, interfaces, []InterfaceRule{rules.MappingInterface}) {
		return model.RoleMapperMethod
	}
	if implementsMatching(m, interfaces, rules.FunctionalInterfaces) {
		return model.RoleFunctionalAdapterMethod
	}
	return model.RolePlain
}

func implementsMatching(m model.Method, interfaces []model.Type, rules []InterfaceRule) bool {
	for _, rule := range rules {
		if rule.QualifiedName == "" {
			continue
		}
		for _, iface := range interfaces {
			if iface.QualifiedName() == rule.QualifiedName && matchesSignature(m, iface, rule) {
				return true
			}
		}
	}
	return false
}

// matchesSignature checks the method against the single method of iface.
// With type arguments, the leading arguments are the parameter types and
// the last one is the return type.
func matchesSignature(m model.Method, iface model.Type, rule InterfaceRule) bool {
	params := m.Parameters()
	if m.Name() != rule.Method || len(params) != rule.Arity {
		return false
	}
	args := iface.TypeArgs()
	if len(args) != rule.Arity+1 {
		return true
	}
	for i, p := range params {
		if !sameType(p.Type(), args[i]) {
			return false
		}
	}
	ret, ok := m.ReturnType()
	return ok && sameType(ret, args[len(args)-1])
}

// sameType compares two descriptors by qualified name, falling back to the
// simple name when either side is unresolved.
func sameType(a, b model.Type) bool {
	if a.IsArray() != b.IsArray() {
		return false
	}
	if a.IsArray() {
		ae, _ := a.Element()
		be, _ := b.Element()
		return sameType(ae, be)
	}
	if a.HasQualifiedName() && b.HasQualifiedName() {
		if a.QualifiedName() != b.QualifiedName() {
			return false
		}
	} else if a.SimpleName() != b.SimpleName() {
		return false
	}
	aa, ba := a.TypeArgs(), b.TypeArgs()
	if len(aa) == 0 || len(ba) == 0 {
		return true
	}
	if len(aa) != len(ba) {
		return false
	}
	for i := range aa {
		if !sameType(aa[i], ba[i]) {
			return false
		}
	}
	return true
}
