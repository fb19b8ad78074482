package extract

import (
	"testing"

	"github.com/dhamidi/damap/model"
)

func declared(simple, qualified string, args ...model.Type) model.Type {
	return model.NewType(model.TypeSpec{
		Kind:          model.TypeKindDeclared,
		SimpleName:    simple,
		QualifiedName: qualified,
		TypeArgs:      append([]model.Type{}, args...),
	})
}

func plainMethod(name string, ret model.Type, params ...model.Type) model.Method {
	var ps []model.Parameter
	for i, p := range params {
		ps = append(ps, model.NewParameter(model.ParameterSpec{Name: string(rune('a' + i)), Type: p}))
	}
	return model.NewMethod(model.MethodSpec{Name: name, ReturnType: &ret, Parameters: ps})
}

func TestClassify(t *testing.T) {
	str := declared("String", "java.lang.String")
	integer := declared("Integer", "java.lang.Integer")
	guava := declared("Function", "com.google.common.base.Function", str, integer)
	rules := DefaultRules()

	tests := []struct {
		name       string
		method     model.Method
		interfaces []model.Type
		want       model.Role
	}{
		{"matching apply", plainMethod("apply", integer, str), []model.Type{guava}, model.RoleFunctionalAdapterMethod},
		{"wrong name", plainMethod("map", integer, str), []model.Type{guava}, model.RolePlain},
		{"wrong arity", plainMethod("apply", integer, str, str), []model.Type{guava}, model.RolePlain},
		{"wrong parameter", plainMethod("apply", integer, integer), []model.Type{guava}, model.RolePlain},
		{"wrong return", plainMethod("apply", str, str), []model.Type{guava}, model.RolePlain},
		{"no interface", plainMethod("apply", integer, str), nil, model.RolePlain},
		{"raw interface", plainMethod("apply", integer, str), []model.Type{declared("Function", "java.util.function.Function")}, model.RoleFunctionalAdapterMethod},
		{"unresolved simple names", plainMethod("apply", declared("Integer", ""), declared("String", "")), []model.Type{guava}, model.RoleFunctionalAdapterMethod},
		{"mapping interface", plainMethod("apply", integer, str), []model.Type{declared("Function", "fr.javatronic.damapping.util.Function", str, integer), guava}, model.RoleMapperMethod},
		{"constructor", model.NewMethod(model.MethodSpec{Name: "Dummy", Role: model.RoleConstructor}), []model.Type{guava}, model.RoleConstructor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify([]model.Method{tt.method}, tt.interfaces, rules)
			if got[0].Role() != tt.want {
				t.Errorf("Classify() role = %s, want %s", got[0].Role(), tt.want)
			}
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	str := declared("String", "java.lang.String")
	guava := declared("Function", "com.google.common.base.Function", str, str)
	in := []model.Method{plainMethod("apply", str, str), plainMethod("other", str)}

	out := Classify(in, []model.Type{guava}, DefaultRules())
	if in[0].Role() != model.RolePlain {
		t.Errorf("input mutated: role = %s", in[0].Role())
	}
	if len(out) != 2 || out[0].Role() != model.RoleFunctionalAdapterMethod || out[1].Name() != "other" {
		t.Errorf("Classify() = %v", out)
	}
}
