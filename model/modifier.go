package model

import "strings"

type Modifier uint16

const (
	ModifierPublic Modifier = 1 << iota
	ModifierProtected
	ModifierPrivate
	ModifierPackage
	ModifierAbstract
	ModifierDefault
	ModifierStatic
	ModifierFinal
	ModifierTransient
	ModifierVolatile
	ModifierSynchronized
	ModifierNative
	ModifierStrictfp
	ModifierSealed
	ModifierNonSealed
)

// canonical order
var allModifiers = []Modifier{
	ModifierPublic, ModifierProtected, ModifierPrivate, ModifierPackage,
	ModifierAbstract, ModifierDefault, ModifierStatic, ModifierFinal,
	ModifierTransient, ModifierVolatile, ModifierSynchronized, ModifierNative,
	ModifierStrictfp, ModifierSealed, ModifierNonSealed,
}

var modifierNames = map[Modifier]string{
	ModifierPublic:       "PUBLIC",
	ModifierProtected:    "PROTECTED",
	ModifierPrivate:      "PRIVATE",
	ModifierPackage:      "PACKAGE",
	ModifierAbstract:     "ABSTRACT",
	ModifierDefault:      "DEFAULT",
	ModifierStatic:       "STATIC",
	ModifierFinal:        "FINAL",
	ModifierTransient:    "TRANSIENT",
	ModifierVolatile:     "VOLATILE",
	ModifierSynchronized: "SYNCHRONIZED",
	ModifierNative:       "NATIVE",
	ModifierStrictfp:     "STRICTFP",
	ModifierSealed:       "SEALED",
	ModifierNonSealed:    "NON_SEALED",
}

func (m Modifier) String() string {
	if name, ok := modifierNames[m]; ok {
		return name
	}
	return "UNKNOWN"
}

func ParseModifier(name string) (Modifier, bool) {
	for m, n := range modifierNames {
		if n == name {
			return m, true
		}
	}
	return 0, false
}

// Modifiers is an immutable set of modifiers.
type Modifiers struct {
	bits Modifier
}

func NewModifiers(mods ...Modifier) Modifiers {
	var s Modifiers
	for _, m := range mods {
		s.bits |= m
	}
	return s
}

func (s Modifiers) Has(m Modifier) bool { return s.bits&m != 0 }
func (s Modifiers) IsEmpty() bool       { return s.bits == 0 }

func (s Modifiers) With(m Modifier) Modifiers {
	return Modifiers{bits: s.bits | m}
}

// List returns the members in canonical order.
func (s Modifiers) List() []Modifier {
	out := []Modifier{}
	for _, m := range allModifiers {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

func (s Modifiers) Names() []string {
	mods := s.List()
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.String()
	}
	return names
}

func (s Modifiers) String() string {
	return strings.Join(s.Names(), ",")
}
