package extract

import (
	"github.com/dhamidi/damap/model"
	"github.com/dhamidi/damap/syntax"
)

var modifierKeywords = map[string]model.Modifier{
	"public":       model.ModifierPublic,
	"protected":    model.ModifierProtected,
	"private":      model.ModifierPrivate,
	"abstract":     model.ModifierAbstract,
	"default":      model.ModifierDefault,
	"static":       model.ModifierStatic,
	"final":        model.ModifierFinal,
	"transient":    model.ModifierTransient,
	"volatile":     model.ModifierVolatile,
	"synchronized": model.ModifierSynchronized,
	"native":       model.ModifierNative,
	"strictfp":     model.ModifierStrictfp,
	"sealed":       model.ModifierSealed,
	"non-sealed":   model.ModifierNonSealed,
}

// Modifiers returns the modifiers written in list. Unknown keywords are
// ignored and a nil list yields the empty set; nothing implicit is added.
func Modifiers(list syntax.ModifierList) model.Modifiers {
	var mods model.Modifiers
	if list == nil {
		return mods
	}
	for _, kw := range list.Keywords() {
		if m, ok := modifierKeywords[kw]; ok {
			mods = mods.With(m)
		}
	}
	return mods
}
