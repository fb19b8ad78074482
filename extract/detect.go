package extract

import (
	"strings"

	"github.com/dhamidi/damap/syntax"
)

// HasMapperAnnotation reports whether decl is annotated with the marker
// annotation, written either as its simple name backed by a single-type or
// on-demand import of the marker, or fully qualified.
func HasMapperAnnotation(decl syntax.ClassDecl, marker string) bool {
	mods := decl.Modifiers()
	if mods == nil || marker == "" {
		return false
	}
	simpleText := "@" + lastSegment(marker)
	qualifiedText := "@" + marker
	imported := importsMarker(importListOf(decl), marker)

	for _, ann := range mods.Annotations() {
		text := ann.Text()
		if text == qualifiedText || (text == simpleText && imported) {
			return true
		}
	}
	return false
}

func importsMarker(il syntax.ImportList, marker string) bool {
	if il == nil {
		return false
	}
	pkg := ""
	if i := strings.LastIndexByte(marker, '.'); i >= 0 {
		pkg = marker[:i]
	}
	for _, imp := range il.Imports() {
		if imp.Static {
			continue
		}
		if !imp.OnDemand && imp.Name == marker {
			return true
		}
		if imp.OnDemand && imp.Name == pkg {
			return true
		}
	}
	return false
}
