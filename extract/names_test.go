package extract

import "testing"

func TestResolve(t *testing.T) {
	f := newFile("com.acme",
		imp("java.util.List"),
		imp("java.util.Map"),
		impStatic("java.util.Collections.emptyList"),
	)
	host := f.add(newClass("Host"))
	host.typeParams = []string{"T"}
	host.nest(newClass("Inner"))
	ctx := NewContext(host, nil)

	tests := []struct {
		written string
		want    string
	}{
		{"List", "java.util.List"},
		{"String", "java.lang.String"},
		{"int", "int"},
		{"T", ""},
		{"Inner", "com.acme.Host.Inner"},
		{"Host", "com.acme.Host"},
		{"Map.Entry", "java.util.Map.Entry"},
		{"java.util.Set", "java.util.Set"},
		{"Sibling", "com.acme.Sibling"},
		{"emptyList", "com.acme.emptyList"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ctx.Resolve(tt.written); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.written, got, tt.want)
		}
	}
}

func TestResolveOnDemandImports(t *testing.T) {
	f := newFile("com.acme", impAll("java.util"))
	host := f.add(newClass("Host"))
	known := map[string]bool{"java.util.List": true, "com.acme.Local": true}

	ctx := NewContext(host, func(name string) bool { return known[name] })
	tests := []struct {
		written string
		want    string
	}{
		{"List", "java.util.List"},
		{"Local", "com.acme.Local"},
		{"String", "java.lang.String"},
		{"Mystery", ""},
	}
	for _, tt := range tests {
		if got := ctx.Resolve(tt.written); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.written, got, tt.want)
		}
	}
}

func TestContextImportList(t *testing.T) {
	f := newFile("com.acme", imp("java.util.List"))
	outer := f.add(newClass("Outer"))
	inner := outer.nest(newClass("Inner"))

	t.Run("top level", func(t *testing.T) {
		if !NewContext(outer, nil).HasImportList() {
			t.Error("HasImportList() = false for a top-level class")
		}
	})

	t.Run("nested class", func(t *testing.T) {
		ctx := NewContext(inner, nil)
		if ctx.HasImportList() {
			t.Error("HasImportList() = true for a nested class")
		}
		if got := ctx.Resolve("List"); got != "com.acme.List" {
			t.Errorf("Resolve(List) = %q, want %q", got, "com.acme.List")
		}
		if got := headerQualifiedName(inner); got != "com.acme.Outer.Inner" {
			t.Errorf("headerQualifiedName() = %q", got)
		}
	})

	t.Run("synthetic class", func(t *testing.T) {
		orphan := newClass("Orphan")
		ctx := NewContext(orphan, nil)
		if ctx.HasImportList() {
			t.Error("HasImportList() = true for a class without parent")
		}
		if got := ctx.Resolve("Orphan"); got != "Orphan" {
			t.Errorf("Resolve(Orphan) = %q", got)
		}
	})
}
