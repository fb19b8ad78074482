package codebase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/damap/cache"
	"github.com/dhamidi/damap/config"
	"github.com/dhamidi/damap/extract"
	"github.com/dhamidi/damap/model"
	"github.com/dhamidi/damap/syntax/treesitter"
)

const personSource = `package com.acme.model;

public class Person {
    private String name;
}
`

const mapperSource = `package com.acme.mapping;

import com.acme.model.*;
import fr.javatronic.damapping.annotation.Mapper;
import fr.javatronic.damapping.util.Function;

@Mapper
public class PersonToName implements Function<Person, String> {
    public String apply(Person person) {
        return null;
    }
}
`

const interfaceSource = `package com.acme.mapping;

import fr.javatronic.damapping.annotation.Mapper;

@Mapper
public interface Broken {
}
`

const plainSource = `package com.acme.mapping;

public class Plain {
}
`

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func setupProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "src/com/acme/model/Person.java", personSource)
	writeFile(t, root, "src/com/acme/mapping/PersonToName.java", mapperSource)
	writeFile(t, root, "src/com/acme/mapping/Broken.java", interfaceSource)
	writeFile(t, root, "src/com/acme/mapping/Plain.java", plainSource)
	writeFile(t, root, "target/generated/Ignored.java", mapperSource)
	writeFile(t, root, ".hidden/Hidden.java", mapperSource)
	writeFile(t, root, "README.md", "not java")
	return root
}

func newTestCodebase(t *testing.T, root string, opts ...Option) *Codebase {
	t.Helper()
	cb, err := FromConfig(root, config.Default(), opts...)
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	return cb
}

func TestSources(t *testing.T) {
	root := setupProject(t)
	cb := newTestCodebase(t, root)

	paths, err := cb.Sources()
	if err != nil {
		t.Fatalf("Sources() error = %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("Sources() = %v", paths)
	}
	for _, p := range paths {
		if strings.Contains(p, "target") || strings.Contains(p, ".hidden") {
			t.Errorf("Sources() includes %s", p)
		}
	}

	single := New(paths[0], extract.DefaultRules())
	if got, _ := single.Sources(); len(got) != 1 || got[0] != paths[0] {
		t.Errorf("Sources() of a file = %v", got)
	}
}

func TestScanAll(t *testing.T) {
	root := setupProject(t)
	cb := newTestCodebase(t, root)

	if err := cb.ScanAll(context.Background()); err != nil {
		t.Fatalf("ScanAll() error = %v", err)
	}
	if len(cb.Files()) != 4 {
		t.Fatalf("Files() = %v", cb.Files())
	}

	known := cb.KnownTypes()
	for _, name := range []string{"com.acme.model.Person", "com.acme.mapping.PersonToName", "com.acme.mapping.Broken"} {
		if !known[name] {
			t.Errorf("KnownTypes() lacks %s", name)
		}
	}

	f := cb.GetFile(filepath.Join(root, "src/com/acme/model/Person.java"))
	if f == nil || f.Hash != cache.Hash([]byte(personSource)) || f.Results != nil {
		t.Errorf("GetFile() = %+v", f)
	}
	if cb.GetFile(filepath.Join(root, "nope.java")) != nil {
		t.Error("GetFile() of an unknown file is not nil")
	}
}

func TestExtractAll(t *testing.T) {
	root := setupProject(t)

	t.Run("mappers", func(t *testing.T) {
		cb := newTestCodebase(t, root)
		if err := cb.ScanAll(context.Background()); err != nil {
			t.Fatal(err)
		}
		results, err := cb.ExtractAll(context.Background())
		if err != nil {
			t.Fatalf("ExtractAll() error = %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("ExtractAll() = %d results, want 2", len(results))
		}

		broken, mapper := results[0], results[1]
		var unsupported *extract.UnsupportedKindError
		if broken.Name != "com.acme.mapping.Broken" || !errors.As(broken.Err, &unsupported) {
			t.Errorf("broken result = %+v", broken)
		}
		if !mapper.OK() || mapper.Name != "com.acme.mapping.PersonToName" {
			t.Fatalf("mapper result = %+v", mapper)
		}

		decl := mapper.Declaration
		methods := decl.MethodsWithRole(model.RoleMapperMethod)
		if len(methods) != 1 || methods[0].Name() != "apply" {
			t.Fatalf("mapper methods = %v", decl.Methods())
		}
		param := methods[0].Parameters()[0].Type()
		if param.QualifiedName() != "com.acme.model.Person" {
			t.Errorf("on-demand import resolved to %q", param.QualifiedName())
		}
		if mapper.Span.Start.Line != 7 {
			t.Errorf("Span = %v, want the name on line 8", mapper.Span)
		}

		if got := cb.Results(); len(got) != 2 {
			t.Errorf("Results() = %d results", len(got))
		}
	})

	t.Run("all", func(t *testing.T) {
		cb := newTestCodebase(t, root, WithAll(true))
		if err := cb.ScanAll(context.Background()); err != nil {
			t.Fatal(err)
		}
		results, err := cb.ExtractAll(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		var names []string
		for _, r := range results {
			if !r.OK() {
				t.Errorf("%s: %v", r.Name, r.Err)
			}
			names = append(names, r.Name)
		}
		want := "com.acme.mapping.PersonToName,com.acme.mapping.Plain,com.acme.model.Person"
		if got := strings.Join(names, ","); got != want {
			t.Errorf("names = %s, want %s", got, want)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		cb := newTestCodebase(t, root)
		if err := cb.ScanAll(context.Background()); err != nil {
			t.Fatal(err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := cb.ExtractAll(ctx); err == nil {
			t.Error("ExtractAll() with a cancelled context succeeded")
		}
	})
}

func TestExtractAllCache(t *testing.T) {
	root := setupProject(t)
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	extractOnce := func() []Result {
		cb := newTestCodebase(t, root, WithCache(store))
		if err := cb.ScanAll(context.Background()); err != nil {
			t.Fatal(err)
		}
		results, err := cb.ExtractAll(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return results
	}

	first := extractOnce()
	stats, err := store.Stats()
	if err != nil {
		t.Fatal(err)
	}
	// Broken.java fails and is not stored.
	if stats.Results != 3 || stats.Declarations != 1 || stats.Files != 3 {
		t.Errorf("Stats() after first run = %+v", stats)
	}

	entries, err := store.FileEntries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("FileEntries() = %v, want 3 entries", entries)
	}
	for _, e := range entries {
		content, err := os.ReadFile(e.Path)
		if err != nil {
			t.Fatal(err)
		}
		if e.Hash != cache.Hash(content) {
			t.Errorf("file index of %s has hash %.12s", e.Path, e.Hash)
		}
		if strings.HasSuffix(e.Path, "Broken.java") {
			t.Error("file index records a file whose extraction failed")
		}
	}

	second := extractOnce()
	if len(first) != len(second) {
		t.Fatalf("second run returned %d results, first %d", len(second), len(first))
	}
	for i := range first {
		if first[i].OK() != second[i].OK() || !first[i].Declaration.Equal(second[i].Declaration) {
			t.Errorf("result %d differs between runs", i)
		}
		if first[i].Span != second[i].Span {
			t.Errorf("span %d differs between runs", i)
		}
	}
}

func TestUpdateAndRemoveFile(t *testing.T) {
	cb := New("/project", extract.DefaultRules())
	path := "/project/A.java"

	if err := cb.UpdateFile(path, []byte(plainSource)); err != nil {
		t.Fatal(err)
	}
	results, err := cb.ExtractFile(context.Background(), path)
	if err != nil || len(results) != 0 {
		t.Fatalf("ExtractFile() = %v, %v", results, err)
	}

	if err := cb.UpdateFile(path, []byte(strings.Replace(mapperSource, "PersonToName", "A", 1))); err != nil {
		t.Fatal(err)
	}
	results, err = cb.ExtractFile(context.Background(), path)
	if err != nil || len(results) != 1 || !results[0].OK() {
		t.Fatalf("ExtractFile() = %v, %v", results, err)
	}
	if got := cb.GetFile(path).Results; len(got) != 1 {
		t.Errorf("stored results = %v", got)
	}

	cb.RemoveFile(path)
	if cb.GetFile(path) != nil {
		t.Error("file still known after RemoveFile()")
	}
	if _, err := cb.ExtractFile(context.Background(), path); err == nil {
		t.Error("ExtractFile() of a removed file succeeded")
	}
}

func TestSyntaxErrorsAreKept(t *testing.T) {
	cb := New("/project", extract.DefaultRules())
	path := "/project/Broken.java"
	src := strings.Replace(mapperSource, "return null;", "return null", 1)
	if err := cb.UpdateFile(path, []byte(src)); err != nil {
		t.Fatal(err)
	}
	f := cb.GetFile(path)
	if len(f.SyntaxErrors) == 0 {
		t.Fatal("no syntax errors recorded")
	}
	if _, err := cb.ExtractFile(context.Background(), path); err != nil {
		t.Fatal(err)
	}

	diags := Diagnostics(cb.GetFile(path))
	var warnings, infos int
	for _, d := range diags {
		switch *d.Severity {
		case protocol.DiagnosticSeverityWarning:
			warnings++
		case protocol.DiagnosticSeverityInformation:
			infos++
			if !strings.Contains(d.Message, "PersonToNameMapperImpl") {
				t.Errorf("info diagnostic = %q", d.Message)
			}
		}
	}
	if warnings == 0 || infos != 1 {
		t.Errorf("Diagnostics() = %+v", diags)
	}
}

func TestDecode(t *testing.T) {
	latin1 := []byte("class Caf\xe9 {}")
	tests := []struct {
		name      string
		content   []byte
		encodings []string
		want      string
		wantErr   bool
	}{
		{"utf8", []byte("class Café {}"), nil, "class Café {}", false},
		{"bom", append([]byte{0xEF, 0xBB, 0xBF}, "class A {}"...), nil, "class A {}", false},
		{"windows-1252", latin1, []string{"utf-8", "windows-1252"}, "class Café {}", false},
		{"no encoding", latin1, []string{"utf-8"}, "", true},
		{"unknown encoding", latin1, []string{"klingon"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decode(tt.content, tt.encodings)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPosition(t *testing.T) {
	content := []byte("class A {\n  String s = \"é😀\"; int x;\n}")
	tests := []struct {
		pos  treesitter.Position
		want protocol.Position
	}{
		{treesitter.Position{Line: 0, Column: 6}, protocol.Position{Line: 0, Character: 6}},
		// "é" is two bytes and one unit, the emoji four bytes and two units.
		{treesitter.Position{Line: 1, Column: 22}, protocol.Position{Line: 1, Character: 19}},
		{treesitter.Position{Line: 2, Column: 50}, protocol.Position{Line: 2, Character: 1}},
		{treesitter.Position{Line: 9, Column: 3}, protocol.Position{Line: 9, Character: 3}},
	}
	for _, tt := range tests {
		if got := position(content, tt.pos); got != tt.want {
			t.Errorf("position(%v) = %+v, want %+v", tt.pos, got, tt.want)
		}
	}
}

func TestURIs(t *testing.T) {
	path, err := uriToPath("file:///home/me/A%20B.java")
	if err != nil || path != "/home/me/A B.java" {
		t.Errorf("uriToPath() = %q, %v", path, err)
	}
	if got := pathToURI("/home/me/A B.java"); got != "file:///home/me/A%20B.java" {
		t.Errorf("pathToURI() = %q", got)
	}
}

func TestFileWatcher(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "A.java", plainSource)

	cb := New(root, extract.DefaultRules())
	var changed, removed []string
	w := NewFileWatcher(cb, func(c, r []string) {
		changed, removed = c, r
	})

	w.scan()
	if len(changed) != 1 || changed[0] != a || cb.GetFile(a) == nil {
		t.Fatalf("first scan changed = %v", changed)
	}

	changed = nil
	w.scan()
	if changed != nil {
		t.Errorf("unchanged tree reported %v", changed)
	}

	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(a, later, later); err != nil {
		t.Fatal(err)
	}
	b := writeFile(t, root, "B.java", mapperSource)
	w.scan()
	if len(changed) != 2 {
		t.Errorf("changed = %v, want %s and %s", changed, a, b)
	}

	if err := os.Remove(a); err != nil {
		t.Fatal(err)
	}
	w.scan()
	if len(removed) != 1 || removed[0] != a || cb.GetFile(a) != nil {
		t.Errorf("removed = %v", removed)
	}
}
