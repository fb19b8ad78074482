package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/damap/extract"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	rules, err := cfg.Rules()
	if err != nil {
		t.Fatalf("Rules() error = %v", err)
	}
	want := extract.DefaultRules()
	if rules.MapperAnnotation != want.MapperAnnotation || rules.MappingInterface != want.MappingInterface {
		t.Errorf("Rules() = %+v, want %+v", rules, want)
	}
	if len(rules.FunctionalInterfaces) != len(want.FunctionalInterfaces) {
		t.Fatalf("FunctionalInterfaces = %v", rules.FunctionalInterfaces)
	}
	for i := range want.FunctionalInterfaces {
		if rules.FunctionalInterfaces[i] != want.FunctionalInterfaces[i] {
			t.Errorf("FunctionalInterfaces[%d] = %+v", i, rules.FunctionalInterfaces[i])
		}
	}
	if cfg.Output.Format != "json" || cfg.Cache.Enabled {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "damap.yaml")
	content := `mapper:
  annotation: com.acme.Mapper
  interface: com.acme.Converter#convert
  functional_interfaces:
    - com.acme.BiMapper#map/2
extract:
  workers: 4
output:
  format: yaml
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	rules, err := cfg.Rules()
	if err != nil {
		t.Fatalf("Rules() error = %v", err)
	}
	if rules.MapperAnnotation != "com.acme.Mapper" {
		t.Errorf("MapperAnnotation = %q", rules.MapperAnnotation)
	}
	if rules.MappingInterface != (extract.InterfaceRule{QualifiedName: "com.acme.Converter", Method: "convert", Arity: 1}) {
		t.Errorf("MappingInterface = %+v", rules.MappingInterface)
	}
	if len(rules.FunctionalInterfaces) != 1 || rules.FunctionalInterfaces[0].Arity != 2 {
		t.Errorf("FunctionalInterfaces = %+v", rules.FunctionalInterfaces)
	}
	if cfg.Extract.Workers != 4 || cfg.Output.Format != "yaml" {
		t.Errorf("config = %+v", cfg)
	}
	if len(cfg.Extract.ExcludeDirs) == 0 {
		t.Error("defaults lost for keys missing from the file")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() of a missing explicit file succeeded")
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DAMAP_OUTPUT_FORMAT", "line")
	t.Setenv("DAMAP_MAPPER_ANNOTATION", "org.example.Mapper")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Format != "line" || cfg.Mapper.Annotation != "org.example.Mapper" {
		t.Errorf("environment ignored: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty annotation", func(c *Config) { c.Mapper.Annotation = " " }},
		{"interface without method", func(c *Config) { c.Mapper.Interface = "com.acme.Function" }},
		{"bad arity", func(c *Config) { c.Mapper.FunctionalInterfaces = []string{"a.B#c/x"} }},
		{"negative workers", func(c *Config) { c.Extract.Workers = -1 }},
		{"unknown encoding", func(c *Config) { c.Source.Encodings = []string{"klingon"} }},
		{"cache without path", func(c *Config) { c.Cache.Enabled, c.Cache.Path = true, "" }},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() succeeded")
			}
		})
	}
}

func TestShouldExclude(t *testing.T) {
	cfg := Default()
	tests := []struct {
		dir  string
		want bool
	}{
		{"project/target", true},
		{".git", true},
		{"src/main/java", false},
	}
	for _, tt := range tests {
		if got := cfg.ShouldExclude(tt.dir); got != tt.want {
			t.Errorf("ShouldExclude(%q) = %v, want %v", tt.dir, got, tt.want)
		}
	}
}
