package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dhamidi/damap/config"
)

const mapperSource = `package com.acme;

import fr.javatronic.damapping.annotation.Mapper;

@Mapper
public class PersonToName {
    public String apply(Person person) {
        return null;
    }
}
`

func setupServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "src", "com", "acme")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "PersonToName.java"), []byte(mapperSource), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := New("test", root, config.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s, root
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T", res.Content[0])
	}
	return text.Text
}

func TestExtractSource(t *testing.T) {
	s, _ := setupServer(t)

	tests := []struct {
		name    string
		args    map[string]any
		want    string
		isError bool
	}{
		{"json", map[string]any{"source": mapperSource}, `"qualifiedName": "com.acme.PersonToName"`, false},
		{"line", map[string]any{"source": mapperSource, "format": "line"}, "class\tcom.acme.PersonToName\tpublic\tPersonToNameMapper,PersonToNameMapperImpl", false},
		{"no mapper", map[string]any{"source": "class Plain {}"}, "no mappers found", false},
		{"all", map[string]any{"source": "class Plain {}", "all": true, "format": "line"}, "class\tPlain\t-", false},
		{"interface", map[string]any{"source": strings.Replace(mapperSource, "class", "interface", 1)}, "error: com.acme.PersonToName", false},
		{"missing source", map[string]any{}, "source parameter is required", true},
		{"bad format", map[string]any{"source": mapperSource, "format": "xml"}, "xml", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.handleExtractSource(context.Background(), call(tt.args))
			if err != nil {
				t.Fatalf("handler error = %v", err)
			}
			if res.IsError != tt.isError {
				t.Errorf("IsError = %v, want %v", res.IsError, tt.isError)
			}
			if got := resultText(t, res); !strings.Contains(got, tt.want) {
				t.Errorf("result = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestExtractFile(t *testing.T) {
	s, _ := setupServer(t)

	res, err := s.handleExtractFile(context.Background(), call(map[string]any{
		"path":   "src/com/acme/PersonToName.java",
		"format": "yaml",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(t, res); res.IsError || !strings.Contains(got, "simpleName: PersonToName") {
		t.Errorf("result = %q", got)
	}

	res, _ = s.handleExtractFile(context.Background(), call(map[string]any{"path": "src/Missing.java"}))
	if !res.IsError {
		t.Error("extracting a missing file succeeded")
	}
}

func TestListMappers(t *testing.T) {
	s, _ := setupServer(t)

	res, err := s.handleListMappers(context.Background(), call(nil))
	if err != nil {
		t.Fatal(err)
	}
	want := "com.acme.PersonToName\t" + filepath.Join("src", "com", "acme", "PersonToName.java") + ":6:14\tPersonToNameMapper,PersonToNameMapperImpl\n"
	if got := resultText(t, res); got != want {
		t.Errorf("list_mappers = %q, want %q", got, want)
	}
}
