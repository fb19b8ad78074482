package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/dhamidi/damap/codebase"
	"github.com/dhamidi/damap/config"
	"github.com/dhamidi/damap/format"
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

func runCmd(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("mapper", func(t *testing.T) {
		path := writeSource(t, "PersonToName.java", mapperSource)
		out, _, err := runCmd(t, newExtractCmd(), "-q", "-f", "line", path)
		if err != nil {
			t.Fatalf("extract error = %v", err)
		}
		if !strings.HasPrefix(out, "class\tcom.acme.PersonToName\tpublic\tPersonToNameMapper,PersonToNameMapperImpl\n") {
			t.Errorf("output = %q", out)
		}
		if !strings.Contains(out, "method\tapply\tjava.lang.String\tcom.acme.Person\tpublic\tPLAIN\n") {
			t.Errorf("output lacks the apply method: %q", out)
		}
	})

	t.Run("failure", func(t *testing.T) {
		path := writeSource(t, "Broken.java", strings.Replace(mapperSource, "class", "interface", 1))
		out, errOut, err := runCmd(t, newExtractCmd(), "-q", path)
		if err == nil {
			t.Fatal("extract of an annotated interface succeeded")
		}
		if out != "" || !strings.Contains(errOut, "interface PersonToName annotated with @Mapper is not supported") {
			t.Errorf("stdout = %q, stderr = %q", out, errOut)
		}
	})

	t.Run("bad format", func(t *testing.T) {
		path := writeSource(t, "PersonToName.java", mapperSource)
		if _, _, err := runCmd(t, newExtractCmd(), "-f", "xml", path); err == nil {
			t.Error("extract with an unknown format succeeded")
		}
	})
}

func TestExtractRootKeepsOptions(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := filepath.Dir(writeSource(t, "PersonToName.java", mapperSource))
	enc, err := format.New("line", io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetErr(io.Discard)

	opts := make([]codebase.Option, 0, 1)
	if _, err := extractRoot(cmd, dir, config.Default(), enc, false, opts); err != nil {
		t.Fatalf("extractRoot() error = %v", err)
	}
	if opts[:1][0] != nil {
		t.Error("extractRoot() wrote its progress option into the caller's slice")
	}
}

func TestParseCommand(t *testing.T) {
	path := writeSource(t, "PersonToName.java", mapperSource)

	out, _, err := runCmd(t, newParseCmd(), path)
	if err != nil || !strings.HasPrefix(out, "(program") {
		t.Errorf("parse = %q, %v", out, err)
	}

	out, _, err = runCmd(t, newParseCmd(), "--outline", path)
	if err != nil || out != "class PersonToName 6:14\n" {
		t.Errorf("parse --outline = %q, %v", out, err)
	}
}
