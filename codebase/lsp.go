package codebase

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/damap/config"
	"github.com/dhamidi/damap/syntax/treesitter"
)

const lsName = "damap"

// LSPServer reports mapper extraction results as diagnostics of the
// documents an editor opens, changes or saves.
type LSPServer struct {
	cfg      *config.Config
	opts     []Option
	codebase *Codebase
	handler  protocol.Handler
	server   *server.Server
	version  string

	mu   sync.Mutex
	uris map[string]protocol.DocumentUri
}

func NewLSPServer(version string, cfg *config.Config, opts ...Option) *LSPServer {
	ls := &LSPServer{
		cfg:     cfg,
		opts:    opts,
		version: version,
		uris:    make(map[string]protocol.DocumentUri),
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	cb, err := FromConfig(rootDir, ls.cfg, ls.opts...)
	if err != nil {
		return nil, err
	}
	ls.codebase = cb

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(context.Background()); err != nil {
		log.Errorf("scan %s: %s", ls.codebase.RootDir(), err)
		return nil
	}
	if _, err := ls.codebase.ExtractAll(context.Background()); err != nil {
		log.Errorf("extract %s: %s", ls.codebase.RootDir(), err)
		return nil
	}
	for _, path := range ls.codebase.Files() {
		if f := ls.codebase.GetFile(path); f != nil && (len(f.Results) > 0 || len(f.SyntaxErrors) > 0) {
			ls.publish(ctx, path)
		}
	}
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.refresh(ctx, params.TextDocument.URI, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		ls.refresh(ctx, params.TextDocument.URI, []byte(whole.Text))
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.refresh(ctx, params.TextDocument.URI, []byte(*params.Text))
		return nil
	}
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if err := ls.codebase.ScanFile(path); err != nil {
		log.Warningf("%s", err)
		return nil
	}
	ls.extractAndPublish(ctx, path)
	return nil
}

func (ls *LSPServer) refresh(ctx *glsp.Context, uri protocol.DocumentUri, content []byte) {
	path, err := uriToPath(uri)
	if err != nil {
		return
	}
	ls.mu.Lock()
	ls.uris[path] = uri
	ls.mu.Unlock()

	if err := ls.codebase.UpdateFile(path, content); err != nil {
		log.Warningf("%s", err)
		return
	}
	ls.extractAndPublish(ctx, path)
}

func (ls *LSPServer) extractAndPublish(ctx *glsp.Context, path string) {
	if _, err := ls.codebase.ExtractFile(context.Background(), path); err != nil {
		log.Warningf("%s", err)
		return
	}
	ls.publish(ctx, path)
}

func (ls *LSPServer) publish(ctx *glsp.Context, path string) {
	f := ls.codebase.GetFile(path)
	if f == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         ls.uriOf(path),
		Diagnostics: Diagnostics(f),
	})
}

func (ls *LSPServer) uriOf(path string) protocol.DocumentUri {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if uri, ok := ls.uris[path]; ok {
		return uri
	}
	return pathToURI(path)
}

// Diagnostics reports the syntax errors and extraction results of a file.
// Extracted mappers are listed with the names of what gets generated.
func Diagnostics(f *FileInfo) []protocol.Diagnostic {
	diags := []protocol.Diagnostic{}
	for _, e := range f.SyntaxErrors {
		diags = append(diags, diagnostic(f.Content, e.Span, protocol.DiagnosticSeverityWarning, e.Message))
	}
	for _, r := range f.Results {
		if !r.OK() {
			diags = append(diags, diagnostic(f.Content, r.Span, protocol.DiagnosticSeverityError, r.Err.Error()))
			continue
		}
		msg := fmt.Sprintf("mapper %s generates %s", r.Name, strings.Join(r.Declaration.GeneratedNames(), ", "))
		diags = append(diags, diagnostic(f.Content, r.Span, protocol.DiagnosticSeverityInformation, msg))
	}
	return diags
}

func diagnostic(content []byte, span treesitter.Span, severity protocol.DiagnosticSeverity, message string) protocol.Diagnostic {
	source := lsName
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: position(content, span.Start),
			End:   position(content, span.End),
		},
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
}

// position converts a byte column into the UTF-16 column editors count in.
func position(content []byte, pos treesitter.Position) protocol.Position {
	lines := strings.SplitN(string(content), "\n", pos.Line+2)
	col := pos.Column
	if pos.Line < len(lines) {
		line := lines[pos.Line]
		if col > len(line) {
			col = len(line)
		}
		units := 0
		for _, r := range line[:col] {
			units += utf16.RuneLen(r)
		}
		col = units
	}
	return protocol.Position{
		Line:      protocol.UInteger(pos.Line),
		Character: protocol.UInteger(col),
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
