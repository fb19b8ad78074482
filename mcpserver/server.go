// Package mcpserver exposes mapper extraction as MCP tools.
package mcpserver

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/damap/codebase"
	"github.com/dhamidi/damap/config"
	"github.com/dhamidi/damap/format"
)

var log = commonlog.GetLogger("damap.mcp")

// Server answers tool calls about the sources below a project root.
type Server struct {
	mcpServer *server.MCPServer
	cfg       *config.Config
	codebase  *codebase.Codebase

	// Scans and extractions of the project are not run concurrently.
	mu sync.Mutex
}

var Tools = []string{"extract_source", "extract_file", "list_mappers"}

func New(version, rootDir string, cfg *config.Config, opts ...codebase.Option) (*Server, error) {
	cb, err := codebase.FromConfig(rootDir, cfg, opts...)
	if err != nil {
		return nil, err
	}

	s := &Server{
		mcpServer: server.NewMCPServer("damap", version, server.WithToolCapabilities(false)),
		cfg:       cfg,
		codebase:  cb,
	}
	s.registerExtractSourceTool()
	s.registerExtractFileTool()
	s.registerListMappersTool()
	return s, nil
}

func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerExtractSourceTool() {
	tool := mcp.NewTool("extract_source",
		mcp.WithDescription("Extract the mapper declarations of a Java compilation unit given as text."),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Java source of one compilation unit"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: json, yaml or line (default: configured format)"),
		),
		mcp.WithBoolean("all",
			mcp.Description("Extract every class and enum, not only @Mapper classes"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleExtractSource)
}

func (s *Server) registerExtractFileTool() {
	tool := mcp.NewTool("extract_file",
		mcp.WithDescription("Extract the mapper declarations of a file of the project, resolving names against the whole project."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the file, relative to the project root"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: json, yaml or line (default: configured format)"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleExtractFile)
}

func (s *Server) registerListMappersTool() {
	tool := mcp.NewTool("list_mappers",
		mcp.WithDescription("List the mapper classes of the project with the names of the generated mapper and implementation."),
	)
	s.mcpServer.AddTool(tool, s.handleListMappers)
}

func (s *Server) handleExtractSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	source, ok := args["source"].(string)
	if !ok || source == "" {
		return mcp.NewToolResultError("source parameter is required"), nil
	}
	all, _ := args["all"].(bool)

	rules, err := s.cfg.Rules()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cb := codebase.New("", rules, codebase.WithAll(all), codebase.WithEncodings(s.cfg.Source.Encodings...))
	const path = "Source.java"
	if err := cb.UpdateFile(path, []byte(source)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := cb.ExtractFile(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := s.encode(s.formatArg(args), results)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleExtractFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	rel, ok := args["path"].(string)
	if !ok || rel == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}
	path := rel
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.codebase.RootDir(), rel)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.codebase.Files()) == 0 {
		if err := s.codebase.ScanAll(ctx); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if err := s.codebase.ScanFile(path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.codebase.ExtractFile(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := s.encode(s.formatArg(args), results)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleListMappers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.codebase.ScanAll(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.codebase.ExtractAll(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no mappers found"), nil
	}

	var b strings.Builder
	for _, r := range results {
		loc := fmt.Sprintf("%s:%s", s.relative(r.Path), r.Span.Start)
		if !r.OK() {
			fmt.Fprintf(&b, "%s\t%s\terror: %s\n", r.Name, loc, r.Err)
			continue
		}
		fmt.Fprintf(&b, "%s\t%s\t%s\n", r.Name, loc, strings.Join(r.Declaration.GeneratedNames(), ","))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) formatArg(args map[string]any) string {
	if f, ok := args["format"].(string); ok && f != "" {
		return f
	}
	return s.cfg.Output.Format
}

// encode writes the extracted declarations in the named format, followed
// by one line per failed declaration.
func (s *Server) encode(name string, results []codebase.Result) (string, error) {
	var buf bytes.Buffer
	enc, err := format.New(name, &buf)
	if err != nil {
		return "", err
	}
	var failures []string
	for _, r := range results {
		if !r.OK() {
			failures = append(failures, fmt.Sprintf("error: %s: %s", r.Name, r.Err))
			continue
		}
		if err := enc.Encode(r.Declaration); err != nil {
			return "", err
		}
	}
	for _, f := range failures {
		log.Infof("%s", f)
		buf.WriteString(f + "\n")
	}
	if buf.Len() == 0 {
		return "no mappers found", nil
	}
	return buf.String(), nil
}

func (s *Server) relative(path string) string {
	if rel, err := filepath.Rel(s.codebase.RootDir(), path); err == nil {
		return rel
	}
	return path
}
