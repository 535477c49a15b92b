// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes ghform tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ghform/internal/apperr"
	"github.com/starford/ghform/internal/formservice"
)

// SyntaxResourceURI identifies the issue form syntax reference.
const SyntaxResourceURI = "ghform://issue-form-syntax"

// defaultFile names inline content passed without a file name.
const defaultFile = "form.yml"

// Server wraps the MCP server with ghform tools.
type Server struct {
	mcp *server.MCPServer
	svc *formservice.Service
}

// New creates a new MCP server with all ghform tools registered.
func New(svc *formservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"ghform",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List the issue templates in the template directory with their kind, name, labels and field count."),
	), s.listTemplates)

	s.mcp.AddTool(mcp.NewTool("render_template",
		mcp.WithDescription("Render an issue form (or config.yml) to the HTML preview page. "+
			"Pass either the name of a stored template or inline YAML content."),
		mcp.WithString("name", mcp.Description("Template name, with or without the .yml/.yaml extension")),
		mcp.WithString("content", mcp.Description("Inline issue form YAML; used instead of name when set")),
		mcp.WithString("file", mcp.Description("File name to treat inline content as (config.yml renders the chooser)")),
	), s.renderTemplate)

	s.mcp.AddTool(mcp.NewTool("check_template",
		mcp.WithDescription("Decode and lint an issue form. Returns \"ok\" or one finding per line. "+
			"Read the syntax first via get_issue_form_syntax or the "+SyntaxResourceURI+" resource."),
		mcp.WithString("name", mcp.Description("Template name, with or without the .yml/.yaml extension")),
		mcp.WithString("content", mcp.Description("Inline issue form YAML; used instead of name when set")),
		mcp.WithString("file", mcp.Description("File name to treat inline content as")),
	), s.checkTemplate)

	s.mcp.AddTool(mcp.NewTool("search_templates",
		mcp.WithDescription("Full-text search through template names, descriptions and labels."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
	), s.searchTemplates)

	s.mcp.AddTool(mcp.NewTool("get_issue_form_syntax",
		mcp.WithDescription("Returns the issue form syntax reference. "+
			"Call this before writing or fixing templates."),
	), s.getSyntax)

	s.mcp.AddResource(
		mcp.NewResource(SyntaxResourceURI, "Issue Form Syntax",
			mcp.WithResourceDescription("Supported issue form keys, field types and config.yml layout."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSyntaxResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listTemplates(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.Templates(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

// source returns the file name and bytes a render or check request refers to.
func (s *Server) source(ctx context.Context, req mcp.CallToolRequest) (string, []byte, error) {
	if content := req.GetString("content", ""); content != "" {
		return req.GetString("file", defaultFile), []byte(content), nil
	}
	name := req.GetString("name", "")
	if name == "" {
		return "", nil, errors.New("either name or content is required")
	}
	file, data, err := s.svc.Resolve(ctx, name)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", nil, fmt.Errorf("not found: %s", name)
	}
	return file, data, err
}

func (s *Server) renderTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, data, err := s.source(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	html, err := s.svc.RenderBytes(file, data)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(html), nil
}

func (s *Server) checkTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, data, err := s.source(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := formservice.CheckBytes(file, data)
	if res.Err == nil {
		return mcp.NewToolResultText("ok"), nil
	}
	return mcp.NewToolResultText(strings.Join(findings(res.Err), "\n")), nil
}

// findings flattens a lint result into one line per problem.
func findings(err error) []string {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return []string{err.Error()}
	}
	lines := make([]string, 0, len(merr.Errors))
	for _, e := range merr.Errors {
		lines = append(lines, e.Error())
	}
	return lines
}

func (s *Server) searchTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, req.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getSyntax(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(IssueFormSyntax), nil
}

func (s *Server) readSyntaxResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      SyntaxResourceURI,
			MIMEType: "text/markdown",
			Text:     IssueFormSyntax,
		},
	}, nil
}
