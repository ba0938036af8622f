// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes library tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/qvlib/internal/apperr"
	"github.com/starford/qvlib/internal/noteservice"
)

// FormatURI is the resource URI of the markup format contract.
const FormatURI = "qvlib://markup-format"

// Server wraps the MCP server with library tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all library tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"qvlib",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notebooks",
		mcp.WithDescription("List the notebooks of the library with their uuid and name."),
	), s.listNotebooks)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List the notes of one notebook."),
		mcp.WithString("notebook", mcp.Required(), mcp.Description("Notebook uuid (see list_notebooks)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a note as a markup document. The format is described by "+
			"the get_markup_format tool and the "+FormatURI+" resource."),
		mcp.WithString("uuid", mcp.Required(), mcp.Description("Note uuid")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("write_note",
		mcp.WithDescription("Replace the cells of an existing note. Content MUST follow the "+
			"markup format; read the contract first via get_markup_format."),
		mcp.WithString("uuid", mcp.Required(), mcp.Description("Note uuid")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markup document")),
	), s.writeNote)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Full-text search through note titles and cells."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("get_markup_format",
		mcp.WithDescription("Returns the markup format contract used by read_note and write_note."),
	), s.getMarkupFormat)

	s.mcp.AddResource(
		mcp.NewResource(FormatURI, "Markup Format Contract",
			mcp.WithResourceDescription("Cell markup format used to read and write notes."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
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

func (s *Server) listNotebooks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.Notebooks(ctx)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(items), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nb, err := req.RequireString("notebook")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items, err := s.svc.Notes(ctx, nb)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(items), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uuid, err := req.RequireString("uuid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	md, err := s.svc.Markup(ctx, uuid)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(md.Text), nil
}

func (s *Server) writeNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uuid, err := req.RequireString("uuid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	md, err := s.svc.SaveMarkup(ctx, uuid, content)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %s (checksum %s)", md.UUID, md.Checksum)), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 20)
	results, err := s.svc.Search(ctx, query, limit)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(results), nil
}

func (s *Server) getMarkupFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(MarkupFormatContract), nil
}

func (s *Server) readFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FormatURI,
			MIMEType: "text/markdown",
			Text:     MarkupFormatContract,
		},
	}, nil
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

// toolError turns a service error into a tool-level error result.
func toolError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrNotFound) && apperr.PathOf(err) == "":
		return mcp.NewToolResultError("not found")
	case errors.Is(err, noteservice.ErrSearchDisabled):
		return mcp.NewToolResultError("search index is disabled")
	default:
		return mcp.NewToolResultError(err.Error())
	}
}
