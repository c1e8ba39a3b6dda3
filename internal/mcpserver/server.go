// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Ansuz sync tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/metadata"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/remote"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/syncer"
)

// Server wraps the MCP server with Ansuz tools.
type Server struct {
	mcp    *server.MCPServer
	engine *syncer.Engine
	store  storage.Provider
	remote remote.Store
	opts   metadata.Options
}

// New creates a new MCP server with all Ansuz tools registered.
func New(engine *syncer.Engine, store storage.Provider, rem remote.Store, opts metadata.Options) *Server {
	s := &Server{engine: engine, store: store, remote: rem, opts: opts}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("sync_note",
		mcp.WithDescription("Publish a single Markdown note to the remote CMS. "+
			"Creates the remote note on first sync and writes the assigned id back "+
			"into the note's frontmatter; later syncs update the same remote note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. folder/note.md)")),
	), s.syncNote)

	s.mcp.AddTool(mcp.NewTool("sync_all",
		mcp.WithDescription("Sync every in-scope Markdown note to the remote CMS and "+
			"return the batch report. Failing notes are counted, not aborted on."),
	), s.syncAll)

	s.mcp.AddTool(mcp.NewTool("sync_status",
		mcp.WithDescription("Report whether a sync is currently running and the last batch report."),
	), s.syncStatus)

	s.mcp.AddTool(mcp.NewTool("preview_note",
		mcp.WithDescription("Show the payload a note would be published with (title, slug, "+
			"tags, category, status) without contacting the remote CMS."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note")),
	), s.previewNote)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the categories available on the remote CMS, with their ids."),
	), s.listCategories)

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

func (s *Server) syncNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.engine.SyncNote(ctx, path)
	if err != nil {
		if errors.Is(err, apperr.ErrSyncBusy) {
			return mcp.NewToolResultError("another sync is already running; try again shortly"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) syncAll(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.engine.SyncAll(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) syncStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := struct {
		Busy      bool                `json:"busy"`
		LastBatch *models.BatchReport `json:"last_batch,omitempty"`
	}{
		Busy:      s.engine.Busy(),
		LastBatch: s.engine.LastReport(),
	}
	out, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) previewNote(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	parsed := parser.Parse(data)
	meta, err := metadata.Extract(metadata.Input{
		Path:        path,
		Frontmatter: parsed.Frontmatter,
		ContentTags: parsed.Tags,
		Now:         time.Now(),
	}, s.opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(meta.Payload(parsed.Body), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listCategories(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats, err := s.remote.ListCategories(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(cats, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
