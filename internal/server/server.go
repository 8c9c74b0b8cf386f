// Package server exposes the path addressing operations as MCP tools, so an
// agent can look up, inspect, and act on UI elements by descriptive path.
package server

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
	"github.com/HarishgunaS/sisypho-sdk/internal/version"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
}

// Server wraps the MCP server with the platform provider and root cache.
type Server struct {
	provider   *platform.Provider
	cache      *rootCache
	providerMu sync.Mutex
	log        *slog.Logger
	mcp        *mcpserver.MCPServer
}

// New creates and configures an MCP server with the addressing tools.
func New(provider *platform.Provider, cfg Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		provider: provider,
		cache:    newRootCache(cfg.CacheTTL),
		log:      log,
	}
	s.mcp = mcpserver.NewMCPServer(
		"sisypho",
		version.Version,
	)
	s.registerTools()
	return s
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(cfg Config) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("get_element",
			mcp.WithDescription("Resolve a descriptive path against the frontmost application's UI tree and return the matching element. Paths tolerate renames, reordering, and removed wrapper containers."),
			mcp.WithString("path", mcp.Description("Descriptive path, e.g. 'Window[{\"title\":\"Mail\"}] > Button[{\"title\":\"Send\"}]'. Empty resolves the application root."), mcp.Required()),
		),
		s.handleGetElement,
	)

	s.mcp.AddTool(
		mcp.NewTool("get_children",
			mcp.WithDescription("List the direct children of the element at a descriptive path (application root when path is empty)"),
			mcp.WithString("path", mcp.Description("Descriptive path of the parent element")),
		),
		s.handleGetChildren,
	)

	s.mcp.AddTool(
		mcp.NewTool("perform_action",
			mcp.WithDescription("Perform an accessibility action on the element at a descriptive path"),
			mcp.WithString("path", mcp.Description("Descriptive path of the target element"), mcp.Required()),
			mcp.WithString("action", mcp.Description("Accessibility action name (default: AXPress)")),
		),
		s.handlePerformAction,
	)

	s.mcp.AddTool(
		mcp.NewTool("search_elements",
			mcp.WithDescription("Find elements whose title, label, value, or identifier contains the query text. Each match includes a descriptive path usable with get_element."),
			mcp.WithString("query", mcp.Description("Case-insensitive text to search for"), mcp.Required()),
			mcp.WithString("path", mcp.Description("Descriptive path scoping the search (default: application root)")),
			mcp.WithNumber("max_results", mcp.Description("Maximum matches to return (default: 50)")),
		),
		s.handleSearchElements,
	)

	s.mcp.AddTool(
		mcp.NewTool("generate_descriptive_path",
			mcp.WithDescription("Generate a descriptive path for the element at screen coordinates, or canonicalize an existing path"),
			mcp.WithNumber("x", mcp.Description("Screen X coordinate")),
			mcp.WithNumber("y", mcp.Description("Screen Y coordinate")),
			mcp.WithString("path", mcp.Description("Existing path to resolve and regenerate")),
		),
		s.handleGeneratePath,
	)
}
