package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HarishgunaS/sisypho-sdk/internal/axpath"
	"github.com/HarishgunaS/sisypho-sdk/internal/model"
	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
)

// elementResult pairs an element snapshot with its descriptive path.
type elementResult struct {
	Path    string                `json:"path"`
	Element model.ElementSnapshot `json:"element"`
}

// childResult is one entry of a get_children listing.
type childResult struct {
	Index   int                   `json:"index"`
	Element model.ElementSnapshot `json:"element"`
}

// jsonResult serializes v as an MCP text result.
func jsonResult(v interface{}) *mcp.CallToolResult {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err))
	}
	return mcp.NewToolResultText(string(b))
}

// toolError maps resolver/codec failures to structured tool errors. Parse
// and not-found failures are expected outcomes, never panics.
func toolError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, axpath.ErrParse):
		return mcp.NewToolResultError(fmt.Sprintf("invalid path: %v", err))
	case errors.Is(err, axpath.ErrNotFound):
		return mcp.NewToolResultError("no element matches the given path in the current UI tree")
	default:
		return mcp.NewToolResultError(err.Error())
	}
}

// resolvePath parses and resolves a path string under the cached root.
// An empty path resolves to the root itself.
func (s *Server) resolvePath(pathStr string) (platform.Element, platform.Element, error) {
	path, err := axpath.ParsePath(pathStr)
	if err != nil {
		return nil, nil, err
	}
	root, err := s.cache.Root(s.provider.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("application root: %w", err)
	}
	el, err := axpath.NewResolver(s.provider.Reader).Resolve(root, path)
	if err != nil {
		return nil, nil, err
	}
	return root, el, nil
}

func (s *Server) handleGetElement(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	pathStr := stringParam(params, "path", "")

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	root, el, err := s.resolvePath(pathStr)
	if err != nil {
		return toolError(err), nil
	}
	snap, err := s.provider.Reader.Info(el)
	if err != nil {
		return toolError(fmt.Errorf("read element: %w", err)), nil
	}

	// Regenerate the path so the caller gets the canonical form for the
	// current tree, not the possibly stale input.
	canonical, err := axpath.NewGenerator(s.provider.Reader).Generate(root, el)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(elementResult{Path: canonical.String(), Element: snap}), nil
}

func (s *Server) handleGetChildren(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	pathStr := stringParam(params, "path", "")

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	_, el, err := s.resolvePath(pathStr)
	if err != nil {
		return toolError(err), nil
	}
	children, err := s.provider.Reader.Children(el)
	if err != nil {
		return toolError(fmt.Errorf("read children: %w", err)), nil
	}

	results := make([]childResult, 0, len(children))
	for i, child := range children {
		snap, err := s.provider.Reader.Info(child)
		if err != nil {
			snap = model.UnknownSnapshot()
		}
		results = append(results, childResult{Index: i, Element: snap})
	}
	return jsonResult(results), nil
}

func (s *Server) handlePerformAction(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	pathStr := stringParam(params, "path", "")
	action := stringParam(params, "action", "AXPress")

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	_, el, err := s.resolvePath(pathStr)
	if err != nil {
		return toolError(err), nil
	}
	if err := s.provider.Reader.Perform(el, action); err != nil {
		return toolError(fmt.Errorf("perform %s: %w", action, err)), nil
	}

	// The action likely changed the tree; don't serve a stale root.
	s.cache.Invalidate()

	return jsonResult(map[string]interface{}{"success": true, "action": action}), nil
}

func (s *Server) handleSearchElements(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	query := stringParam(params, "query", "")
	pathStr := stringParam(params, "path", "")
	maxResults := intParam(params, "max_results", axpath.DefaultSearchLimit)

	if query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	_, scope, err := s.resolvePath(pathStr)
	if err != nil {
		return toolError(err), nil
	}
	matches, err := axpath.Search(s.provider.Reader, scope, query, maxResults)
	if err != nil {
		return toolError(err), nil
	}
	if matches == nil {
		matches = []axpath.Match{}
	}
	return jsonResult(matches), nil
}

func (s *Server) handleGeneratePath(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	x, hasX := floatParam(params, "x", 0)
	y, hasY := floatParam(params, "y", 0)
	pathStr := stringParam(params, "path", "")

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	gen := axpath.NewGenerator(s.provider.Reader)

	if hasX && hasY {
		path, snap, err := gen.GenerateAt(x, y)
		if err != nil {
			return toolError(err), nil
		}
		return jsonResult(elementResult{Path: path.String(), Element: snap}), nil
	}

	if pathStr == "" {
		return mcp.NewToolResultError("either x and y coordinates or a path is required"), nil
	}
	root, el, err := s.resolvePath(pathStr)
	if err != nil {
		return toolError(err), nil
	}
	path, err := gen.Generate(root, el)
	if err != nil {
		return toolError(err), nil
	}
	snap, err := s.provider.Reader.Info(el)
	if err != nil {
		snap = model.UnknownSnapshot()
	}
	return jsonResult(elementResult{Path: path.String(), Element: snap}), nil
}
