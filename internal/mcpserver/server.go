// Package mcpserver exposes rarian's query engine over the Model
// Context Protocol so AI clients can search and fetch entries from a
// collection without going through the CLI.
package mcpserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/pkg/version"
)

// Server bridges a rarian environment to MCP clients over stdio.
type Server struct {
	mcp    *mcp.Server
	env    *kv.Environment
	logger *slog.Logger
}

// NewServer creates an MCP server bound to env. Callers still own env
// and must Close it themselves after Serve returns.
func NewServer(env *kv.Environment, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{env: env, logger: logger}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "rarian",
			Version: version.Version,
		},
		nil,
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying SDK server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "rarian_search",
		Description: "Search a rarian collection with query text and return the matching entry UUIDs.",
	}, s.handleSearch)
	s.logger.Debug("registered tool", slog.String("name", "rarian_search"))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "rarian_get_entry",
		Description: "Fetch a single entry from a rarian collection by UUID.",
	}, s.handleGetEntry)
	s.logger.Debug("registered tool", slog.String("name", "rarian_get_entry"))
}

// Serve runs the server over stdio until ctx is canceled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting MCP server", slog.String("transport", "stdio"))
	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && err != context.Canceled {
		s.logger.Error("MCP server stopped with error", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("MCP server stopped gracefully")
	return nil
}
