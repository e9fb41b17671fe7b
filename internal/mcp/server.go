package mcp

import (
	"context"

	"crm-insights/internal/analytics"
	"crm-insights/internal/cache"
	"crm-insights/internal/config"
	"crm-insights/internal/report"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Name and Version identify the server to MCP clients.
const (
	Name    = "crm-insights"
	Version = "0.1.0"
)

// Server exposes the analytics engine as MCP tools.
type Server struct {
	cfg     *config.AppConfig
	engine  *analytics.Engine
	reports *cache.Cache[*report.Report]
}

// NewServer creates a new MCP server. A nil cache disables memoization.
func NewServer(cfg *config.AppConfig, engine *analytics.Engine, reports *cache.Cache[*report.Report]) *Server {
	return &Server{cfg: cfg, engine: engine, reports: reports}
}

// MCP builds the protocol server with every tool registered.
func (s *Server) MCP() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    Name,
		Version: Version,
	}, nil)
	s.registerTools(server)
	return server
}

// Serve runs the server over stdio until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Str("version", Version).Msg("Starting MCP server on stdio")
	return s.MCP().Run(ctx, &mcp.StdioTransport{})
}
