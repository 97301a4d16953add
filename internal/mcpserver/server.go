// Package mcpserver exposes the dependency analysis as Model Context Protocol
// tools, so an LLM agent can call it over stdio.
package mcpserver

import (
	"time"

	"github.com/danielolaszy/poagent/internal/analysis"
	"github.com/danielolaszy/poagent/internal/config"
	"github.com/danielolaszy/poagent/internal/logging"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates the MCP server with every analysis tool registered.
func New(cfg *config.Config) *server.MCPServer {
	normalizer := analysis.NewNormalizer(cfg.FieldMapping())
	analyzer := analysis.NewAnalyzer(&analysis.Estimator{
		WeeklyVelocity: cfg.Risk.WeeklyVelocity,
		Now:            time.Now,
	})

	s := server.NewMCPServer(
		"po-agent",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	analyzeTool := NewAnalyzeTool(normalizer, analyzer)
	s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)

	ganttTool := NewGanttTool(normalizer, time.Now)
	s.AddTool(ganttTool.Definition(), ganttTool.Handle)

	sprintTool := NewSprintTool(normalizer)
	s.AddTool(sprintTool.Definition(), sprintTool.Handle)

	logging.Debug("mcp server configured", "version", Version, "tools", 3)
	return s
}

// ServeStdio runs the server on stdin and stdout until the input closes.
func ServeStdio(cfg *config.Config) error {
	logging.Info("starting mcp server on stdio", "version", Version)
	return server.ServeStdio(New(cfg))
}
