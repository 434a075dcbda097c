// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it opens the stores, builds the reasoning
// engine and knowledge graph, and injects them into the tools, prompts and
// resources. No business logic lives here, only wiring.
package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/HendryAvila/Nexus/internal/config"
	"github.com/HendryAvila/Nexus/internal/graphtools"
	"github.com/HendryAvila/Nexus/internal/knowledge"
	"github.com/HendryAvila/Nexus/internal/metrics"
	"github.com/HendryAvila/Nexus/internal/prompts"
	"github.com/HendryAvila/Nexus/internal/reasoning"
	"github.com/HendryAvila/Nexus/internal/reasontools"
	"github.com/HendryAvila/Nexus/internal/resources"
)

// Version is set at build time via ldflags.
var Version = "dev"

// tool is the shape shared by every handler in reasontools and graphtools.
type tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// New creates and configures the MCP server with all tools, prompts, and
// resources registered. This is the single place where all dependencies
// are resolved.
//
// The returned cleanup function closes the graph store and must be called
// on shutdown. It is always non-nil.
func New(cfg config.Config, logger *zap.Logger, m *metrics.Metrics) (*server.MCPServer, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}

	// --- Knowledge graph ---

	store, closer, err := knowledge.NewPersister(cfg.Storage, cfg.DataDir)
	if err != nil {
		return nil, noop, fmt.Errorf("opening graph store: %w", err)
	}
	cleanup := func() {
		if err := closer.Close(); err != nil {
			logger.Warn("closing graph store", zap.Error(err))
		}
	}

	graph, err := knowledge.Open(store, knowledge.Options{
		MaxPathDepth: cfg.MaxPathDepth,
		Logger:       logger,
		Observer:     m,
	})
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("loading knowledge graph: %w", err)
	}
	m.SetGraphSize(graph.Stats())

	// --- Reasoning engine ---
	//
	// Steps live in memory only and start empty on every run.

	engine := reasoning.NewEngine(
		reasoning.NewStepStore(),
		reasoning.NewBranchIndex(),
		reasoning.NewFactory(nil, nil),
		reasoning.Options{
			MaxChainLength: cfg.MaxChainLength,
			Logger:         logger,
			Observer:       m,
		},
	)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"nexus",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	registerTools(s, m, reasoningTools(engine))
	registerTools(s, m, graphTools(graph))

	// --- Register prompts ---

	startPrompt := prompts.NewReasoningStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(graph, engine)
	s.AddResource(resourceHandler.GraphResource(), resourceHandler.HandleGraph)
	s.AddResource(resourceHandler.ReasoningSummaryResource(), resourceHandler.HandleReasoningSummary)

	stats := graph.Stats()
	logger.Info("nexus server ready",
		zap.String("version", Version),
		zap.String("storage", cfg.Storage),
		zap.String("data_dir", cfg.DataDir),
		zap.Int("nodes", stats.Nodes),
		zap.Int("links", stats.Links),
	)
	return s, cleanup, nil
}

// noop is the cleanup returned when nothing was opened.
func noop() {}

func reasoningTools(e *reasoning.Engine) []tool {
	return []tool{
		reasontools.NewCreateStepTool(e),
		reasontools.NewAnalyzeTool(e),
		reasontools.NewSynthesizeTool(e),
		reasontools.NewValidateTool(e),
		reasontools.NewSequentialTool(e),
		reasontools.NewGetStepTool(e),
		reasontools.NewBranchStepsTool(e),
		reasontools.NewStepsByTypeTool(e),
		reasontools.NewUpdateStepTool(e),
	}
}

func graphTools(g *knowledge.Graph) []tool {
	return []tool{
		graphtools.NewCreateEntitiesTool(g),
		graphtools.NewCreateRelationsTool(g),
		graphtools.NewClearTool(g),
		graphtools.NewSearchNodesTool(g),
		graphtools.NewAddInsightTool(g),
		graphtools.NewUpdateNodeTool(g),
		graphtools.NewDeleteNodeTool(g),
		graphtools.NewDeleteLinkTool(g),
		graphtools.NewConnectionsTool(g),
		graphtools.NewFindPathTool(g),
		graphtools.NewReadGraphTool(g),
	}
}

// registerTools adds each tool with call counting by name and outcome.
func registerTools(s *server.MCPServer, m *metrics.Metrics, tools []tool) {
	for _, t := range tools {
		def := t.Definition()
		s.AddTool(def, m.Instrument(def.Name, t.Handle))
	}
}
