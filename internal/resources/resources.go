// Package resources implements MCP resource handlers for Nexus.
//
// Resources provide read-only snapshots the host can pull into context.
// They use URI-based addressing following MCP conventions.
package resources

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/Nexus/internal/knowledge"
	"github.com/HendryAvila/Nexus/internal/reasoning"
)

// Resource URIs.
const (
	GraphURI            = "nexus://graph"
	ReasoningSummaryURI = "reasoning://summary"
)

// Handler serves the Nexus resource endpoints.
type Handler struct {
	graph  *knowledge.Graph
	engine *reasoning.Engine
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(graph *knowledge.Graph, engine *reasoning.Engine) *Handler {
	return &Handler{graph: graph, engine: engine}
}

// GraphResource returns the MCP resource definition for the graph snapshot.
func (h *Handler) GraphResource() mcp.Resource {
	return mcp.NewResource(
		GraphURI,
		"Knowledge Graph",
		mcp.WithResourceDescription("Every node and link in the knowledge graph"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleGraph returns the graph snapshot as JSON.
func (h *Handler) HandleGraph(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, h.graph.Snapshot())
}

// ReasoningSummaryResource returns the MCP resource definition for the
// reasoning summary.
func (h *Handler) ReasoningSummaryResource() mcp.Resource {
	return mcp.NewResource(
		ReasoningSummaryURI,
		"Reasoning Summary",
		mcp.WithResourceDescription("Step counts by type and the number of branches"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleReasoningSummary returns the step summary as JSON.
func (h *Handler) HandleReasoningSummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, h.engine.Summary())
}
