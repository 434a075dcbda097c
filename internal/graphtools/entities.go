// Package graphtools exposes the knowledge graph as MCP tools.
//
// Every mutating tool writes through to the configured store before it
// returns; a failed write surfaces as an internal tool error.
package graphtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/Nexus/internal/knowledge"
	"github.com/HendryAvila/Nexus/internal/toolkit"
)

// CreateEntitiesTool handles the create_entities MCP tool.
type CreateEntitiesTool struct {
	graph *knowledge.Graph
}

// NewCreateEntitiesTool creates a CreateEntitiesTool.
func NewCreateEntitiesTool(graph *knowledge.Graph) *CreateEntitiesTool {
	return &CreateEntitiesTool{graph: graph}
}

// Definition returns the MCP tool definition for create_entities.
func (t *CreateEntitiesTool) Definition() mcp.Tool {
	return mcp.NewTool("create_entities",
		mcp.WithDescription(
			"Create or update nodes in the knowledge graph. The name is the node's ID: "+
				"sending an existing name replaces its type and insights and keeps its metadata.",
		),
		mcp.WithArray("entities",
			mcp.Required(),
			mcp.Description("Entities to upsert"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":     map[string]any{"type": "string", "description": "Unique node ID"},
					"nodeType": map[string]any{"type": "string", "description": "Kind of entity"},
					"insights": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Facts about the entity",
					},
				},
				"required": []string{"name", "nodeType"},
			}),
		),
	)
}

type createEntitiesArgs struct {
	Entities []knowledge.EntityInput `json:"entities"`
}

// Handle processes the create_entities tool call.
func (t *CreateEntitiesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createEntitiesArgs
	if err := toolkit.Decode(req, &args); err != nil {
		return toolkit.Error(err), nil
	}

	nodes, err := t.graph.CreateEntities(args.Entities)
	if err != nil {
		return toolkit.Error(err), nil
	}

	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.ID
	}
	return mcp.NewToolResultText(fmt.Sprintf("Stored %d entities: %s", len(nodes), strings.Join(names, ", "))), nil
}

// ─── search_nodes ────────────────────────────────────────────────────────────

// SearchNodesTool handles the search_nodes MCP tool.
type SearchNodesTool struct {
	graph *knowledge.Graph
}

// NewSearchNodesTool creates a SearchNodesTool.
func NewSearchNodesTool(graph *knowledge.Graph) *SearchNodesTool {
	return &SearchNodesTool{graph: graph}
}

// Definition returns the MCP tool definition for search_nodes.
func (t *SearchNodesTool) Definition() mcp.Tool {
	return mcp.NewTool("search_nodes",
		mcp.WithDescription("Find nodes whose ID or any insight contains the query, ignoring case."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Substring to look for"),
		),
	)
}

// Handle processes the search_nodes tool call.
func (t *SearchNodesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodes, err := t.graph.SearchNodes(req.GetString("query", ""))
	if err != nil {
		return toolkit.Error(err), nil
	}
	return toolkit.JSON(nodes)
}

// ─── add_insight ─────────────────────────────────────────────────────────────

// AddInsightTool handles the add_insight MCP tool.
type AddInsightTool struct {
	graph *knowledge.Graph
}

// NewAddInsightTool creates an AddInsightTool.
func NewAddInsightTool(graph *knowledge.Graph) *AddInsightTool {
	return &AddInsightTool{graph: graph}
}

// Definition returns the MCP tool definition for add_insight.
func (t *AddInsightTool) Definition() mcp.Tool {
	return mcp.NewTool("add_insight",
		mcp.WithDescription("Append one insight to an existing node."),
		mcp.WithString("node_id",
			mcp.Required(),
			mcp.Description("ID of the node"),
		),
		mcp.WithString("insight",
			mcp.Required(),
			mcp.Description("The fact to record"),
		),
	)
}

// Handle processes the add_insight tool call.
func (t *AddInsightTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := t.graph.AddInsight(req.GetString("node_id", ""), req.GetString("insight", ""))
	if err != nil {
		return toolkit.Error(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Added insight to %s (%d total)", n.ID, len(n.Insights))), nil
}

// ─── update_node ─────────────────────────────────────────────────────────────

// UpdateNodeTool handles the update_node MCP tool.
type UpdateNodeTool struct {
	graph *knowledge.Graph
}

// NewUpdateNodeTool creates an UpdateNodeTool.
func NewUpdateNodeTool(graph *knowledge.Graph) *UpdateNodeTool {
	return &UpdateNodeTool{graph: graph}
}

// Definition returns the MCP tool definition for update_node.
func (t *UpdateNodeTool) Definition() mcp.Tool {
	return mcp.NewTool("update_node",
		mcp.WithDescription("Amend a node's type, insights or metadata. The ID never changes."),
		mcp.WithString("node_id",
			mcp.Required(),
			mcp.Description("ID of the node"),
		),
		mcp.WithString("nodeType",
			mcp.Description("Replacement type"),
		),
		mcp.WithArray("insights",
			mcp.Description("Replacement insight list"),
			toolkit.StringItems,
		),
		mcp.WithNumber("importance",
			mcp.Description("Importance between 0 and 1"),
			mcp.Min(0),
			mcp.Max(1),
		),
		mcp.WithNumber("confidence",
			mcp.Description("Confidence between 0 and 1"),
			mcp.Min(0),
			mcp.Max(1),
		),
		mcp.WithString("source",
			mcp.Description("Where the information came from"),
		),
	)
}

type updateNodeArgs struct {
	NodeID string `json:"node_id"`
	knowledge.NodeUpdate
}

// Handle processes the update_node tool call.
func (t *UpdateNodeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateNodeArgs
	if err := toolkit.Decode(req, &args); err != nil {
		return toolkit.Error(err), nil
	}

	n, err := t.graph.UpdateNode(args.NodeID, args.NodeUpdate)
	if err != nil {
		return toolkit.Error(err), nil
	}
	return toolkit.JSON(n)
}

// ─── delete_node ─────────────────────────────────────────────────────────────

// DeleteNodeTool handles the delete_node MCP tool.
type DeleteNodeTool struct {
	graph *knowledge.Graph
}

// NewDeleteNodeTool creates a DeleteNodeTool.
func NewDeleteNodeTool(graph *knowledge.Graph) *DeleteNodeTool {
	return &DeleteNodeTool{graph: graph}
}

// Definition returns the MCP tool definition for delete_node.
func (t *DeleteNodeTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_node",
		mcp.WithDescription("Delete a node and every link that touches it."),
		mcp.WithString("node_id",
			mcp.Required(),
			mcp.Description("ID of the node"),
		),
	)
}

// Handle processes the delete_node tool call.
func (t *DeleteNodeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("node_id", "")
	removed, err := t.graph.DeleteNode(id)
	if err != nil {
		return toolkit.Error(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted node %s and %d link(s)", id, removed)), nil
}
