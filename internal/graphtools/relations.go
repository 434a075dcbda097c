package graphtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/Nexus/internal/knowledge"
	"github.com/HendryAvila/Nexus/internal/toolkit"
)

// CreateRelationsTool handles the create_relations MCP tool.
type CreateRelationsTool struct {
	graph *knowledge.Graph
}

// NewCreateRelationsTool creates a CreateRelationsTool.
func NewCreateRelationsTool(graph *knowledge.Graph) *CreateRelationsTool {
	return &CreateRelationsTool{graph: graph}
}

// Definition returns the MCP tool definition for create_relations.
func (t *CreateRelationsTool) Definition() mcp.Tool {
	return mcp.NewTool("create_relations",
		mcp.WithDescription(
			"Create directed, typed links between existing nodes. The batch is all-or-nothing: "+
				"an unknown endpoint or a duplicate link rejects every relation in the call.",
		),
		mcp.WithArray("relations",
			mcp.Required(),
			mcp.Description("Links to create"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"from":     map[string]any{"type": "string", "description": "Source node ID"},
					"to":       map[string]any{"type": "string", "description": "Target node ID"},
					"linkType": map[string]any{"type": "string", "description": "Relation name, e.g. depends_on"},
				},
				"required": []string{"from", "to", "linkType"},
			}),
		),
	)
}

type createRelationsArgs struct {
	Relations []knowledge.RelationInput `json:"relations"`
}

// Handle processes the create_relations tool call.
func (t *CreateRelationsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createRelationsArgs
	if err := toolkit.Decode(req, &args); err != nil {
		return toolkit.Error(err), nil
	}

	links, err := t.graph.CreateRelations(args.Relations)
	if err != nil {
		return toolkit.Error(err), nil
	}

	ids := make([]string, len(links))
	for i, l := range links {
		ids[i] = l.ID
	}
	return mcp.NewToolResultText(fmt.Sprintf("Created %d link(s): %s", len(links), strings.Join(ids, ", "))), nil
}

// ─── delete_link ─────────────────────────────────────────────────────────────

// DeleteLinkTool handles the delete_link MCP tool.
type DeleteLinkTool struct {
	graph *knowledge.Graph
}

// NewDeleteLinkTool creates a DeleteLinkTool.
func NewDeleteLinkTool(graph *knowledge.Graph) *DeleteLinkTool {
	return &DeleteLinkTool{graph: graph}
}

// Definition returns the MCP tool definition for delete_link.
func (t *DeleteLinkTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_link",
		mcp.WithDescription("Delete one link by ID (format: source-linkType-target, with any \"-\" inside a name escaped as \"\\\\-\")."),
		mcp.WithString("link_id",
			mcp.Required(),
			mcp.Description("ID of the link"),
		),
	)
}

// Handle processes the delete_link tool call.
func (t *DeleteLinkTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("link_id", "")
	if err := t.graph.DeleteLink(id); err != nil {
		return toolkit.Error(err), nil
	}
	return mcp.NewToolResultText("Deleted link " + id), nil
}

// ─── get_node_connections ────────────────────────────────────────────────────

// ConnectionsTool handles the get_node_connections MCP tool.
type ConnectionsTool struct {
	graph *knowledge.Graph
}

// NewConnectionsTool creates a ConnectionsTool.
func NewConnectionsTool(graph *knowledge.Graph) *ConnectionsTool {
	return &ConnectionsTool{graph: graph}
}

// Definition returns the MCP tool definition for get_node_connections.
func (t *ConnectionsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_node_connections",
		mcp.WithDescription("List the incoming and outgoing links of a node."),
		mcp.WithString("node_id",
			mcp.Required(),
			mcp.Description("ID of the node"),
		),
	)
}

// Handle processes the get_node_connections tool call.
func (t *ConnectionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conns, err := t.graph.GetNodeConnections(req.GetString("node_id", ""))
	if err != nil {
		return toolkit.Error(err), nil
	}
	return toolkit.JSON(conns)
}

// ─── find_path ───────────────────────────────────────────────────────────────

// FindPathTool handles the find_path MCP tool.
type FindPathTool struct {
	graph *knowledge.Graph
}

// NewFindPathTool creates a FindPathTool.
func NewFindPathTool(graph *knowledge.Graph) *FindPathTool {
	return &FindPathTool{graph: graph}
}

// Definition returns the MCP tool definition for find_path.
func (t *FindPathTool) Definition() mcp.Tool {
	return mcp.NewTool("find_path",
		mcp.WithDescription(
			"Find the shortest directed path between two nodes following outgoing links. "+
				"Returns an empty list when no path fits within max_depth.",
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start node ID"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End node ID"),
		),
		mcp.WithNumber("max_depth",
			mcp.Description(fmt.Sprintf("Maximum number of links in the path (default: %d)", t.graph.MaxPathDepth())),
			mcp.Min(1),
		),
	)
}

// Handle processes the find_path tool call.
func (t *FindPathTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p knowledge.FindPathParams
	if err := toolkit.Decode(req, &p); err != nil {
		return toolkit.Error(err), nil
	}

	path, err := t.graph.FindPath(p)
	if err != nil {
		return toolkit.Error(err), nil
	}
	return toolkit.JSON(path)
}

// ─── read_graph ──────────────────────────────────────────────────────────────

// ReadGraphTool handles the read_graph MCP tool.
type ReadGraphTool struct {
	graph *knowledge.Graph
}

// NewReadGraphTool creates a ReadGraphTool.
func NewReadGraphTool(graph *knowledge.Graph) *ReadGraphTool {
	return &ReadGraphTool{graph: graph}
}

// Definition returns the MCP tool definition for read_graph.
func (t *ReadGraphTool) Definition() mcp.Tool {
	return mcp.NewTool("read_graph",
		mcp.WithDescription("Return every node and link in the knowledge graph as JSON."),
	)
}

// Handle processes the read_graph tool call.
func (t *ReadGraphTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolkit.JSON(t.graph.Snapshot())
}

// ─── clear_nexus ─────────────────────────────────────────────────────────────

// ClearTool handles the clear_nexus MCP tool.
type ClearTool struct {
	graph *knowledge.Graph
}

// NewClearTool creates a ClearTool.
func NewClearTool(graph *knowledge.Graph) *ClearTool {
	return &ClearTool{graph: graph}
}

// Definition returns the MCP tool definition for clear_nexus.
func (t *ClearTool) Definition() mcp.Tool {
	return mcp.NewTool("clear_nexus",
		mcp.WithDescription(
			"Delete every node and link in the knowledge graph. This cannot be undone. "+
				"Pass confirmation=false to get a refusal instead.",
		),
		mcp.WithBoolean("confirmation",
			mcp.Description("Must be true to clear (default: true)"),
		),
	)
}

// Handle processes the clear_nexus tool call.
func (t *ClearTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	confirm, err := toolkit.Bool(req, "confirmation", true)
	if err != nil {
		return toolkit.Error(err), nil
	}
	if err := t.graph.Clear(confirm); err != nil {
		return toolkit.Error(err), nil
	}
	return mcp.NewToolResultText("Knowledge graph cleared"), nil
}
