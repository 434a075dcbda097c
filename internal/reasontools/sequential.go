package reasontools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/Nexus/internal/reasoning"
	"github.com/HendryAvila/Nexus/internal/toolkit"
)

// SequentialTool handles the sequential_reasoning MCP tool.
type SequentialTool struct {
	engine *reasoning.Engine
}

// NewSequentialTool creates a SequentialTool.
func NewSequentialTool(engine *reasoning.Engine) *SequentialTool {
	return &SequentialTool{engine: engine}
}

// Definition returns the MCP tool definition for sequential_reasoning.
func (t *SequentialTool) Definition() mcp.Tool {
	return mcp.NewTool("sequential_reasoning",
		mcp.WithDescription(
			"Generate a hypothesis, analysis, conclusion chain. Pass branchId to continue an "+
				"existing line of reasoning, or branchFromStepId to mark where a new branch forks off.",
		),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("The question or hypothesis to reason about"),
		),
		mcp.WithNumber("initialSteps",
			mcp.Description("Number of steps to generate (default: 3, min: 1)"),
			mcp.Min(1),
		),
		mcp.WithArray("focusAreas",
			mcp.Description("Aspects to concentrate on"),
			toolkit.StringItems,
		),
		mcp.WithString("branchId",
			mcp.Description("Existing or new branch to append the chain to"),
		),
		mcp.WithString("branchFromStepId",
			mcp.Description("Step this chain forks from (not checked for existence)"),
		),
	)
}

// Handle processes the sequential_reasoning tool call. The result carries
// one text item per created step.
func (t *SequentialTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p reasoning.SequentialParams
	if err := toolkit.Decode(req, &p); err != nil {
		return toolkit.Error(err), nil
	}

	res, err := t.engine.SequentialReasoning(p)
	if err != nil {
		return toolkit.Error(err), nil
	}

	content := make([]mcp.Content, len(res.Steps))
	for i, s := range res.Steps {
		content[i] = mcp.NewTextContent(formatChainLine(s))
	}
	return &mcp.CallToolResult{Content: content}, nil
}
