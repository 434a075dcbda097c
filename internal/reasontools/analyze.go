package reasontools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/Nexus/internal/reasoning"
	"github.com/HendryAvila/Nexus/internal/toolkit"
)

// AnalyzeTool handles the analyze MCP tool.
type AnalyzeTool struct {
	engine *reasoning.Engine
}

// NewAnalyzeTool creates an AnalyzeTool.
func NewAnalyzeTool(engine *reasoning.Engine) *AnalyzeTool {
	return &AnalyzeTool{engine: engine}
}

// Definition returns the MCP tool definition for analyze.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze",
		mcp.WithDescription(
			"Break a problem into a linear chain of reasoning steps under a new branch: "+
				"a decomposition, analysis steps, and a conclusion. Each step depends on the one before it.",
		),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("The problem to analyze"),
		),
		mcp.WithNumber("depth",
			mcp.Description("Number of steps in the chain (default: 3, min: 1)"),
			mcp.Min(1),
		),
		mcp.WithArray("focus_areas",
			mcp.Description("Aspects to concentrate on"),
			toolkit.StringItems,
		),
	)
}

// Handle processes the analyze tool call.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p reasoning.AnalyzeParams
	if err := toolkit.Decode(req, &p); err != nil {
		return toolkit.Error(err), nil
	}

	res, err := t.engine.Analyze(p)
	if err != nil {
		return toolkit.Error(err), nil
	}

	lines := make([]string, len(res.Steps))
	for i, s := range res.Steps {
		lines[i] = formatChainLine(s)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}
