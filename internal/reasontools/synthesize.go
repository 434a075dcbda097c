package reasontools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/Nexus/internal/reasoning"
	"github.com/HendryAvila/Nexus/internal/toolkit"
)

// SynthesizeTool handles the synthesize MCP tool.
type SynthesizeTool struct {
	engine *reasoning.Engine
}

// NewSynthesizeTool creates a SynthesizeTool.
func NewSynthesizeTool(engine *reasoning.Engine) *SynthesizeTool {
	return &SynthesizeTool{engine: engine}
}

// Definition returns the MCP tool definition for synthesize.
func (t *SynthesizeTool) Definition() mcp.Tool {
	return mcp.NewTool("synthesize",
		mcp.WithDescription(
			"Combine existing steps into one synthesis step. Fails without creating anything "+
				"if any of the step IDs is unknown.",
		),
		mcp.WithArray("step_ids",
			mcp.Required(),
			mcp.Description("IDs of the steps to combine (at least one)"),
			toolkit.StringItems,
		),
		mcp.WithString("perspective",
			mcp.Description("Interpretive angle for the synthesis (default: general)"),
		),
	)
}

// Handle processes the synthesize tool call.
func (t *SynthesizeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p reasoning.SynthesizeParams
	if err := toolkit.Decode(req, &p); err != nil {
		return toolkit.Error(err), nil
	}

	step, err := t.engine.Synthesize(p)
	if err != nil {
		return toolkit.Error(err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Synthesized result (ID: %s): Combined analysis from steps %s from perspective: %s",
		step.ID, strings.Join(step.Dependencies, ", "), step.Perspective,
	)), nil
}
