package reasontools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/Nexus/internal/reasoning"
	"github.com/HendryAvila/Nexus/internal/toolkit"
)

// UpdateStepTool handles the update_reasoning_step MCP tool.
type UpdateStepTool struct {
	engine *reasoning.Engine
}

// NewUpdateStepTool creates an UpdateStepTool.
func NewUpdateStepTool(engine *reasoning.Engine) *UpdateStepTool {
	return &UpdateStepTool{engine: engine}
}

// Definition returns the MCP tool definition for update_reasoning_step.
func (t *UpdateStepTool) Definition() mcp.Tool {
	return mcp.NewTool("update_reasoning_step",
		mcp.WithDescription(
			"Amend a stored step. Only the fields you pass change; id, type, content and "+
				"creation time are fixed. Dependencies must exist and may not form a cycle. "+
				"Moving a step to another branch appends it there.",
		),
		mcp.WithString("step_id",
			mcp.Required(),
			mcp.Description("ID of the step to update"),
		),
		mcp.WithArray("dependencies",
			mcp.Description("Replacement dependency list"),
			toolkit.StringItems,
		),
		mcp.WithArray("evidence",
			mcp.Description("Replacement evidence list"),
			toolkit.StringItems,
		),
		mcp.WithNumber("confidence",
			mcp.Description("Confidence between 0 and 1"),
			mcp.Min(0),
			mcp.Max(1),
		),
		mcp.WithArray("focus_areas",
			mcp.Description("Replacement focus areas"),
			toolkit.StringItems,
		),
		mcp.WithString("perspective",
			mcp.Description("Replacement perspective"),
		),
		mcp.WithArray("criteria",
			mcp.Description("Replacement criteria"),
			toolkit.StringItems,
		),
		mcp.WithString("branchId",
			mcp.Description("Branch to move the step to"),
		),
		mcp.WithString("branchFromStepId",
			mcp.Description("Step the branch forks from"),
		),
		mcp.WithNumber("sequenceNumber",
			mcp.Description("Position in the chain (min: 1)"),
			mcp.Min(1),
		),
		mcp.WithNumber("totalSteps",
			mcp.Description("Chain length (min: 1)"),
			mcp.Min(1),
		),
	)
}

// Handle processes the update_reasoning_step tool call.
func (t *UpdateStepTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p reasoning.UpdateStepParams
	if err := toolkit.Decode(req, &p); err != nil {
		return toolkit.Error(err), nil
	}

	step, err := t.engine.UpdateStep(p)
	if err != nil {
		return toolkit.Error(err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Updated %s step (ID: %s)", step.Type, step.ID)), nil
}
