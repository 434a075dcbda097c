package reasontools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/Nexus/internal/reasoning"
	"github.com/HendryAvila/Nexus/internal/toolkit"
)

// CreateStepTool handles the create_reasoning_step MCP tool.
type CreateStepTool struct {
	engine *reasoning.Engine
}

// NewCreateStepTool creates a CreateStepTool.
func NewCreateStepTool(engine *reasoning.Engine) *CreateStepTool {
	return &CreateStepTool{engine: engine}
}

// Definition returns the MCP tool definition for create_reasoning_step.
func (t *CreateStepTool) Definition() mcp.Tool {
	return mcp.NewTool("create_reasoning_step",
		mcp.WithDescription(
			"Record a single reasoning step. Dependencies must reference steps that already exist. "+
				"Use this for free-form steps that do not belong to a generated chain.",
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Role of the step in the argument"),
			mcp.Enum(reasoning.StepTypeNames()...),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The reasoning content"),
		),
		mcp.WithArray("dependencies",
			mcp.Description("IDs of steps this one builds on"),
			toolkit.StringItems,
		),
		mcp.WithArray("evidence",
			mcp.Description("Supporting evidence"),
			toolkit.StringItems,
		),
		mcp.WithNumber("confidence",
			mcp.Description("Confidence between 0 and 1"),
			mcp.Min(0),
			mcp.Max(1),
		),
	)
}

// Handle processes the create_reasoning_step tool call.
func (t *CreateStepTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p reasoning.CreateStepParams
	if err := toolkit.Decode(req, &p); err != nil {
		return toolkit.Error(err), nil
	}

	step, err := t.engine.CreateStep(p)
	if err != nil {
		return toolkit.Error(err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created %s step: %s (ID: %s)", step.Type, step.Content, step.ID)), nil
}
