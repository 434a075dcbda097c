package reasontools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/Nexus/internal/reasoning"
	"github.com/HendryAvila/Nexus/internal/toolkit"
)

// ValidateTool handles the validate MCP tool.
type ValidateTool struct {
	engine *reasoning.Engine
}

// NewValidateTool creates a ValidateTool.
func NewValidateTool(engine *reasoning.Engine) *ValidateTool {
	return &ValidateTool{engine: engine}
}

// Definition returns the MCP tool definition for validate.
func (t *ValidateTool) Definition() mcp.Tool {
	return mcp.NewTool("validate",
		mcp.WithDescription(
			"Record that a step was checked against criteria. No verdict is computed: "+
				"judge the step yourself and record the outcome with further steps.",
		),
		mcp.WithString("step_id",
			mcp.Required(),
			mcp.Description("ID of the step to validate"),
		),
		mcp.WithArray("criteria",
			mcp.Description("Criteria the step is evaluated against"),
			toolkit.StringItems,
		),
	)
}

// Handle processes the validate tool call.
func (t *ValidateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p reasoning.ValidateParams
	if err := toolkit.Decode(req, &p); err != nil {
		return toolkit.Error(err), nil
	}

	step, err := t.engine.Validate(p)
	if err != nil {
		return toolkit.Error(err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Validation result (ID: %s): Evaluated step %s against criteria: %s",
		step.ID, p.StepID, joinOr(step.Criteria, "none"),
	)), nil
}
