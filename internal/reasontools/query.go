package reasontools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/Nexus/internal/apperr"
	"github.com/HendryAvila/Nexus/internal/reasoning"
	"github.com/HendryAvila/Nexus/internal/toolkit"
)

// ─── get_reasoning_step ─────────────────────────────────────────────────────

// GetStepTool handles the get_reasoning_step MCP tool.
type GetStepTool struct {
	engine *reasoning.Engine
}

// NewGetStepTool creates a GetStepTool.
func NewGetStepTool(engine *reasoning.Engine) *GetStepTool {
	return &GetStepTool{engine: engine}
}

// Definition returns the MCP tool definition for get_reasoning_step.
func (t *GetStepTool) Definition() mcp.Tool {
	return mcp.NewTool("get_reasoning_step",
		mcp.WithDescription("Return one reasoning step with all of its fields as JSON."),
		mcp.WithString("step_id",
			mcp.Required(),
			mcp.Description("ID of the step"),
		),
	)
}

// Handle processes the get_reasoning_step tool call.
func (t *GetStepTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("step_id", "")
	if id == "" {
		return toolkit.Error(apperr.InvalidArgument("'step_id' is required")), nil
	}

	step, err := t.engine.GetStep(id)
	if err != nil {
		return toolkit.Error(err), nil
	}
	return toolkit.JSON(step)
}

// ─── get_branch_steps ───────────────────────────────────────────────────────

// BranchStepsTool handles the get_branch_steps MCP tool.
type BranchStepsTool struct {
	engine *reasoning.Engine
}

// NewBranchStepsTool creates a BranchStepsTool.
func NewBranchStepsTool(engine *reasoning.Engine) *BranchStepsTool {
	return &BranchStepsTool{engine: engine}
}

// Definition returns the MCP tool definition for get_branch_steps.
func (t *BranchStepsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_branch_steps",
		mcp.WithDescription("Return the steps of a branch in the order they were added."),
		mcp.WithString("branchId",
			mcp.Required(),
			mcp.Description("ID of the branch"),
		),
	)
}

// Handle processes the get_branch_steps tool call.
func (t *BranchStepsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("branchId", "")
	if id == "" {
		return toolkit.Error(apperr.InvalidArgument("'branchId' is required")), nil
	}

	steps, err := t.engine.BranchSteps(id)
	if err != nil {
		return toolkit.Error(err), nil
	}
	return toolkit.JSON(reasoning.ChainResult{BranchID: id, Steps: steps})
}

// ─── get_steps_by_type ──────────────────────────────────────────────────────

// StepsByTypeTool handles the get_steps_by_type MCP tool.
type StepsByTypeTool struct {
	engine *reasoning.Engine
}

// NewStepsByTypeTool creates a StepsByTypeTool.
func NewStepsByTypeTool(engine *reasoning.Engine) *StepsByTypeTool {
	return &StepsByTypeTool{engine: engine}
}

// Definition returns the MCP tool definition for get_steps_by_type.
func (t *StepsByTypeTool) Definition() mcp.Tool {
	return mcp.NewTool("get_steps_by_type",
		mcp.WithDescription("List every step of one type in creation order."),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Step type to filter by"),
			mcp.Enum(reasoning.StepTypeNames()...),
		),
	)
}

// Handle processes the get_steps_by_type tool call.
func (t *StepsByTypeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	steps, err := t.engine.StepsByType(reasoning.StepType(req.GetString("type", "")))
	if err != nil {
		return toolkit.Error(err), nil
	}
	return toolkit.JSON(steps)
}
