// Package prompts implements MCP prompt handlers for Nexus.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReasoningStartPrompt handles the reasoning-start MCP prompt.
// It walks the AI through analyze, validate and synthesize on one topic.
type ReasoningStartPrompt struct{}

// NewReasoningStartPrompt creates a ReasoningStartPrompt.
func NewReasoningStartPrompt() *ReasoningStartPrompt {
	return &ReasoningStartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReasoningStartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("reasoning-start",
		mcp.WithPromptDescription(
			"Reason through a problem step by step. Builds an analysis chain, "+
				"checks its weakest step, synthesizes a result and records the "+
				"key entities in the knowledge graph.",
		),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("The problem or question to reason about"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("depth",
			mcp.ArgumentDescription("Number of steps in the analysis chain. Default: 3"),
		),
	)
}

// Handle processes the reasoning-start prompt request.
func (p *ReasoningStartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := "the current problem"
	depth := "3"
	if args := req.Params.Arguments; args != nil {
		if v := strings.TrimSpace(args["topic"]); v != "" {
			topic = v
		}
		if v := strings.TrimSpace(args["depth"]); v != "" {
			depth = v
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Reason about: %s", topic),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to reason carefully about: %s\n\n"+
						"Please:\n"+
						"1. Run `analyze` with prompt='%s' and depth=%s\n"+
						"2. Pick the step you trust least and run `validate` on it with concrete criteria\n"+
						"3. Record anything you learned along the way with `create_reasoning_step` "+
						"(use counterargument, revision or realization where they fit)\n"+
						"4. Run `synthesize` over the steps that survived, then state the result plainly\n"+
						"5. Store the key entities and how they relate with `create_entities` and `create_relations`",
					topic, topic, depth,
				)),
			},
		},
	}, nil
}
