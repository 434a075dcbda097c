package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the nexus-status MCP prompt.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("nexus-status",
		mcp.WithPromptDescription(
			"Summarize what Nexus currently holds: reasoning steps by type, "+
				"open branches and the shape of the knowledge graph.",
		),
	)
}

// Handle processes the nexus-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Nexus Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please read the `reasoning://summary` resource and run `read_graph`.\n\n" +
						"Then:\n" +
						"1. Show how many reasoning steps exist per type and how many branches\n" +
						"2. List the most connected nodes in the knowledge graph\n" +
						"3. Point out branches that never reached a conclusion\n" +
						"4. Suggest what to reason about next",
				),
			},
		},
	}, nil
}
