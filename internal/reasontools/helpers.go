// Package reasontools exposes the reasoning engine as MCP tools.
//
// Each tool follows the same pattern:
//   - A struct holding the reasoning.Engine, injected via constructor
//   - Definition() returns the mcp.Tool schema
//   - Handle() decodes the arguments into the engine's parameter struct
//
// Domain failures come back as tool errors tagged with their kind.
package reasontools

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/Nexus/internal/reasoning"
)

// formatChainLine renders one chain step as "Step i/n (type): content (ID: id)".
func formatChainLine(s *reasoning.Step) string {
	return fmt.Sprintf("Step %d/%d (%s): %s (ID: %s)", s.SequenceNumber, s.TotalSteps, s.Type, s.Content, s.ID)
}

func joinOr(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, ", ")
}
