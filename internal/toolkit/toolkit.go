// Package toolkit holds the argument and result plumbing shared by the MCP
// tool packages.
//
// Handlers decode arguments with Decode, report domain failures with Error
// (a tool-level error, never a Go error) and render structured results
// with JSON.
package toolkit

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/Nexus/internal/apperr"
)

// StringItems is the JSON schema for an array of strings.
var StringItems = mcp.Items(map[string]any{"type": "string"})

// Decode copies the raw tool arguments into dst through JSON so the
// destination's struct tags define the accepted shape. JSON numbers arrive
// as float64, so a fractional value for an int field is rejected here.
func Decode(req mcp.CallToolRequest, dst any) error {
	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return apperr.InvalidArgument("malformed arguments: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperr.InvalidArgument("malformed arguments: %v", err)
	}
	return nil
}

// Bool extracts an optional boolean argument. A missing or null key yields
// defaultVal; any other non-boolean value is InvalidArgument.
func Bool(req mcp.CallToolRequest, key string, defaultVal bool) (bool, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return defaultVal, nil
	}
	v, ok := raw.(bool)
	if !ok {
		return false, apperr.InvalidArgument("'%s' must be a boolean", key)
	}
	return v, nil
}

// Error renders err as a tool error prefixed with its kind, e.g.
// "[not_found] step "x" not found".
func Error(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", apperr.KindOf(err), apperr.Message(err)))
}

// JSON renders v as indented JSON text.
func JSON(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Error(apperr.Internal(err, "encoding result")), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
