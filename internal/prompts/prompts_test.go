package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func promptText(t *testing.T, r *mcp.GetPromptResult) string {
	t.Helper()
	if len(r.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(r.Messages))
	}
	tc, ok := r.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", r.Messages[0].Content)
	}
	return tc.Text
}

func TestReasoningStartPrompt(t *testing.T) {
	p := NewReasoningStartPrompt()
	if got := p.Definition().Name; got != "reasoning-start" {
		t.Errorf("name = %q", got)
	}

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"topic": "flaky deploys", "depth": "5"}
	res, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := promptText(t, res)
	for _, want := range []string{"prompt='flaky deploys'", "depth=5", "`validate`", "`synthesize`"} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt missing %q:\n%s", want, text)
		}
	}
}

func TestReasoningStartPrompt_Defaults(t *testing.T) {
	res, err := NewReasoningStartPrompt().Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if text := promptText(t, res); !strings.Contains(text, "depth=3") {
		t.Errorf("default depth not applied:\n%s", text)
	}
}

func TestStatusPrompt(t *testing.T) {
	p := NewStatusPrompt()
	if got := p.Definition().Name; got != "nexus-status" {
		t.Errorf("name = %q", got)
	}
	res, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if text := promptText(t, res); !strings.Contains(text, "reasoning://summary") {
		t.Errorf("status prompt should point at the summary resource:\n%s", text)
	}
}
