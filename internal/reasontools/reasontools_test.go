package reasontools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/Nexus/internal/reasoning"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

type seqIDs struct{ n int }

func (g *seqIDs) Next() string {
	g.n++
	return fmt.Sprintf("s%d", g.n)
}

func newTestEngine(t *testing.T) *reasoning.Engine {
	t.Helper()
	return reasoning.NewEngine(
		reasoning.NewStepStore(),
		reasoning.NewBranchIndex(),
		reasoning.NewFactory(&seqIDs{}, nil),
		reasoning.Options{},
	)
}

func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func allText(r *mcp.CallToolResult) []string {
	var out []string
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			out = append(out, tc.Text)
		}
	}
	return out
}

type handler interface {
	Handle(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// call runs h and fails the test on a Go-level error.
func call(t *testing.T, h handler, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	res, err := h.Handle(context.Background(), makeReq(args))
	if err != nil {
		t.Fatalf("unexpected Go error: %v", err)
	}
	return res
}

func requireToolError(t *testing.T, res *mcp.CallToolResult, kind string) {
	t.Helper()
	if !res.IsError {
		t.Fatalf("expected tool error, got %q", resultText(res))
	}
	if !strings.HasPrefix(resultText(res), "["+kind+"]") {
		t.Errorf("error = %q, want kind %q", resultText(res), kind)
	}
}

// ─── Definitions ────────────────────────────────────────────────────────────

func TestDefinitions(t *testing.T) {
	e := newTestEngine(t)
	tests := []struct {
		def      mcp.Tool
		name     string
		required []string
	}{
		{NewCreateStepTool(e).Definition(), "create_reasoning_step", []string{"type", "content"}},
		{NewAnalyzeTool(e).Definition(), "analyze", []string{"prompt"}},
		{NewSynthesizeTool(e).Definition(), "synthesize", []string{"step_ids"}},
		{NewValidateTool(e).Definition(), "validate", []string{"step_id"}},
		{NewSequentialTool(e).Definition(), "sequential_reasoning", []string{"prompt"}},
		{NewGetStepTool(e).Definition(), "get_reasoning_step", []string{"step_id"}},
		{NewBranchStepsTool(e).Definition(), "get_branch_steps", []string{"branchId"}},
		{NewStepsByTypeTool(e).Definition(), "get_steps_by_type", []string{"type"}},
		{NewUpdateStepTool(e).Definition(), "update_reasoning_step", []string{"step_id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.def.Name != tt.name {
				t.Errorf("name = %q, want %q", tt.def.Name, tt.name)
			}
			if tt.def.Description == "" {
				t.Error("description should not be empty")
			}
			for _, r := range tt.required {
				if _, ok := tt.def.InputSchema.Properties[r]; !ok {
					t.Errorf("missing %q property", r)
				}
				found := false
				for _, got := range tt.def.InputSchema.Required {
					if got == r {
						found = true
					}
				}
				if !found {
					t.Errorf("%q should be required", r)
				}
			}
		})
	}
}

// ─── create_reasoning_step ──────────────────────────────────────────────────

func TestCreateStepTool_Success(t *testing.T) {
	tool := NewCreateStepTool(newTestEngine(t))

	res := call(t, tool, map[string]interface{}{
		"type":       "hypothesis",
		"content":    "cache misses cause latency",
		"confidence": 0.8,
	})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	want := "Created hypothesis step: cache misses cause latency (ID: s1)"
	if got := resultText(res); got != want {
		t.Errorf("result = %q, want %q", got, want)
	}
}

func TestCreateStepTool_Errors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		kind string
	}{
		{"unknown type", map[string]interface{}{"type": "guess", "content": "x"}, "invalid_argument"},
		{"blank content", map[string]interface{}{"type": "analysis", "content": "  "}, "invalid_argument"},
		{"confidence out of range", map[string]interface{}{"type": "analysis", "content": "x", "confidence": 1.5}, "invalid_argument"},
		{"wrong argument shape", map[string]interface{}{"type": "analysis", "content": "x", "dependencies": "s1"}, "invalid_argument"},
		{"missing dependency", map[string]interface{}{"type": "analysis", "content": "x", "dependencies": []interface{}{"nope"}}, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := NewCreateStepTool(newTestEngine(t))
			requireToolError(t, call(t, tool, tt.args), tt.kind)
		})
	}
}

// ─── analyze ────────────────────────────────────────────────────────────────

func TestAnalyzeTool_Chain(t *testing.T) {
	tool := NewAnalyzeTool(newTestEngine(t))

	res := call(t, tool, map[string]interface{}{"prompt": "why is p99 high", "depth": float64(3)})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}

	lines := strings.Split(resultText(res), "\n")
	want := []string{
		"Step 1/3 (decomposition): Initial decomposition: why is p99 high (ID: s2)",
		"Step 2/3 (analysis): Analysis step 1: why is p99 high (ID: s3)",
		"Step 3/3 (conclusion): Final synthesis: why is p99 high (ID: s4)",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestAnalyzeTool_RejectsZeroDepth(t *testing.T) {
	tool := NewAnalyzeTool(newTestEngine(t))
	requireToolError(t, call(t, tool, map[string]interface{}{"prompt": "x", "depth": float64(0)}), "invalid_argument")
}

// ─── synthesize / validate ──────────────────────────────────────────────────

func TestSynthesizeTool(t *testing.T) {
	e := newTestEngine(t)
	a, _ := e.CreateStep(reasoning.CreateStepParams{Type: reasoning.StepAnalysis, Content: "a"})
	b, _ := e.CreateStep(reasoning.CreateStepParams{Type: reasoning.StepAnalysis, Content: "b"})
	tool := NewSynthesizeTool(e)

	res := call(t, tool, map[string]interface{}{"step_ids": []interface{}{a.ID, b.ID}})
	want := "Synthesized result (ID: s3): Combined analysis from steps s1, s2 from perspective: general"
	if got := resultText(res); got != want {
		t.Errorf("result = %q, want %q", got, want)
	}

	requireToolError(t, call(t, tool, map[string]interface{}{"step_ids": []interface{}{}}), "invalid_argument")
	requireToolError(t, call(t, tool, map[string]interface{}{"step_ids": []interface{}{a.ID, "ghost"}}), "not_found")
}

func TestValidateTool(t *testing.T) {
	e := newTestEngine(t)
	s, _ := e.CreateStep(reasoning.CreateStepParams{Type: reasoning.StepHypothesis, Content: "h"})
	tool := NewValidateTool(e)

	res := call(t, tool, map[string]interface{}{
		"step_id":  s.ID,
		"criteria": []interface{}{"consistent", "testable"},
	})
	want := "Validation result (ID: s2): Evaluated step s1 against criteria: consistent, testable"
	if got := resultText(res); got != want {
		t.Errorf("result = %q, want %q", got, want)
	}

	requireToolError(t, call(t, tool, map[string]interface{}{"step_id": "ghost"}), "not_found")
}

// ─── sequential_reasoning ───────────────────────────────────────────────────

func TestSequentialTool_OneContentItemPerStep(t *testing.T) {
	tool := NewSequentialTool(newTestEngine(t))

	res := call(t, tool, map[string]interface{}{"prompt": "is it DNS", "initialSteps": float64(4)})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	texts := allText(res)
	if len(texts) != 4 {
		t.Fatalf("got %d items, want 4", len(texts))
	}
	if !strings.Contains(texts[0], "(hypothesis): is it DNS") {
		t.Errorf("first item = %q", texts[0])
	}
	if !strings.Contains(texts[3], "(conclusion): Step 4 for: is it DNS") {
		t.Errorf("last item = %q", texts[3])
	}
}

func TestSequentialTool_ContinuesBranch(t *testing.T) {
	e := newTestEngine(t)
	tool := NewSequentialTool(e)

	call(t, tool, map[string]interface{}{"prompt": "first", "branchId": "b1"})
	call(t, tool, map[string]interface{}{"prompt": "second", "branchId": "b1", "initialSteps": float64(2)})

	steps, err := e.BranchSteps("b1")
	if err != nil {
		t.Fatalf("BranchSteps: %v", err)
	}
	if len(steps) != 5 {
		t.Errorf("branch has %d steps, want 5", len(steps))
	}
}

// ─── queries ────────────────────────────────────────────────────────────────

func TestGetStepTool_ReturnsJSON(t *testing.T) {
	e := newTestEngine(t)
	s, _ := e.CreateStep(reasoning.CreateStepParams{Type: reasoning.StepRealization, Content: "logs show 502s"})

	res := call(t, NewGetStepTool(e), map[string]interface{}{"step_id": s.ID})
	var got reasoning.Step
	if err := json.Unmarshal([]byte(resultText(res)), &got); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if got.ID != s.ID || got.Content != "logs show 502s" || got.Type != reasoning.StepRealization {
		t.Errorf("got %+v", got)
	}

	requireToolError(t, call(t, NewGetStepTool(e), map[string]interface{}{"step_id": "ghost"}), "not_found")
	requireToolError(t, call(t, NewGetStepTool(e), map[string]interface{}{}), "invalid_argument")
}

func TestBranchStepsTool(t *testing.T) {
	e := newTestEngine(t)
	chain, err := e.Analyze(reasoning.AnalyzeParams{Prompt: "p"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	res := call(t, NewBranchStepsTool(e), map[string]interface{}{"branchId": chain.BranchID})
	var got reasoning.ChainResult
	if err := json.Unmarshal([]byte(resultText(res)), &got); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(got.Steps) != 3 || got.BranchID != chain.BranchID {
		t.Errorf("got %+v", got)
	}

	requireToolError(t, call(t, NewBranchStepsTool(e), map[string]interface{}{"branchId": "nope"}), "not_found")
}

func TestStepsByTypeTool(t *testing.T) {
	e := newTestEngine(t)
	_, _ = e.CreateStep(reasoning.CreateStepParams{Type: reasoning.StepQuestion, Content: "q1"})
	_, _ = e.CreateStep(reasoning.CreateStepParams{Type: reasoning.StepAnalysis, Content: "a"})
	_, _ = e.CreateStep(reasoning.CreateStepParams{Type: reasoning.StepQuestion, Content: "q2"})

	res := call(t, NewStepsByTypeTool(e), map[string]interface{}{"type": "question"})
	var got []reasoning.Step
	if err := json.Unmarshal([]byte(resultText(res)), &got); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(got) != 2 || got[0].Content != "q1" || got[1].Content != "q2" {
		t.Errorf("got %+v", got)
	}

	res = call(t, NewStepsByTypeTool(e), map[string]interface{}{"type": "counterargument"})
	if strings.TrimSpace(resultText(res)) != "[]" {
		t.Errorf("empty type should render [], got %q", resultText(res))
	}

	requireToolError(t, call(t, NewStepsByTypeTool(e), map[string]interface{}{"type": "vibe"}), "invalid_argument")
}

// ─── update_reasoning_step ──────────────────────────────────────────────────

func TestUpdateStepTool(t *testing.T) {
	e := newTestEngine(t)
	a, _ := e.CreateStep(reasoning.CreateStepParams{Type: reasoning.StepHypothesis, Content: "a"})
	b, _ := e.CreateStep(reasoning.CreateStepParams{Type: reasoning.StepInference, Content: "b", Dependencies: []string{a.ID}})
	tool := NewUpdateStepTool(e)

	res := call(t, tool, map[string]interface{}{"step_id": a.ID, "confidence": 0.3})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	got, _ := e.GetStep(a.ID)
	if got.Confidence == nil || *got.Confidence != 0.3 {
		t.Errorf("confidence not updated: %+v", got.Confidence)
	}

	// a -> b would close a cycle since b already depends on a.
	requireToolError(t, call(t, tool, map[string]interface{}{
		"step_id":      a.ID,
		"dependencies": []interface{}{b.ID},
	}), "invalid_argument")
	requireToolError(t, call(t, tool, map[string]interface{}{"step_id": "ghost"}), "not_found")
}
