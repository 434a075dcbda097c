package resources

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/Nexus/internal/knowledge"
	"github.com/HendryAvila/Nexus/internal/reasoning"
)

func newTestHandler(t *testing.T) (*Handler, *knowledge.Graph, *reasoning.Engine) {
	t.Helper()
	g, err := knowledge.Open(knowledge.NewFileStore(t.TempDir()), knowledge.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	e := reasoning.NewEngine(reasoning.NewStepStore(), reasoning.NewBranchIndex(), reasoning.NewFactory(nil, nil), reasoning.Options{})
	return NewHandler(g, e), g, e
}

func read(t *testing.T, fn func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error), uri string) mcp.TextResourceContents {
	t.Helper()
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	out, err := fn(context.Background(), req)
	if err != nil {
		t.Fatalf("read %s: %v", uri, err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d contents, want 1", len(out))
	}
	tc, ok := out[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content is %T", out[0])
	}
	return tc
}

func TestGraphResource(t *testing.T) {
	h, g, _ := newTestHandler(t)
	if _, err := g.CreateEntities([]knowledge.EntityInput{{Name: "Go", NodeType: "language"}}); err != nil {
		t.Fatalf("CreateEntities: %v", err)
	}

	if got := h.GraphResource().URI; got != GraphURI {
		t.Errorf("URI = %q", got)
	}
	tc := read(t, h.HandleGraph, GraphURI)
	if tc.MIMEType != "application/json" {
		t.Errorf("MIME = %q", tc.MIMEType)
	}
	var snap knowledge.Snapshot
	if err := json.Unmarshal([]byte(tc.Text), &snap); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if len(snap.Nodes) != 1 || snap.Nodes[0].ID != "Go" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestReasoningSummaryResource(t *testing.T) {
	h, _, e := newTestHandler(t)
	if _, err := e.Analyze(reasoning.AnalyzeParams{Prompt: "p"}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got := h.ReasoningSummaryResource().URI; got != ReasoningSummaryURI {
		t.Errorf("URI = %q", got)
	}
	var sum reasoning.Summary
	if err := json.Unmarshal([]byte(read(t, h.HandleReasoningSummary, ReasoningSummaryURI).Text), &sum); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if sum.TotalSteps != 3 || sum.Branches != 1 || sum.ByType[reasoning.StepAnalysis] != 1 {
		t.Errorf("summary = %+v", sum)
	}
}
