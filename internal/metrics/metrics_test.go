package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/HendryAvila/Nexus/internal/knowledge"
	"github.com/HendryAvila/Nexus/internal/reasoning"
)

func TestInstrument_CountsOutcomes(t *testing.T) {
	m := New()

	ok := m.Instrument("analyze", func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("fine"), nil
	})
	toolErr := m.Instrument("analyze", func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("bad input"), nil
	})
	hardErr := m.Instrument("find_path", func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, errors.New("boom")
	})

	req := mcp.CallToolRequest{}
	_, _ = ok(context.Background(), req)
	_, _ = ok(context.Background(), req)
	_, _ = toolErr(context.Background(), req)
	_, _ = hardErr(context.Background(), req)

	tests := []struct {
		tool, outcome string
		want          float64
	}{
		{"analyze", OutcomeOK, 2},
		{"analyze", OutcomeToolError, 1},
		{"find_path", OutcomeError, 1},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(m.ToolCalls.WithLabelValues(tt.tool, tt.outcome))
		if got != tt.want {
			t.Errorf("%s/%s = %v, want %v", tt.tool, tt.outcome, got, tt.want)
		}
	}
}

func TestObservers(t *testing.T) {
	m := New()
	m.StepCreated(reasoning.StepAnalysis)
	m.StepCreated(reasoning.StepAnalysis)
	m.GraphSaved(knowledge.Stats{Nodes: 3, Links: 2}, 0.01, nil)
	m.GraphSaved(knowledge.Stats{Nodes: 4, Links: 2}, 0.02, errors.New("disk"))

	if got := testutil.ToFloat64(m.StepsCreated.WithLabelValues("analysis")); got != 2 {
		t.Errorf("steps created = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.GraphNodes); got != 4 {
		t.Errorf("graph nodes = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.PersistErrors); got != 1 {
		t.Errorf("persist errors = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.PersistSeconds); n != 1 {
		t.Errorf("histogram series = %d, want 1", n)
	}
}

func TestRouter(t *testing.T) {
	m := New()
	m.StepCreated(reasoning.StepQuestion)
	srv := httptest.NewServer(m.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `nexus_reasoning_steps_created_total{type="question"} 1`) {
		t.Errorf("metrics output missing step counter:\n%s", body)
	}

	resp, err = http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}
}
