package toolkit

import (
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/Nexus/internal/apperr"
)

func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestDecode(t *testing.T) {
	var dst struct {
		Name  string   `json:"name"`
		Depth *int     `json:"depth"`
		Tags  []string `json:"tags"`
	}
	err := Decode(makeReq(map[string]interface{}{
		"name":  "x",
		"depth": float64(4),
		"tags":  []interface{}{"a", "b"},
	}), &dst)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dst.Name != "x" || dst.Depth == nil || *dst.Depth != 4 || len(dst.Tags) != 2 {
		t.Errorf("decoded %+v", dst)
	}
}

func TestDecode_WrongShapeIsInvalidArgument(t *testing.T) {
	var dst struct {
		Depth *int `json:"depth"`
	}
	tests := []map[string]interface{}{
		{"depth": "three"},
		{"depth": 2.5},
	}
	for _, args := range tests {
		err := Decode(makeReq(args), &dst)
		if !apperr.Is(err, apperr.KindInvalidArgument) {
			t.Errorf("Decode(%v) = %v, want invalid_argument", args, err)
		}
	}
}

func TestBool(t *testing.T) {
	req := makeReq(map[string]interface{}{
		"yes":  true,
		"no":   false,
		"null": nil,
		"str":  "false",
		"num":  0,
	})

	tests := []struct {
		key     string
		def     bool
		want    bool
		wantErr bool
	}{
		{"yes", false, true, false},
		{"no", true, false, false},
		{"missing", true, true, false},
		{"null", true, true, false},
		{"str", true, false, true},
		{"num", true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := Bool(req, tt.key, tt.def)
			if tt.wantErr {
				if !apperr.Is(err, apperr.KindInvalidArgument) {
					t.Fatalf("Bool(%q) err = %v, want invalid_argument", tt.key, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Bool(%q): %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("Bool(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestError(t *testing.T) {
	res := Error(apperr.NotFound("node %q not found", "a"))
	if !res.IsError {
		t.Fatal("expected IsError")
	}
	if got := resultText(res); got != `[not_found] node "a" not found` {
		t.Errorf("text = %q", got)
	}

	res = Error(errors.New("plain"))
	if !strings.HasPrefix(resultText(res), "[internal]") {
		t.Errorf("untyped error should render as internal, got %q", resultText(res))
	}
}

func TestJSON(t *testing.T) {
	res, err := JSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if got := resultText(res); got != "{\n  \"a\": 1\n}" {
		t.Errorf("text = %q", got)
	}

	res, _ = JSON(func() {})
	if !res.IsError {
		t.Error("unencodable value should be a tool error")
	}
}
