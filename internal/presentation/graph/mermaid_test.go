package graph_test

import (
	"strings"
	"testing"

	"github.com/jfellner/bounceflow/internal/presentation/graph"
	"github.com/jfellner/bounceflow/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		stages   []graph.StageNode
		overlay  *graph.Overlay
		contains []string
	}{
		{
			name:   "Guard Stage Shape",
			stages: graph.Pipeline("copy", true),
			contains: []string{
				"selection{\"Track and loop selection\"}",
				"selection -. \"multiple tracks selected\" .-> abort",
				"selection --> insert_check",
			},
		},
		{
			name:   "Lenient Selection Drops Multi Track Guard",
			stages: graph.Pipeline("chunk", false),
			contains: []string{
				"Transfer chain (chunk)",
			},
		},
		{
			name:   "Mutating Stage Shape",
			stages: graph.Pipeline("copy", true),
			contains: []string{
				"bypass[\"Bypass downstream FX\"]",
				"render[\"Render through insert\"]",
			},
		},
		{
			name:   "Overlay Styles",
			stages: graph.Pipeline("copy", true),
			overlay: &graph.Overlay{
				Completed: []domain.Stage{domain.StageSelection, domain.StageSelection},
				AbortedAt: domain.StageInsertCheck,
			},
			contains: []string{
				"class selection completed;",
				"class insert_check aborted;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(tt.stages, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("expected output to contain %q\ngot:\n%s", want, out)
				}
			}
		})
	}
}

func TestGenerateMermaid_DeduplicatesOverlay(t *testing.T) {
	out := graph.GenerateMermaid(graph.Pipeline("copy", true), &graph.Overlay{
		Completed: []domain.Stage{domain.StageSelection, domain.StageSelection},
	})
	if strings.Count(out, "class selection completed;") != 1 {
		t.Errorf("expected overlay class to appear once:\n%s", out)
	}
}
