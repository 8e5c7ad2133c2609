// Package graph renders the bounce pipeline as a Mermaid flowchart, for
// docs and for inspecting what a given configuration will execute.
package graph

import (
	"fmt"
	"strings"

	"github.com/jfellner/bounceflow/pkg/domain"
)

// StageNode describes one workflow checkpoint for visualization.
type StageNode struct {
	Stage   domain.Stage
	Label   string
	Guards  []string // precondition failures that abort here
	Mutates bool     // whether the stage touches session state
}

// Overlay contains run outcome data to visualize on the pipeline.
type Overlay struct {
	Completed []domain.Stage
	AbortedAt domain.Stage
}

// Pipeline returns the canonical stage sequence for the given strategy
// and selection mode.
func Pipeline(strategy string, strict bool) []StageNode {
	selectionGuards := []string{"no track selected", "empty time selection"}
	if strict {
		selectionGuards = append(selectionGuards, "multiple tracks selected")
	}

	return []StageNode{
		{Stage: domain.StageSelection, Label: "Track and loop selection", Guards: selectionGuards},
		{Stage: domain.StageInsertCheck, Label: "Hardware insert in slot 0", Guards: []string{"insert missing"}},
		{Stage: domain.StageItemScan, Label: "Scan items in loop", Guards: []string{"non-MIDI take"}},
		{Stage: domain.StageRenderSpeed, Label: "Render speed helpers", Guards: []string{"helper scripts missing"}},
		{Stage: domain.StageBypass, Label: "Bypass downstream FX", Mutates: true},
		{Stage: domain.StageRender, Label: "Render through insert", Mutates: true},
		{Stage: domain.StageRestore, Label: "Restore FX state", Mutates: true},
		{Stage: domain.StageTransfer, Label: fmt.Sprintf("Transfer chain (%s)", strategy), Mutates: true},
		{Stage: domain.StageMute, Label: "Mute source items", Mutates: true},
	}
}

// GenerateMermaid produces Mermaid flowchart syntax for the pipeline.
// Guard stages render as decisions with abort edges; mutating stages as
// plain rectangles. Overlay styling marks completed stages and the abort
// point if provided.
func GenerateMermaid(stages []StageNode, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, node := range stages {
		safeID := sanitizeMermaidID(string(node.Stage))

		opener, closer := "[", "]"
		if len(node.Guards) > 0 {
			opener, closer = "{", "}" // decision
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, node.Label, closer))

		for _, guard := range node.Guards {
			safeGuard := strings.ReplaceAll(guard, "\"", "'")
			sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> abort\n", safeID, safeGuard))
		}

		if i+1 < len(stages) {
			next := sanitizeMermaidID(string(stages[i+1].Stage))
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, next))
		}
	}

	sb.WriteString("    abort((\"abort\"))\n")

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for high contrast regardless of theme
		sb.WriteString("    classDef completed fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef aborted fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, st := range overlay.Completed {
			safeID := sanitizeMermaidID(string(st))
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s completed;\n", safeID))
			}
		}
		if overlay.AbortedAt != "" {
			sb.WriteString(fmt.Sprintf("    class %s aborted;\n", sanitizeMermaidID(string(overlay.AbortedAt))))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
