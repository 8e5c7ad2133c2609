package domain

import "fmt"

// RenderPass selects which of the two host render-to-track commands the
// workflow dispatches. The two commands are not equivalent on the host side,
// so this is an intentional variant point rather than a derived condition.
type RenderPass string

const (
	// PassPrimary dispatches the first render command (the usual bounce).
	PassPrimary RenderPass = "primary"
	// PassSecondary dispatches the alternate render command, used when the
	// same material is captured a second time through the hardware chain.
	PassSecondary RenderPass = "secondary"
)

// ParsePass converts a string (CLI flag, JSON field) into a RenderPass.
func ParsePass(s string) (RenderPass, error) {
	switch RenderPass(s) {
	case PassPrimary, PassSecondary:
		return RenderPass(s), nil
	case "":
		return PassPrimary, nil
	default:
		return "", fmt.Errorf("unknown render pass %q (expected %q or %q)", s, PassPrimary, PassSecondary)
	}
}

// AutomationMode mirrors the host's per-track automation modes. Only the
// values the workflow reads or writes are modeled; the numeric values match
// the host's wire encoding so adapters can pass them through untouched.
type AutomationMode int

const (
	AutomationTrimRead AutomationMode = 0
	AutomationRead     AutomationMode = 1
	AutomationTouch    AutomationMode = 2
	AutomationWrite    AutomationMode = 3
	AutomationLatch    AutomationMode = 4
)
