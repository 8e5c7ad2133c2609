package domain

import "time"

// RunStatus describes how an invocation ended.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunAborted   RunStatus = "aborted"
	RunFailed    RunStatus = "failed" // host error after mutation began
)

// Report is the record of one workflow invocation. Nothing in a report
// outlives the host entities it names; it exists for the operator, the run
// journal, and the HTTP/MCP surfaces.
type Report struct {
	RunID         string        `json:"run_id"`
	Status        RunStatus     `json:"status"`
	Pass          RenderPass    `json:"pass"`
	Strategy      string        `json:"strategy"`
	SourceTrack   string        `json:"source_track,omitempty"`
	RenderedTrack string        `json:"rendered_track,omitempty"`
	Range         TimeRange     `json:"range"`
	ItemsMuted    int           `json:"items_muted"`
	FXTransferred int           `json:"fx_transferred"`
	AbortStage    Stage         `json:"abort_stage,omitempty"`
	AbortReason   string        `json:"abort_reason,omitempty"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration"`
}

// Succeeded reports whether the run completed all stages.
func (r *Report) Succeeded() bool {
	return r.Status == RunSucceeded
}
