package domain

import (
	"context"
	"time"
)

// Stage identifies one checkpoint of the sequential workflow.
type Stage string

const (
	StageSelection   Stage = "selection"    // track / time-selection guards
	StageInsertCheck Stage = "insert_check" // hardware insert in slot 0
	StageItemScan    Stage = "item_scan"    // select items, verify MIDI takes
	StageRenderSpeed Stage = "render_speed" // helper lookup, store, realtime
	StageBypass      Stage = "bypass"       // snapshot + disable FX 1..N-1
	StageRender      Stage = "render"       // dispatch render-to-track command
	StageRestore     Stage = "restore"      // recall speed, re-enable FX
	StageTransfer    Stage = "transfer"     // move chain to the rendered track
	StageMute        Stage = "mute"         // unmute source track, mute items
)

// StageEvent is emitted when the workflow enters or leaves a stage.
type StageEvent struct {
	Timestamp time.Time  `json:"timestamp"`
	RunID     string     `json:"run_id"`
	Stage     Stage      `json:"stage"`
	Pass      RenderPass `json:"pass"`
}

// AbortEvent is emitted when a guard terminates the run.
type AbortEvent struct {
	StageEvent
	Reason string `json:"reason"`
}

// LifecycleHooks defines callbacks for workflow observability. All hooks are
// optional; nil fields are skipped. Hooks run inline on the workflow's single
// invocation thread and must not block.
type LifecycleHooks struct {
	OnStageEnter     func(context.Context, *StageEvent)
	OnStageLeave     func(context.Context, *StageEvent)
	OnAbort          func(context.Context, *AbortEvent)
	OnRenderDispatch func(context.Context, *StageEvent)
}
