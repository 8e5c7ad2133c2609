package ports

import (
	"context"

	"github.com/jfellner/bounceflow/pkg/domain"
)

// TrackID is an opaque host-owned track handle. Handles are only valid for
// the duration of one workflow invocation.
type TrackID int

// ItemID is an opaque host-owned media item handle.
type ItemID int

// CommandID is a numbered host action.
type CommandID int

// Tracks exposes track selection and per-track state.
type Tracks interface {
	// SelectedTracks returns the current track selection in host order.
	SelectedTracks(ctx context.Context) ([]TrackID, error)

	// TrackName returns the display name of a track.
	TrackName(ctx context.Context, track TrackID) (string, error)

	// SetTrackMuted mutes or unmutes a whole track.
	SetTrackMuted(ctx context.Context, track TrackID, muted bool) error

	// AutomationMode reads the track's current automation mode.
	AutomationMode(ctx context.Context, track TrackID) (domain.AutomationMode, error)

	// SetAutomationMode overrides the track's automation mode.
	SetAutomationMode(ctx context.Context, track TrackID, mode domain.AutomationMode) error

	// TimeSelection returns the current loop/time-selection range.
	TimeSelection(ctx context.Context) (domain.TimeRange, error)
}

// Items exposes media item selection and state. Item selection is global
// host UI state; the workflow overwrites it without locking, relying on the
// host's one-script-at-a-time execution model.
type Items interface {
	// UnselectAllItems clears the global item selection.
	UnselectAllItems(ctx context.Context) error

	// SelectItemsInRange selects every item on the selected tracks that
	// overlaps the range.
	SelectItemsInRange(ctx context.Context, r domain.TimeRange) error

	// SelectedItems returns the current item selection.
	SelectedItems(ctx context.Context) ([]ItemID, error)

	// ActiveTakeIsMIDI reports whether the item's active take is MIDI.
	ActiveTakeIsMIDI(ctx context.Context, item ItemID) (bool, error)

	// SetItemMuted mutes or unmutes a single item.
	SetItemMuted(ctx context.Context, item ItemID, muted bool) error
}

// FX exposes the per-track effect chain.
type FX interface {
	// FXCount returns the number of FX slots on a track.
	FXCount(ctx context.Context, track TrackID) (int, error)

	// FXName returns the display name of the FX at a chain index.
	FXName(ctx context.Context, track TrackID, index int) (string, error)

	// FXEnabled reads the enabled (non-bypassed) flag of an FX slot.
	FXEnabled(ctx context.Context, track TrackID, index int) (bool, error)

	// SetFXEnabled writes the enabled flag of an FX slot.
	SetFXEnabled(ctx context.Context, track TrackID, index int, enabled bool) error

	// CopyFXToTrack duplicates one FX slot onto the end of another track's
	// chain. Per-FX automation envelopes do not ride along.
	CopyFXToTrack(ctx context.Context, src TrackID, index int, dst TrackID) error

	// DeleteFX removes an FX slot, shifting later slots down.
	DeleteFX(ctx context.Context, track TrackID, index int) error
}

// Commands dispatches numbered and named host actions.
type Commands interface {
	// Dispatch runs a numbered built-in host command. Render-to-track
	// commands leave the destination track as the sole selection, a host
	// convention the workflow relies on to find the rendered track.
	Dispatch(ctx context.Context, cmd CommandID) error

	// LookupNamed resolves a named extension command. ok is false when the
	// extension registering the name is not installed.
	LookupNamed(ctx context.Context, name string) (cmd CommandID, ok bool, err error)
}

// Chunks exposes the host's textual track serialization. Only the
// chunk-splice transfer strategy touches this surface.
type Chunks interface {
	// TrackChunk serializes a track's full state to chunk text.
	TrackChunk(ctx context.Context, track TrackID) (string, error)

	// SetTrackChunk replaces a track's full state from chunk text.
	SetTrackChunk(ctx context.Context, track TrackID, chunk string) error
}

// Session groups the invocation-scoped host calls: undo transaction
// boundaries and the post-mutation view refresh.
type Session interface {
	// BeginUndoBlock opens an undo transaction covering subsequent mutations.
	BeginUndoBlock(ctx context.Context) error

	// EndUndoBlock closes the transaction under a user-visible label.
	EndUndoBlock(ctx context.Context, label string) error

	// RefreshView asks the host to repaint so the operator immediately sees
	// the new track and muted items.
	RefreshView(ctx context.Context) error
}

// Host is the full DAW scripting surface the workflow drives. Every entity
// behind it is owned by the host; the workflow holds no references beyond a
// single invocation.
type Host interface {
	Tracks
	Items
	FX
	Commands
	Chunks
	Session
}
