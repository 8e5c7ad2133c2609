package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/jfellner/bounceflow/pkg/domain"
	"github.com/jfellner/bounceflow/pkg/ports"
)

// preflight is everything the guard stages establish before any mutation of
// track or FX state. Item selection is overwritten during the scan, but that
// is transient UI state the host does not treat as document state.
type preflight struct {
	source     ports.TrackID
	sourceName string
	rng        domain.TimeRange
	items      []ports.ItemID

	speedStore    ports.CommandID
	speedRealtime ports.CommandID
	speedRecall   ports.CommandID
}

// runPreflight walks the guard checkpoints in order. Any failure is terminal
// for the invocation; nothing needs rolling back because nothing durable has
// been touched yet.
func (e *Engine) runPreflight(ctx context.Context, runID string, pass domain.RenderPass) (*preflight, error) {
	pf := &preflight{}

	// Track selection guard.
	e.emitStageEnter(ctx, runID, domain.StageSelection, pass)
	selected, err := e.host.SelectedTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying track selection: %w", err)
	}
	switch {
	case len(selected) == 0:
		return nil, domain.Abort(domain.StageSelection, domain.ErrNoTrackSelected)
	case len(selected) > 1 && e.cfg.Strict():
		return nil, domain.Abort(domain.StageSelection, domain.ErrMultipleTracksSelected)
	}
	pf.source = selected[0]

	// Loop range guard.
	pf.rng, err = e.host.TimeSelection(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying time selection: %w", err)
	}
	if pf.rng.Empty() {
		return nil, domain.Abort(domain.StageSelection, domain.ErrEmptyTimeSelection)
	}

	pf.sourceName, err = e.host.TrackName(ctx, pf.source)
	if err != nil {
		return nil, fmt.Errorf("querying track name: %w", err)
	}
	e.emitStageLeave(ctx, runID, domain.StageSelection, pass)

	// Hardware insert guard: slot 0 must carry the configured insert. This
	// is the contract that keeps the workflow off tracks it was never set
	// up for.
	e.emitStageEnter(ctx, runID, domain.StageInsertCheck, pass)
	count, err := e.host.FXCount(ctx, pf.source)
	if err != nil {
		return nil, fmt.Errorf("querying FX count: %w", err)
	}
	if count == 0 {
		return nil, domain.Abort(domain.StageInsertCheck, domain.ErrHardwareInsertMissing)
	}
	name, err := e.host.FXName(ctx, pf.source, 0)
	if err != nil {
		return nil, fmt.Errorf("querying FX name: %w", err)
	}
	if !strings.Contains(name, e.cfg.InsertName) {
		return nil, domain.Abort(domain.StageInsertCheck, domain.ErrHardwareInsertMissing)
	}
	e.emitStageLeave(ctx, runID, domain.StageInsertCheck, pass)

	// Item scan: select everything under the loop range, then insist every
	// active take is MIDI. One bad item aborts the whole run; the bypass/
	// render/restore sequence is never applied to audio it cannot reason
	// about.
	e.emitStageEnter(ctx, runID, domain.StageItemScan, pass)
	if err := e.host.UnselectAllItems(ctx); err != nil {
		return nil, fmt.Errorf("clearing item selection: %w", err)
	}
	if err := e.host.SelectItemsInRange(ctx, pf.rng); err != nil {
		return nil, fmt.Errorf("selecting items in range: %w", err)
	}
	pf.items, err = e.host.SelectedItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying item selection: %w", err)
	}
	for _, item := range pf.items {
		isMIDI, err := e.host.ActiveTakeIsMIDI(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("querying take type: %w", err)
		}
		if !isMIDI {
			return nil, domain.Abort(domain.StageItemScan, domain.ErrNonMIDITake)
		}
	}
	e.emitStageLeave(ctx, runID, domain.StageItemScan, pass)

	// Render speed helper lookup. Missing names mean the host extension is
	// not installed: a hard dependency, not a recoverable condition.
	e.emitStageEnter(ctx, runID, domain.StageRenderSpeed, pass)
	pf.speedStore, err = e.lookupNamed(ctx, e.cfg.Speed.Store)
	if err != nil {
		return nil, err
	}
	pf.speedRealtime, err = e.lookupNamed(ctx, e.cfg.Speed.Realtime)
	if err != nil {
		return nil, err
	}
	pf.speedRecall, err = e.lookupNamed(ctx, e.cfg.Speed.Recall)
	if err != nil {
		return nil, err
	}
	e.emitStageLeave(ctx, runID, domain.StageRenderSpeed, pass)

	return pf, nil
}

func (e *Engine) lookupNamed(ctx context.Context, name string) (ports.CommandID, error) {
	cmd, ok, err := e.host.LookupNamed(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("resolving command %q: %w", name, err)
	}
	if !ok {
		return 0, domain.Abort(domain.StageRenderSpeed, domain.ErrRenderSpeedHelperMissing)
	}
	return cmd, nil
}
