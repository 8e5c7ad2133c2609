package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jfellner/bounceflow/pkg/domain"
	"github.com/jfellner/bounceflow/pkg/ports"
)

// Run executes one bounce. The returned report is non-nil for every outcome,
// including aborts, so callers can journal what happened.
//
// Known gap, carried over deliberately: if the host fails between the bypass
// stage and the restore stage, the source track's FX are left disabled. The
// surrounding undo block is the operator's recovery path; the workflow does
// not attempt transactional rollback on its own.
func (e *Engine) Run(ctx context.Context, pass domain.RenderPass) (*domain.Report, error) {
	runID := e.newRunID()
	started := e.clock()

	report := &domain.Report{
		RunID:     runID,
		Pass:      pass,
		Strategy:  e.transfer.Name(),
		StartedAt: started,
	}

	logger := e.logger.With("run", runID, "pass", string(pass), "strategy", e.transfer.Name())
	logger.Info("bounce starting")

	err := e.run(ctx, runID, pass, report)
	report.Duration = e.clock().Sub(started)

	var abort *domain.AbortError
	switch {
	case err == nil:
		report.Status = domain.RunSucceeded
		logger.Info("bounce finished",
			"items_muted", report.ItemsMuted,
			"fx_transferred", report.FXTransferred,
			"duration", report.Duration)
	case errors.As(err, &abort):
		report.Status = domain.RunAborted
		report.AbortStage = abort.Stage
		report.AbortReason = abort.Reason.Error()
		e.emitAbort(ctx, runID, abort.Stage, pass, abort.Reason)
		logger.Warn("bounce aborted", "stage", string(abort.Stage), "reason", abort.Reason)
	default:
		report.Status = domain.RunFailed
		report.AbortReason = err.Error()
		logger.Error("bounce failed", "err", err)
	}

	return report, err
}

// Preflight runs only the guard checkpoints and reports whether a bounce
// would start. Item selection is still overwritten (the scan needs it), but
// no track, FX, or render state is touched.
func (e *Engine) Preflight(ctx context.Context, pass domain.RenderPass) error {
	_, err := e.runPreflight(ctx, e.newRunID(), pass)
	return err
}

func (e *Engine) run(ctx context.Context, runID string, pass domain.RenderPass, report *domain.Report) error {
	pf, err := e.runPreflight(ctx, runID, pass)
	if err != nil {
		return err
	}
	report.SourceTrack = pf.sourceName
	report.Range = pf.rng

	// All mutating stages live inside one undo transaction so the whole
	// bounce is a single undoable unit for the operator.
	if err := e.host.BeginUndoBlock(ctx); err != nil {
		return fmt.Errorf("opening undo block: %w", err)
	}
	defer func() {
		if endErr := e.host.EndUndoBlock(ctx, e.cfg.UndoLabel); endErr != nil {
			e.logger.Warn("closing undo block failed", "err", endErr)
		}
	}()

	// Automation neutralization: bypassing FX must not be overridden by
	// automation while the render runs. Restored whatever happens next.
	var prevMode domain.AutomationMode
	neutralized := false
	if e.cfg.Neutralize() {
		prevMode, err = e.host.AutomationMode(ctx, pf.source)
		if err != nil {
			return fmt.Errorf("reading automation mode: %w", err)
		}
		if prevMode != domain.AutomationTrimRead {
			if err := e.host.SetAutomationMode(ctx, pf.source, domain.AutomationTrimRead); err != nil {
				return fmt.Errorf("neutralizing automation mode: %w", err)
			}
			neutralized = true
		}
		defer func() {
			if neutralized {
				if restoreErr := e.host.SetAutomationMode(ctx, pf.source, prevMode); restoreErr != nil {
					e.logger.Warn("restoring automation mode failed", "err", restoreErr)
				}
			}
		}()
	}

	// Render speed: store the current setting, force realtime. Hardware
	// capture through the insert is only correct at 1x.
	e.emitStageEnter(ctx, runID, domain.StageRenderSpeed, pass)
	if err := e.host.Dispatch(ctx, pf.speedStore); err != nil {
		return fmt.Errorf("storing render speed: %w", err)
	}
	if err := e.host.Dispatch(ctx, pf.speedRealtime); err != nil {
		return fmt.Errorf("switching render speed to realtime: %w", err)
	}
	e.emitStageLeave(ctx, runID, domain.StageRenderSpeed, pass)

	// Bypass: snapshot every slot's enabled flag, then disable all but the
	// hardware insert. Slot 0 is never disabled here.
	e.emitStageEnter(ctx, runID, domain.StageBypass, pass)
	snapshot, err := e.captureBypass(ctx, pf.source)
	if err != nil {
		return err
	}
	for idx := 1; idx < len(snapshot); idx++ {
		if err := e.host.SetFXEnabled(ctx, pf.source, idx, false); err != nil {
			return fmt.Errorf("bypassing FX %d: %w", idx, err)
		}
	}
	e.emitStageLeave(ctx, runID, domain.StageBypass, pass)

	// Render. The pass flag picks between two distinct host commands.
	e.emitStageEnter(ctx, runID, domain.StageRender, pass)
	e.emitRenderDispatch(ctx, runID, pass)
	if err := e.host.Dispatch(ctx, e.renderCommand(pass)); err != nil {
		return fmt.Errorf("dispatching render command: %w", err)
	}
	rendered, err := e.renderedTrack(ctx, pf.source, pf.sourceName)
	if err != nil {
		return err
	}
	report.RenderedTrack, err = e.host.TrackName(ctx, rendered)
	if err != nil {
		return fmt.Errorf("querying rendered track name: %w", err)
	}
	e.emitStageLeave(ctx, runID, domain.StageRender, pass)

	// Restore: recall render speed, then replay the bypass snapshot so the
	// source track ends exactly as it started.
	e.emitStageEnter(ctx, runID, domain.StageRestore, pass)
	if err := e.host.Dispatch(ctx, pf.speedRecall); err != nil {
		return fmt.Errorf("recalling render speed: %w", err)
	}
	for idx, enabled := range snapshot {
		if err := e.host.SetFXEnabled(ctx, pf.source, idx, enabled); err != nil {
			return fmt.Errorf("restoring FX %d: %w", idx, err)
		}
	}
	e.emitStageLeave(ctx, runID, domain.StageRestore, pass)

	// Transfer the remaining chain (everything but the insert) onto the
	// rendered track.
	e.emitStageEnter(ctx, runID, domain.StageTransfer, pass)
	moved, err := e.transfer.Transfer(ctx, e.host, pf.source, rendered)
	if err != nil {
		return fmt.Errorf("transferring FX chain: %w", err)
	}
	report.FXTransferred = moved
	e.emitStageLeave(ctx, runID, domain.StageTransfer, pass)

	// Mute: the dry source items stay in the project but fall silent; the
	// rendered track carries the captured result. The source track itself
	// is unmuted in case a previous run left it muted.
	e.emitStageEnter(ctx, runID, domain.StageMute, pass)
	if err := e.host.SetTrackMuted(ctx, pf.source, false); err != nil {
		return fmt.Errorf("unmuting source track: %w", err)
	}
	for _, item := range pf.items {
		if err := e.host.SetItemMuted(ctx, item, true); err != nil {
			return fmt.Errorf("muting item: %w", err)
		}
	}
	report.ItemsMuted = len(pf.items)
	e.emitStageLeave(ctx, runID, domain.StageMute, pass)

	if err := e.host.RefreshView(ctx); err != nil {
		e.logger.Warn("view refresh failed", "err", err)
	}

	return nil
}

// captureBypass snapshots the enabled flag of every slot on the track.
func (e *Engine) captureBypass(ctx context.Context, track ports.TrackID) (domain.BypassSnapshot, error) {
	count, err := e.host.FXCount(ctx, track)
	if err != nil {
		return nil, fmt.Errorf("querying FX count: %w", err)
	}
	snapshot := make(domain.BypassSnapshot, count)
	for idx := 0; idx < count; idx++ {
		enabled, err := e.host.FXEnabled(ctx, track, idx)
		if err != nil {
			return nil, fmt.Errorf("reading FX %d enabled flag: %w", idx, err)
		}
		snapshot[idx] = enabled
	}
	return snapshot, nil
}

func (e *Engine) renderCommand(pass domain.RenderPass) ports.CommandID {
	if pass == domain.PassSecondary {
		return ports.CommandID(e.cfg.Render.Secondary)
	}
	return ports.CommandID(e.cfg.Render.Primary)
}

// renderedTrack resolves the destination of the render command. Render-to-
// track commands leave the new track as the sole selection; when a host
// keeps earlier tracks selected alongside it, the stem is recognized by the
// naming convention instead: source name plus a render suffix.
func (e *Engine) renderedTrack(ctx context.Context, source ports.TrackID, sourceName string) (ports.TrackID, error) {
	selected, err := e.host.SelectedTracks(ctx)
	if err != nil {
		return 0, fmt.Errorf("querying selection after render: %w", err)
	}

	var candidates []ports.TrackID
	for _, track := range selected {
		if track != source {
			candidates = append(candidates, track)
		}
	}
	if len(candidates) == 0 {
		return 0, fmt.Errorf("render command did not select a new track")
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	for _, track := range candidates {
		name, err := e.host.TrackName(ctx, track)
		if err != nil {
			return 0, fmt.Errorf("querying candidate track name: %w", err)
		}
		if len(name) > len(sourceName) && strings.HasPrefix(name, sourceName) {
			return track, nil
		}
	}
	return 0, fmt.Errorf("cannot identify the rendered track among %d selected tracks", len(candidates))
}
