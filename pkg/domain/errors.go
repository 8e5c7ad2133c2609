package domain

import (
	"errors"
	"fmt"
)

// Guard failures. Every one of these aborts the run before (or instead of)
// the stage that would have mutated host state.
var (
	// ErrNoTrackSelected is returned when the host reports no selected track.
	ErrNoTrackSelected = errors.New("no track selected")

	// ErrMultipleTracksSelected is returned in strict-selection mode when
	// more than one track is selected.
	ErrMultipleTracksSelected = errors.New("more than one track selected")

	// ErrEmptyTimeSelection is returned when the loop range is degenerate.
	ErrEmptyTimeSelection = errors.New("time selection is empty")

	// ErrHardwareInsertMissing is returned when the first FX slot does not
	// carry the configured hardware-insert plugin. This is the contract that
	// keeps the workflow off tracks it was never set up for.
	ErrHardwareInsertMissing = errors.New("hardware insert not found in first FX slot")

	// ErrNonMIDITake is returned when any selected item's active take is not
	// MIDI. The whole run aborts; there is no partial processing.
	ErrNonMIDITake = errors.New("selected item has a non-MIDI active take")

	// ErrRenderSpeedHelperMissing is returned when the named render-speed
	// commands cannot be resolved, meaning the required host extension is
	// not installed. Hard dependency, not a recoverable condition.
	ErrRenderSpeedHelperMissing = errors.New("render speed helper commands unavailable")

	// ErrReportNotFound is returned by report stores for unknown run IDs.
	ErrReportNotFound = errors.New("report not found")
)

// AbortError wraps a guard failure with the stage it occurred in.
type AbortError struct {
	Stage  Stage
	Reason error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("bounce aborted at stage %q: %v", e.Stage, e.Reason)
}

func (e *AbortError) Unwrap() error {
	return e.Reason
}

// Abort builds an AbortError for a stage.
func Abort(stage Stage, reason error) *AbortError {
	return &AbortError{Stage: stage, Reason: reason}
}

// AbortReason extracts the underlying guard error if err is an abort,
// and nil otherwise.
func AbortReason(err error) error {
	var abort *AbortError
	if errors.As(err, &abort) {
		return abort.Reason
	}
	return nil
}
