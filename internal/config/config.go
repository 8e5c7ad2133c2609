// Package config loads the workflow configuration: which plugin counts as
// the hardware insert, which host commands render and govern render speed,
// and which chain-transfer strategy a bounce uses.
package config

import (
	"fmt"
)

// Strategy names accepted in configuration.
const (
	StrategyCopy  = "copy"  // per-slot FX duplication, drops envelopes
	StrategyChunk = "chunk" // whole-chain chunk splice, keeps envelopes
)

// RenderCommands holds the two numbered host render-to-track commands. The
// pass flag decides which one a run dispatches.
type RenderCommands struct {
	Primary   int `yaml:"primary" mapstructure:"primary"`
	Secondary int `yaml:"secondary" mapstructure:"secondary"`
}

// SpeedCommands names the extension commands governing the host's render
// speed. All three must resolve on the host or the run aborts.
type SpeedCommands struct {
	Store    string `yaml:"store" mapstructure:"store"`
	Realtime string `yaml:"realtime" mapstructure:"realtime"`
	Recall   string `yaml:"recall" mapstructure:"recall"`
}

// Config is the resolved workflow configuration.
type Config struct {
	// InsertName is the FX display name expected in chain slot 0.
	InsertName string `yaml:"insert_name" mapstructure:"insert_name"`

	// Render holds the pass-selected render command IDs.
	Render RenderCommands `yaml:"render" mapstructure:"render"`

	// Speed holds the render-speed helper command names.
	Speed SpeedCommands `yaml:"speed" mapstructure:"speed"`

	// Strategy selects the chain transfer: "copy" or "chunk".
	Strategy string `yaml:"strategy" mapstructure:"strategy"`

	// StrictSelection aborts on anything but exactly one selected track.
	// When false, only an empty selection is fatal and the first selected
	// track is used.
	StrictSelection *bool `yaml:"strict_selection" mapstructure:"strict_selection"`

	// NeutralizeAutomation forces the source track to trim/read for the
	// duration of the run so automation cannot re-enable bypassed FX.
	NeutralizeAutomation *bool `yaml:"neutralize_automation" mapstructure:"neutralize_automation"`

	// UndoLabel is the user-visible label of the undo transaction.
	UndoLabel string `yaml:"undo_label" mapstructure:"undo_label"`
}

// Default returns the stock configuration: ReaInsert in slot 0, the stereo
// stem render commands, the SWS render-speed helpers, and the copy strategy.
func Default() Config {
	return Config{
		InsertName: "ReaInsert",
		Render: RenderCommands{
			Primary:   41719,
			Secondary: 41721,
		},
		Speed: SpeedCommands{
			Store:    "_XENAKIOS_STORERENDERSPEED",
			Realtime: "_XENAKIOS_SETRENDERSPEEDREALTIME",
			Recall:   "_XENAKIOS_RECALLRENDERSPEED",
		},
		Strategy:  StrategyCopy,
		UndoLabel: "Bounce MIDI through hardware insert",
	}
}

// Strict resolves the selection strictness, defaulting per strategy: the
// copy strategy historically insisted on exactly one track, the chunk
// strategy tolerated any non-empty selection.
func (c Config) Strict() bool {
	if c.StrictSelection != nil {
		return *c.StrictSelection
	}
	return c.Strategy != StrategyChunk
}

// Neutralize resolves the automation-neutralization toggle, defaulting to
// on for the chunk strategy only.
func (c Config) Neutralize() bool {
	if c.NeutralizeAutomation != nil {
		return *c.NeutralizeAutomation
	}
	return c.Strategy == StrategyChunk
}

// Validate checks the configuration is runnable.
func (c Config) Validate() error {
	if c.InsertName == "" {
		return fmt.Errorf("insert_name must not be empty")
	}
	if c.Render.Primary == 0 || c.Render.Secondary == 0 {
		return fmt.Errorf("both render command IDs must be set")
	}
	if c.Render.Primary == c.Render.Secondary {
		return fmt.Errorf("render commands must differ (primary and secondary are distinct host actions)")
	}
	if c.Speed.Store == "" || c.Speed.Realtime == "" || c.Speed.Recall == "" {
		return fmt.Errorf("all three render speed helper commands must be named")
	}
	if c.Strategy != StrategyCopy && c.Strategy != StrategyChunk {
		return fmt.Errorf("unknown strategy %q (expected %q or %q)", c.Strategy, StrategyCopy, StrategyChunk)
	}
	return nil
}
