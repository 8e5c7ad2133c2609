// Package memory provides in-memory implementations of the bounceflow
// ports: a fake DAW host and a report store. The fake host backs the test
// suite, the CLI dry-run mode, and the demo HTTP/MCP servers; it models just
// enough of a real host (selection state, FX chains, chunk serialization,
// command dispatch) for the workflow to run end to end.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jfellner/bounceflow/pkg/domain"
	"github.com/jfellner/bounceflow/pkg/ports"
)

// FXSlot is one effect in a fake track's chain.
type FXSlot struct {
	Name      string
	Enabled   bool
	Envelopes int // per-FX automation envelopes, carried only by chunk splices
}

type track struct {
	name       string
	muted      bool
	selected   bool
	automation domain.AutomationMode
	fx         []FXSlot
}

type item struct {
	track    ports.TrackID
	start    float64
	end      float64
	midi     bool
	smf      []byte
	muted    bool
	selected bool
}

// Host is a fake scripting surface. Safe for concurrent use, although a
// real host runs scripts one at a time on its main thread.
type Host struct {
	mu sync.RWMutex

	tracks map[ports.TrackID]*track
	items  map[ports.ItemID]*item
	order  []ports.TrackID

	timeSel domain.TimeRange

	named    map[string]ports.CommandID
	commands map[ports.CommandID]func()
	nextCmd  ports.CommandID

	nextTrack ports.TrackID
	nextItem  ports.ItemID

	undoDepth  int
	undoLabels []string
	refreshes  int
	journal    []string
}

// NewHost creates an empty fake host.
func NewHost() *Host {
	return &Host{
		tracks:   make(map[ports.TrackID]*track),
		items:    make(map[ports.ItemID]*item),
		named:    make(map[string]ports.CommandID),
		commands: make(map[ports.CommandID]func()),
		nextCmd:  50000, // room below for numbered built-ins
	}
}

var _ ports.Host = (*Host)(nil)

// --- fixture construction ---

// AddTrack appends a track and returns its handle.
func (h *Host) AddTrack(name string) ports.TrackID {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextTrack++
	id := h.nextTrack
	h.tracks[id] = &track{name: name}
	h.order = append(h.order, id)
	return id
}

// AddFX appends an FX slot to a track's chain and returns its index.
func (h *Host) AddFX(trackID ports.TrackID, name string, enabled bool) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	t := h.tracks[trackID]
	t.fx = append(t.fx, FXSlot{Name: name, Enabled: enabled})
	return len(t.fx) - 1
}

// AddFXEnvelope attaches an automation envelope to an FX slot.
func (h *Host) AddFXEnvelope(trackID ports.TrackID, index int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tracks[trackID].fx[index].Envelopes++
}

// AddMIDIItem places an item with a MIDI active take on a track. The data
// must be a parseable Standard MIDI File.
func (h *Host) AddMIDIItem(trackID ports.TrackID, start, end float64, data []byte) (ports.ItemID, error) {
	if err := ValidateSMF(data); err != nil {
		return 0, fmt.Errorf("not a standard MIDI file: %w", err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextItem++
	id := h.nextItem
	h.items[id] = &item{track: trackID, start: start, end: end, midi: true, smf: data}
	return id, nil
}

// AddAudioItem places an item with an audio active take on a track.
func (h *Host) AddAudioItem(trackID ports.TrackID, start, end float64) ports.ItemID {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextItem++
	id := h.nextItem
	h.items[id] = &item{track: trackID, start: start, end: end}
	return id
}

// SelectTracks replaces the track selection.
func (h *Host) SelectTracks(ids ...ports.TrackID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range h.tracks {
		t.selected = false
	}
	for _, id := range ids {
		if t, ok := h.tracks[id]; ok {
			t.selected = true
		}
	}
}

// SetTimeSelection sets the loop range.
func (h *Host) SetTimeSelection(start, end float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.timeSel = domain.TimeRange{Start: start, End: end}
}

// RegisterNamed registers a named extension command with a no-op body and
// returns the assigned numbered ID.
func (h *Host) RegisterNamed(name string) ports.CommandID {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextCmd++
	id := h.nextCmd
	h.named[name] = id
	h.commands[id] = func() {}
	return id
}

// InstallRenderCommand registers a numbered command that emulates the host's
// render-to-new-track behavior: a stem track named after the source (plus
// suffix) is inserted after it, receives one audio item spanning the time
// selection, and becomes the sole track selection, matching the convention
// the Commands port documents.
func (h *Host) InstallRenderCommand(cmd int, suffix string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands[ports.CommandID(cmd)] = func() {
		var src ports.TrackID
		for _, id := range h.order {
			if h.tracks[id].selected {
				src = id
				break
			}
		}
		if src == 0 {
			return
		}

		for _, t := range h.tracks {
			t.selected = false
		}

		h.nextTrack++
		stem := h.nextTrack
		h.tracks[stem] = &track{name: h.tracks[src].name + suffix, selected: true}
		for i, id := range h.order {
			if id == src {
				h.order = append(h.order[:i+1], append([]ports.TrackID{stem}, h.order[i+1:]...)...)
				break
			}
		}

		h.nextItem++
		h.items[h.nextItem] = &item{track: stem, start: h.timeSel.Start, end: h.timeSel.End}
	}
}

// Journal returns the dispatch log, oldest first.
func (h *Host) Journal() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.journal))
	copy(out, h.journal)
	return out
}

// UndoLabels returns the labels of closed undo blocks.
func (h *Host) UndoLabels() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.undoLabels))
	copy(out, h.undoLabels)
	return out
}

// Refreshes returns how many view refreshes were requested.
func (h *Host) Refreshes() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.refreshes
}

// TrackFX returns a copy of a track's chain for assertions.
func (h *Host) TrackFX(trackID ports.TrackID) []FXSlot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	t := h.tracks[trackID]
	if t == nil {
		return nil
	}
	out := make([]FXSlot, len(t.fx))
	copy(out, t.fx)
	return out
}

// TrackMuted reports a track's mute flag.
func (h *Host) TrackMuted(trackID ports.TrackID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.tracks[trackID].muted
}

// ItemMuted reports an item's mute flag.
func (h *Host) ItemMuted(itemID ports.ItemID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.items[itemID].muted
}

// TrackAutomation reports a track's automation mode.
func (h *Host) TrackAutomation(trackID ports.TrackID) domain.AutomationMode {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.tracks[trackID].automation
}

// --- ports.Tracks ---

func (h *Host) SelectedTracks(ctx context.Context) ([]ports.TrackID, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []ports.TrackID
	for _, id := range h.order {
		if h.tracks[id].selected {
			out = append(out, id)
		}
	}
	return out, nil
}

func (h *Host) TrackName(ctx context.Context, id ports.TrackID) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	t, ok := h.tracks[id]
	if !ok {
		return "", fmt.Errorf("unknown track %d", id)
	}
	return t.name, nil
}

func (h *Host) SetTrackMuted(ctx context.Context, id ports.TrackID, muted bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.tracks[id]
	if !ok {
		return fmt.Errorf("unknown track %d", id)
	}
	t.muted = muted
	return nil
}

func (h *Host) AutomationMode(ctx context.Context, id ports.TrackID) (domain.AutomationMode, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	t, ok := h.tracks[id]
	if !ok {
		return 0, fmt.Errorf("unknown track %d", id)
	}
	return t.automation, nil
}

func (h *Host) SetAutomationMode(ctx context.Context, id ports.TrackID, mode domain.AutomationMode) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.tracks[id]
	if !ok {
		return fmt.Errorf("unknown track %d", id)
	}
	t.automation = mode
	return nil
}

func (h *Host) TimeSelection(ctx context.Context) (domain.TimeRange, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.timeSel, nil
}

// --- ports.Items ---

func (h *Host) UnselectAllItems(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, it := range h.items {
		it.selected = false
	}
	return nil
}

func (h *Host) SelectItemsInRange(ctx context.Context, r domain.TimeRange) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, it := range h.items {
		if h.tracks[it.track].selected && r.Overlaps(it.start, it.end) {
			it.selected = true
		}
	}
	return nil
}

func (h *Host) SelectedItems(ctx context.Context) ([]ports.ItemID, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []ports.ItemID
	for id, it := range h.items {
		if it.selected {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (h *Host) ActiveTakeIsMIDI(ctx context.Context, id ports.ItemID) (bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	it, ok := h.items[id]
	if !ok {
		return false, fmt.Errorf("unknown item %d", id)
	}
	return it.midi, nil
}

func (h *Host) SetItemMuted(ctx context.Context, id ports.ItemID, muted bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	it, ok := h.items[id]
	if !ok {
		return fmt.Errorf("unknown item %d", id)
	}
	it.muted = muted
	return nil
}

// --- ports.FX ---

func (h *Host) FXCount(ctx context.Context, id ports.TrackID) (int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	t, ok := h.tracks[id]
	if !ok {
		return 0, fmt.Errorf("unknown track %d", id)
	}
	return len(t.fx), nil
}

func (h *Host) FXName(ctx context.Context, id ports.TrackID, index int) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	slot, err := h.slot(id, index)
	if err != nil {
		return "", err
	}
	return slot.Name, nil
}

func (h *Host) FXEnabled(ctx context.Context, id ports.TrackID, index int) (bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	slot, err := h.slot(id, index)
	if err != nil {
		return false, err
	}
	return slot.Enabled, nil
}

func (h *Host) SetFXEnabled(ctx context.Context, id ports.TrackID, index int, enabled bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	slot, err := h.slot(id, index)
	if err != nil {
		return err
	}
	slot.Enabled = enabled
	return nil
}

func (h *Host) CopyFXToTrack(ctx context.Context, src ports.TrackID, index int, dst ports.TrackID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	slot, err := h.slot(src, index)
	if err != nil {
		return err
	}
	d, ok := h.tracks[dst]
	if !ok {
		return fmt.Errorf("unknown track %d", dst)
	}
	// Copy drops envelopes, matching the host's per-FX copy behavior.
	d.fx = append(d.fx, FXSlot{Name: slot.Name, Enabled: slot.Enabled})
	return nil
}

func (h *Host) DeleteFX(ctx context.Context, id ports.TrackID, index int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.tracks[id]
	if !ok {
		return fmt.Errorf("unknown track %d", id)
	}
	if index < 0 || index >= len(t.fx) {
		return fmt.Errorf("fx index %d out of range", index)
	}
	t.fx = append(t.fx[:index], t.fx[index+1:]...)
	return nil
}

func (h *Host) slot(id ports.TrackID, index int) (*FXSlot, error) {
	t, ok := h.tracks[id]
	if !ok {
		return nil, fmt.Errorf("unknown track %d", id)
	}
	if index < 0 || index >= len(t.fx) {
		return nil, fmt.Errorf("fx index %d out of range", index)
	}
	return &t.fx[index], nil
}

// --- ports.Commands ---

func (h *Host) Dispatch(ctx context.Context, cmd ports.CommandID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn, ok := h.commands[cmd]
	if !ok {
		return fmt.Errorf("unknown command %d", cmd)
	}
	h.journal = append(h.journal, fmt.Sprintf("dispatch:%d", cmd))
	fn()
	return nil
}

func (h *Host) LookupNamed(ctx context.Context, name string) (ports.CommandID, bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	cmd, ok := h.named[name]
	return cmd, ok, nil
}

// --- ports.Chunks ---

func (h *Host) TrackChunk(ctx context.Context, id ports.TrackID) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	t, ok := h.tracks[id]
	if !ok {
		return "", fmt.Errorf("unknown track %d", id)
	}

	var b strings.Builder
	b.WriteString("<TRACK\n")
	fmt.Fprintf(&b, "  NAME %q\n", t.name)
	if len(t.fx) > 0 {
		b.WriteString("  <FXCHAIN\n")
		for _, slot := range t.fx {
			enabled := 1
			if !slot.Enabled {
				enabled = 0
			}
			fmt.Fprintf(&b, "    <VST %q dll 0\n      BYPASS %d\n", slot.Name, enabled)
			for i := 0; i < slot.Envelopes; i++ {
				fmt.Fprintf(&b, "      <PARMENV %d 0 1 0.5\n        PT 0 0.5 0\n      >\n", i)
			}
			b.WriteString("    >\n")
		}
		b.WriteString("  >\n")
	}
	b.WriteString(">")
	return b.String(), nil
}

func (h *Host) SetTrackChunk(ctx context.Context, id ports.TrackID, chunkText string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.tracks[id]
	if !ok {
		return fmt.Errorf("unknown track %d", id)
	}

	// Rebuild the FX chain from chunk text. Only the pieces this fake emits
	// are understood; anything else in the chunk is ignored.
	var fx []FXSlot
	for _, line := range strings.Split(chunkText, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "<VST "):
			name := trimmed[len("<VST "):]
			if q, err := unquoteLeading(name); err == nil {
				fx = append(fx, FXSlot{Name: q, Enabled: true})
			}
		case strings.HasPrefix(trimmed, "BYPASS "):
			if len(fx) > 0 {
				fx[len(fx)-1].Enabled = !strings.HasPrefix(trimmed, "BYPASS 0")
			}
		case strings.HasPrefix(trimmed, "<PARMENV"):
			if len(fx) > 0 {
				fx[len(fx)-1].Envelopes++
			}
		}
	}
	t.fx = fx
	return nil
}

func unquoteLeading(s string) (string, error) {
	if !strings.HasPrefix(s, `"`) {
		return "", fmt.Errorf("no leading quote in %q", s)
	}
	end := strings.Index(s[1:], `"`)
	if end < 0 {
		return "", fmt.Errorf("unterminated quote in %q", s)
	}
	return s[1 : 1+end], nil
}

// --- ports.Session ---

func (h *Host) BeginUndoBlock(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoDepth++
	h.journal = append(h.journal, "undo:begin")
	return nil
}

func (h *Host) EndUndoBlock(ctx context.Context, label string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.undoDepth == 0 {
		return fmt.Errorf("no open undo block")
	}
	h.undoDepth--
	h.undoLabels = append(h.undoLabels, label)
	h.journal = append(h.journal, "undo:end")
	return nil
}

func (h *Host) RefreshView(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.refreshes++
	return nil
}
