package memory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jfellner/bounceflow/internal/config"
)

// ProjectFX describes one FX slot in a project fixture.
type ProjectFX struct {
	Name      string `yaml:"name"`
	Enabled   *bool  `yaml:"enabled"`
	Envelopes int    `yaml:"envelopes"`
}

// ProjectItem describes one media item in a project fixture.
type ProjectItem struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
	MIDI  bool    `yaml:"midi"`
	// File optionally points at a .mid file used as the take payload.
	// Without it, MIDI items get a synthesized one-note file.
	File string `yaml:"file"`
}

// ProjectTrack describes one track in a project fixture.
type ProjectTrack struct {
	Name     string        `yaml:"name"`
	Selected bool          `yaml:"selected"`
	FX       []ProjectFX   `yaml:"fx"`
	Items    []ProjectItem `yaml:"items"`
}

// Project is the YAML shape the CLI dry-run mode loads a fake host from.
type Project struct {
	TimeSelection struct {
		Start float64 `yaml:"start"`
		End   float64 `yaml:"end"`
	} `yaml:"time_selection"`
	Tracks []ProjectTrack `yaml:"tracks"`
}

// LoadProject reads a project fixture and builds a fake host from it. The
// workflow configuration decides which render and helper commands get
// installed.
func LoadProject(path string, cfg config.Config) (*Host, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}

	var project Project
	if err := yaml.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("invalid project yaml: %w", err)
	}
	return BuildHost(project, cfg)
}

// BuildHost constructs a fake host from a project description.
func BuildHost(project Project, cfg config.Config) (*Host, error) {
	h := NewHost()
	h.SetTimeSelection(project.TimeSelection.Start, project.TimeSelection.End)

	var selected []int
	for i, pt := range project.Tracks {
		id := h.AddTrack(pt.Name)
		if pt.Selected {
			selected = append(selected, i)
		}
		for _, fx := range pt.FX {
			enabled := true
			if fx.Enabled != nil {
				enabled = *fx.Enabled
			}
			idx := h.AddFX(id, fx.Name, enabled)
			for e := 0; e < fx.Envelopes; e++ {
				h.AddFXEnvelope(id, idx)
			}
		}
		for _, it := range pt.Items {
			if !it.MIDI {
				h.AddAudioItem(id, it.Start, it.End)
				continue
			}
			payload, err := itemPayload(it)
			if err != nil {
				return nil, fmt.Errorf("track %q: %w", pt.Name, err)
			}
			if _, err := h.AddMIDIItem(id, it.Start, it.End, payload); err != nil {
				return nil, fmt.Errorf("track %q: %w", pt.Name, err)
			}
		}
	}

	// Selection is index-based in the fixture; resolve to handles.
	h.selectByIndex(selected)

	h.InstallRenderCommand(cfg.Render.Primary, " - stem")
	h.InstallRenderCommand(cfg.Render.Secondary, " - stem 2")
	h.RegisterNamed(cfg.Speed.Store)
	h.RegisterNamed(cfg.Speed.Realtime)
	h.RegisterNamed(cfg.Speed.Recall)

	return h, nil
}

func itemPayload(it ProjectItem) ([]byte, error) {
	if it.File == "" {
		return MinimalSMF(60), nil
	}
	data, err := os.ReadFile(it.File)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return data, nil
}

// selectByIndex selects tracks by their position in insertion order.
func (h *Host) selectByIndex(indexes []int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range h.tracks {
		t.selected = false
	}
	for _, i := range indexes {
		if i >= 0 && i < len(h.order) {
			h.tracks[h.order[i]].selected = true
		}
	}
}
