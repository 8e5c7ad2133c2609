// gen-project writes an example project fixture: a hardware-synth track
// with a short chord progression as real .mid files, plus the YAML the CLI
// loads. Acts as our "session editor" saving to disk.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func main() {
	targetDir := "examples/demo-session"
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		panic(err)
	}

	fmt.Printf("Generating demo session in: %s\n", targetDir)

	// Two clips inside the loop, one after it. The loop is bars 1-2 at
	// 120 BPM (0-4s).
	clips := []struct {
		name  string
		notes []uint8
	}{
		{"clip-a.mid", []uint8{60, 64, 67}},    // C major
		{"clip-b.mid", []uint8{57, 60, 64}},    // A minor
		{"clip-tail.mid", []uint8{55, 59, 62}}, // G major, outside the loop
	}

	for _, clip := range clips {
		check(os.WriteFile(filepath.Join(targetDir, clip.name), chordSMF(clip.notes), 0644))
	}

	project := fmt.Sprintf(`time_selection:
  start: 0
  end: 4
tracks:
  - name: Prophet Pad
    selected: true
    fx:
      - name: "VST: ReaInsert (Cockos)"
      - name: "VST: ReaEQ (Cockos)"
        envelopes: 1
      - name: "VST: ReaComp (Cockos)"
        enabled: false
    items:
      - { start: 0, end: 2, midi: true, file: %s }
      - { start: 2, end: 4, midi: true, file: %s }
      - { start: 8, end: 10, midi: true, file: %s }
  - name: Drums
    items:
      - { start: 0, end: 4 }
`,
		filepath.Join(targetDir, clips[0].name),
		filepath.Join(targetDir, clips[1].name),
		filepath.Join(targetDir, clips[2].name),
	)

	check(os.WriteFile(filepath.Join(targetDir, "project.yaml"), []byte(project), 0644))

	fmt.Println("Done. Try: bounceflow run --project", filepath.Join(targetDir, "project.yaml"))
}

// chordSMF builds a one-bar chord as a Standard MIDI File.
func chordSMF(keys []uint8) []byte {
	var tr smf.Track
	for _, key := range keys {
		tr.Add(0, midi.NoteOn(0, key, 96))
	}
	for i, key := range keys {
		delta := uint32(0)
		if i == 0 {
			delta = 1920
		}
		tr.Add(delta, midi.NoteOff(0, key))
	}
	tr.Close(0)

	s := smf.New()
	check(s.Add(tr))

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}
