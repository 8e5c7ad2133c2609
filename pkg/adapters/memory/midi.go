package memory

import (
	"bytes"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ValidateSMF checks that data parses as a Standard MIDI File. The fake host
// refuses to call a take MIDI unless its payload really is one.
func ValidateSMF(data []byte) error {
	_, err := smf.ReadFrom(bytes.NewReader(data))
	return err
}

// MinimalSMF synthesizes a one-note Standard MIDI File, used by the project
// loader and tests as take payload.
func MinimalSMF(key uint8) []byte {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, key, 100))
	tr.Add(960, midi.NoteOff(0, key))
	tr.Close(0)

	s := smf.New()
	_ = s.Add(tr)

	var buf bytes.Buffer
	_, _ = s.WriteTo(&buf)
	return buf.Bytes()
}
