package domain

// BypassSnapshot records the enabled flag of every FX slot on a track,
// keyed by chain index (0-based, insertion order). It is captured before the
// workflow bypasses the chain and replayed afterwards so the source track
// ends the run exactly as it started.
type BypassSnapshot map[int]bool

// Clone returns an independent copy of the snapshot.
func (s BypassSnapshot) Clone() BypassSnapshot {
	out := make(BypassSnapshot, len(s))
	for idx, enabled := range s {
		out[idx] = enabled
	}
	return out
}

// Enabled returns the recorded flag for a slot, defaulting to true for
// indices the snapshot never saw.
func (s BypassSnapshot) Enabled(idx int) bool {
	enabled, ok := s[idx]
	if !ok {
		return true
	}
	return enabled
}
