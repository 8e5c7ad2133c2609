// Package chunk implements the minimal surgery on the host's textual track
// serialization that the chain-splice transfer needs: locating the FX-chain
// sub-block inside a track chunk, extracting it, and grafting it into
// another track's chunk.
//
// The format is line-oriented: a block opens with "<TAG ..." and closes with
// a lone ">" at the same nesting depth. Blocks nest arbitrarily; envelope
// and preset sub-blocks inside the FX chain ride along untouched.
package chunk

import (
	"errors"
	"fmt"
	"strings"
)

// Tag of the effect-chain block inside a track chunk.
const fxChainTag = "FXCHAIN"

var (
	// ErrNoFXChain is returned when a track chunk carries no FX chain block.
	ErrNoFXChain = errors.New("chunk has no FX chain block")

	// ErrMalformed is returned when block delimiters do not balance.
	ErrMalformed = errors.New("malformed chunk: unbalanced block delimiters")
)

// ExtractBlock returns the first sub-block with the given tag at depth 1 of
// the chunk, including its opening and closing delimiter lines.
func ExtractBlock(chunk, tag string) (string, error) {
	lines := strings.Split(chunk, "\n")
	depth := 0
	start := -1
	open := "<" + tag

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "<"):
			if depth == 1 && start == -1 && matchesTag(trimmed, open) {
				start = i
			}
			depth++
		case trimmed == ">":
			depth--
			if depth < 0 {
				return "", ErrMalformed
			}
			if depth == 1 && start != -1 {
				return strings.Join(lines[start:i+1], "\n"), nil
			}
		}
	}
	if depth != 0 {
		return "", ErrMalformed
	}
	return "", fmt.Errorf("no %s block at depth 1", tag)
}

// ExtractFXChain pulls the FX chain block out of a track chunk.
func ExtractFXChain(trackChunk string) (string, error) {
	block, err := ExtractBlock(trackChunk, fxChainTag)
	if err != nil {
		if errors.Is(err, ErrMalformed) {
			return "", err
		}
		return "", ErrNoFXChain
	}
	return block, nil
}

// RemoveFXChain returns the track chunk with its FX chain block removed.
// Chunks without a chain are returned unchanged.
func RemoveFXChain(trackChunk string) (string, error) {
	start, end, err := fxChainSpan(trackChunk)
	if err != nil {
		if errors.Is(err, ErrNoFXChain) {
			return trackChunk, nil
		}
		return "", err
	}
	lines := strings.Split(trackChunk, "\n")
	kept := append([]string{}, lines[:start]...)
	kept = append(kept, lines[end+1:]...)
	return strings.Join(kept, "\n"), nil
}

// InjectFXChain grafts an FX chain block into a track chunk, replacing any
// chain already present. The block is inserted immediately before the track
// chunk's closing delimiter.
func InjectFXChain(trackChunk, fxChain string) (string, error) {
	stripped, err := RemoveFXChain(trackChunk)
	if err != nil {
		return "", err
	}

	lines := strings.Split(stripped, "\n")
	closing := -1
	depth := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "<"):
			depth++
		case trimmed == ">":
			depth--
			if depth == 0 {
				closing = i
			}
		}
	}
	if closing == -1 || depth != 0 {
		return "", ErrMalformed
	}

	out := append([]string{}, lines[:closing]...)
	out = append(out, strings.Split(strings.TrimRight(fxChain, "\n"), "\n")...)
	out = append(out, lines[closing:]...)
	return strings.Join(out, "\n"), nil
}

// fxChainSpan locates the line span [start, end] of the FX chain block at
// depth 1, delimiters included.
func fxChainSpan(trackChunk string) (int, int, error) {
	lines := strings.Split(trackChunk, "\n")
	depth := 0
	start := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "<"):
			if depth == 1 && start == -1 && matchesTag(trimmed, "<"+fxChainTag) {
				start = i
			}
			depth++
		case trimmed == ">":
			depth--
			if depth < 0 {
				return 0, 0, ErrMalformed
			}
			if depth == 1 && start != -1 {
				return start, i, nil
			}
		}
	}
	if depth != 0 {
		return 0, 0, ErrMalformed
	}
	return 0, 0, ErrNoFXChain
}

// matchesTag reports whether an opening delimiter line opens the given tag,
// i.e. "<FXCHAIN" matches "<FXCHAIN" and "<FXCHAIN ..." but not "<FXCHAIN2".
func matchesTag(line, open string) bool {
	if !strings.HasPrefix(line, open) {
		return false
	}
	rest := line[len(open):]
	return rest == "" || rest[0] == ' '
}
