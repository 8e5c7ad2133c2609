package chunk_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfellner/bounceflow/internal/chunk"
)

const trackWithChain = `<TRACK
  NAME "Moog Lead"
  MUTESOLO 0 0 0
  <FXCHAIN
    SHOW 0
    <VST "ReaInsert" reainsert.dll 0
      BASE64DATA
    >
    <VST "ReaEQ" reaeq.dll 0
      BASE64DATA
    >
    <PARMENV 1:0 0 1 0.5
      PT 0 0.5 0
    >
  >
  TRACKHEIGHT 40 0
>`

const trackBare = `<TRACK
  NAME "Bounce 1"
  MUTESOLO 0 0 0
>`

func TestExtractFXChain(t *testing.T) {
	chain, err := chunk.ExtractFXChain(trackWithChain)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(strings.TrimSpace(chain), "<FXCHAIN"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(chain), ">"))
	assert.Contains(t, chain, "ReaEQ")
	assert.Contains(t, chain, "PARMENV", "envelope sub-blocks ride along")

	_, err = chunk.ExtractFXChain(trackBare)
	assert.ErrorIs(t, err, chunk.ErrNoFXChain)
}

func TestExtractFXChain_DoesNotMatchPrefixTags(t *testing.T) {
	c := `<TRACK
  <FXCHAIN_REC
    SHOW 0
  >
>`
	_, err := chunk.ExtractFXChain(c)
	assert.ErrorIs(t, err, chunk.ErrNoFXChain, "record chain must not match the FX chain tag")
}

func TestRemoveFXChain(t *testing.T) {
	stripped, err := chunk.RemoveFXChain(trackWithChain)
	require.NoError(t, err)
	assert.NotContains(t, stripped, "FXCHAIN")
	assert.Contains(t, stripped, `NAME "Moog Lead"`)
	assert.Contains(t, stripped, "TRACKHEIGHT", "lines after the chain survive")

	same, err := chunk.RemoveFXChain(trackBare)
	require.NoError(t, err)
	assert.Equal(t, trackBare, same)
}

func TestInjectFXChain(t *testing.T) {
	chain, err := chunk.ExtractFXChain(trackWithChain)
	require.NoError(t, err)

	grafted, err := chunk.InjectFXChain(trackBare, chain)
	require.NoError(t, err)

	assert.Contains(t, grafted, "ReaInsert")
	assert.Contains(t, grafted, "ReaEQ")
	assert.Contains(t, grafted, `NAME "Bounce 1"`)

	// The grafted chunk must still balance and round-trip its chain.
	back, err := chunk.ExtractFXChain(grafted)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(chain), strings.TrimSpace(back))
}

func TestInjectFXChain_ReplacesExisting(t *testing.T) {
	replacement := `<FXCHAIN
  <VST "ReaComp" reacomp.dll 0
    BASE64DATA
  >
>`
	grafted, err := chunk.InjectFXChain(trackWithChain, replacement)
	require.NoError(t, err)
	assert.Contains(t, grafted, "ReaComp")
	assert.NotContains(t, grafted, "ReaEQ", "previous chain is dropped")
}

func TestMalformedChunks(t *testing.T) {
	_, err := chunk.ExtractFXChain("<TRACK\n  <FXCHAIN\n  SHOW 0")
	assert.ErrorIs(t, err, chunk.ErrMalformed)

	_, err = chunk.InjectFXChain("NAME x\n>", "<FXCHAIN\n>")
	assert.ErrorIs(t, err, chunk.ErrMalformed)
}
