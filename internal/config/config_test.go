package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfellner/bounceflow/internal/config"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "ReaInsert", cfg.InsertName)
	assert.NotEqual(t, cfg.Render.Primary, cfg.Render.Secondary)
	assert.True(t, cfg.Strict(), "copy strategy defaults to strict selection")
	assert.False(t, cfg.Neutralize())
}

func TestParse_MergesOverDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(`
insert_name: "HW Insert (UAD)"
strategy: chunk
render:
  primary: 41716
  secondary: 41718
`))
	require.NoError(t, err)

	assert.Equal(t, "HW Insert (UAD)", cfg.InsertName)
	assert.Equal(t, 41716, cfg.Render.Primary)
	// Untouched sections keep their defaults.
	assert.Equal(t, "_XENAKIOS_RECALLRENDERSPEED", cfg.Speed.Recall)

	assert.False(t, cfg.Strict(), "chunk strategy defaults to lenient selection")
	assert.True(t, cfg.Neutralize(), "chunk strategy defaults to automation neutralization")
}

func TestParse_ExplicitTogglesWinOverStrategy(t *testing.T) {
	cfg, err := config.Parse([]byte(`
strategy: chunk
strict_selection: true
neutralize_automation: false
`))
	require.NoError(t, err)
	assert.True(t, cfg.Strict())
	assert.False(t, cfg.Neutralize())
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown strategy":      "strategy: teleport",
		"identical render cmds": "render: {primary: 41719, secondary: 41719}",
		"empty insert name":     `insert_name: ""`,
		"unknown key":           "insert_nam: ReaInsert",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bounceflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("undo_label: Hardware bounce\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Hardware bounce", cfg.UndoLabel)
}
