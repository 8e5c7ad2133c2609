package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfellner/bounceflow/pkg/adapters/memory"
	"github.com/jfellner/bounceflow/pkg/domain"
)

const projectYAML = `
time_selection:
  start: 0
  end: 8
tracks:
  - name: Moog Lead
    selected: true
    fx:
      - name: "VST: ReaInsert (Cockos)"
      - name: "VST: ReaEQ (Cockos)"
    items:
      - { start: 0, end: 4, midi: true }
      - { start: 4, end: 8, midi: true }
`

func writeProject(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.yaml")
	require.NoError(t, os.WriteFile(path, []byte(projectYAML), 0o644))
	return path
}

func TestBuildEngine(t *testing.T) {
	opts := RunOptions{ProjectPath: writeProject(t)}

	engine, host, err := BuildEngine(opts, createLogger(false))
	require.NoError(t, err)
	require.NotNil(t, host)
	assert.Equal(t, "copy", engine.Strategy())

	report, err := engine.Run(context.Background(), domain.PassPrimary)
	require.NoError(t, err)
	assert.Equal(t, domain.RunSucceeded, report.Status)
	assert.Equal(t, "Moog Lead - stem", report.RenderedTrack)
}

func TestBuildEngine_StrategyFlag(t *testing.T) {
	opts := RunOptions{ProjectPath: writeProject(t), Strategy: "chunk"}

	engine, _, err := BuildEngine(opts, createLogger(false))
	require.NoError(t, err)
	assert.Equal(t, "chunk", engine.Strategy())
}

func TestBuildEngine_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bounce.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("insert_name: Patchwork\n"), 0o644))

	opts := RunOptions{ProjectPath: writeProject(t), ConfigPath: cfgPath}
	engine, _, err := BuildEngine(opts, createLogger(false))
	require.NoError(t, err)

	// The fixture carries ReaInsert, so the overridden insert name must
	// fail the insert guard.
	err = engine.Preflight(context.Background(), domain.PassPrimary)
	assert.ErrorIs(t, err, domain.ErrHardwareInsertMissing)
}

func TestBuildEngine_BadStrategy(t *testing.T) {
	opts := RunOptions{ProjectPath: writeProject(t), Strategy: "teleport"}
	_, _, err := BuildEngine(opts, createLogger(false))
	assert.Error(t, err)
}

func TestBuildEngine_MissingProject(t *testing.T) {
	opts := RunOptions{ProjectPath: filepath.Join(t.TempDir(), "nope.yaml")}
	_, _, err := BuildEngine(opts, createLogger(false))
	assert.Error(t, err)
}

func TestBuildStore(t *testing.T) {
	store, err := BuildStore("")
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)

	_, err = BuildStore("://not-a-url")
	assert.Error(t, err)
}

func TestRunValidate(t *testing.T) {
	opts := RunOptions{ProjectPath: writeProject(t), JSON: true}
	assert.NoError(t, RunValidate(opts))
}

func TestRunSession_Headless(t *testing.T) {
	opts := RunOptions{ProjectPath: writeProject(t), Headless: true}
	assert.NoError(t, Execute(opts))
}
