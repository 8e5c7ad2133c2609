package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfellner/bounceflow/internal/config"
	"github.com/jfellner/bounceflow/internal/workflow"
	"github.com/jfellner/bounceflow/pkg/adapters/memory"
	"github.com/jfellner/bounceflow/pkg/domain"
)

func newTestMCP(t *testing.T) (*Server, *memory.Host) {
	t.Helper()

	cfg := config.Default()
	h := memory.NewHost()
	source := h.AddTrack("Moog Lead")
	h.AddFX(source, "VST: ReaInsert (Cockos)", true)
	h.AddFX(source, "VST: ReaEQ (Cockos)", true)
	h.SelectTracks(source)
	h.SetTimeSelection(0, 8)
	_, err := h.AddMIDIItem(source, 0, 4, memory.MinimalSMF(60))
	require.NoError(t, err)
	h.InstallRenderCommand(cfg.Render.Primary, " - stem")
	h.InstallRenderCommand(cfg.Render.Secondary, " - stem 2")
	h.RegisterNamed(cfg.Speed.Store)
	h.RegisterNamed(cfg.Speed.Realtime)
	h.RegisterNamed(cfg.Speed.Recall)

	engine := workflow.NewEngine(h, cfg)
	return NewServer(engine, memory.NewStore()), h
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestRunBounceTool(t *testing.T) {
	s, _ := newTestMCP(t)
	ctx := context.Background()

	report, err := s.handleRun(ctx, toolRequest(nil), map[string]any{"pass": "primary"})
	require.NoError(t, err)
	assert.Equal(t, domain.RunSucceeded, report.Status)
	assert.Equal(t, "Moog Lead - stem", report.RenderedTrack)

	stored, err := s.handleGetReport(ctx, toolRequest(nil), map[string]any{"run_id": report.RunID})
	require.NoError(t, err)
	assert.Equal(t, report.RunID, stored.RunID)
}

func TestRunBounceTool_AbortStillReturnsReport(t *testing.T) {
	s, h := newTestMCP(t)
	h.SelectTracks()

	report, err := s.handleRun(context.Background(), toolRequest(nil), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, domain.RunAborted, report.Status)
	assert.Equal(t, domain.StageSelection, report.AbortStage)
	assert.NotEmpty(t, report.AbortReason)
}

func TestRunBounceTool_BadPass(t *testing.T) {
	s, _ := newTestMCP(t)

	_, err := s.handleRun(context.Background(), toolRequest(nil), map[string]any{"pass": "sideways"})
	assert.Error(t, err)
}

func TestPreflightTool(t *testing.T) {
	s, h := newTestMCP(t)
	ctx := context.Background()

	result, err := s.handlePreflight(ctx, toolRequest(map[string]any{"pass": "primary"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	// Preflight leaves the session untouched.
	assert.Empty(t, h.UndoLabels())

	h.SetTimeSelection(3, 3)
	result, err = s.handlePreflight(ctx, toolRequest(map[string]any{"pass": "primary"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGetReportTool_Unknown(t *testing.T) {
	s, _ := newTestMCP(t)

	_, err := s.handleGetReport(context.Background(), toolRequest(nil), map[string]any{"run_id": "run-unknown"})
	assert.ErrorContains(t, err, "not found")
}

func TestListRunsTool(t *testing.T) {
	s, _ := newTestMCP(t)
	ctx := context.Background()

	_, err := s.handleRun(ctx, toolRequest(nil), map[string]any{})
	require.NoError(t, err)

	result, err := s.handleListRuns(ctx, toolRequest(nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
}
