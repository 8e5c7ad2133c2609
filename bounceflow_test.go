package bounceflow_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfellner/bounceflow"
	"github.com/jfellner/bounceflow/pkg/adapters/memory"
	"github.com/jfellner/bounceflow/pkg/domain"
	"github.com/jfellner/bounceflow/pkg/ports"
)

func newSessionHost(t *testing.T) *memory.Host {
	t.Helper()

	h := memory.NewHost()
	source := h.AddTrack("Moog Lead")
	h.AddFX(source, "VST: ReaInsert (Cockos)", true)
	h.AddFX(source, "VST: ReaEQ (Cockos)", true)
	h.SelectTracks(source)
	h.SetTimeSelection(0, 8)
	_, err := h.AddMIDIItem(source, 0, 4, memory.MinimalSMF(60))
	require.NoError(t, err)

	h.InstallRenderCommand(41719, " - stem")
	h.InstallRenderCommand(41721, " - stem 2")
	h.RegisterNamed("_XENAKIOS_STORERENDERSPEED")
	h.RegisterNamed("_XENAKIOS_SETRENDERSPEEDREALTIME")
	h.RegisterNamed("_XENAKIOS_RECALLRENDERSPEED")
	return h
}

func TestNew_RequiresHost(t *testing.T) {
	_, err := bounceflow.New(nil)
	assert.Error(t, err)
}

func TestNew_RejectsBadStrategy(t *testing.T) {
	_, err := bounceflow.New(newSessionHost(t), bounceflow.WithStrategy("teleport"))
	assert.Error(t, err)
}

func TestEngine_Run(t *testing.T) {
	eng, err := bounceflow.New(newSessionHost(t))
	require.NoError(t, err)
	assert.Equal(t, "copy", eng.Strategy())

	report, err := eng.Run(context.Background(), domain.PassPrimary)
	require.NoError(t, err)
	assert.Equal(t, domain.RunSucceeded, report.Status)
	assert.Equal(t, "Moog Lead - stem", report.RenderedTrack)
}

func TestEngine_StrategyOverride(t *testing.T) {
	eng, err := bounceflow.New(newSessionHost(t), bounceflow.WithStrategy("chunk"))
	require.NoError(t, err)
	assert.Equal(t, "chunk", eng.Strategy())

	report, err := eng.Run(context.Background(), domain.PassPrimary)
	require.NoError(t, err)
	assert.Equal(t, "chunk", report.Strategy)
}

func TestEngine_InsertNameOverride(t *testing.T) {
	h := newSessionHost(t)
	eng, err := bounceflow.New(h, bounceflow.WithInsertName("Patchwork"))
	require.NoError(t, err)

	err = eng.Preflight(context.Background(), domain.PassPrimary)
	assert.ErrorIs(t, err, domain.ErrHardwareInsertMissing)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var stages []domain.Stage
	hooks := domain.LifecycleHooks{
		OnStageEnter: func(_ context.Context, ev *domain.StageEvent) {
			stages = append(stages, ev.Stage)
		},
	}

	eng, err := bounceflow.New(newSessionHost(t), bounceflow.WithLifecycleHooks(hooks))
	require.NoError(t, err)

	_, err = eng.Run(context.Background(), domain.PassPrimary)
	require.NoError(t, err)
	assert.Equal(t, domain.StageSelection, stages[0])
	assert.Contains(t, stages, domain.StageRender)
}

type renamingTransfer struct{}

func (renamingTransfer) Name() string { return "custom" }

func (renamingTransfer) Transfer(ctx context.Context, host ports.Host, src, dst ports.TrackID) (int, error) {
	return 0, nil
}

func TestEngine_CustomChainTransfer(t *testing.T) {
	eng, err := bounceflow.New(newSessionHost(t), bounceflow.WithChainTransfer(renamingTransfer{}))
	require.NoError(t, err)

	report, err := eng.Run(context.Background(), domain.PassPrimary)
	require.NoError(t, err)
	assert.Equal(t, "custom", report.Strategy)
	assert.Zero(t, report.FXTransferred)
}

func TestRunner_PrintsReport(t *testing.T) {
	eng, err := bounceflow.New(newSessionHost(t))
	require.NoError(t, err)

	var out bytes.Buffer
	runner := bounceflow.NewRunner()
	runner.Output = &out

	report, err := runner.Run(context.Background(), eng, domain.PassPrimary)
	require.NoError(t, err)
	assert.True(t, report.Succeeded())
	assert.Contains(t, out.String(), "Bounce complete")
	assert.Contains(t, out.String(), "Moog Lead - stem")
}

func TestRunner_PrintsAbort(t *testing.T) {
	h := newSessionHost(t)
	h.SelectTracks()

	eng, err := bounceflow.New(h)
	require.NoError(t, err)

	var out bytes.Buffer
	runner := bounceflow.NewRunner()
	runner.Output = &out

	report, err := runner.Run(context.Background(), eng, domain.PassPrimary)
	require.NoError(t, err)
	assert.Equal(t, domain.RunAborted, report.Status)
	assert.Contains(t, out.String(), "Bounce aborted")
	assert.Contains(t, out.String(), "Nothing was changed")
}

func TestRunner_RendererApplied(t *testing.T) {
	eng, err := bounceflow.New(newSessionHost(t))
	require.NoError(t, err)

	var out bytes.Buffer
	runner := bounceflow.NewRunner()
	runner.Output = &out
	runner.Renderer = func(s string) (string, error) {
		return strings.ToUpper(s), nil
	}

	_, err = runner.Run(context.Background(), eng, domain.PassPrimary)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "BOUNCE COMPLETE")
}

func TestVersion_NotEmpty(t *testing.T) {
	assert.NotEmpty(t, strings.TrimSpace(bounceflow.Version))
}
