package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jfellner/bounceflow/pkg/domain"
)

func TestMetrics_CountersFollowHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	now := time.Now()
	hooks.OnStageEnter(ctx, &domain.StageEvent{RunID: "r1", Stage: domain.StageBypass, Timestamp: now})
	hooks.OnStageLeave(ctx, &domain.StageEvent{RunID: "r1", Stage: domain.StageBypass, Timestamp: now.Add(5 * time.Millisecond)})
	hooks.OnRenderDispatch(ctx, &domain.StageEvent{RunID: "r1", Pass: domain.PassPrimary})
	hooks.OnRenderDispatch(ctx, &domain.StageEvent{RunID: "r2", Pass: domain.PassSecondary})
	hooks.OnAbort(ctx, &domain.AbortEvent{StageEvent: domain.StageEvent{RunID: "r3", Stage: domain.StageSelection}})

	assert.Equal(t, float64(1), testutil.ToFloat64(m.runs.WithLabelValues("primary")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.runs.WithLabelValues("secondary")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.aborts.WithLabelValues("selection")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.stageDuration))
	assert.Empty(t, m.entered)
}

func TestMetrics_AbortDropsPendingStageTimings(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	now := time.Now()
	hooks.OnStageEnter(ctx, &domain.StageEvent{RunID: "r1", Stage: domain.StageSelection, Timestamp: now})
	hooks.OnStageEnter(ctx, &domain.StageEvent{RunID: "r2", Stage: domain.StageBypass, Timestamp: now})

	// r1 aborts mid-stage: no leave event will ever arrive for it.
	hooks.OnAbort(ctx, &domain.AbortEvent{StageEvent: domain.StageEvent{RunID: "r1", Stage: domain.StageSelection}})

	m.mu.Lock()
	_, r1Pending := m.entered["r1/selection"]
	_, r2Pending := m.entered["r2/bypass"]
	m.mu.Unlock()
	assert.False(t, r1Pending, "aborted run keeps no pending timings")
	assert.True(t, r2Pending, "other runs are untouched")
}

func TestMerge_FansOut(t *testing.T) {
	calls := 0
	h := Merge(
		domain.LifecycleHooks{OnAbort: func(context.Context, *domain.AbortEvent) { calls++ }},
		domain.LifecycleHooks{},
		domain.LifecycleHooks{OnAbort: func(context.Context, *domain.AbortEvent) { calls++ }},
	)
	h.OnAbort(context.Background(), &domain.AbortEvent{})
	assert.Equal(t, 2, calls)
}
