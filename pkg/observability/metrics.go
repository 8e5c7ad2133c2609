/*
Package observability exposes workflow lifecycle hooks as Prometheus
metrics: how many bounces ran, how many aborted (and at which stage), and
how long each stage took.
*/
package observability

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jfellner/bounceflow/pkg/domain"
)

// Metrics collects bounce counters and stage timings.
type Metrics struct {
	runs          *prometheus.CounterVec
	aborts        *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec

	mu      sync.Mutex
	entered map[string]time.Time // runID/stage -> enter time
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bounceflow",
			Name:      "renders_dispatched_total",
			Help:      "Render commands dispatched, by pass.",
		}, []string{"pass"}),
		aborts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bounceflow",
			Name:      "aborts_total",
			Help:      "Guard aborts, by stage.",
		}, []string{"stage"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bounceflow",
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent per workflow stage.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
		entered: make(map[string]time.Time),
	}
	reg.MustRegister(m.runs, m.aborts, m.stageDuration)
	return m
}

// Hooks returns lifecycle hooks feeding the collectors. The returned hooks
// can be combined with others via Merge.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageEnter: func(_ context.Context, ev *domain.StageEvent) {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.entered[ev.RunID+"/"+string(ev.Stage)] = ev.Timestamp
		},
		OnStageLeave: func(_ context.Context, ev *domain.StageEvent) {
			m.mu.Lock()
			key := ev.RunID + "/" + string(ev.Stage)
			start, ok := m.entered[key]
			delete(m.entered, key)
			m.mu.Unlock()
			if ok {
				m.stageDuration.WithLabelValues(string(ev.Stage)).Observe(ev.Timestamp.Sub(start).Seconds())
			}
		},
		OnAbort: func(_ context.Context, ev *domain.AbortEvent) {
			m.aborts.WithLabelValues(string(ev.Stage)).Inc()
			// An aborted stage never emits a leave event; drop the run's
			// pending timings so the map does not grow over time.
			m.mu.Lock()
			for key := range m.entered {
				if strings.HasPrefix(key, ev.RunID+"/") {
					delete(m.entered, key)
				}
			}
			m.mu.Unlock()
		},
		OnRenderDispatch: func(_ context.Context, ev *domain.StageEvent) {
			m.runs.WithLabelValues(string(ev.Pass)).Inc()
		},
	}
}

// Merge fans one lifecycle event stream out to several hook sets.
func Merge(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageEnter: func(ctx context.Context, ev *domain.StageEvent) {
			for _, h := range hooks {
				if h.OnStageEnter != nil {
					h.OnStageEnter(ctx, ev)
				}
			}
		},
		OnStageLeave: func(ctx context.Context, ev *domain.StageEvent) {
			for _, h := range hooks {
				if h.OnStageLeave != nil {
					h.OnStageLeave(ctx, ev)
				}
			}
		},
		OnAbort: func(ctx context.Context, ev *domain.AbortEvent) {
			for _, h := range hooks {
				if h.OnAbort != nil {
					h.OnAbort(ctx, ev)
				}
			}
		},
		OnRenderDispatch: func(ctx context.Context, ev *domain.StageEvent) {
			for _, h := range hooks {
				if h.OnRenderDispatch != nil {
					h.OnRenderDispatch(ctx, ev)
				}
			}
		},
	}
}
