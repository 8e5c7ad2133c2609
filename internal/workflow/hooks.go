package workflow

import (
	"context"

	"github.com/jfellner/bounceflow/pkg/domain"
)

func (e *Engine) stageEvent(runID string, stage domain.Stage, pass domain.RenderPass) *domain.StageEvent {
	return &domain.StageEvent{
		Timestamp: e.clock(),
		RunID:     runID,
		Stage:     stage,
		Pass:      pass,
	}
}

func (e *Engine) emitStageEnter(ctx context.Context, runID string, stage domain.Stage, pass domain.RenderPass) {
	if e.hooks.OnStageEnter != nil {
		e.hooks.OnStageEnter(ctx, e.stageEvent(runID, stage, pass))
	}
}

func (e *Engine) emitStageLeave(ctx context.Context, runID string, stage domain.Stage, pass domain.RenderPass) {
	if e.hooks.OnStageLeave != nil {
		e.hooks.OnStageLeave(ctx, e.stageEvent(runID, stage, pass))
	}
}

func (e *Engine) emitAbort(ctx context.Context, runID string, stage domain.Stage, pass domain.RenderPass, reason error) {
	if e.hooks.OnAbort != nil {
		e.hooks.OnAbort(ctx, &domain.AbortEvent{
			StageEvent: *e.stageEvent(runID, stage, pass),
			Reason:     reason.Error(),
		})
	}
}

func (e *Engine) emitRenderDispatch(ctx context.Context, runID string, pass domain.RenderPass) {
	if e.hooks.OnRenderDispatch != nil {
		e.hooks.OnRenderDispatch(ctx, e.stageEvent(runID, domain.StageRender, pass))
	}
}
