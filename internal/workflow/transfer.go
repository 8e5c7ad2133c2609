package workflow

import (
	"context"
	"fmt"

	"github.com/jfellner/bounceflow/internal/chunk"
	"github.com/jfellner/bounceflow/internal/config"
	"github.com/jfellner/bounceflow/pkg/ports"
)

// CopyTransfer moves the chain one slot at a time via the host's FX copy
// call. Simple, but per-FX automation envelopes do not survive the trip.
type CopyTransfer struct{}

func (CopyTransfer) Name() string { return config.StrategyCopy }

func (CopyTransfer) Transfer(ctx context.Context, host ports.Host, src, dst ports.TrackID) (int, error) {
	count, err := host.FXCount(ctx, src)
	if err != nil {
		return 0, fmt.Errorf("querying FX count: %w", err)
	}
	moved := 0
	for idx := 1; idx < count; idx++ {
		if err := host.CopyFXToTrack(ctx, src, idx, dst); err != nil {
			return moved, fmt.Errorf("copying FX %d: %w", idx, err)
		}
		moved++
	}
	return moved, nil
}

// ChunkTransfer serializes both tracks, splices the source's whole FX-chain
// block into the destination chunk, writes it back, and finally deletes the
// hardware insert (now slot 0) from the destination. Envelope sub-blocks
// travel inside the chain, so automation survives.
type ChunkTransfer struct{}

func (ChunkTransfer) Name() string { return config.StrategyChunk }

func (ChunkTransfer) Transfer(ctx context.Context, host ports.Host, src, dst ports.TrackID) (int, error) {
	srcChunk, err := host.TrackChunk(ctx, src)
	if err != nil {
		return 0, fmt.Errorf("serializing source track: %w", err)
	}
	fxChain, err := chunk.ExtractFXChain(srcChunk)
	if err != nil {
		return 0, fmt.Errorf("extracting FX chain: %w", err)
	}

	dstChunk, err := host.TrackChunk(ctx, dst)
	if err != nil {
		return 0, fmt.Errorf("serializing rendered track: %w", err)
	}
	grafted, err := chunk.InjectFXChain(dstChunk, fxChain)
	if err != nil {
		return 0, fmt.Errorf("splicing FX chain: %w", err)
	}
	if err := host.SetTrackChunk(ctx, dst, grafted); err != nil {
		return 0, fmt.Errorf("writing rendered track chunk: %w", err)
	}

	// The splice carried the whole chain, insert included. Drop the insert
	// so the rendered track plays back through the remaining FX only.
	if err := host.DeleteFX(ctx, dst, 0); err != nil {
		return 0, fmt.Errorf("deleting hardware insert from rendered track: %w", err)
	}

	count, err := host.FXCount(ctx, dst)
	if err != nil {
		return 0, fmt.Errorf("querying rendered track FX count: %w", err)
	}
	return count, nil
}

// TransferForStrategy maps a configured strategy name to its implementation.
// Unknown names fall back to the copy strategy; config validation rejects
// them before an engine is ever built with one.
func TransferForStrategy(name string) ports.ChainTransfer {
	if name == config.StrategyChunk {
		return ChunkTransfer{}
	}
	return CopyTransfer{}
}
