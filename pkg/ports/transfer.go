package ports

import "context"

// ChainTransfer moves the FX chain (every slot except the hardware insert at
// index 0) from the source track onto the rendered track. Implementations
// differ in fidelity: the per-slot copy is simple but drops automation
// envelopes, the chunk splice carries them at the cost of depending on the
// host's chunk format.
type ChainTransfer interface {
	// Name identifies the strategy in reports and configuration.
	Name() string

	// Transfer moves FX slots 1..N-1 from src to dst and returns how many
	// slots arrived. After Transfer, dst must not carry the hardware insert.
	Transfer(ctx context.Context, host Host, src, dst TrackID) (int, error)
}
