package middleware_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfellner/bounceflow/pkg/adapters/memory"
	"github.com/jfellner/bounceflow/pkg/domain"
	"github.com/jfellner/bounceflow/pkg/persistence/middleware"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, 32)
}

func sampleReport() *domain.Report {
	return &domain.Report{
		RunID:         "run-1",
		Status:        domain.RunSucceeded,
		Pass:          domain.PassPrimary,
		SourceTrack:   "Moog Lead",
		RenderedTrack: "Moog Lead - stem",
		ItemsMuted:    2,
	}
}

func TestEncryption_RoundTrip(t *testing.T) {
	inner := memory.NewStore()
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(inner)
	ctx := context.Background()

	report := sampleReport()
	require.NoError(t, store.Save(ctx, report))

	// Caller's copy is untouched.
	assert.Equal(t, "Moog Lead", report.SourceTrack)

	// The inner store only ever sees ciphertext.
	raw, err := inner.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.NotEqual(t, "Moog Lead", raw.SourceTrack)
	assert.Contains(t, raw.SourceTrack, "enc:")
	assert.Equal(t, 2, raw.ItemsMuted) // counters stay readable

	got, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "Moog Lead", got.SourceTrack)
	assert.Equal(t, "Moog Lead - stem", got.RenderedTrack)
}

func TestEncryption_KeyRotation(t *testing.T) {
	inner := memory.NewStore()
	ctx := context.Background()

	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(inner)
	require.NoError(t, oldStore.Save(ctx, sampleReport()))

	// New active key, old key demoted to fallback.
	newStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    testKey(2),
		FallbackKeys: [][]byte{testKey(1)},
	})(inner)

	got, err := newStore.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "Moog Lead", got.SourceTrack)
}

func TestEncryption_WrongKeyFails(t *testing.T) {
	inner := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(inner).Save(ctx, sampleReport()))

	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(9),
	})(inner).Load(ctx, "run-1")
	assert.Error(t, err)
}

func TestEncryption_RefusesPlaintext(t *testing.T) {
	inner := memory.NewStore()
	ctx := context.Background()

	// Written before encryption was enabled.
	require.NoError(t, inner.Save(ctx, sampleReport()))

	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(inner).Load(ctx, "run-1")
	assert.ErrorContains(t, err, "envelope")
}

func TestEncryption_ShortKeyPanics(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	})
}
