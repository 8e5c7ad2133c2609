package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jfellner/bounceflow/pkg/domain"
	"github.com/jfellner/bounceflow/pkg/ports"
)

// ReportStoreContractTest is a reusable suite that verifies an adapter
// complies with ports.ReportStore. Every store implementation (memory,
// Redis) runs the same suite.
func ReportStoreContractTest(t *testing.T, store ports.ReportStore) {
	t.Helper()
	ctx := context.Background()

	report := &domain.Report{
		RunID:         "run-contract-1",
		Status:        domain.RunSucceeded,
		Pass:          domain.PassPrimary,
		Strategy:      "copy",
		SourceTrack:   "Moog Lead",
		RenderedTrack: "Moog Lead (bounced)",
		Range:         domain.TimeRange{Start: 0, End: 8},
		ItemsMuted:    3,
		FXTransferred: 2,
		StartedAt:     time.Now().UTC().Truncate(time.Second),
		Duration:      1500 * time.Millisecond,
	}

	t.Run("Save_And_Load", func(t *testing.T) {
		if err := store.Save(ctx, report); err != nil {
			t.Fatalf("unexpected error saving report: %v", err)
		}

		got, err := store.Load(ctx, report.RunID)
		if err != nil {
			t.Fatalf("unexpected error loading report: %v", err)
		}
		if got.RunID != report.RunID || got.ItemsMuted != report.ItemsMuted || got.Pass != report.Pass {
			t.Errorf("loaded report mismatch: got %+v, want %+v", got, report)
		}
	})

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "run-that-never-happened")
		if !errors.Is(err, domain.ErrReportNotFound) {
			t.Errorf("expected ErrReportNotFound, got %v", err)
		}
	})

	t.Run("List_Contains_Saved", func(t *testing.T) {
		ids, err := store.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing reports: %v", err)
		}
		found := false
		for _, id := range ids {
			if id == report.RunID {
				found = true
			}
		}
		if !found {
			t.Errorf("run %s missing from list %v", report.RunID, ids)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, report.RunID); err != nil {
			t.Fatalf("unexpected error deleting report: %v", err)
		}
		_, err := store.Load(ctx, report.RunID)
		if !errors.Is(err, domain.ErrReportNotFound) {
			t.Errorf("expected ErrReportNotFound after delete, got %v", err)
		}
	})
}
