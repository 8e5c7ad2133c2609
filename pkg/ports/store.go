package ports

import (
	"context"

	"github.com/jfellner/bounceflow/pkg/domain"
)

// ReportStore persists run reports keyed by run ID. This enables the HTTP
// and MCP surfaces to hand out results after the invocation that produced
// them has finished.
type ReportStore interface {
	// Save persists a report under its run ID.
	Save(ctx context.Context, report *domain.Report) error

	// Load retrieves a report by run ID.
	// Returns domain.ErrReportNotFound if the run is unknown.
	Load(ctx context.Context, runID string) (*domain.Report, error)

	// List returns the IDs of all stored runs.
	List(ctx context.Context) ([]string, error)

	// Delete removes a stored report.
	Delete(ctx context.Context, runID string) error
}
