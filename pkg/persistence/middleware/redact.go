package middleware

import (
	"context"
	"regexp"

	"github.com/jfellner/bounceflow/pkg/domain"
	"github.com/jfellner/bounceflow/pkg/ports"
)

type redactionMiddleware struct {
	next     ports.ReportStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a middleware that masks track names
// matching the patterns before the report is stored. Useful when run
// history lands in a shared store but session content (client or project
// names in track titles) must not.
func NewRedactionMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.ReportStore) ports.ReportStore {
		return &redactionMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactionMiddleware) Save(ctx context.Context, report *domain.Report) error {
	// Copy so the in-memory report used by the caller keeps its names.
	masked := *report
	masked.SourceTrack = m.mask(report.SourceTrack)
	masked.RenderedTrack = m.mask(report.RenderedTrack)
	return m.next.Save(ctx, &masked)
}

func (m *redactionMiddleware) Load(ctx context.Context, runID string) (*domain.Report, error) {
	return m.next.Load(ctx, runID)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactionMiddleware) Delete(ctx context.Context, runID string) error {
	return m.next.Delete(ctx, runID)
}

func (m *redactionMiddleware) mask(value string) string {
	for _, p := range m.patterns {
		if p.MatchString(value) {
			return "***"
		}
	}
	return value
}
