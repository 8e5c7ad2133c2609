// Package middleware decorates report stores with cross-cutting behavior:
// encrypting session-identifying fields at rest, or redacting them before
// they reach a shared store.
package middleware

import "github.com/jfellner/bounceflow/pkg/ports"

// Middleware allows wrapping a ReportStore to add behavior.
type Middleware func(ports.ReportStore) ports.ReportStore
