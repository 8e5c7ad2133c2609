/*
Package domain contains the core domain models for the bounceflow workflow.

It defines the value types shared between the workflow engine and its host
adapters: time ranges, render passes, FX bypass snapshots, run reports, and
the lifecycle events emitted while a bounce executes. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - TimeRange: The loop/time selection a bounce operates on.
  - RenderPass: Selects which of the two host render commands is dispatched.
  - BypassSnapshot: Per-FX enabled flags captured before the chain is bypassed.
  - Report: The outcome of one workflow invocation.
  - StageEvent / LifecycleHooks: Observability callbacks per workflow stage.
*/
package domain
