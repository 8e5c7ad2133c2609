/*
Package ports defines the driven ports (interfaces) for the bounceflow engine.

These interfaces decouple the workflow from the host application that owns
every entity it touches. The engine only ever sees opaque track and item
handles; a Host implementation (the live DAW bridge, or the in-memory fake
used by tests and the CLI dry-run mode) resolves them.

# Key Interfaces

  - Host: The DAW scripting surface the workflow drives.
  - ChainTransfer: Strategy for moving the FX chain onto the rendered track.
  - ReportStore: Persists run reports (memory, Redis).
*/
package ports
