package bounceflow

import _ "embed"

// Version is the library version, embedded from the VERSION file at the
// repository root. Trailing whitespace is preserved; callers should trim.
//
//go:embed VERSION
var Version string
