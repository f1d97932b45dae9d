// Package version holds build metadata, overridden at release time via
// -ldflags "-X tidymark/internal/version.Version=...".
package version

import (
	"runtime"
	"time"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = time.Now().Format(time.RFC3339)
	GoVersion = runtime.Version()
)
