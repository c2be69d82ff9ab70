package main

import (
	"github.com/SPJDevOps/PocketS3/internal/cmd"
)

// Populated at build time via -ldflags.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, buildDate)
	cmd.Execute()
}
