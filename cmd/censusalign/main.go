// Package main provides the entry point for the censusalign CLI tool.
package main

import (
	"github.com/censusalign/censusalign/cmd/censusalign/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cmd.Execute(version, commit, date, builtBy)
}
