// Package main provides the entry point for the snapserve server.
package main

import (
	"github.com/snapserve/snapserve/internal/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
