// Package main is the entry point for the logmerge application, a
// multi-file log tailer and merger for log4j-shaped textual logs. All
// command-line parsing, flag handling, and execution logic is
// delegated to the cmd package.
package main

import (
	"github.com/Alain-L/logmerge/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
