// Package cmd implements the command-line interface for logmerge.
// It uses the Cobra library to handle commands, flags, and execution,
// adapted directly from the teacher's cmd/root.go structure.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version information (passed from main).
var (
	version string
	commit  string
	date    string
)

// Flag variables for command-line options, package-level as Cobra's
// flag binding requires.
var (
	tailFlag       int      // --tail: backlog of N header lines to emit before following
	followFlag     bool     // --follow: keep tailing after reaching EOF
	fromFlag       string   // --from: drop entries before this timestamp; seek there when --tail is negative
	toFlag         string   // --to: drop entries at/after this timestamp
	levelFilter    []string // --level: only these levels (repeatable)
	grepFilter     []string // --grep: substring filters (repeatable, AND'd)
	dbFilter       []string // --db: only entries whose message carries db=<one of these>
	userFilter     []string // --user
	excludeUser    []string // --exclude-user
	appFilter      []string // --app

	orderedFlag bool // --ordered: strict timestamp-ordered merge (default)
	fifoFlag    bool // --fifo: arrival-order merge instead

	jsonFlag bool // --json: print entries as JSON lines instead of colorized text

	redisAddrFlag string // --redis-addr: ship entries to this Redis instance
	redisListFlag string // --redis-list: destination list key

	sincedbPathFlag string // --sincedb-path: checkpoint file prefix; empty disables checkpointing
)

// rootCmd is the main command for the logmerge CLI.
var rootCmd = &cobra.Command{
	Use:   "logmerge [files or dirs]",
	Short: "Multi-file log tailer and merger for log4j-shaped textual logs",
	Long: `logmerge tails one or more log4j-shaped log files, parses each line
or multi-line record into a structured entry, optionally filters by
level, substring, or time window, and delivers entries either to the
terminal in time-merged order or to a Redis list in batches.

Specify log files, directories, or glob patterns as arguments. A
"name:path" argument sets an explicit display name for that file.`,
	RunE: runExecute,
}

// Execute runs the root command. Called by main.go.
func Execute(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("logmerge failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().IntVarP(&tailFlag, "tail", "n", 10,
		"Emit this many backlog header lines before following (0 = no backlog)")
	rootCmd.Flags().BoolVarP(&followFlag, "follow", "f", false,
		"Keep tailing after reaching end of file")
	rootCmd.Flags().StringVar(&fromFlag, "from", "",
		"Only entries at or after this timestamp (YYYY-MM-DD HH:MM:SS,mmm); the file is seeked there only when --tail is negative")
	rootCmd.Flags().StringVar(&toFlag, "to", "",
		"Drop entries at or after this timestamp")

	rootCmd.Flags().StringSliceVarP(&levelFilter, "level", "l", nil,
		"Only entries at these levels (TRACE/DEBUG/INFO/WARN/ERROR/FATAL); repeatable")
	rootCmd.Flags().StringSliceVarP(&grepFilter, "grep", "g", nil,
		"Only entries whose message or class contains this substring; repeatable, AND'd")
	rootCmd.Flags().StringSliceVarP(&dbFilter, "db", "d", nil,
		"Only entries whose message carries db=VALUE for one of these values; repeatable")
	rootCmd.Flags().StringSliceVarP(&userFilter, "user", "u", nil,
		"Only entries whose message carries user=VALUE for one of these values; repeatable")
	rootCmd.Flags().StringSliceVarP(&excludeUser, "exclude-user", "U", nil,
		"Drop entries whose message carries user=VALUE for one of these values; repeatable")
	rootCmd.Flags().StringSliceVarP(&appFilter, "app", "a", nil,
		"Only entries whose message carries app=VALUE for one of these values; repeatable")

	rootCmd.Flags().BoolVar(&orderedFlag, "ordered", true,
		"Merge entries from all files in strict timestamp order (default)")
	rootCmd.Flags().BoolVar(&fifoFlag, "fifo", false,
		"Merge entries in arrival order instead of timestamp order")

	rootCmd.Flags().BoolVarP(&jsonFlag, "json", "J", false,
		"Print entries as JSON lines instead of colorized text")

	rootCmd.Flags().StringVar(&redisAddrFlag, "redis-addr", "",
		"Ship entries to this Redis instance (host:port) instead of the terminal")
	rootCmd.Flags().StringVar(&redisListFlag, "redis-list", "logmerge",
		"Redis list key entries are RPUSHed onto")

	rootCmd.Flags().StringVar(&sincedbPathFlag, "sincedb-path", "",
		"Checkpoint file path prefix; empty disables checkpointing")
}
