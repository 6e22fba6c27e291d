package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Alain-L/logmerge/aggregate"
	"github.com/Alain-L/logmerge/checkpoint"
	"github.com/Alain-L/logmerge/config"
	"github.com/Alain-L/logmerge/reader"
	"github.com/Alain-L/logmerge/record"
	"github.com/Alain-L/logmerge/sink"
)

// runExecute is the root command's entry point, adapted from the
// teacher's cmd/execute.go executeParsing orchestration: collect
// files, build filters, spawn one reader goroutine per file, and drain
// the aggregator into whichever sink was selected.
func runExecute(cmd *cobra.Command, args []string) error {
	log := slog.Default()

	if len(args) == 0 {
		return fmt.Errorf("no files, directories, or glob patterns given")
	}

	profile, err := config.Load()
	if err != nil {
		log.Warn("failed to load config profile", "error", err)
	}
	applyProfileDefaults(cmd, &profile)

	if fromFlag, err = normalizeTimestamp(fromFlag); err != nil {
		return err
	}
	if toFlag, err = normalizeTimestamp(toFlag); err != nil {
		return err
	}

	fileArgs := collectFiles(args, log)
	if len(fileArgs) == 0 {
		return fmt.Errorf("no matching log files found")
	}
	displayNames := config.DeriveDisplayNames(fileArgs)

	filter := buildFilter()

	var agg aggregate.Aggregator
	if fifoFlag {
		agg = aggregate.NewFIFO(len(fileArgs))
	} else {
		agg = aggregate.NewOrdered(len(fileArgs))
	}
	namer := agg.(aggregate.DisplayNamer)
	namer.SetDisplayNames(displayNames)

	var store *checkpoint.Store
	if sincedbPathFlag != "" {
		store = checkpoint.New(sincedbPathFlag, log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	sem := make(chan struct{}, startupConcurrency(len(fileArgs)))
	for i, fa := range fileArgs {
		wg.Add(1)
		go func(id int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			r := reader.New(reader.Options{
				ID:         id,
				Path:       path,
				TailLength: tailFlag,
				Follow:     followFlag,
				Filter:     filter,
				Store:      store,
				Aggregator: agg,
				Log:        log,
			})
			parser, hk, err := r.Start(ctx)
			<-sem
			if err != nil {
				log.Error("reader terminated", "reader_id", id, "path", path, "error", err)
				return
			}
			if err := r.Loop(ctx, parser, hk); err != nil {
				log.Error("reader terminated", "reader_id", id, "path", path, "error", err)
			}
		}(i, fa.Path)
	}

	go wg.Wait()

	if redisAddrFlag != "" {
		shipper := sink.NewRedisShipper(redisAddrFlag, redisListFlag, namer, log)
		return shipper.Run(ctx, agg)
	}

	return drainToTerminal(ctx, agg, namer)
}

func drainToTerminal(ctx context.Context, agg aggregate.Aggregator, names aggregate.DisplayNamer) error {
	term := sink.NewTerminal(os.Stdout, names)
	go func() {
		<-ctx.Done()
		agg.Stop()
	}()

	for {
		entry, ok := agg.Next()
		if !ok {
			break
		}
		if jsonFlag {
			b, err := sink.MarshalWithNames(entry, names)
			if err != nil {
				continue
			}
			fmt.Println(string(b))
			continue
		}
		if err := term.Write(entry); err != nil {
			return err
		}
	}
	if !jsonFlag {
		fmt.Fprintln(os.Stderr, term.Summary())
	}
	return nil
}

func buildFilter() record.Filter {
	f := record.Filter{
		TimeFrom:    fromFlag,
		TimeTo:      toFlag,
		Grep:        grepFilter,
		DB:          dbFilter,
		User:        userFilter,
		ExcludeUser: excludeUser,
		App:         appFilter,
	}
	if len(levelFilter) > 0 {
		f.Levels = make(map[record.Level]struct{}, len(levelFilter))
		for _, name := range levelFilter {
			f.Levels[levelFromName(name)] = struct{}{}
		}
	}
	return f
}

func levelFromName(name string) record.Level {
	switch name {
	case "TRACE":
		return record.TRACE
	case "DEBUG":
		return record.DEBUG
	case "INFO":
		return record.INFO
	case "WARN", "WARNING":
		return record.WARN
	case "ERROR":
		return record.ERROR
	default:
		return record.FATAL
	}
}

// applyProfileDefaults fills in flags the user did not explicitly set
// from the loaded config profile, CLI flags taking precedence over the
// profile and the profile taking precedence over built-in defaults —
// the same precedence original_source/logfire.py's main() applies when
// merging ~/.logfirerc / /etc/logfirerc into the option parser result.
func applyProfileDefaults(cmd *cobra.Command, p *config.Profile) {
	flags := cmd.Flags()
	if !flags.Changed("level") && len(p.Levels) > 0 {
		levelFilter = p.Levels
	}
	if !flags.Changed("grep") && len(p.Grep) > 0 {
		grepFilter = p.Grep
	}
	if !flags.Changed("db") && len(p.DB) > 0 {
		dbFilter = p.DB
	}
	if !flags.Changed("user") && len(p.User) > 0 {
		userFilter = p.User
	}
	if !flags.Changed("exclude-user") && len(p.ExcludeUser) > 0 {
		excludeUser = p.ExcludeUser
	}
	if !flags.Changed("app") && len(p.App) > 0 {
		appFilter = p.App
	}
	if !flags.Changed("tail") && p.Tail != 0 {
		tailFlag = p.Tail
	}
	if !flags.Changed("follow") && p.Follow {
		followFlag = p.Follow
	}
	if !flags.Changed("redis-addr") && p.RedisAddr != "" {
		redisAddrFlag = p.RedisAddr
	}
	if !flags.Changed("redis-list") && p.RedisList != "" {
		redisListFlag = p.RedisList
	}
	if !flags.Changed("sincedb-path") && p.SincedbPath != "" {
		sincedbPathFlag = p.SincedbPath
	}
}
