package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/treecopy/internal/config"
	"github.com/bamsammich/treecopy/internal/engine"
	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/filter"
	"github.com/bamsammich/treecopy/internal/stats"
	"github.com/bamsammich/treecopy/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

// filterFlag appends each --exclude or --include value to a shared chain.
type filterFlag struct {
	chain   *filter.Chain
	include bool
}

func (*filterFlag) String() string { return "" }
func (*filterFlag) Type() string   { return "pattern" }

func (f *filterFlag) Set(val string) error {
	if f.include {
		return f.chain.AddInclude(val)
	}
	return f.chain.AddExclude(val)
}

// flags holds every command-line option of the root command.
type flags struct {
	noOverwrite  bool
	errorOnExist bool
	preserveTime bool
	dereference  bool
	sequential   bool
	verify       bool
	workers      int
	verbose      bool
	quiet        bool
	filterFile   string
	minSizeStr   string
	maxSizeStr   string
	logFile      string
}

func run(args []string) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var f flags
	chain := filter.NewChain()

	rootCmd := &cobra.Command{
		Use:   "treecopy [flags] <source> <destination>",
		Short: "Copy a file, directory tree or symlink with exact metadata",
		Long: `treecopy copies a source entry to a destination path, recursing into
directories and merging into existing destination directories.

Files keep their mode and, with -p, their access and modification times.
Symlinks are recreated as links unless -L is given. Copying a directory
into itself and overwriting a link target with one of its own
subdirectories are refused.`,
		Version:       version,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCopy(cmd, &f, chain, args[0], args[1])
		},
	}
	rootCmd.SetVersionTemplate("treecopy {{.Version}}\n")

	fs := rootCmd.Flags()
	fs.SortFlags = false
	fs.BoolVar(&f.noOverwrite, "no-overwrite", false, "keep existing destination files")
	fs.BoolVar(&f.errorOnExist, "error-on-exist", false, "with --no-overwrite, fail on an existing destination file")
	fs.BoolVarP(&f.preserveTime, "preserve-timestamps", "p", false, "copy access and modification times")
	fs.BoolVarP(&f.dereference, "dereference", "L", false, "copy what symlinks point to instead of the links")
	fs.BoolVar(&f.sequential, "sequential", false, "copy one entry at a time in name order, stop at the first error")
	fs.IntVarP(&f.workers, "workers", "n", 0, "concurrent file copies (default: min(NumCPU*2, 32))")
	fs.BoolVar(&f.verify, "verify", false, "compare the trees after copying (BLAKE3)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "list every entry and enable debug logging")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "suppress all output except errors")
	fs.StringVar(&f.logFile, "log", "", "also write a JSON log with every event to FILE")

	// Both flags feed the same chain so rules keep their command-line order.
	fs.Var(&filterFlag{chain: chain}, "exclude", "exclude entries matching PATTERN (repeatable)")
	fs.Var(&filterFlag{chain: chain, include: true}, "include", "include entries matching PATTERN (repeatable)")
	fs.StringVar(&f.filterFile, "filter", "", "read filter rules from FILE")
	fs.StringVar(&f.minSizeStr, "min-size", "", "skip files smaller than SIZE (e.g. 1M, 100K)")
	fs.StringVar(&f.maxSizeStr, "max-size", "", "skip files larger than SIZE (e.g. 1G, 500M)")

	rootCmd.AddCommand(newDocsCmd())
	return rootCmd
}

func runCopy(cmd *cobra.Command, f *flags, chain *filter.Chain, src, dst string) error {
	cfg, cfgErr := config.Load()
	applyConfigDefaults(cmd.Flags(), cfg.Defaults, f)

	logger, closeLog, err := newLogger(cmd.ErrOrStderr(), f)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	if cfgErr != nil {
		logger.Warn("failed to load config", "path", config.Path(), "error", cfgErr)
	} else if err := cfg.Filter.Apply(chain); err != nil {
		return err
	}
	if err := extendChain(chain, f); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := stats.NewCollector()
	events := make(chan event.Event, 256)
	var feed <-chan event.Event = events
	if f.logFile != "" {
		feed = logEvents(logger, events)
	}

	presenter := ui.NewPresenter(ui.Config{
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Stats:     collector,
		DstRoot:   dst,
		IsTTY:     ui.IsTTY(os.Stderr.Fd()),
		Quiet:     f.quiet,
		Verbose:   f.verbose,
	})
	presented := make(chan error, 1)
	go func() { presented <- presenter.Run(feed) }()

	opts := engine.Options{
		ErrorOnExist:       f.errorOnExist,
		PreserveTimestamps: f.preserveTime,
		Dereference:        f.dereference,
		Filter:             chain.Predicate(src),
		Workers:            f.workers,
		Logger:             logger,
		Events:             events,
		Stats:              collector,
	}
	if f.noOverwrite {
		opts.Overwrite = engine.Bool(false)
	}

	result := engine.Run(ctx, engine.Config{
		Src:        src,
		Dst:        dst,
		Options:    opts,
		Sequential: f.sequential,
		Verify:     f.verify,
	})
	stop()
	close(events)
	if err := <-presented; err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "presenter: %v\n", err)
	}
	if summary := presenter.Summary(); summary != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), summary)
	}

	return exitFor(result, logger)
}

// newLogger logs text to w at a level chosen by -v and -q. With --log the
// same records, down to debug, are also written as JSON to the log file.
func newLogger(w io.Writer, f *flags) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelWarn
	}
	text := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	if f.logFile == "" {
		return slog.New(text), func() {}, nil
	}

	lf, err := os.Create(f.logFile)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	jsonLog := slog.NewJSONHandler(lf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(ui.NewMultiHandler(text, jsonLog)), func() { lf.Close() }, nil
}

// extendChain adds the --filter file and size bounds after any rules
// already given with --exclude, --include or the config file.
func extendChain(chain *filter.Chain, f *flags) error {
	if f.filterFile != "" {
		if err := chain.LoadFile(f.filterFile); err != nil {
			return fmt.Errorf("load filter file: %w", err)
		}
	}
	for _, bound := range []struct {
		flag, value string
		set         func(int64)
	}{
		{"--min-size", f.minSizeStr, chain.SetMinSize},
		{"--max-size", f.maxSizeStr, chain.SetMaxSize},
	} {
		if bound.value == "" {
			continue
		}
		n, err := filter.ParseSize(bound.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", bound.flag, err)
		}
		bound.set(n)
	}
	return nil
}

// logEvents records every event at debug level and passes it on. The
// returned channel closes once in does.
func logEvents(logger *slog.Logger, in <-chan event.Event) <-chan event.Event {
	out := make(chan event.Event, cap(in))
	go func() {
		defer close(out)
		for ev := range in {
			attrs := []slog.Attr{
				slog.String("type", ev.Type.String()),
				slog.String("path", ev.Path),
			}
			if ev.Size > 0 {
				attrs = append(attrs, slog.Int64("size", ev.Size))
			}
			if ev.Message != "" {
				attrs = append(attrs, slog.String("message", ev.Message))
			}
			if ev.Error != nil {
				attrs = append(attrs, slog.Any("error", ev.Error))
			}
			logger.LogAttrs(context.Background(), slog.LevelDebug, "event", attrs...)
			out <- ev
		}
	}()
	return out
}

// exitFor maps a result to the process exit status: 1 when some entries
// made it across or the trees differ, 2 when nothing was copied.
func exitFor(result engine.Result, logger *slog.Logger) error {
	if result.Err != nil {
		logger.Error("copy failed", "error", result.Err)
		if result.Stats.Copied() > 0 {
			return &exitError{code: 1}
		}
		return &exitError{code: 2}
	}
	if len(result.Differences) > 0 {
		logger.Error("verification failed", "differences", len(result.Differences))
		return &exitError{code: 1}
	}
	return nil
}

// applyConfigDefaults fills in config file defaults for flags left unset.
func applyConfigDefaults(fs *pflag.FlagSet, defaults config.DefaultsConfig, f *flags) {
	if !fs.Changed("no-overwrite") && defaults.Overwrite != nil {
		f.noOverwrite = !*defaults.Overwrite
	}
	if !fs.Changed("error-on-exist") && defaults.ErrorOnExist != nil {
		f.errorOnExist = *defaults.ErrorOnExist
	}
	if !fs.Changed("preserve-timestamps") && defaults.PreserveTimestamps != nil {
		f.preserveTime = *defaults.PreserveTimestamps
	}
	if !fs.Changed("dereference") && defaults.Dereference != nil {
		f.dereference = *defaults.Dereference
	}
	if !fs.Changed("sequential") && defaults.Sequential != nil {
		f.sequential = *defaults.Sequential
	}
	if !fs.Changed("verify") && defaults.Verify != nil {
		f.verify = *defaults.Verify
	}
	if !fs.Changed("workers") && defaults.Workers != nil {
		f.workers = *defaults.Workers
	}
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
