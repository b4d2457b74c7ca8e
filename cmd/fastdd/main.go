package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/fastdd/internal/args"
	"github.com/bamsammich/fastdd/internal/config"
	"github.com/bamsammich/fastdd/internal/engine"
	"github.com/bamsammich/fastdd/internal/event"
	"github.com/bamsammich/fastdd/internal/platform"
	"github.com/bamsammich/fastdd/internal/stats"
	"github.com/bamsammich/fastdd/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

const operandHelp = `Operands:
  if=FILE       read from FILE instead of stdin ("-" is stdin)
  of=FILE       write to FILE instead of stdout ("-" is stdout)
  bs=N          block size for count, skip and seek (default 512)
  count=N       copy N blocks (default: until end of input)
  skip=N        skip N blocks of input
  seek=N        skip N blocks of output
  size=N        copy N bytes; same as bs=1 count=N
  iosize=N      read and write N bytes at a time (default 64k)
  iflag=LIST    input flags: nonblock, sync, direct
  oflag=LIST    output flags: excl, trunc, notrunc, nocreat, nonblock, sync, direct

Sizes accept suffixes such as k, M, G (powers of 1024).`

// options holds the root command's flag values.
type options struct {
	quiet       bool
	verbose     bool
	verify      bool
	noSplice    bool
	showVersion bool
	pool        int
	logFile     string
	bwLimit     string
	progress    ui.Mode
}

// modeFlag exposes a ui.Mode as a pflag value.
type modeFlag struct{ mode *ui.Mode }

var _ pflag.Value = modeFlag{}

func (f modeFlag) String() string {
	if f.mode == nil {
		return ui.ModeAuto.String()
	}
	return f.mode.String()
}

func (f modeFlag) Set(s string) error {
	m, err := ui.ParseMode(s)
	if err != nil {
		return err
	}
	*f.mode = m
	return nil
}

func (modeFlag) Type() string { return "mode" }

func run() int {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "fastdd [flags] [operand=value ...]",
		Short: "Copy and convert data between files, devices and pipes, fast",
		Long: "fastdd copies a byte range from an input to an output, dd style.\n" +
			"On Linux it moves data with splice(2) where both sides allow it\n" +
			"and falls back to a buffered reader/writer pipeline otherwise.\n\n" +
			operandHelp,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		ValidArgsFunction: completeOperands,
		RunE: func(cmd *cobra.Command, operands []string) error {
			if opts.showVersion {
				fmt.Fprintf(os.Stdout, "fastdd %s\n", version)
				return nil
			}

			cfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "path", config.Path(), "error", err)
			}
			if err := applyConfigDefaults(cmd, cfg.Defaults, &opts); err != nil {
				return err
			}

			closeLog, err := setupLogging(opts)
			if err != nil {
				return err
			}
			defer closeLog()

			base := args.Defaults()
			if cfg.Defaults.IOSize != nil {
				n, err := units.RAMInBytes(*cfg.Defaults.IOSize)
				if err != nil || n <= 0 {
					return fmt.Errorf("invalid iosize %q in %s", *cfg.Defaults.IOSize, config.Path())
				}
				base.IOSize = uint64(n)
			}
			a, err := args.Parse(base, operands)
			if err != nil {
				return err
			}

			return transfer(a, opts, ui.DefaultTheme().WithOverrides(cfg.Theme))
		},
	}

	f := rootCmd.Flags()
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress output")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log the transfer plan and chunk events")
	f.StringVar(&opts.logFile, "log", "", "write structured JSON log to FILE")
	f.Var(modeFlag{&opts.progress}, "progress", "progress display: auto, bar, dots or none")
	f.IntVar(&opts.pool, "pool", engine.DefaultPoolSize, "number of buffers in the buffered pipeline")
	f.StringVar(&opts.bwLimit, "bwlimit", "", "limit output bandwidth (e.g. 100M, 1G)")
	f.BoolVar(&opts.verify, "verify", false, "compare the copied ranges with BLAKE3 after the transfer")
	f.BoolVar(&opts.noSplice, "no-splice", false, "always use the buffered pipeline")
	f.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	//nolint:errcheck // flag name is hardcoded
	rootCmd.RegisterFlagCompletionFunc("progress", cobra.FixedCompletions(
		[]string{"auto", "bar", "dots", "none"}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddCommand(newDisksizeCmd(), newDocsCmd())

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

// transfer opens the endpoints for a, runs the engine and prints the
// summary line. The summary is printed whether or not the copy succeeded.
func transfer(a args.Args, opts options, theme ui.Theme) error {
	plan, err := args.Open(a, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	closed := false
	defer func() {
		if !closed {
			_ = plan.Close()
		}
	}()
	slog.Debug("transfer plan", "plan", plan.String())

	if plan.Out.Regular() && plan.Total > 0 {
		platform.Preallocate(plan.Out.File, plan.Seek, plan.Total)
	}

	req := plan.Request()
	req.PoolSize = opts.pool
	req.NoZeroCopy = opts.noSplice
	if opts.bwLimit != "" {
		n, err := units.RAMInBytes(opts.bwLimit)
		if err != nil {
			return fmt.Errorf("invalid --bwlimit: %w", err)
		}
		req.Limiter = engine.NewBWLimiter(n)
	}

	collector := stats.NewCollector()
	collector.SetTotal(plan.Expected())
	tty, width := ui.Terminal(os.Stderr)
	reporter := ui.NewReporter(ui.Config{
		Writer: os.Stderr,
		Stats:  collector,
		Mode:   opts.progress,
		Quiet:  opts.quiet,
		IsTTY:  tty,
		Width:  width,
	})
	defer reporter.Close()

	recorder := event.NewRecorder(slog.Default())
	req.Progress = ui.MultiProgress{reporter, recorder}
	recorder.Emit(event.Event{Type: event.TransferStarted, Bytes: plan.Expected()})

	var acct engine.Accounting
	terr := engine.Transfer(&acct, req)
	reporter.Close()

	closed = true
	if cerr := plan.Close(); cerr != nil && terr == nil {
		terr = &engine.Fault{Status: engine.WriteFault, Offset: plan.Seek + acct.BytesWritten, Err: cerr}
	}

	//nolint:errcheck // stderr is the only place left to report to
	ui.RenderSummary(os.Stderr, ui.Summary{
		Bytes:   acct.BytesWritten,
		Elapsed: acct.Elapsed,
		Method:  acct.Method.String(),
		Failed:  terr != nil,
	}, theme)

	if terr != nil {
		return faultExit(terr)
	}
	slog.Debug("transfer complete",
		"read", acct.BytesRead, "written", acct.BytesWritten, "method", acct.Method.String())

	if opts.verify {
		return verify(plan, acct.BytesWritten, recorder)
	}
	return nil
}

// verify hashes the copied input and output ranges. Only named regular
// files can be reopened for hashing; anything else is skipped.
func verify(plan *args.Plan, n int64, recorder *event.Recorder) error {
	in, out := plan.Args.InFile, plan.Args.OutFile
	if !named(in) || !named(out) || !plan.In.Regular() || !plan.Out.Regular() {
		slog.Warn("--verify needs regular files on both sides; skipped",
			"if", plan.In.Name, "of", plan.Out.Name)
		return nil
	}

	recorder.Emit(event.Event{Type: event.VerifyStarted, Bytes: n})
	if err := engine.VerifyRange(in, plan.Skip, out, plan.Seek, n); err != nil {
		recorder.Emit(event.Event{Type: event.VerifyFailed, Bytes: n, Error: err})
		slog.Error("verification failed", "if", in, "of", out, "error", err)
		return &exitError{code: 1}
	}
	recorder.Emit(event.Event{Type: event.VerifyOK, Bytes: n})
	slog.Info("verified", "bytes", n)
	return nil
}

func named(path string) bool { return path != "" && path != "-" }

// faultExit logs a failed transfer and maps it to the process exit code.
func faultExit(err error) error {
	status := engine.StatusOf(err)
	slog.Error("transfer failed", "status", status.String(), "error", err)
	if status == engine.ReadFault || status == engine.WriteFault {
		return &exitError{code: 1}
	}
	return &exitError{code: 2}
}

func setupLogging(opts options) (func(), error) {
	logLevel := slog.LevelWarn
	if opts.verbose {
		logLevel = slog.LevelDebug
	} else if !opts.quiet {
		logLevel = slog.LevelInfo
	}
	textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	var logHandler slog.Handler = textHandler
	closeLog := func() {}
	if opts.logFile != "" {
		lf, err := os.Create(opts.logFile)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		closeLog = func() { _ = lf.Close() }
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
	}
	slog.SetDefault(slog.New(logHandler))
	return closeLog, nil
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(cmd *cobra.Command, defaults config.DefaultsConfig, opts *options) error {
	flags := cmd.Flags()
	if !flags.Changed("quiet") && defaults.Quiet != nil {
		opts.quiet = *defaults.Quiet
	}
	if !flags.Changed("verify") && defaults.Verify != nil {
		opts.verify = *defaults.Verify
	}
	if !flags.Changed("no-splice") && defaults.NoSplice != nil {
		opts.noSplice = *defaults.NoSplice
	}
	if !flags.Changed("pool") && defaults.Pool != nil {
		opts.pool = *defaults.Pool
	}
	if !flags.Changed("bwlimit") && defaults.BWLimit != nil {
		opts.bwLimit = *defaults.BWLimit
	}
	if !flags.Changed("progress") && defaults.Progress != nil {
		if err := (modeFlag{&opts.progress}).Set(*defaults.Progress); err != nil {
			return fmt.Errorf("config progress: %w", err)
		}
	}
	if opts.pool <= 0 {
		return fmt.Errorf("pool must be positive, got %d", opts.pool)
	}
	return nil
}

// completeOperands offers "name=" for every operand not yet given.
func completeOperands(_ *cobra.Command, given []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	used := make(map[string]bool, len(given))
	for _, g := range given {
		if k, _, ok := strings.Cut(g, "="); ok {
			used[k] = true
		}
	}
	var out []string
	for _, k := range args.Keys() {
		if !used[k] && strings.HasPrefix(k, toComplete) {
			out = append(out, k+"=")
		}
	}
	return out, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
