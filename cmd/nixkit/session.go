package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"nixkit/internal/assist"
	"nixkit/internal/config"
	"nixkit/internal/diag"
	"nixkit/internal/diagfmt"
	"nixkit/internal/driver"
	"nixkit/internal/observ"
	"nixkit/internal/source"
	"nixkit/internal/trace"
)

// errReported means the failure was already printed (diagnostics with errors).
var errReported = errors.New("errors reported")

// session is the per-invocation state shared by commands: the resolved
// nixkit.toml, the tracer, the timer and the assist catalog.
type session struct {
	cmd      *cobra.Command
	cfg      config.Config
	opts     driver.Options
	engine   *assist.Engine
	ring     *trace.RingTracer
	pathMode diagfmt.PathMode
	quiet    bool
	timings  bool
	cleanup  func()
}

// newSession reads global flags, loads the nixkit.toml that applies to
// target and installs the tracer into the command context.
func newSession(cmd *cobra.Command, target string) (*session, error) {
	root := cmd.Root().PersistentFlags()

	configPath, err := root.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		start := target
		if target == "-" || target == "" {
			start = "."
		}
		cfg, err = config.Discover(start)
	}
	if err != nil {
		return nil, err
	}

	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if !root.Changed("max-diagnostics") {
		maxDiagnostics = cfg.Diagnostics.Max
	}
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := root.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	pathModeStr, err := root.GetString("path-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, err := diagfmt.ParsePathMode(pathModeStr)
	if err != nil {
		return nil, err
	}

	s := &session{
		cmd: cmd,
		cfg: cfg,
		opts: driver.Options{
			MaxDiagnostics:     maxDiagnostics,
			SkipUnusedBindings: !cfg.Diagnostics.UnusedBindings,
		},
		engine:   assist.NewEngine(assist.DefaultProviders()...).Without(cfg.Assists.Disabled...),
		pathMode: pathMode,
		quiet:    quiet,
		timings:  timings,
		cleanup:  func() {},
	}
	if timings {
		s.opts.Timer = observ.NewTimer()
	}
	if err := s.setupTracing(); err != nil {
		return nil, err
	}
	if err := s.setupProfiling(); err != nil {
		s.cleanup()
		return nil, err
	}
	return s, nil
}

// useCache attaches the on-disk liveness cache unless --no-cache is set.
// A cache that cannot be opened is reported once and skipped.
func (s *session) useCache() error {
	noCache, err := s.cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if noCache {
		return nil
	}
	cache, err := driver.OpenDiskCache("nixkit")
	if err != nil {
		s.info("cache disabled: %v", err)
		return nil
	}
	s.opts.Cache = cache
	return nil
}

// Close prints timings and flushes the tracer.
func (s *session) Close() {
	if s.timings && s.opts.Timer != nil {
		fmt.Fprint(s.cmd.ErrOrStderr(), s.opts.Timer.Summary())
	}
	s.cleanup()
}

func (s *session) info(format string, args ...any) {
	if s.quiet {
		return
	}
	fmt.Fprintf(s.cmd.ErrOrStderr(), format+"\n", args...)
}

// colorFor resolves --color for w; an unknown value means no color.
func (s *session) colorFor(w io.Writer) bool {
	colorFlag, _ := s.cmd.Root().PersistentFlags().GetString("color") //nolint:errcheck
	on, err := autoSwitch("color", colorFlag, w)
	return err == nil && on
}

func (s *session) prettyOpts(w io.Writer) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     s.colorFor(w),
		Context:   2,
		PathMode:  s.pathMode,
		ShowNotes: true,
	}
}

func (s *session) jsonOpts() diagfmt.JSONOpts {
	return diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         s.pathMode,
		IncludeNotes:     true,
	}
}

// reportDiagnostics prints bag to stderr and returns errReported when it holds errors.
func (s *session) reportDiagnostics(bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	w := s.cmd.ErrOrStderr()
	diagfmt.Pretty(w, bag, fs, s.prettyOpts(w))
	if bag.HasErrors() {
		return errReported
	}
	return nil
}

// analyzeFile loads path ("-" for stdin) and runs the full analysis.
func (s *session) analyzeFile(path string) (*driver.Snapshot, error) {
	fs, file, err := driver.Load(path, s.cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	return driver.Analyze(s.cmd.Context(), fs, file.ID, s.opts), nil
}

func parseFormatFlag(cmd *cobra.Command) (diagfmt.Format, error) {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return diagfmt.FormatPretty, fmt.Errorf("failed to get format flag: %w", err)
	}
	return diagfmt.ParseFormat(formatStr)
}
