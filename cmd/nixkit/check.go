package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"nixkit/internal/assist"
	"nixkit/internal/diagfmt"
	"nixkit/internal/driver"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [directory]",
		Short: "List the assists offered across a directory tree",
		Long: `Check analyzes every *.nix file under the directory (default ".") in parallel
and lists each assist offered at a rec, with, let or let-binding position`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the liveness cache")
	cmd.Flags().Bool("watch", false, "re-run when .nix files change")
	cmd.Flags().Duration("debounce", driver.DefaultDebounce, "quiet period before a --watch re-run")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off); pretty format without --watch only")
	return cmd
}

type offerJSON struct {
	At     diagfmt.LocationJSON `json:"at" yaml:"at"`
	Assist diagfmt.AssistJSON   `json:"assist" yaml:"assist"`
}

type checkFileJSON struct {
	Path        string      `json:"path" yaml:"path"`
	Error       string      `json:"error,omitempty" yaml:"error,omitempty"`
	Diagnostics int         `json:"diagnostics" yaml:"diagnostics"`
	Offers      []offerJSON `json:"offers" yaml:"offers"`
}

type checkOutput struct {
	Files   []checkFileJSON `json:"files" yaml:"files"`
	Offered int             `json:"offered" yaml:"offered"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	format, err := parseFormatFlag(cmd)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("failed to get watch flag: %w", err)
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}

	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	tui, err := autoSwitch("ui", uiValue, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	s, err := newSession(cmd, dir)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.useCache(); err != nil {
		return err
	}
	opts := driver.CheckOptions{Options: s.opts, Jobs: jobs, Engine: s.engine}

	useUI := tui && format == diagfmt.FormatPretty && !watch
	runErr := s.checkOnce(cmd.Context(), dir, opts, format, useUI)
	if !watch {
		return runErr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	w, err := driver.NewWatcher(dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	defer w.Close()
	s.info("watching %s", dir)
	return w.Run(ctx, debounce, func(ctx context.Context, changed []string) error {
		s.info("changed: %s", strings.Join(changed, ", "))
		// ошибки загрузки уже напечатаны, цикл продолжается
		if err := s.checkOnce(ctx, dir, opts, format, false); err != nil && !errors.Is(err, errReported) {
			return err
		}
		return nil
	})
}

func (s *session) checkOnce(ctx context.Context, dir string, opts driver.CheckOptions, format diagfmt.Format, useUI bool) error {
	start := time.Now()
	var (
		res *driver.CheckResult
		err error
	)
	if useUI {
		res, err = runCheckWithUI(ctx, s.cmd.OutOrStdout(), dir, opts)
	} else {
		res, err = driver.CheckDir(ctx, dir, opts)
	}
	if err != nil {
		return err
	}

	failed := 0
	errw := s.cmd.ErrOrStderr()
	for _, f := range res.Files {
		if f.LoadErr == nil {
			continue
		}
		failed++
		fmt.Fprintf(errw, "%s: %s %s: %s\n", f.Path, f.LoadErr.Severity, f.LoadErr.Code.ID(), f.LoadErr.Message)
	}
	if failed > 0 {
		s.dumpRing(fmt.Sprintf("%d file(s) failed to load", failed))
	}

	out := s.cmd.OutOrStdout()
	if format == diagfmt.FormatPretty {
		s.printCheck(out, res)
		s.info("%d assist(s) offered in %d file(s) in %s", res.Offered(), len(res.Files), time.Since(start).Round(time.Millisecond))
	} else if err := diagfmt.Encode(out, s.buildCheckOutput(res), format); err != nil {
		return err
	}
	if failed > 0 {
		return errReported
	}
	return nil
}

// printCheck writes one line per offer: "path:line:col: [id] label".
func (s *session) printCheck(w io.Writer, res *driver.CheckResult) {
	for _, f := range res.Files {
		for _, o := range f.Offers {
			loc := diagfmt.MakeLocation(o.At, res.FileSet, s.pathMode, true)
			fmt.Fprintf(w, "%s:%d:%d: [%s] %s\n", loc.File, loc.StartLine, loc.StartCol, o.Assist.ID, o.Assist.Label)
		}
	}
}

func (s *session) buildCheckOutput(res *driver.CheckResult) checkOutput {
	out := checkOutput{Files: make([]checkFileJSON, 0, len(res.Files)), Offered: res.Offered()}
	for _, f := range res.Files {
		fj := checkFileJSON{Path: f.Path, Offers: make([]offerJSON, 0, len(f.Offers))}
		if f.LoadErr != nil {
			fj.Error = f.LoadErr.Message
		}
		if f.Snapshot != nil {
			fj.Diagnostics = f.Snapshot.Bag.Len()
			fj.Path = diagfmt.MakeLocation(f.Snapshot.File.Span(), res.FileSet, s.pathMode, false).File
		}
		for _, o := range f.Offers {
			assists := diagfmt.BuildAssistsOutput([]assist.Assist{o.Assist}, res.FileSet, s.jsonOpts())
			fj.Offers = append(fj.Offers, offerJSON{
				At:     diagfmt.MakeLocation(o.At, res.FileSet, s.pathMode, true),
				Assist: assists.Assists[0],
			})
		}
		out.Files = append(out.Files, fj)
	}
	return out
}
