package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nixkit/internal/diag"
	"nixkit/internal/diagfmt"
)

func newDiagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diag [flags] <file.nix|->",
		Short: "Report syntax errors and unused bindings",
		Long:  `Diag parses a Nix file and reports syntax errors, unused let bindings, unused rec and unused with`,
		Args:  cobra.ExactArgs(1),
		RunE:  runDiagnose,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|short|json|yaml)")
	cmd.Flags().String("min-severity", "info", "hide diagnostics below this severity (info|warning|error; overrides nixkit.toml)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the liveness cache")
	return cmd
}

// runDiagnose prints the diagnostics of one file to stdout and fails when
// any of them is an error, shown or not.
func runDiagnose(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	short := formatStr == "short"
	format := diagfmt.FormatPretty
	if !short {
		if format, err = diagfmt.ParseFormat(formatStr); err != nil {
			return err
		}
	}

	s, err := newSession(cmd, filePath)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.useCache(); err != nil {
		return err
	}
	floor, err := s.minSeverity()
	if err != nil {
		return err
	}

	snap, err := s.analyzeFile(filePath)
	if err != nil {
		return err
	}
	// фильтр только для вывода: Snapshot остаётся полным
	shown := snap.Bag.AtLeast(floor)
	w := cmd.OutOrStdout()
	switch {
	case short:
		diagfmt.Short(w, shown, snap.FileSet, s.prettyOpts(w))
	case format == diagfmt.FormatPretty:
		diagfmt.Pretty(w, shown, snap.FileSet, s.prettyOpts(w))
	default:
		out := diagfmt.BuildDiagnosticsOutput(shown, snap.FileSet, s.jsonOpts())
		if err := diagfmt.Encode(w, out, format); err != nil {
			return err
		}
	}
	if hidden := snap.Bag.Len() - shown.Len(); hidden > 0 {
		s.info("%d diagnostic(s) below %s hidden", hidden, floor)
	}
	if snap.Bag.HasErrors() {
		return errReported
	}
	return nil
}

// minSeverity: --min-severity, если задан явно, иначе [diagnostics].min_severity
func (s *session) minSeverity() (diag.Severity, error) {
	if f := s.cmd.Flags().Lookup("min-severity"); f != nil && f.Changed {
		return diag.ParseSeverity(f.Value.String())
	}
	return s.cfg.SeverityFloor(), nil
}
