package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nixkit/internal/diagfmt"
	"nixkit/internal/fix"
	"nixkit/internal/source"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] <file.nix|-> (--at LINE:COL | --offset N)",
		Short: "Apply one assist at a cursor",
		Long: `Fix resolves the assists at the cursor and applies one of them: the one named
by --id, otherwise the first quick fix. Standard input is fixed to standard output.`,
		Args: cobra.ExactArgs(1),
		RunE: runFix,
	}
	addCursorFlags(cmd)
	cmd.Flags().String("id", "", "apply the assist with this identifier")
	cmd.Flags().Bool("dry-run", false, "print a unified diff instead of writing the file")
	cmd.Flags().Bool("no-cache", false, "do not read or write the liveness cache")
	return cmd
}

func runFix(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	opts := fix.ApplyOptions{Mode: fix.ApplyModeOnce}
	if targetID != "" {
		opts = fix.ApplyOptions{Mode: fix.ApplyModeID, TargetID: targetID}
	}

	s, err := newSession(cmd, targetPath)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.useCache(); err != nil {
		return err
	}

	snap, err := s.analyzeFile(targetPath)
	if err != nil {
		return err
	}
	rng, err := cursorRange(cmd, snap.File)
	if err != nil {
		return err
	}
	chosen, err := fix.Select(snap.Assists(cmd.Context(), s.engine, rng), opts)
	if err != nil {
		start, _ := snap.FileSet.Resolve(rng)
		return fmt.Errorf("fix %s:%d:%d: %w", targetPath, start.Line, start.Col, err)
	}

	out := cmd.OutOrStdout()
	file := snap.File
	switch {
	case dryRun:
		after, err := fix.ApplyAssist(file, chosen)
		if err != nil {
			return err
		}
		return diagfmt.UnifiedDiff(out, file.DisplayPath("relative", ""), file.Content, after, 3)
	case file.Flags&source.FileVirtual != 0:
		after, err := fix.ApplyAssist(file, chosen)
		if err != nil {
			return err
		}
		_, err = out.Write(after)
		return err
	}

	applied, err := fix.ApplyToFile(file, chosen, "")
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	fmt.Fprintf(out, "applied %s [%s] to %s (%d edits)\n", applied.Label, applied.ID, applied.Path, applied.EditCount)
	return nil
}
