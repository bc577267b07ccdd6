package main

import (
	"github.com/spf13/cobra"

	"nixkit/internal/diagfmt"
)

func newAssistsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assists [flags] <file.nix|-> (--at LINE:COL | --offset N)",
		Short: "List the assists available at a cursor or selection",
		Long: `Assists analyzes the file and lists every quick fix the catalog offers
for the cursor (or the selection given with --end/--end-offset), in catalog order`,
		Args: cobra.ExactArgs(1),
		RunE: runAssists,
	}
	addCursorFlags(cmd)
	cmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
	cmd.Flags().Bool("preview", false, "show the lines each assist changes")
	cmd.Flags().Bool("no-cache", false, "do not read or write the liveness cache")
	return cmd
}

func runAssists(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := parseFormatFlag(cmd)
	if err != nil {
		return err
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return err
	}

	s, err := newSession(cmd, filePath)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.useCache(); err != nil {
		return err
	}

	snap, err := s.analyzeFile(filePath)
	if err != nil {
		return err
	}
	rng, err := cursorRange(cmd, snap.File)
	if err != nil {
		return err
	}
	assists := snap.Assists(cmd.Context(), s.engine, rng)

	w := cmd.OutOrStdout()
	if format == diagfmt.FormatPretty {
		opts := s.prettyOpts(w)
		opts.ShowPreview = preview
		return diagfmt.Assists(w, assists, snap.FileSet, opts)
	}
	return diagfmt.Encode(w, diagfmt.BuildAssistsOutput(assists, snap.FileSet, s.jsonOpts()), format)
}
