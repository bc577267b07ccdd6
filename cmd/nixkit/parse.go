package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nixkit/internal/driver"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [flags] <file.nix|->",
		Short: "Print the syntax tree of a Nix file",
		Long:  `Parse builds the lossless syntax tree and prints one line per node and token`,
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	s, err := newSession(cmd, filePath)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := driver.Parse(filePath, cmd.InOrStdin(), s.opts.MaxDiagnostics)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if err := result.Tree.Dump(cmd.OutOrStdout()); err != nil {
		return err
	}
	return s.reportDiagnostics(result.Bag, result.FileSet)
}
