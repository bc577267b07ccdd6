package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nixkit/internal/diagfmt"
	"nixkit/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file.nix|->",
		Short: "Tokenize a Nix file",
		Long:  `Tokenize breaks a Nix file down into tokens; trivia is listed with --trivia`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
	cmd.Flags().Bool("trivia", false, "include whitespace and comments")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := parseFormatFlag(cmd)
	if err != nil {
		return err
	}
	withTrivia, err := cmd.Flags().GetBool("trivia")
	if err != nil {
		return fmt.Errorf("failed to get trivia flag: %w", err)
	}

	s, err := newSession(cmd, filePath)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := driver.Tokenize(filePath, cmd.InOrStdin(), s.opts.MaxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим токены в выбранном формате, диагностику в stderr
	out := cmd.OutOrStdout()
	switch format {
	case diagfmt.FormatPretty:
		err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet, withTrivia)
	default:
		err = diagfmt.Encode(out, diagfmt.BuildTokensOutput(result.Tokens, withTrivia), format)
	}
	if err != nil {
		return err
	}
	return s.reportDiagnostics(result.Bag, result.FileSet)
}
