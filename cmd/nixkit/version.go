package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nixkit/internal/diagfmt"
	"nixkit/internal/version"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show nixkit build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormatFlag(cmd)
			if err != nil {
				return err
			}
			info := version.Current()
			out := cmd.OutOrStdout()
			if format != diagfmt.FormatPretty {
				return diagfmt.Encode(out, info, format)
			}
			colored := (&session{cmd: cmd}).colorFor(out)
			_, err = fmt.Fprintf(out, "%s\n%s %s\n", info.Pretty(colored), info.GoVersion, info.Platform)
			return err
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
	return cmd
}
