package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nixkit/internal/driver"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the liveness cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "dir",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := driver.OpenDiskCache("nixkit")
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cache.Dir())
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := driver.OpenDiskCache("nixkit")
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("clear %s: %w", cache.Dir(), err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", cache.Dir())
			return err
		},
	})
	return cmd
}
