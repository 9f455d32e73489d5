package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cool/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached results from the persistent disk cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache, err := driver.OpenDiskCache("coolc")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to clear disk cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "disk cache cleared")
		return nil
	},
}
