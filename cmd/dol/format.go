package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFormatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format",
		Short: "pretty-print source in canonical form",
	}
	file := addFileFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		src, err := loadSource(file)
		if err != nil {
			return fmt.Errorf("reading source: %w", err)
		}
		dispatch("format", map[string]string{"source": src})
		return nil
	}
	return cmd
}
