package main

import "github.com/spf13/cobra"

func newExplainStrategyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain-strategy <name>",
		Short: "explain a CRDT strategy's tradeoffs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !dispatch("explain_strategy", map[string]string{"name": args[0]}) {
				exitCode = 1
			}
			return nil
		},
	}
	return cmd
}
