package main

import "github.com/spf13/cobra"

func newRecommendCrdtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend-crdt <field> <type> <usage> [consistency]",
		Short: "recommend a CRDT strategy for a field",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			callArgs := map[string]string{
				"field": args[0],
				"type":  args[1],
				"usage": args[2],
			}
			if len(args) == 4 {
				callArgs["consistency"] = args[3]
			}
			if !dispatch("recommend_crdt", callArgs) {
				exitCode = 1
			}
			return nil
		},
	}
	return cmd
}
