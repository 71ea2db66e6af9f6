package main

import (
	"github.com/dgallion1/papersect/internal/accuracy"
	"github.com/spf13/cobra"
)

func accuracyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accuracy <generated.xml> <expected.xml>",
		Short: "Score a generated articles.xml against a reference file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			generated, err := accuracy.ParseFile(args[0])
			if err != nil {
				return err
			}
			expected, err := accuracy.ParseFile(args[1])
			if err != nil {
				return err
			}
			accuracy.Compare(generated, expected).Print(cmd.OutOrStdout())
			return nil
		},
	}
}
