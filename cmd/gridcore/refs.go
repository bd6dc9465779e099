package main

import (
	"github.com/spf13/cobra"

	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/formula"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/output"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/ref"
)

func newRefsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refs [formula]",
		Short: "List the cells and ranges a formula refers to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ranges, err := formula.References(args[0])
			if err != nil {
				return err
			}
			refs := make([]string, 0, len(ranges))
			for _, r := range ranges {
				refs = append(refs, ref.FormatRange(r))
			}
			return output.WriteJSON(cmd.OutOrStdout(), refs, pretty)
		},
	}
}
