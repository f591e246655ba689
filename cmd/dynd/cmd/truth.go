package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTruthCmd(_ *app) *cobra.Command {
	var typeStr string
	cmd := &cobra.Command{
		Use:   "truth <json>",
		Short: "Print the truth value of a scalar",
		Long: `Evaluate a JSON value as a condition. Zero numbers, false and the empty
string are false. Arrays with dimensions and structs have no truth value.`,
		Example: `  dynd truth --type uint8 100
  dynd truth '""'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arr, err := parseArg(cmd, typeStr, args[0])
			if err != nil {
				return err
			}
			ok, err := arr.Bool()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
	cmd.Flags().StringVarP(&typeStr, "type", "t", "", "datashape of the value")
	return cmd
}
