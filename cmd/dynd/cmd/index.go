package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"
	"go.uber.org/zap"

	"github.com/born-ml/dynd/nd"
)

func newIndexCmd(a *app) *cobra.Command {
	var (
		typeStr string
		stop    string
	)
	cmd := &cobra.Command{
		Use:   "index <index-json> <sequence-json|@file|->",
		Short: "Index a JSON list with a scalar",
		Long: `Parse the index as a scalar array and use it to pick an item of a JSON
list. Only integer types index; negative values count from the end. With
--stop the two scalars are slice bounds and a list is printed.`,
		Example: `  dynd index --type int8 -- -1 "[1, 2, 3]"
  dynd index --stop 3 1 '["a", "b", "c", "d"]'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseArg(cmd, typeStr, args[0])
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}
			var seq []json.RawMessage
			if err := json.Unmarshal(jsonc.ToJSON(data), &seq); err != nil {
				return fmt.Errorf("sequence must be a JSON list: %w", err)
			}
			a.log.Debug("indexing", zap.String("index_type", nd.DShapeOf(idx)), zap.Int("length", len(seq)))

			var out any
			if stop != "" {
				hi, err := parseArg(cmd, typeStr, stop)
				if err != nil {
					return err
				}
				items, err := nd.SliceOf(seq, idx, hi)
				if err != nil {
					return err
				}
				if items == nil {
					items = []json.RawMessage{}
				}
				out = items
			} else {
				item, err := nd.At(seq, idx)
				if err != nil {
					return err
				}
				out = item
			}
			enc, err := json.Marshal(out)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(enc))
			return nil
		},
	}
	cmd.Flags().StringVarP(&typeStr, "type", "t", "", "datashape of the index values (default inferred)")
	cmd.Flags().StringVar(&stop, "stop", "", "slice stop bound; the index becomes the start bound")
	return cmd
}
