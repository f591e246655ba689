package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/born-ml/dynd/nd"
	"github.com/born-ml/dynd/ndt"
)

func newParseCmd(a *app) *cobra.Command {
	var typeStr string
	cmd := &cobra.Command{
		Use:   "parse <json|@file|->",
		Short: "Parse JSON into a typed array and print it",
		Long: `Parse a JSON document (comments and trailing commas allowed) into an
array. Without --type the type is inferred from the values. The input is
given inline, read from a file with @path, or from stdin with -.`,
		Example: `  dynd parse --type "3 * int32" "[1, 2, 3]"
  dynd parse --output table @records.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arr, err := parseArg(cmd, typeStr, args[0])
			if err != nil {
				return err
			}
			a.log.Debug("parsed array", zap.String("type", nd.DShapeOf(arr)))
			return a.writeArray(cmd.OutOrStdout(), arr)
		},
	}
	cmd.Flags().StringVarP(&typeStr, "type", "t", "", "datashape of the input, e.g. \"3 * {x : string, y : int32}\"")
	return cmd
}

// parseArg parses an inline, @file or stdin JSON argument as typeStr.
func parseArg(cmd *cobra.Command, typeStr, arg string) (*nd.Array, error) {
	var t ndt.Type
	if typeStr != "" {
		var err error
		if t, err = ndt.Parse(typeStr); err != nil {
			return nil, err
		}
	}
	data, err := readInput(cmd, arg)
	if err != nil {
		return nil, err
	}
	return nd.ParseJSON(t, data)
}

func readInput(cmd *cobra.Command, arg string) ([]byte, error) {
	switch {
	case arg == "-":
		return io.ReadAll(cmd.InOrStdin())
	case strings.HasPrefix(arg, "@"):
		data, err := os.ReadFile(arg[1:])
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		return data, nil
	default:
		return []byte(arg), nil
	}
}

// writeArray prints arr in the configured output format.
func (a *app) writeArray(w io.Writer, arr *nd.Array) error {
	switch a.output() {
	case outputRepr:
		_, err := io.WriteString(w, nd.DebugRepr(arr))
		return err
	case outputTable:
		return writeTable(w, arr)
	case outputCBOR:
		data, err := nd.FormatCBOR(arr)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		data, err := nd.FormatJSON(arr)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
}

// writeTable renders arrays of up to two dimensions, one row per element of
// the first dimension. Struct fields become columns.
func writeTable(w io.Writer, arr *nd.Array) error {
	dtype := nd.DTypeOf(arr)
	var rows [][]any
	switch nd.NDimOf(arr) {
	case 0:
		rows = [][]any{{nd.AsGo(arr)}}
	case 1:
		for _, v := range nd.AsGo(arr).([]any) {
			rows = append(rows, []any{v})
		}
	case 2:
		for _, row := range nd.AsGo(arr).([]any) {
			rows = append(rows, row.([]any))
		}
	default:
		return fmt.Errorf("table output supports at most 2 dimensions, got %d", nd.NDimOf(arr))
	}

	header := []any{"#"}
	width := 1
	if nd.NDimOf(arr) == 2 {
		width = nd.ShapeOf(arr)[1]
	}
	structCols := dtype.Kind() == ndt.StructKind && width == 1
	switch {
	case structCols:
		for _, f := range dtype.Fields() {
			header = append(header, f.Name)
		}
	case width == 1:
		header = append(header, dtype.String())
	default:
		for j := 0; j < width; j++ {
			header = append(header, strconv.Itoa(j))
		}
	}

	table := tablewriter.NewWriter(w)
	table.Header(header...)
	for i, row := range rows {
		cells := []any{strconv.Itoa(i)}
		if structCols {
			rec := row[0].(map[string]any)
			for _, f := range dtype.Fields() {
				cells = append(cells, cell(rec[f.Name]))
			}
		} else {
			for _, v := range row {
				cells = append(cells, cell(v))
			}
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	return table.Render()
}

func cell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case complex128:
		return strconv.FormatComplex(x, 'g', -1, 128)
	default:
		return fmt.Sprint(x)
	}
}
