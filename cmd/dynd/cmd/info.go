package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/born-ml/dynd/nd"
	"github.com/born-ml/dynd/ndt"
)

// fileInfo describes a memory-mapped file as an array.
type fileInfo struct {
	Path         string `json:"path" cbor:"path"`
	Type         string `json:"type" cbor:"type"`
	DType        string `json:"dtype" cbor:"dtype"`
	NDim         int    `json:"ndim" cbor:"ndim"`
	Shape        []int  `json:"shape" cbor:"shape"`
	Strides      []int  `json:"strides" cbor:"strides"`
	CContiguous  bool   `json:"c_contiguous" cbor:"c_contiguous"`
	FContiguous  bool   `json:"f_contiguous" cbor:"f_contiguous"`
	Bytes        int    `json:"bytes" cbor:"bytes"`
	Blake3Digest string `json:"blake3" cbor:"blake3"`
}

func newInfoCmd(a *app) *cobra.Command {
	var (
		typeStr    string
		begin, end int64
	)
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Describe a raw binary file viewed as an array",
		Long: `Memory-map a file of little-endian elements read-only and print its type,
layout and BLAKE3 content digest. --begin and --end select a byte range;
negative offsets count from the end of the file.`,
		Example: `  dynd info --type float32 weights.bin
  dynd info --type "{x : int32, y : float64}" --begin 16 points.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dtype := ndt.Uint8
			if typeStr != "" {
				var err error
				if dtype, err = ndt.Parse(typeStr); err != nil {
					return err
				}
			}
			opts := []nd.MemmapOption{nd.MemmapDType(dtype), nd.MemmapAccess(nd.ReadOnly)}
			if begin != 0 || cmd.Flags().Changed("end") {
				if !cmd.Flags().Changed("end") {
					st, err := os.Stat(args[0])
					if err != nil {
						return err
					}
					end = st.Size()
				}
				opts = append(opts, nd.MemmapRange(begin, end))
			}

			arr, err := nd.Memmap(args[0], opts...)
			if err != nil {
				return err
			}
			defer func() { _ = arr.Release() }()

			digest := nd.Digest(arr)
			info := fileInfo{
				Path:         args[0],
				Type:         nd.DShapeOf(arr),
				DType:        nd.DTypeOf(arr).String(),
				NDim:         nd.NDimOf(arr),
				Shape:        nd.ShapeOf(arr),
				Strides:      arr.Strides(),
				CContiguous:  nd.IsCContiguous(arr),
				FContiguous:  nd.IsFContiguous(arr),
				Bytes:        arr.NumElements() * nd.DTypeOf(arr).Size(),
				Blake3Digest: hex.EncodeToString(digest[:]),
			}
			return a.writeInfo(cmd.OutOrStdout(), info)
		},
	}
	cmd.Flags().StringVarP(&typeStr, "type", "t", "", "element datashape (default uint8)")
	cmd.Flags().Int64Var(&begin, "begin", 0, "first byte of the range")
	cmd.Flags().Int64Var(&end, "end", 0, "end of the byte range (default end of file)")
	return cmd
}

func (a *app) writeInfo(w io.Writer, info fileInfo) error {
	switch a.output() {
	case outputJSON:
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case outputCBOR:
		out, err := cbor.Marshal(info)
		if err != nil {
			return fmt.Errorf("failed to marshal CBOR: %w", err)
		}
		_, err = w.Write(out)
		return err
	case outputTable:
	default:
		return fmt.Errorf("info does not support %q output, use json, table or cbor", a.output())
	}

	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")
	for _, row := range [][]string{
		{"path", info.Path},
		{"type", info.Type},
		{"dtype", info.DType},
		{"ndim", strconv.Itoa(info.NDim)},
		{"shape", nd.Shape(info.Shape).String()},
		{"strides", fmt.Sprint(info.Strides)},
		{"c_contiguous", strconv.FormatBool(info.CContiguous)},
		{"f_contiguous", strconv.FormatBool(info.FContiguous)},
		{"bytes", strconv.Itoa(info.Bytes)},
		{"blake3", info.Blake3Digest},
	} {
		if err := table.Append(row[0], row[1]); err != nil {
			return err
		}
	}
	return table.Render()
}
