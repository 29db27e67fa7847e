package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lazynd/lazynd/nd"
	"github.com/spf13/cobra"
)

var (
	buildKind    string
	buildValues  string
	buildDims    string
	buildSubFrom string
	buildSubDims string
	buildMode    string
	buildOutside float64
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build an array from a literal list and print its elements",
	Long: `Builds an array from --values, optionally reshapes it into a matrix
via --dims, and optionally wraps that matrix in a sub-matrix view via
--sub-from/--sub-dims/--mode. Prints the resulting view's elements in
row-major order, one get_data pass over the whole length.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildKind, "kind", "f64", "Element kind (bit, char16, u8, u16, i32, i64, f32, f64)")
	buildCmd.Flags().StringVar(&buildValues, "values", "", "Comma-separated literal values (required)")
	buildCmd.Flags().StringVar(&buildDims, "dims", "", "Comma-separated matrix dimensions; omit for a flat array")
	buildCmd.Flags().StringVar(&buildSubFrom, "sub-from", "", "Comma-separated sub-matrix start coordinate")
	buildCmd.Flags().StringVar(&buildSubDims, "sub-dims", "", "Comma-separated sub-matrix dimensions")
	buildCmd.Flags().StringVar(&buildMode, "mode", "strict", "Sub-matrix continuation mode (strict, constant, cyclic, pseudocyclic, mirrorcyclic)")
	buildCmd.Flags().Float64Var(&buildOutside, "outside-value", 0, "Value returned outside the base under constant mode")
	buildCmd.MarkFlagRequired("values")
	rootCmd.AddCommand(buildCmd)
}

func parseInt64List(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", p, err)
		}
		out[i] = n
	}
	return out, nil
}

func parseFloat64List(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", p, err)
		}
		out[i] = f
	}
	return out, nil
}

func continuationModeFromFlag(s string) (nd.ContinuationMode, error) {
	switch strings.ToLower(s) {
	case "strict":
		return nd.Strict, nil
	case "constant":
		return nd.Constant, nil
	case "cyclic":
		return nd.Cyclic, nil
	case "pseudocyclic":
		return nd.PseudoCyclic, nil
	case "mirrorcyclic":
		return nd.MirrorCyclic, nil
	default:
		return 0, fmt.Errorf("unknown continuation mode %q", s)
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	kind, err := nd.ParseKind(buildKind)
	if err != nil {
		return err
	}
	values, err := parseFloat64List(buildValues)
	if err != nil {
		return err
	}
	arr, err := nd.NewArrayFromFloat64s(kind, values)
	if err != nil {
		return err
	}
	slog.Debug("built array", "kind", kind.String(), "length", arr.Length())

	// A Matrix's linear index IS its backing array's index (row-major
	// decode is a coordinate interpretation over the same storage, not a
	// reordering), so only a SubMatrix built on top changes what prints.
	view := arr
	if buildDims != "" {
		dims, err := parseInt64List(buildDims)
		if err != nil {
			return err
		}
		m, err := nd.NewMatrix(arr, dims)
		if err != nil {
			return err
		}
		slog.Debug("reshaped into matrix", "dims", dims)

		if buildSubFrom != "" || buildSubDims != "" {
			from, err := parseInt64List(buildSubFrom)
			if err != nil {
				return err
			}
			subDims, err := parseInt64List(buildSubDims)
			if err != nil {
				return err
			}
			mode, err := continuationModeFromFlag(buildMode)
			if err != nil {
				return err
			}
			sm, err := nd.NewSubMatrix(m, from, subDims, mode, buildOutside, true)
			if err != nil {
				return err
			}
			slog.Debug("built sub-matrix view", "mode", mode.String())
			view = sm
		}
	}

	return printGetData(cmd, view)
}

func printGetData(cmd *cobra.Command, view nd.Array) error {
	length := view.Length()
	buf := nd.NewBuffer(view.Kind(), int(length))
	if err := view.GetData(0, buf, 0, length); err != nil {
		return err
	}
	out := make([]string, length)
	for i := int64(0); i < length; i++ {
		out[i] = strconv.FormatFloat(buf.GetFloat64(int(i)), 'g', -1, 64)
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(out, ", "))
	return nil
}
