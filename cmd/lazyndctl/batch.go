package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lazynd/lazynd/internal/workerpool"
	"github.com/lazynd/lazynd/nd"
	"github.com/spf13/cobra"
)

var (
	batchKind    string
	batchValues  []string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Build several independent arrays concurrently and print each",
	Long: `Builds one array per --values occurrence, running the builds across
internal/workerpool workers instead of sequentially — each array is
independent, so spec.md §5's "callers may run independent operations in
parallel on disjoint arrays" applies directly.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchKind, "kind", "f64", "Element kind shared by every array in the batch")
	batchCmd.Flags().StringArrayVar(&batchValues, "values", nil, "Comma-separated literal values; repeat for each array in the batch")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "Worker count (0 = GOMAXPROCS)")
	batchCmd.MarkFlagRequired("values")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	kind, err := nd.ParseKind(batchKind)
	if err != nil {
		return err
	}

	results := make([]string, len(batchValues))
	errs := make([]error, len(batchValues))

	pool := workerpool.New(batchWorkers)
	defer pool.Close()
	slog.Debug("running batch", "count", len(batchValues), "workers", pool.NumWorkers())

	pool.ParallelForAtomic(len(batchValues), func(i int) {
		values, err := parseFloat64List(batchValues[i])
		if err != nil {
			errs[i] = err
			return
		}
		arr, err := nd.NewArrayFromFloat64s(kind, values)
		if err != nil {
			errs[i] = err
			return
		}
		buf := nd.NewBuffer(arr.Kind(), int(arr.Length()))
		if err := arr.GetData(0, buf, 0, arr.Length()); err != nil {
			errs[i] = err
			return
		}
		parts := make([]string, arr.Length())
		for k := int64(0); k < arr.Length(); k++ {
			parts[k] = strconv.FormatFloat(buf.GetFloat64(int(k)), 'g', -1, 64)
		}
		results[i] = strings.Join(parts, ", ")
	})

	out := cmd.OutOrStdout()
	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("array %d: %w", i, err)
		}
		fmt.Fprintf(out, "[%d] %s\n", i, results[i])
	}
	return nil
}
