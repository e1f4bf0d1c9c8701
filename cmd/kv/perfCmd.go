package kv

import (
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/avlkv/cmd/util"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the avl engine",
		Long:    "Runs a set of workloads against the store loaded from the snapshot file. Keys written by the tests are removed again and the snapshot file is not modified.",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__perf"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfOps              = 100_000
	perfSkip             = make([]string, 0)
)

// perfTest is a single workload. prepare runs before the timer starts,
// op is called once per operation with the index of the operation.
type perfTest struct {
	name    string
	prepare func(keys []string) error
	op      func(keys []string, i int) error
}

// perfResult holds the timer snapshot of one workload
type perfResult struct {
	name    string
	skipped bool
	errors  int64
	elapsed time.Duration
	timer   metrics.Timer
}

func init() {
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of goroutines to use for the benchmark"))
	key = "ops"
	perfTestCmd.Flags().Int(key, 100_000, util.WrapString("Number of operations per benchmark"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How large the value for the set-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = max(viper.GetInt("keys"), 1)
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfOps = max(viper.GetInt("ops"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {
	fmt.Println("Performance testing tool for the avl engine")

	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(config.String())
	fmt.Printf("Threads: %d, Operations: %d, Keys: %d\n", perfNumThreads, perfOps, perfKeySpread)
	fmt.Println()

	fmt.Println("starting tests...")

	largeValue := make([]byte, perfLargeValueSizeKB*1024)
	setAll := func(keys []string) error {
		for _, k := range keys {
			if err := localStore.Set(k, []byte("test")); err != nil {
				return err
			}
		}
		return nil
	}

	tests := []perfTest{
		{
			name: "set",
			op: func(keys []string, i int) error {
				return localStore.Set(keys[i%len(keys)], []byte("test"))
			},
		},
		{
			name: "set-large",
			op: func(keys []string, i int) error {
				return localStore.Set(keys[i%len(keys)], largeValue)
			},
		},
		{
			name: "set-expiring",
			op: func(keys []string, i int) error {
				return localStore.SetE(keys[i%len(keys)], []byte("test"), 10, 20)
			},
		},
		{
			name:    "get",
			prepare: setAll,
			op: func(keys []string, i int) error {
				_, _, err := localStore.Get(keys[i%len(keys)])
				return err
			},
		},
		{
			name:    "has",
			prepare: setAll,
			op: func(keys []string, i int) error {
				_, err := localStore.Has(keys[i%len(keys)])
				return err
			},
		},
		{
			name: "has-not",
			op: func(keys []string, i int) error {
				_, err := localStore.Has(fmt.Sprintf("%s/has-not-%d", perfKeyPrefix, i%100))
				return err
			},
		},
		{
			name:    "delete",
			prepare: setAll,
			op: func(keys []string, i int) error {
				return localStore.Delete(keys[i%len(keys)])
			},
		},
		{
			name:    "mixed",
			prepare: setAll,
			op: func(keys []string, i int) error {
				key := keys[i%len(keys)]
				var err error
				switch i % 4 {
				case 0:
					err = localStore.Set(key, []byte("test"))
				case 1:
					_, _, err = localStore.Get(key)
				case 2:
					err = localStore.Delete(key)
				case 3:
					_, err = localStore.Has(key)
				}
				return err
			},
		},
		{
			name:    "first-last",
			prepare: setAll,
			op: func(_ []string, i int) error {
				var err error
				if i%2 == 0 {
					_, _, err = localStore.First()
				} else {
					_, _, err = localStore.Last()
				}
				return err
			},
		},
	}

	results := make([]perfResult, 0, len(tests))
	for _, test := range tests {
		result, err := runPerfTest(test)
		if err != nil {
			return fmt.Errorf("(%s) - %w", test.name, err)
		}
		printResult(result)
		results = append(results, result)
	}

	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	for _, result := range results {
		if result.timer != nil {
			result.timer.Stop()
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// runPerfTest distributes perfOps operations over perfNumThreads goroutines and
// records the latency of each operation in a timer
func runPerfTest(test perfTest) (perfResult, error) {
	result := perfResult{name: test.name}
	if shouldSkip(test.name) {
		result.skipped = true
		return result, nil
	}

	keys := getKeys(test.name)
	defer func() {
		for _, k := range keys {
			if err := localStore.Delete(k); err != nil {
				plog.Warningf("(%s) - error deleting key: %v", test.name, err)
			}
		}
	}()

	if test.prepare != nil {
		if err := test.prepare(keys); err != nil {
			return result, err
		}
	}

	result.timer = metrics.NewTimer()
	var next atomic.Int64
	var errs atomic.Int64
	var wg sync.WaitGroup

	start := time.Now()
	for range perfNumThreads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1) - 1)
				if i >= perfOps {
					return
				}
				opStart := time.Now()
				if err := test.op(keys, i); err != nil {
					if errs.Add(1) == 1 {
						plog.Errorf("(%s) - error performing operation: %v", test.name, err)
					}
				}
				result.timer.UpdateSince(opStart)
			}
		}()
	}
	wg.Wait()
	result.elapsed = time.Since(start)
	result.errors = errs.Load()

	return result, nil
}

func shouldSkip(test string) bool {
	return slices.Contains(perfSkip, test)
}

// getKeys creates the test keys of a benchmark
func getKeys(prefix string) []string {
	keys := make([]string, perfKeySpread)
	for i := range keys {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}
	return keys
}

func opsPerSec(result perfResult) float64 {
	if result.elapsed <= 0 {
		return 0
	}
	return float64(result.timer.Count()) / result.elapsed.Seconds()
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(result perfResult) {
	if result.skipped {
		fmt.Printf("%-15sskipped\n", result.name)
		return
	}

	snap := result.timer.Snapshot()
	ps := snap.Percentiles([]float64{0.5, 0.95, 0.99})
	fmt.Printf("%-15smean %-10s p50 %-10s p95 %-10s p99 %-10s max %-10s %.0f ops/sec",
		result.name,
		time.Duration(snap.Mean()),
		time.Duration(ps[0]),
		time.Duration(ps[1]),
		time.Duration(ps[2]),
		time.Duration(snap.Max()),
		opsPerSec(result),
	)
	if result.errors > 0 {
		fmt.Printf(" (%d errors)", result.errors)
	}
	fmt.Println()
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []perfResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{
		"Test", "Skipped", "Count", "Errors", "MeanNs", "P50Ns", "P95Ns", "P99Ns", "MaxNs", "OpsPerSec",
		"Shards", "Threads", "LargeValueSizeKB", "KeysCount",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	for _, result := range results {
		row := []string{result.name, strconv.FormatBool(result.skipped)}
		if result.skipped {
			row = append(row, "0", "0", "0", "0", "0", "0", "0", "0")
		} else {
			snap := result.timer.Snapshot()
			ps := snap.Percentiles([]float64{0.5, 0.95, 0.99})
			row = append(row,
				strconv.FormatInt(snap.Count(), 10),
				strconv.FormatInt(result.errors, 10),
				fmt.Sprintf("%.0f", snap.Mean()),
				fmt.Sprintf("%.0f", ps[0]),
				fmt.Sprintf("%.0f", ps[1]),
				fmt.Sprintf("%.0f", ps[2]),
				strconv.FormatInt(snap.Max(), 10),
				fmt.Sprintf("%.0f", opsPerSec(result)),
			)
		}
		row = append(row,
			strconv.Itoa(config.Shards),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		)

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", result.name, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
