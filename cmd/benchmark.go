package cmd

import (
	"github.com/spf13/cobra"

	"github.com/runloopai/rl-cli-sub001/internal/api"
)

var (
	benchmarkListLimit int
	benchmarkJobsLimit int
)

// benchmarkCmd represents the benchmark command
var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Inspect benchmarks",
	Long: `Inspect benchmark definitions and their job runs.

Benchmarks are suites of scenarios run against devboxes; each run is
an invocation with a status and, once finished, a score.`,
}

var benchmarkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List benchmarks",
	Args:  cobra.NoArgs,
	RunE:  runBenchmarkList,
}

var benchmarkGetCmd = &cobra.Command{
	Use:   "get <benchmark-id>",
	Short: "Get a benchmark",
	Args:  cobra.ExactArgs(1),
	RunE:  runBenchmarkGet,
}

var benchmarkJobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List benchmark job runs",
	Args:  cobra.NoArgs,
	RunE:  runBenchmarkJobs,
}

func init() {
	rootCmd.AddCommand(benchmarkCmd)

	benchmarkCmd.AddCommand(benchmarkListCmd)
	benchmarkCmd.AddCommand(benchmarkGetCmd)
	benchmarkCmd.AddCommand(benchmarkJobsCmd)

	benchmarkListCmd.Flags().IntVar(&benchmarkListLimit, "limit", 0, "Page size (server default when 0)")
	benchmarkJobsCmd.Flags().IntVar(&benchmarkJobsLimit, "limit", 0, "Page size (server default when 0)")
}

func runBenchmarkList(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	page, err := client.Benchmarks.List(cmd.Context(), api.ListOptions{Limit: benchmarkListLimit})
	if err != nil {
		return err
	}
	return printJSON(cmd, page.Items)
}

func runBenchmarkGet(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	benchmark, err := client.Benchmarks.Retrieve(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, benchmark)
}

func runBenchmarkJobs(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	page, err := client.Benchmarks.ListRuns(cmd.Context(), api.BenchmarkRunListOptions{
		ListOptions: api.ListOptions{Limit: benchmarkJobsLimit},
	})
	if err != nil {
		return err
	}
	return printJSON(cmd, page.Items)
}
