package cmd

import (
	"github.com/spf13/cobra"

	"github.com/runloopai/rl-cli-sub001/internal/api"
)

var (
	invocationListBenchmark string
	invocationListLimit     int
)

// invocationCmd represents the invocation command
var invocationCmd = &cobra.Command{
	Use:   "invocation",
	Short: "Inspect benchmark invocations",
	Long: `Inspect benchmark invocations: individual runs of a benchmark
against devboxes.`,
}

var invocationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invocations",
	Args:  cobra.NoArgs,
	RunE:  runInvocationList,
}

var invocationGetCmd = &cobra.Command{
	Use:   "get <invocation-id>",
	Short: "Get an invocation",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvocationGet,
}

func init() {
	rootCmd.AddCommand(invocationCmd)

	invocationCmd.AddCommand(invocationListCmd)
	invocationCmd.AddCommand(invocationGetCmd)

	invocationListCmd.Flags().StringVar(&invocationListBenchmark, "benchmark-id", "", "Only invocations of this benchmark")
	invocationListCmd.Flags().IntVar(&invocationListLimit, "limit", 0, "Page size (server default when 0)")
}

func runInvocationList(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	page, err := client.Benchmarks.ListRuns(cmd.Context(), api.BenchmarkRunListOptions{
		ListOptions: api.ListOptions{Limit: invocationListLimit},
		BenchmarkID: invocationListBenchmark,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd, page.Items)
}

func runInvocationGet(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	run, err := client.Benchmarks.RetrieveRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, run)
}
