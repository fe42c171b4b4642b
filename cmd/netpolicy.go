package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runloopai/rl-cli-sub001/internal/api"
)

var netpolicyListLimit int

// netpolicyCmd represents the netpolicy command
var netpolicyCmd = &cobra.Command{
	Use:   "netpolicy",
	Short: "Manage network policies",
	Long: `Manage network policies: the egress allow/deny host lists that
can be attached to devboxes.`,
}

var netpolicyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List network policies",
	Args:  cobra.NoArgs,
	RunE:  runNetpolicyList,
}

var netpolicyGetCmd = &cobra.Command{
	Use:   "get <policy-id>",
	Short: "Get a network policy",
	Args:  cobra.ExactArgs(1),
	RunE:  runNetpolicyGet,
}

var netpolicyDeleteCmd = &cobra.Command{
	Use:   "delete <policy-id>",
	Short: "Delete a network policy",
	Args:  cobra.ExactArgs(1),
	RunE:  runNetpolicyDelete,
}

func init() {
	rootCmd.AddCommand(netpolicyCmd)

	netpolicyCmd.AddCommand(netpolicyListCmd)
	netpolicyCmd.AddCommand(netpolicyGetCmd)
	netpolicyCmd.AddCommand(netpolicyDeleteCmd)

	netpolicyListCmd.Flags().IntVar(&netpolicyListLimit, "limit", 0, "Page size (server default when 0)")
}

func runNetpolicyList(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	page, err := client.NetworkPolicies.List(cmd.Context(), api.ListOptions{Limit: netpolicyListLimit})
	if err != nil {
		return err
	}
	return printJSON(cmd, page.Items)
}

func runNetpolicyGet(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	policy, err := client.NetworkPolicies.Retrieve(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, policy)
}

func runNetpolicyDelete(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	if err := client.NetworkPolicies.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted network policy %s\n", args[0])
	return nil
}
