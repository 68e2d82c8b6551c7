package cli

import (
	"time"

	"github.com/draupnir/draupnir/internal/kubectl"
	"github.com/spf13/cobra"
)

var (
	k8sTimeout       time.Duration
	k8sAllNamespaces bool

	hubbleSrc     string
	hubbleDst     string
	hubbleVerdict string
)

var k8sCmd = &cobra.Command{
	Use:   "k8s",
	Short: "Read-only kubectl and Hubble helpers",
}

var k8sContextCmd = &cobra.Command{
	Use:   "context",
	Short: "Show the current kubectl context",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := kubectl.NewRunner(k8sTimeout)
		return printJSON(r.CurrentContext(cmd.Context()))
	},
}

var k8sClusterCmd = &cobra.Command{
	Use:   "cluster-info",
	Short: "Show cluster info for the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := kubectl.NewRunner(k8sTimeout)
		return printJSON(r.Cluster(cmd.Context()))
	},
}

var k8sServiceAccountsCmd = &cobra.Command{
	Use:   "service-accounts",
	Short: "List service accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := kubectl.NewRunner(k8sTimeout)
		return printJSON(r.ServiceAccounts(cmd.Context(), k8sAllNamespaces))
	},
}

var k8sHubbleCmd = &cobra.Command{
	Use:   "hubble-filters",
	Short: "Build hubble observe filter flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(kubectl.HubbleFilters(hubbleSrc, hubbleDst, hubbleVerdict))
	},
}

func GetK8sCmd() *cobra.Command {
	return k8sCmd
}

func init() {
	k8sCmd.PersistentFlags().DurationVar(&k8sTimeout, "timeout", 10*time.Second, "Timeout for kubectl invocations")
	k8sServiceAccountsCmd.Flags().BoolVarP(&k8sAllNamespaces, "all-namespaces", "A", false, "List across all namespaces")
	k8sHubbleCmd.Flags().StringVar(&hubbleSrc, "src", "", "Source pod or label filter")
	k8sHubbleCmd.Flags().StringVar(&hubbleDst, "dst", "", "Destination pod or label filter")
	k8sHubbleCmd.Flags().StringVar(&hubbleVerdict, "verdict", "", "Flow verdict, e.g. DROPPED or FORWARDED")

	k8sCmd.AddCommand(k8sContextCmd)
	k8sCmd.AddCommand(k8sClusterCmd)
	k8sCmd.AddCommand(k8sServiceAccountsCmd)
	k8sCmd.AddCommand(k8sHubbleCmd)
}
