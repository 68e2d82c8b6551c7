package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	templateNamespace    string
	templateIngressPorts []string
	templateEgressFQDNs  []string
)

var templateCmd = &cobra.Command{
	Use:   "template <app>",
	Short: "Generate a zero-trust CiliumNetworkPolicy skeleton",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplate,
}

func GetTemplateCmd() *cobra.Command {
	return templateCmd
}

func init() {
	templateCmd.Flags().StringVar(&templateNamespace, "namespace", "default", "Target namespace")
	templateCmd.Flags().StringSliceVar(&templateIngressPorts, "ingress-port", nil, "Ingress port as PORT or PORT/PROTO (repeatable)")
	templateCmd.Flags().StringSliceVar(&templateEgressFQDNs, "egress-fqdn", nil, "Allowed egress FQDN pattern (repeatable)")
}

func runTemplate(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}
	out, err := eng.GenerateTemplate(args[0], templateNamespace, templateIngressPorts, templateEgressFQDNs)
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, out)
	return nil
}
