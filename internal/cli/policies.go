package cli

import (
	"github.com/spf13/cobra"
)

var policiesGlob string

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List files containing Cilium policy kinds",
	RunE:  runPolicies,
}

func GetPoliciesCmd() *cobra.Command {
	return policiesCmd
}

func init() {
	policiesCmd.Flags().StringVar(&policiesGlob, "glob", "", "Glob pattern for candidate YAML files")
}

func runPolicies(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}
	paths, err := eng.ListPolicies(policiesGlob)
	if err != nil {
		return err
	}
	return printJSON(paths)
}
