package cli

import (
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff <path-a> <path-b>",
	Short: "Structurally compare two policy documents",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiff,
}

func GetDiffCmd() *cobra.Command {
	return diffCmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}
	result, err := eng.Diff(args[0], args[1])
	if err != nil {
		return err
	}
	return printJSON(result)
}
