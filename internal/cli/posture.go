package cli

import (
	"github.com/spf13/cobra"
)

var postureGlob string

var postureCmd = &cobra.Command{
	Use:   "posture",
	Short: "Aggregate zero-trust posture across policy files",
	RunE:  runPosture,
}

func GetPostureCmd() *cobra.Command {
	return postureCmd
}

func init() {
	postureCmd.Flags().StringVar(&postureGlob, "glob", "", "Glob pattern for policy files to scan")
}

func runPosture(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}
	report, err := eng.ScanPosture(postureGlob)
	if err != nil {
		return err
	}
	return printJSON(report)
}
