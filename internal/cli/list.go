package cli

import (
	"github.com/spf13/cobra"
)

var listPattern string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List files in the data dir, optionally filtered by a glob",
	RunE:  runList,
}

func GetListCmd() *cobra.Command {
	return listCmd
}

func init() {
	listCmd.Flags().StringVar(&listPattern, "pattern", "", "Glob pattern, e.g. '**/*.yaml' or 'docs/*.md'")
}

func runList(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}
	files, err := eng.List(listPattern)
	if err != nil {
		return err
	}
	return printJSON(files)
}
