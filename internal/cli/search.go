package cli

import (
	"github.com/spf13/cobra"
)

var searchGlob string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Case-insensitive text search across the data dir",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func GetSearchCmd() *cobra.Command {
	return searchCmd
}

func init() {
	searchCmd.Flags().StringVar(&searchGlob, "glob", "", "Restrict the search to files matching this glob")
}

func runSearch(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}
	matches, err := eng.Search(args[0], searchGlob)
	if err != nil {
		return err
	}
	return printJSON(matches)
}
