package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read <path>",
	Short: "Print a file from the data dir",
	Args:  cobra.ExactArgs(1),
	RunE:  runRead,
}

func GetReadCmd() *cobra.Command {
	return readCmd
}

func runRead(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}
	text, err := eng.ReadText(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, text)
	return nil
}
