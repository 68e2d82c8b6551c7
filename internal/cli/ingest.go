package cli

import (
	"fmt"
	"os"

	"github.com/draupnir/draupnir/internal/ingest"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <archive.zip>",
	Short: "Unpack a policy bundle into the data dir",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func GetIngestCmd() *cobra.Command {
	return ingestCmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(dataDirFlag, 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	if err := ingest.Unzip(args[0], dataDirFlag); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "unpacked %s into %s\n", args[0], dataDirFlag)
	return nil
}
