package cli

import (
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Validate a Cilium policy document",
	Long: `validate parses one YAML document from the data dir and reports
structural errors plus zero-trust hygiene warnings. Validation findings
go to stdout as JSON; the command fails only when the file cannot be
read or parsed.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func GetValidateCmd() *cobra.Command {
	return validateCmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}
	report, err := eng.Validate(args[0])
	if err != nil {
		return err
	}
	return printJSON(report)
}
