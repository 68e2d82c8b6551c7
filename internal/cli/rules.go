package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/draupnir/draupnir/internal/models"
	"github.com/draupnir/draupnir/internal/rules"
	"github.com/spf13/cobra"
)

var (
	rulesPreset string
	rulesConfig string
	rulesGlob   string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Evaluate organization rules against policy files",
	Long: `rules runs a CEL rule set over every recognized policy document in
the data dir. Rule sets come from a built-in preset (--preset) or a
YAML file on disk (--config).`,
	RunE: runRules,
}

func GetRulesCmd() *cobra.Command {
	return rulesCmd
}

func init() {
	rulesCmd.Flags().StringVar(&rulesPreset, "preset", "", "Built-in rule set: "+strings.Join(rules.ListPresetNames(), ", "))
	rulesCmd.Flags().StringVar(&rulesConfig, "config", "", "Path to a YAML rules file")
	rulesCmd.Flags().StringVar(&rulesGlob, "glob", "", "Glob pattern for policy files to evaluate")
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := resolveRules()
	if err != nil {
		return err
	}
	eng, err := newEngine()
	if err != nil {
		return err
	}
	results, err := eng.EvaluateRules(cfg, rulesGlob)
	if err != nil {
		return err
	}
	return printJSON(results)
}

func resolveRules() (*models.RulesConfig, error) {
	switch {
	case rulesPreset != "" && rulesConfig != "":
		return nil, fmt.Errorf("use either --preset or --config, not both")
	case rulesConfig != "":
		data, err := os.ReadFile(rulesConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to read rules config: %w", err)
		}
		return rules.ParseConfig(data)
	case rulesPreset != "":
		cfg := rules.GetPreset(rulesPreset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %s)", rulesPreset, strings.Join(rules.ListPresetNames(), ", "))
		}
		return cfg, nil
	default:
		return rules.MustGetPreset("baseline"), nil
	}
}
