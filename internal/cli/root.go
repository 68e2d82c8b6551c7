package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/draupnir/draupnir/internal/engine"
	"github.com/draupnir/draupnir/internal/observability"
	"github.com/draupnir/draupnir/internal/observability/logging"
	otelobs "github.com/draupnir/draupnir/internal/observability/otel"
	"github.com/draupnir/draupnir/internal/observability/receipt"
	"github.com/draupnir/draupnir/internal/version"
	"github.com/spf13/cobra"
)

var (
	dataDirFlag string
	logFormat   string
	logLevel    string
	logOutput   string
	receiptFlag string

	otelEnabled  bool
	otelEndpoint string
	otelProtocol string
	otelInsecure bool
)

var rootCmd = &cobra.Command{
	Use:   "draupnir",
	Short: "File-backed Cilium policy knowledge server",
	Long: `draupnir serves a directory of network-policy documents to
tool-calling clients, with glob queries, text search, structural
validation and zero-trust posture scoring on top.`,
	Version:           version.BuildVersion(),
	PersistentPreRunE: setupContext,
	PersistentPostRun: teardownContext,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dataDirFlag, "data-dir", defaultDataDir(), "Directory containing policy YAMLs and assets")
	flags.StringVar(&logFormat, "log-format", "jsonl", "Log format: jsonl or none")
	flags.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flags.StringVar(&logOutput, "log-output", "stderr", "Log output: stderr or a file path")
	flags.StringVar(&receiptFlag, "receipt", "", "Append JSONL audit receipts to this file")
	flags.BoolVar(&prettyOutput, "pretty", false, "Indent JSON output")
	flags.BoolVar(&otelEnabled, "otel", false, "Enable OpenTelemetry tracing")
	flags.StringVar(&otelEndpoint, "otel-endpoint", "", "OTLP endpoint (default from OTEL_EXPORTER_OTLP_ENDPOINT)")
	flags.StringVar(&otelProtocol, "otel-protocol", otelobs.ProtocolHTTP, "OTLP protocol: otlphttp or otlpgrpc")
	flags.BoolVar(&otelInsecure, "otel-insecure", false, "Allow insecure OTLP connections")

	rootCmd.AddCommand(GetServeCmd())
	rootCmd.AddCommand(GetListCmd())
	rootCmd.AddCommand(GetReadCmd())
	rootCmd.AddCommand(GetSearchCmd())
	rootCmd.AddCommand(GetPoliciesCmd())
	rootCmd.AddCommand(GetValidateCmd())
	rootCmd.AddCommand(GetPostureCmd())
	rootCmd.AddCommand(GetTemplateCmd())
	rootCmd.AddCommand(GetRulesCmd())
	rootCmd.AddCommand(GetDiffCmd())
	rootCmd.AddCommand(GetIngestCmd())
	rootCmd.AddCommand(GetK8sCmd())
}

// defaultDataDir honors the environment the served corpus is configured
// through.
func defaultDataDir() string {
	if dir := os.Getenv("DRAUPNIR_DATA_DIR"); dir != "" {
		return dir
	}
	return "./data"
}

var activeLogger logging.Logger
var activeOtel *otelobs.Handle
var activeReceipts receipt.Writer

// setupContext wires op tracking, logging, tracing and receipts into the
// command context once per invocation.
func setupContext(cmd *cobra.Command, args []string) error {
	ctx := observability.WithOpID(cmd.Context())

	log, err := logging.NewLogger(logging.Config{
		Format: logFormat,
		Level:  logLevel,
		Output: logOutput,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	activeLogger = log
	ctx = logging.WithLogger(ctx, log)

	if otelEnabled {
		cfg := otelobs.DefaultConfig()
		cfg.Enabled = true
		cfg.Endpoint = otelEndpoint
		cfg.Protocol = otelProtocol
		cfg.Insecure = otelInsecure
		handle, err := otelobs.Init(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to set up tracing: %w", err)
		}
		activeOtel = handle
		ctx = otelobs.WithHandle(ctx, handle)
	}

	if receiptFlag != "" {
		w, err := receipt.NewWriter(receiptFlag)
		if err != nil {
			return err
		}
		activeReceipts = w
		ctx = receipt.WithWriter(ctx, w)
	}

	cmd.SetContext(ctx)
	return nil
}

func teardownContext(cmd *cobra.Command, args []string) {
	if activeReceipts != nil {
		_ = activeReceipts.Close()
	}
	if activeOtel != nil {
		_ = activeOtel.Shutdown(context.Background())
	}
	if activeLogger != nil {
		_ = activeLogger.Close()
	}
}

// newEngine binds an engine to the configured data dir.
func newEngine() (*engine.Engine, error) {
	return engine.New(dataDirFlag)
}
