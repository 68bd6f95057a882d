package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"classpulse/internal/config"
	apperrors "classpulse/internal/errors"
	"classpulse/internal/infrastructure"
	"classpulse/internal/services"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DataDir    string
	Format     string // "json" | "text"
	Verbose    bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the classpulse CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "classpulse",
		Short: "Class conduct score trends and rankings",
		Long: `classpulse reads monthly conduct-score spreadsheets (3月.xlsx, 4月.csv, ...)
from the data directory and reports falling score trends, monthly rankings,
assessment item statistics and deduction suggestions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to config.yaml")
	cmd.PersistentFlags().StringVarP(&opts.DataDir, "data-dir", "d", "", "directory holding the period files (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log pipeline progress to stderr")

	cmd.AddCommand(NewPeriodsCommand(opts))
	cmd.AddCommand(NewTrendCommand(opts))
	cmd.AddCommand(NewRankCommand(opts))
	cmd.AddCommand(NewItemsCommand(opts))
	cmd.AddCommand(NewItemTrendCommand(opts))
	cmd.AddCommand(NewQualityCommand(opts))
	cmd.AddCommand(NewDeductionsCommand(opts))
	cmd.AddCommand(NewPivotCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to load configuration", err)
	}
	if opts.DataDir != "" {
		cfg.Paths.DataDir = opts.DataDir
	}
	return cfg, nil
}

// cliLogger writes JSON logs to stderr; warnings only unless verbose.
func cliLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	return infrastructure.NewLogger(w, level)
}

// newService builds the analysis service for one command invocation.
func newService(opts *RootOptions, cmd *cobra.Command, extra ...services.ServiceOption) (*services.AnalysisService, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return services.NewAnalysisService(cfg, cliLogger(opts, cmd.ErrOrStderr()), extra...), nil
}

func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}
