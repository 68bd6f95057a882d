package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"classpulse/internal/app"
	"classpulse/internal/config"
	"classpulse/internal/infrastructure"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)

			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return out.Fail(err)
			}
			if port != 0 {
				cfg.Server.Port = port
			}

			logger, err := infrastructure.InitializeLogger(cfg.Logging)
			if err != nil {
				return out.Fail(fmt.Errorf("failed to initialize logger: %w", err))
			}

			application, err := app.New(cfg, logger)
			if err != nil {
				return out.Fail(err)
			}
			return application.Run()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	return cmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := map[string]string{
				"name":       config.AppName,
				"version":    config.AppVersion,
				"build_time": app.BuildTime,
				"go_version": runtime.Version(),
			}
			return formatter(rootOpts, cmd).Success(info, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s %s (built %s, %s)\n",
					config.AppName, config.AppVersion, app.BuildTime, runtime.Version())
				return err
			})
		},
	}
}
