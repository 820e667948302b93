// Package commands implements the invsim command line
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vsinha/invsim/pkg/infrastructure/config"
	"github.com/vsinha/invsim/pkg/infrastructure/logging"
	"github.com/vsinha/invsim/pkg/interfaces/cli/output"
)

// RootOptions holds global flags and the settings resolved from them
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Format     string

	// Set by the root command before any subcommand runs
	Config *config.Config
	Logger *slog.Logger
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "invsim",
		Short: "Multi-echelon inventory simulator",
		Long: `invsim simulates periodic-review inventory systems on supply-chain networks.

A network instance (YAML) describes nodes, products, bills of materials,
inventory policies, demand and disruptions. Run settings come from defaults,
an optional --config file and INVSIM_* environment variables, in that order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "run settings file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (error|warn|info|debug|trace)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "", "output format (text|json)")

	cmd.AddCommand(NewSimulateCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTrialsCommand(opts))

	return cmd
}

// resolve loads the configuration and applies flag overrides
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}

	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}
	if o.Format != "" {
		cfg.Output.Format = o.Format
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	o.Config = cfg
	// Logs go to stderr so JSON output stays clean
	if cfg.Logging.Format == "json" {
		o.Logger = logging.NewJSONLogger(cfg.Logging.Level, cmd.ErrOrStderr())
	} else {
		o.Logger = logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
	}
	return nil
}

func (o *RootOptions) outputConfig(cmd *cobra.Command) output.Config {
	return output.Config{
		Format: o.Config.Output.Format,
		Writer: cmd.OutOrStdout(),
	}
}
