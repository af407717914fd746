package main

import (
	"io"

	"github.com/plus3/isoarena/internal/config"
	"github.com/plus3/isoarena/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "isoarena",
		Short:         "Overhead arena simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "override log.level (trace, debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "override log.format (console, json)")

	cmd.AddCommand(
		newPlayCmd(opts),
		newTTYCmd(opts),
		newStressCmd(opts),
	)
	return cmd
}

// load resolves the configuration and builds a logger writing to out.
func (o *rootOptions) load(cmd *cobra.Command, out io.Writer) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, zerolog.Nop(), err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return cfg, zerolog.Nop(), err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: out,
	})
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	return cfg, logger, nil
}
