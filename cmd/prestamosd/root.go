package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"prestamos-admin/config"
)

type options struct {
	configPath string
	cfg        *config.Config
}

// newRootCommand builds the CLI. Running it without a subcommand serves the
// admin interface.
func newRootCommand(logger *log.Logger) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "prestamosd",
		Short:        "Equipment loan administration",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				logger.Printf("failed to load configuration from %s: %v", opts.configPath, err)
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "./config/config.yaml"
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultPath, "path to the YAML configuration file")

	serveCmd := serveCommand(opts, logger)
	rootCmd.RunE = serveCmd.RunE
	rootCmd.AddCommand(
		serveCmd,
		loansCommand(opts),
		equipmentCommand(opts),
	)

	return rootCmd
}
