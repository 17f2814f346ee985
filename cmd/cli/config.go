package main

import (
	"github.com/luminfeed/waitlist-service/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd prints the effective waitlist configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective waitlist configuration with secrets redacted",
	Long: `Print the waitlist configuration after defaults, WAITLIST_CONFIG_FILE and WAITLIST_*
environment overrides are applied. The API key is redacted. Exits non-zero when the
selected backend is missing required settings.`,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWaitlistConfig(logger)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(cfg.Redacted()); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	return cfg.Validate()
}
