package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/interviewcrew/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify interviewcrew configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/interviewcrew/config.yaml
Project-specific overrides can be placed in .interviewcrew.yaml`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 2 {
			return setConfigKey(out, args[0], args[1])
		}

		// Reload without flag overrides; display shows the effective file and env values.
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		switch len(args) {
		case 0:
			displayAllConfig(out, cfg)
			return nil
		default:
			return displayConfigKey(out, cfg, args[0])
		}
	},
}

// displayAllConfig prints all configuration values and credential status.
func displayAllConfig(out io.Writer, cfg *config.Config) {
	values := cfg.Values()
	for _, key := range config.Keys() {
		fmt.Fprintf(out, "%s: %s\n", key, values[key])
	}

	fmt.Fprintln(out)
	for _, name := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY"} {
		fmt.Fprintf(out, "%s: %s\n", name, config.MaskAPIKey(os.Getenv(name)))
	}
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(out io.Writer, cfg *config.Config, key string) error {
	value, ok := cfg.Values()[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	fmt.Fprintln(out, value)
	return nil
}

// setConfigKey sets one value in the user config file. Project overrides
// and environment values seen by the other forms are never written back.
func setConfigKey(out io.Writer, key, value string) error {
	cfg, err := config.LoadUser()
	if err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	if err := cfg.Set(strings.ToLower(key), value); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(out, "Set %s = %s\n", key, value)
	return nil
}
