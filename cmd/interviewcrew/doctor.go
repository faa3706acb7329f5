package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/interviewcrew/internal/config"
	"github.com/ShayCichocki/interviewcrew/internal/corpus"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check credentials, configuration and interview discovery",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor(cmd)
	},
}

func runDoctor(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	cfg := appCfg
	problems := 0

	if path := config.GetProjectConfigPath(); path != "" {
		printStatus(out, "✓", "Project config: "+path, color.FgGreen)
	} else {
		printStatus(out, "·", "No project config ("+config.ProjectConfigName+")", color.FgHiBlack)
	}

	if !config.ValidProvider(cfg.Backend.Provider) {
		printStatus(out, "✗", fmt.Sprintf("Unknown backend %q", cfg.Backend.Provider), color.FgRed)
		problems++
	} else {
		model := cfg.Backend.Model
		if model == "" {
			model = "default model"
		}
		printStatus(out, "✓", fmt.Sprintf("Backend: %s (%s)", cfg.Backend.Provider, model), color.FgGreen)
	}

	name := config.CredentialEnv(cfg.Backend.Provider)
	if key, err := config.GetAPIKey(cfg); err != nil {
		printStatus(out, "✗", name+" not set", color.FgRed)
		problems++
	} else {
		shown := config.MaskAPIKey(key)
		if name == "AWS_REGION" {
			shown = key
		}
		printStatus(out, "✓", fmt.Sprintf("%s is set (%s, from %s)", name, shown, config.GetAPIKeySource(cfg)), color.FgGreen)
	}

	root, err := filepath.Abs(flagDir)
	if err != nil {
		return fmt.Errorf("resolve directory: %w", err)
	}
	files, err := corpus.NewLoader(root, cfg.Discovery.Pattern).Scan()
	switch {
	case err != nil:
		printStatus(out, "✗", fmt.Sprintf("Cannot scan %s: %v", root, err), color.FgRed)
		problems++
	case len(files) == 0:
		printStatus(out, "⚠", fmt.Sprintf("No interview files found under %s", root), color.FgYellow)
	default:
		names := corpus.Names(files)
		if len(names) > 5 {
			names = append(names[:5], "...")
		}
		printStatus(out, "✓", fmt.Sprintf("%d interview file(s): %s", len(files), strings.Join(names, ", ")), color.FgGreen)
	}

	if cfg.History.Enabled {
		db, err := openHistory(root, cfg)
		if err != nil {
			printStatus(out, "⚠", fmt.Sprintf("History unavailable: %v", err), color.FgYellow)
		} else {
			printStatus(out, "✓", "History: "+db.Path(), color.FgGreen)
			db.Close()
		}
	} else {
		printStatus(out, "·", "History disabled", color.FgHiBlack)
	}

	if problems > 0 {
		fmt.Fprintf(out, "\n%d problem(s) found.\n", problems)
	} else {
		fmt.Fprintln(out, "\nReady.")
	}
	return nil
}

// printStatus prints a colored status symbol followed by a message.
func printStatus(out io.Writer, symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Fprintf(out, "%s %s\n", c.Sprint(symbol), message)
}
