package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/interviewcrew/internal/config"
	"github.com/ShayCichocki/interviewcrew/internal/logging"
)

var (
	flagDir     string
	flagBackend string
	flagModel   string
	flagVerbose bool
)

// appCfg is loaded once per invocation by the persistent pre-run hook.
var appCfg *config.Config

// logCloser releases the log file opened for this invocation.
var logCloser io.Closer

var rootCmd = &cobra.Command{
	Use:   "interviewcrew",
	Short: "Interview analysis and practice crew",
	Long: `interviewcrew reads interview transcripts stored as .txt files in
one-letter directories (A/, B/, ...) and asks a language model to
analyze them, generate practice questions, or build a study guide.

With no arguments, starts the interactive menu:
  1. Analyze all interviews
  2. Generate practice questions
  3. Create study guide
  4. Exit

Credentials are read from the environment or a .env file in the
working directory. The variable depends on the backend:
  anthropic  ANTHROPIC_API_KEY (default)
  openai     OPENAI_API_KEY
  gemini     GEMINI_API_KEY
  bedrock    AWS_REGION plus the standard AWS credential chain`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnvironment()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", ".", "Directory to scan for interview files")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Model backend: anthropic, bedrock, openai, gemini")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "Model name for the selected backend")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(guideCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadEnvironment reads .env, loads configuration, applies flag overrides
// and sets up logging.
func loadEnvironment() error {
	// Existing variables win over .env, and a missing .env is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cfg)
	appCfg = cfg

	closer, err := logging.Setup(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Verbose: flagVerbose,
	})
	logCloser = closer
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	return nil
}

// applyFlags lets command-line flags override loaded configuration.
func applyFlags(cfg *config.Config) {
	if flagBackend != "" {
		cfg.Backend.Provider = flagBackend
	}
	if flagModel != "" {
		cfg.Backend.Model = flagModel
	}
}
