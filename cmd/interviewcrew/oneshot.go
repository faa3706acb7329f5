package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/interviewcrew/internal/prompt"
	"github.com/ShayCichocki/interviewcrew/internal/tui"
)

var (
	questionsTopic      string
	questionsDifficulty string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze all interviews once and print the report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd, prompt.KindAnalysis, "", "")
	},
}

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate practice questions once and print them",
	Long: `Generate practice questions from the interview corpus.

Only the first 2000 characters of the corpus are sent with this request.
Without --topic the questions cover various topics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd, prompt.KindQuestions, questionsTopic, questionsDifficulty)
	},
}

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Create a study guide once and print it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd, prompt.KindStudyGuide, "", "")
	},
}

func init() {
	questionsCmd.Flags().StringVar(&questionsTopic, "topic", "", "Topic to focus on (default: all topics)")
	questionsCmd.Flags().StringVar(&questionsDifficulty, "difficulty", prompt.DefaultDifficulty, "Difficulty: easy, medium or hard")
}

// runOnce performs a single menu action without the interactive loop.
func runOnce(cmd *cobra.Command, kind prompt.Kind, topic, difficulty string) error {
	out := cmd.OutOrStdout()
	if !preflight(out, appCfg) {
		return nil
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess, err := newSession(ctx, appCfg, cmd.InOrStdin(), out, waiterFor(out))
	if err != nil {
		return err
	}
	defer sess.Close()

	result, err := sess.shell.Execute(ctx, kind, topic, difficulty)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, tui.Panel(kind.Title(), result.Text, terminalWidth(out)))
	return nil
}
