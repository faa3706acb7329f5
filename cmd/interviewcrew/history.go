package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/interviewcrew/internal/history"
)

var (
	historyLimit int
	historyPurge time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List recorded crew runs",
	Long: `List the crew runs recorded in .interviewcrew/history.db, newest first.
With an ID (or a unique ID prefix from the list), show that run in full.

Only metadata is stored: kind, topic, difficulty, backend, corpus size,
token usage, status and duration. Generated text is never saved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(flagDir)
		if err != nil {
			return fmt.Errorf("resolve directory: %w", err)
		}
		db, err := openHistory(root, appCfg)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer db.Close()

		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		return runHistory(cmd.OutOrStdout(), db, id)
	},
}

// runHistory purges, shows one run, or lists recent runs.
func runHistory(out io.Writer, store history.Store, id string) error {
	if historyPurge > 0 {
		n, err := store.PurgeOldRuns(historyPurge)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Purged %d run(s) older than %s\n", n, historyPurge)
		return nil
	}

	if id != "" {
		run, err := store.GetRun(id)
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("no run with ID %q", id)
		}
		printRun(out, run)
		return nil
	}

	runs, err := store.ListRuns(historyLimit)
	if err != nil {
		return err
	}
	printRuns(out, runs)
	return nil
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum runs to show (0 for all)")
	historyCmd.Flags().DurationVar(&historyPurge, "purge", 0, "Delete runs older than this duration instead of listing")
}

func printRuns(out io.Writer, runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "STARTED", "KIND", "TOPIC", "DIFFICULTY", "BACKEND", "FILES", "TOKENS", "STATUS", "DURATION")
	for _, r := range runs {
		t.Row(
			shortID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Kind,
			r.Topic,
			r.Difficulty,
			r.Backend,
			strconv.Itoa(r.FileCount),
			fmt.Sprintf("%d/%d", r.InputTokens, r.OutputTokens),
			string(r.Status),
			r.Duration.Round(100*time.Millisecond).String(),
		)
	}
	fmt.Fprintln(out, t.String())
}

// printRun writes every recorded field of one run.
func printRun(out io.Writer, r *history.Run) {
	fields := [][2]string{
		{"ID", r.ID},
		{"Started", r.StartedAt.Local().Format(time.RFC3339)},
		{"Kind", r.Kind},
		{"Topic", r.Topic},
		{"Difficulty", r.Difficulty},
		{"Backend", r.Backend},
		{"Model", r.Model},
		{"Files", strconv.Itoa(r.FileCount)},
		{"Corpus chars", strconv.Itoa(r.CorpusChars)},
		{"Input tokens", strconv.FormatInt(r.InputTokens, 10)},
		{"Output tokens", strconv.FormatInt(r.OutputTokens, 10)},
		{"Status", string(r.Status)},
		{"Duration", r.Duration.Round(time.Millisecond).String()},
	}
	if r.Error != "" {
		fields = append(fields, [2]string{"Error", r.Error})
	}
	for _, f := range fields {
		fmt.Fprintf(out, "%-14s %s\n", f[0]+":", f[1])
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
