package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/interviewcrew/internal/corpus"
	"github.com/ShayCichocki/interviewcrew/internal/logging"
)

var (
	filesFilter string
	filesSearch corpus.Filter
	filesWatch  bool
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the interview files that would be analyzed",
	Long: `List the interview files discovered under --dir.

A file is included when it matches the discovery pattern (default *.txt),
sits in a directory whose name is a single letter, and either its path
mentions "interview" or that directory name is uppercase.

--filter narrows the list with a fuzzy match on the path.
--search also looks inside each file, --company keeps files whose name
starts with that company and --role keeps files whose name mentions the
role (spaces and underscores are ignored).
--watch keeps running and reprints the list whenever files change.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(flagDir)
		if err != nil {
			return fmt.Errorf("resolve directory: %w", err)
		}
		loader := corpus.NewLoader(root, appCfg.Discovery.Pattern)
		out := cmd.OutOrStdout()

		files, err := loader.Scan()
		if err != nil {
			return fmt.Errorf("discover interview files: %w", err)
		}
		printFiles(out, root, files, filesFilter, filesSearch)

		if !filesWatch {
			return nil
		}

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(out, "\nWatching %s for changes (Ctrl+C to stop)...\n", loader.Root())
		return loader.Watch(ctx, func(files []corpus.InterviewFile, err error) {
			if err != nil {
				logging.For("files").WithError(err).Warn("rescan failed")
				return
			}
			fmt.Fprintln(out)
			printFiles(out, root, files, filesFilter, filesSearch)
		})
	},
}

func init() {
	filesCmd.Flags().StringVarP(&filesFilter, "filter", "f", "", "Fuzzy filter on file paths")
	filesCmd.Flags().StringVarP(&filesSearch.Search, "search", "s", "", "Search file paths and contents")
	filesCmd.Flags().StringVar(&filesSearch.Company, "company", "", "Only files for this company")
	filesCmd.Flags().StringVar(&filesSearch.Role, "role", "", "Only files for this role")
	filesCmd.Flags().BoolVarP(&filesWatch, "watch", "w", false, "Reprint the list when files change")
}

// printFiles writes matching paths followed by interview and company
// counts and a per-directory summary.
func printFiles(out io.Writer, root string, files []corpus.InterviewFile, pathFilter string, filter corpus.Filter) {
	matched := corpus.Search(root, corpus.Match(files, pathFilter), filter)
	if len(matched) == 0 {
		fmt.Fprintln(out, "No interview files found.")
		return
	}

	for _, f := range matched {
		fmt.Fprintln(out, f.Path)
	}

	counts := corpus.CountByDir(matched)
	dirs := lo.Keys(counts)
	sort.Strings(dirs)
	summary := lo.Map(dirs, func(d string, _ int) string {
		return fmt.Sprintf("%s/: %d", d, counts[d])
	})
	stats := corpus.Summarize(matched)
	fmt.Fprintf(out, "\n%d interview(s), %d compan%s", stats.Interviews, stats.Companies, lo.Ternary(stats.Companies == 1, "y", "ies"))
	if len(summary) > 0 {
		fmt.Fprintf(out, " (%s)", strings.Join(summary, ", "))
	}
	fmt.Fprintln(out)
}
