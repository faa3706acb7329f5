package corpus

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// Match filters files whose relative path fuzzily contains term,
// ignoring case. An empty term returns files unchanged.
func Match(files []InterviewFile, term string) []InterviewFile {
	term = strings.TrimSpace(term)
	if term == "" {
		return files
	}
	return lo.Filter(files, func(f InterviewFile, _ int) bool {
		return fuzzy.MatchFold(term, f.Path)
	})
}

// Names returns the basenames of files, in order.
func Names(files []InterviewFile) []string {
	return lo.Map(files, func(f InterviewFile, _ int) string {
		return f.Name
	})
}

// CountByDir groups files by their parent directory name.
func CountByDir(files []InterviewFile) map[string]int {
	return lo.CountValuesBy(files, func(f InterviewFile) string {
		return f.Dir
	})
}
