package corpus

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// Filter narrows a file list the way the browse view does. Empty fields
// match everything.
type Filter struct {
	// Search matches the path or the file text, fuzzily and ignoring case.
	Search string
	// Company matches the leading name segment (e.g. "exl" or
	// "publicis sapient" for publicis_sapient_dataengineer_5y_jan_25.txt).
	Company string
	// Role matches anywhere in the name once spaces and underscores are
	// dropped, so "data engineer" finds exl_aws_dataengineer_5y_oct_25.txt.
	Role string
}

// Stats summarizes a file list.
type Stats struct {
	Interviews int
	Companies  int
}

// Search applies filter to files under root. Search reads file content
// only for files whose path does not already match.
func Search(root string, files []InterviewFile, filter Filter) []InterviewFile {
	term := strings.TrimSpace(filter.Search)
	company := nameKey(filter.Company, "_")
	role := nameKey(filter.Role, "")

	return lo.Filter(files, func(f InterviewFile, _ int) bool {
		if company != "" && !companyMatches(f, company) {
			return false
		}
		if role != "" && !strings.Contains(nameKey(stem(f.Name), ""), role) {
			return false
		}
		if term == "" || fuzzy.MatchFold(term, f.Path) {
			return true
		}
		return contentMatches(filepath.Join(root, filepath.FromSlash(f.Path)), term)
	})
}

// Company returns the leading underscore-separated segment of the file
// name, lowercased.
func Company(f InterviewFile) string {
	s := strings.ToLower(stem(f.Name))
	if i := strings.IndexByte(s, '_'); i > 0 {
		return s[:i]
	}
	return s
}

// Summarize counts interviews and distinct companies in files.
func Summarize(files []InterviewFile) Stats {
	return Stats{
		Interviews: len(files),
		Companies:  len(lo.Uniq(lo.Map(files, func(f InterviewFile, _ int) string { return Company(f) }))),
	}
}

func companyMatches(f InterviewFile, company string) bool {
	s := strings.ToLower(stem(f.Name))
	return s == company || strings.HasPrefix(s, company+"_")
}

// contentMatches checks term as a substring of the text first, then
// fuzzily against single words so "sprk" still finds "spark".
func contentMatches(p, term string) bool {
	data, err := os.ReadFile(p)
	if err != nil {
		return false
	}
	content := strings.ToLower(string(data))
	if strings.Contains(content, strings.ToLower(term)) {
		return true
	}
	words := lo.FilterMap(strings.Fields(content), func(w string, _ int) (string, bool) {
		w = strings.Trim(w, ".,!?;:()[]{}\"'")
		return w, w != ""
	})
	return len(fuzzy.RankFindFold(term, words)) > 0
}

func stem(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

// nameKey lowercases s and joins its words with sep.
func nameKey(s, sep string) string {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", " ")
	return strings.Join(strings.Fields(s), sep)
}
