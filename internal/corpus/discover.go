// Package corpus discovers interview-experience files on disk and
// concatenates their contents into the corpus handed to the crew.
package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gobwas/glob"

	"github.com/ShayCichocki/interviewcrew/internal/logging"
)

// DefaultPattern selects candidate files by basename.
const DefaultPattern = "*.txt"

// InterviewFile is a discovered file judged to hold interview content.
type InterviewFile struct {
	// Path is relative to the scan root, slash-separated (e.g. "A/acme_de_oct_25.txt").
	Path string
	// Dir is the immediate parent directory name.
	Dir string
	// Name is the basename used in corpus headers.
	Name string
}

// Discover walks root and returns the interview files beneath it in
// traversal order, matching basenames against DefaultPattern. Symlinked
// directories are followed, as a recursive shell glob would.
func Discover(root string) ([]InterviewFile, error) {
	return DiscoverPattern(root, DefaultPattern)
}

// DiscoverPattern is Discover with a custom basename pattern.
func DiscoverPattern(root, pattern string) ([]InterviewFile, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}

	var files []InterviewFile
	visited := make(map[string]bool)

	// walk scans dir, whose path relative to the scan root is prefix.
	// Symlinked directories are followed; each real directory is walked once.
	var walk func(dir, prefix string) error
	walk = func(dir, prefix string) error {
		real, err := filepath.EvalSymlinks(dir)
		if err != nil {
			return err
		}
		if visited[real] {
			return nil
		}
		visited[real] = true

		return filepath.WalkDir(real, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable subtrees are skipped, not fatal.
				if p == real {
					return err
				}
				return nil
			}
			if p == real {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}

			rel, err := filepath.Rel(real, p)
			if err != nil {
				return nil
			}
			rel = path.Join(prefix, filepath.ToSlash(rel))

			if d.Type()&fs.ModeSymlink != 0 {
				info, err := os.Stat(p)
				if err != nil {
					return nil
				}
				if info.IsDir() {
					if err := walk(p, rel); err != nil {
						logging.For("corpus").WithError(err).Debugf("skip %s", rel)
					}
					return nil
				}
				if !info.Mode().IsRegular() {
					return nil
				}
			} else if !d.Type().IsRegular() {
				return nil
			}

			if !matcher.Match(d.Name()) || !IsInterviewPath(rel) {
				return nil
			}
			files = append(files, newInterviewFile(rel))
			return nil
		})
	}

	if err := walk(root, ""); err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return files, nil
}

// IsInterviewPath reports whether a slash-separated relative path names an
// interview file. Both conditions must hold:
//
//  1. the lower-cased path contains "interview", or the parent directory
//     name contains an uppercase letter;
//  2. the parent directory name is exactly one letter.
//
// Condition 2 means the uppercase branch of condition 1 only ever matches a
// single uppercase letter directory. That coupling is intentional to keep;
// see TestIsInterviewPath_UppercaseBranchCoupling.
func IsInterviewPath(rel string) bool {
	dir := parentName(rel)

	if !strings.Contains(strings.ToLower(rel), "interview") && !hasUpper(dir) {
		return false
	}

	return isSingleLetter(dir)
}

func newInterviewFile(rel string) InterviewFile {
	return InterviewFile{
		Path: rel,
		Dir:  parentName(rel),
		Name: path.Base(rel),
	}
}

// parentName returns the immediate parent directory name, or "" for a
// file at the root.
func parentName(rel string) string {
	dir := path.Dir(rel)
	if dir == "." || dir == "/" {
		return ""
	}
	return path.Base(dir)
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func isSingleLetter(s string) bool {
	if utf8.RuneCountInString(s) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r)
}
