package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"
)

// ErrInvalidEncoding is reported (inline) for files that are not valid UTF-8.
var ErrInvalidEncoding = errors.New("invalid UTF-8 content")

// ReadContent returns the text of the file at path. A failed read never
// surfaces as an error; the failure is described inline instead so the
// corpus stays usable.
func ReadContent(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return readErrorPlaceholder(err)
	}
	if !utf8.Valid(data) {
		return readErrorPlaceholder(ErrInvalidEncoding)
	}
	return string(data)
}

func readErrorPlaceholder(err error) string {
	return fmt.Sprintf("Error reading file: %v", err)
}

// Header returns the delimiter line written before a file's content.
func Header(name string) string {
	return "=== " + name + " ==="
}

// BuildCorpus concatenates the files under root in the given order. Each
// file contributes "=== name ===\n<content>\n" and blocks are joined by a
// newline. There is no size cap here; callers truncate if they need to.
func BuildCorpus(root string, files []InterviewFile) string {
	blocks := make([]string, 0, len(files))
	for _, f := range files {
		content := ReadContent(filepath.Join(root, filepath.FromSlash(f.Path)))
		blocks = append(blocks, Header(f.Name)+"\n"+content+"\n")
	}
	return strings.Join(blocks, "\n")
}

// Loader holds the file list from the last scan of a root directory and
// rebuilds the corpus from it on every Corpus call.
type Loader struct {
	root    string
	pattern string

	mu    sync.RWMutex
	files []InterviewFile
}

// NewLoader creates a loader for root. An empty pattern means DefaultPattern.
func NewLoader(root, pattern string) *Loader {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Loader{root: root, pattern: pattern}
}

// Root returns the scan root.
func (l *Loader) Root() string {
	return l.root
}

// Scan discovers interview files and replaces the loader's file list.
func (l *Loader) Scan() ([]InterviewFile, error) {
	files, err := DiscoverPattern(l.root, l.pattern)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.files = files
	l.mu.Unlock()

	return files, nil
}

// Files returns a copy of the file list from the last scan.
func (l *Loader) Files() []InterviewFile {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]InterviewFile, len(l.files))
	copy(out, l.files)
	return out
}

// Corpus reads every file from the last scan and returns the concatenation.
func (l *Loader) Corpus() string {
	return BuildCorpus(l.root, l.Files())
}
