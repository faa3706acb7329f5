package history

import (
	"io"
	"time"
)

// Recorder persists run metadata. The shell depends on this rather than
// on the SQLite implementation.
type Recorder interface {
	Record(r *Run) error
}

// Store is the full history backend used by the CLI.
type Store interface {
	io.Closer
	Recorder
	GetRun(id string) (*Run, error)
	ListRuns(limit int) ([]Run, error)
	PurgeOldRuns(olderThan time.Duration) (int64, error)
}

var (
	_ Store    = (*DB)(nil)
	_ Recorder = (*DB)(nil)
)
