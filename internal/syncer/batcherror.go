package syncer

import (
	"fmt"
	"strings"
)

// RecordError is one skipped record inside a best-effort sync phase.
type RecordError struct {
	Entity   string
	RemoteID int64
	Err      error
}

func (e RecordError) String() string {
	return fmt.Sprintf("%s %d: %v", e.Entity, e.RemoteID, e.Err)
}

// BatchError accumulates per-record failures so callers can inspect what was
// skipped instead of the engine silently swallowing them. It never aborts a
// phase; phase-level failures travel as ordinary errors.
type BatchError struct {
	Records []RecordError
}

func (b *BatchError) Add(entity string, remoteID int64, err error) {
	b.Records = append(b.Records, RecordError{Entity: entity, RemoteID: remoteID, Err: err})
}

func (b *BatchError) Len() int {
	return len(b.Records)
}

// Details renders the accumulated failures for the sync run's error log.
func (b *BatchError) Details() string {
	if b.Len() == 0 {
		return ""
	}
	lines := make([]string, 0, len(b.Records))
	for _, r := range b.Records {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n")
}

func (b *BatchError) Error() string {
	return fmt.Sprintf("%d record(s) failed", b.Len())
}
