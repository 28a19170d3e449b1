// Package auditlog appends one human-readable block per reconciliation run to
// a file-based log. The sink is best effort: a write failure is logged and
// never fails the run itself.
package auditlog

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Entry is the audit record of one reconciliation run.
type Entry struct {
	RunID       string
	TriggeredBy string
	Status      string
	StartedAt   time.Time
	FinishedAt  time.Time
	DurationMs  int64
	Created     int
	Updated     int
	Closed      int
	Skipped     int
	Warnings    []string
}

type Logger struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Logger {
	return &Logger{path: path}
}

// Append writes the entry as one block. Errors are swallowed after logging.
func (l *Logger) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Warn("audit log unavailable", "path", l.path, "error", err)
		return
	}
	defer f.Close()

	if _, err := f.WriteString(format(e)); err != nil {
		slog.Warn("failed to append audit entry", "path", l.path, "run_id", e.RunID, "error", err)
	}
}

func format(e Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] run=%s trigger=%s status=%s duration_ms=%d created=%d updated=%d closed=%d skipped=%d\n",
		e.FinishedAt.UTC().Format(time.RFC3339),
		e.RunID, e.TriggeredBy, e.Status, e.DurationMs,
		e.Created, e.Updated, e.Closed, e.Skipped,
	)
	fmt.Fprintf(&b, "  started=%s finished=%s\n",
		e.StartedAt.UTC().Format(time.RFC3339), e.FinishedAt.UTC().Format(time.RFC3339))
	for _, w := range e.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", w)
	}
	return b.String()
}
