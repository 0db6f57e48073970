// Package audit appends business events to day-partitioned JSONL files.
// The sink is best effort: callers log failures and move on, a broken
// audit trail never fails the operation that produced the event.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"stockflow/internal/pkg/clock"
	"stockflow/internal/pkg/errs"
)

type Event struct {
	Kind       string         `json:"kind"`
	OccurredAt time.Time      `json:"occurred_at"`
	Actor      string         `json:"actor,omitempty"`
	Detail     map[string]any `json:"detail,omitempty"`
}

type Sink interface {
	Append(event Event) error
}

type JSONLSink struct {
	dir string
	clk clock.Clock

	mu sync.Mutex
}

func NewJSONLSink(dir string, clk clock.Clock) *JSONLSink {
	return &JSONLSink{dir: dir, clk: clk}
}

func (s *JSONLSink) Append(event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.clk.Now()
	}

	line, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "failed to marshal audit event")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errs.Wrap(err, "failed to create audit directory")
	}

	name := fmt.Sprintf("flow_%s.jsonl", s.clk.Now().Format("20060102"))
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errs.Wrap(err, "failed to open audit file")
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return errs.Wrap(err, "failed to append audit event")
	}
	return nil
}
