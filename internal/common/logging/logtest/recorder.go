// Package logtest captures slog records for assertions in tests.
package logtest

import (
	"context"
	"log/slog"
	"sync"
)

var _ slog.Handler = (*Recorder)(nil)

type Recorder struct {
	mu      *sync.Mutex
	records *[]slog.Record
	attrs   []slog.Attr
}

func NewLogger() (*slog.Logger, *Recorder) {
	r := &Recorder{
		mu:      &sync.Mutex{},
		records: &[]slog.Record{},
	}

	return slog.New(r), r
}

func (r *Recorder) Enabled(context.Context, slog.Level) bool {
	return true
}

func (r *Recorder) Handle(_ context.Context, rec slog.Record) error {
	rec = rec.Clone()
	rec.AddAttrs(r.attrs...)

	r.mu.Lock()
	defer r.mu.Unlock()

	*r.records = append(*r.records, rec)

	return nil
}

func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Recorder{
		mu:      r.mu,
		records: r.records,
		attrs:   append(append([]slog.Attr{}, r.attrs...), attrs...),
	}
}

func (r *Recorder) WithGroup(string) slog.Handler {
	return r
}

func (r *Recorder) Records() []slog.Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]slog.Record(nil), *r.records...)
}

func (r *Recorder) Count(level slog.Level) int {
	n := 0

	for _, rec := range r.Records() {
		if rec.Level == level {
			n++
		}
	}

	return n
}

func (r *Recorder) Messages(level slog.Level) []string {
	var msgs []string

	for _, rec := range r.Records() {
		if rec.Level == level {
			msgs = append(msgs, rec.Message)
		}
	}

	return msgs
}

// Attr returns the first attribute named key on the first record with the given message.
func (r *Recorder) Attr(message, key string) (slog.Value, bool) {
	for _, rec := range r.Records() {
		if rec.Message != message {
			continue
		}

		var (
			found slog.Value
			ok    bool
		)

		rec.Attrs(func(a slog.Attr) bool {
			if a.Key == key {
				found, ok = a.Value, true
				return false
			}

			return true
		})

		if ok {
			return found, true
		}
	}

	return slog.Value{}, false
}
