// Package sublog is the operator-visible debug channel: a best-effort
// record of recent submission attempts and their raw gateway
// responses. It is diagnostics only, never consulted by the pipeline.
package sublog

import (
	"context"
	"encoding/json"
	"time"
)

type Status string

const (
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

// Entry is one submission attempt.
type Entry struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Channel  string          `json:"channel"`
	To       []string        `json:"to"`
	Status   Status          `json:"status"`
	Response json.RawMessage `json:"response,omitempty"`
	Error    string          `json:"error,omitempty"`
	At       time.Time       `json:"at"`
}

// Log records submission attempts. Implementations are best-effort;
// callers ignore Record errors beyond logging them.
type Log interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, n int) ([]Entry, error)
}
