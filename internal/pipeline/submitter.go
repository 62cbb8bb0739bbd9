package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/omnimsg/composer/internal/events"
	"github.com/omnimsg/composer/internal/form"
	"github.com/omnimsg/composer/internal/model"
	"github.com/omnimsg/composer/internal/registry"
	"github.com/omnimsg/composer/internal/sublog"
)

// SendClient is the transport boundary.
type SendClient interface {
	Send(ctx context.Context, channel string, to any, message any) (json.RawMessage, error)
}

// ValidationError carries the per-field failures of an invalid submit.
type ValidationError struct {
	Fields []form.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// Result is the transient outcome of one successful send.
type Result struct {
	ID       string          `json:"id"`
	Response json.RawMessage `json:"response"`
}

// Submitter runs the validate → shape → send flow. Exactly one
// outbound request happens per valid submit, and exactly one success
// or failure hook fires per attempt. The submission log and the event
// publisher are best-effort side channels.
type Submitter struct {
	client SendClient
	log    sublog.Log
	events events.Publisher

	onSuccess func(t model.MessageType, channel model.Channel, resp json.RawMessage)
	onFailure func(t model.MessageType, channel model.Channel, err error)
}

func NewSubmitter(client SendClient) *Submitter {
	return &Submitter{client: client}
}

// WithHooks installs the success/failure notification hooks.
func (s *Submitter) WithHooks(
	onSuccess func(t model.MessageType, channel model.Channel, resp json.RawMessage),
	onFailure func(t model.MessageType, channel model.Channel, err error),
) *Submitter {
	s.onSuccess = onSuccess
	s.onFailure = onFailure
	return s
}

// WithLog attaches the submission debug log.
func (s *Submitter) WithLog(l sublog.Log) *Submitter {
	s.log = l
	return s
}

// WithEvents attaches the outcome publisher.
func (s *Submitter) WithEvents(p events.Publisher) *Submitter {
	s.events = p
	return s
}

// Submit validates raw form values, shapes the payload and sends it.
// Validation failures never reach the transport; transport failures
// surface exactly once.
func (s *Submitter) Submit(ctx context.Context, t model.MessageType, channel model.Channel, raw map[string]any) (Result, error) {
	fs, err := registry.Lookup(t)
	if err != nil {
		return Result{}, err
	}
	if !registry.ChannelAvailable(t, channel) {
		return Result{}, fmt.Errorf("channel %s not available for %s", channel, t)
	}

	values, fieldErrs := form.Validate(fs, raw)
	if len(fieldErrs) > 0 {
		return Result{}, &ValidationError{Fields: fieldErrs}
	}

	payload, err := Shape(t, values)
	if err != nil {
		return Result{}, err
	}
	to, _ := values["to"].([]string)

	id := uuid.NewString()
	resp, sendErr := s.client.Send(ctx, channel.Wire(), to, payload)

	entry := sublog.Entry{
		ID:      id,
		Type:    string(t),
		Channel: channel.Wire(),
		To:      to,
		At:      time.Now().UTC(),
	}
	if sendErr != nil {
		entry.Status = sublog.StatusFailed
		entry.Error = sendErr.Error()
	} else {
		entry.Status = sublog.StatusSent
		entry.Response = resp
	}
	s.record(ctx, entry)

	if sendErr != nil {
		slog.Error("submission failed", "id", id, "type", t, "channel", channel.Wire(), "err", sendErr)
		if s.onFailure != nil {
			s.onFailure(t, channel, sendErr)
		}
		return Result{}, sendErr
	}

	slog.Info("submission sent", "id", id, "type", t, "channel", channel.Wire(), "recipients", len(to))
	if s.onSuccess != nil {
		s.onSuccess(t, channel, resp)
	}
	return Result{ID: id, Response: resp}, nil
}

// record writes the debug-channel entry and publishes the outcome
// event. Both are best-effort; failures are logged and swallowed.
func (s *Submitter) record(ctx context.Context, e sublog.Entry) {
	if s.log != nil {
		if err := s.log.Record(ctx, e); err != nil {
			slog.Warn("submission log write failed", "id", e.ID, "err", err)
		}
	}
	if s.events != nil {
		o := events.Outcome{
			ID:      e.ID,
			Type:    e.Type,
			Channel: e.Channel,
			To:      e.To,
			Status:  string(e.Status),
			Error:   e.Error,
			At:      e.At,
		}
		if err := s.events.PublishOutcome(ctx, o); err != nil {
			slog.Warn("outcome publish failed", "id", e.ID, "err", err)
		}
	}
}
