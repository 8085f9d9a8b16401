package events

import (
	"context"
	"errors"
	"time"
)

const (
	TypeBatchRanked            = "batch_ranked"
	TypeCandidateStatusChanged = "candidate_status_changed"
	TypeCandidateNotesUpdated  = "candidate_notes_updated"
	TypeAnalysisSaved          = "analysis_saved"
)

type Event struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

func New(eventType string, data any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Fanout delivers every event to each publisher and joins their errors.
// Nil entries are skipped.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, evt Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
