// Package audit records interaction events on a background worker pool.
// Writes are best effort: a failed insert is logged and dropped, it never
// fails the request that produced it.
package audit

import (
	"context"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/wertigo/travel-planner/internal/logger"
	"github.com/wertigo/travel-planner/internal/store"
	"github.com/wertigo/travel-planner/internal/store/schema"
)

const (
	DefaultWorkers   = 4
	DefaultQueueSize = 256

	writeTimeout = 5 * time.Second
)

// Event describes one interaction to record.
type Event struct {
	Type           string
	SubjectType    string
	SubjectID      string
	ActorUserID    *int64
	ActorSessionID string
	IPAddress      string
	UserAgent      string
	Payload        datatypes.JSON
}

// Recorder accepts events for asynchronous persistence.
type Recorder interface {
	Record(event Event)
	Close()
}

type recorder struct {
	store store.InteractionStore
	pool  pond.Pool
}

// NewRecorder creates a recorder backed by a bounded worker pool.
// Zero values for workers and queueSize fall back to defaults.
func NewRecorder(interactions store.InteractionStore, workers, queueSize int) Recorder {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &recorder{
		store: interactions,
		pool:  pond.NewPool(workers, pond.WithQueueSize(queueSize), pond.WithNonBlocking(true)),
	}
}

// Record enqueues the event for persistence. When the queue is full the
// event is dropped rather than blocking the caller.
func (r *recorder) Record(event Event) {
	occurredAt := time.Now()

	_, ok := r.pool.TrySubmit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		var sessionID *string
		if event.ActorSessionID != "" {
			sessionID = &event.ActorSessionID
		}

		interaction := &schema.Interaction{
			ID:             ulid.Make().String(),
			EventType:      schema.InteractionEventType(event.Type),
			SubjectType:    event.SubjectType,
			SubjectID:      event.SubjectID,
			ActorUserID:    event.ActorUserID,
			ActorSessionID: sessionID,
			IPAddress:      event.IPAddress,
			UserAgent:      event.UserAgent,
			Payload:        event.Payload,
			CreatedAt:      occurredAt,
		}
		if err := r.store.CreateInteraction(ctx, interaction); err != nil {
			logger.Error(err,
				zap.String("event_type", event.Type),
				zap.String("subject_id", event.SubjectID))
		}
	})
	if !ok {
		logger.Warn("interaction queue full, event dropped",
			zap.String("event_type", event.Type),
			zap.String("subject_id", event.SubjectID))
	}
}

// Close drains queued events and stops the workers.
func (r *recorder) Close() {
	r.pool.StopAndWait()
}
