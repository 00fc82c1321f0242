// Package jobs contains background task definitions and the Asynq worker.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionsPrune removes expired session audit rows.
	TaskSessionsPrune = "sessions:prune"
)

// SessionsPrunePayload bounds which session rows a prune run may touch.
type SessionsPrunePayload struct {
	Before time.Time `json:"before"`
}

// NewSessionsPruneTask constructs an Asynq task. A zero Before means
// "everything expired as of handling time".
func NewSessionsPruneTask(before time.Time) (*asynq.Task, error) {
	data, err := json.Marshal(SessionsPrunePayload{Before: before})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionsPrune, data), nil
}

// SessionPruner deletes expired session records.
type SessionPruner interface {
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// NewSessionsPruneHandler builds the handler for TaskSessionsPrune tasks.
func NewSessionsPruneHandler(pruner SessionPruner, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SessionsPrunePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		before := payload.Before
		if before.IsZero() {
			before = time.Now()
		}
		removed, err := pruner.DeleteExpiredSessions(ctx, before)
		if err != nil {
			return err
		}
		if logger != nil && removed > 0 {
			logger.Info("pruned expired sessions", slog.Int64("removed", removed))
		}
		return nil
	}
}
