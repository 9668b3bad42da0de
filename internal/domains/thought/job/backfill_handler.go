package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"happy-thoughts/internal/domains/thought/service"
	"happy-thoughts/internal/shared"
)

// BackfillPayload identifies who asked for the backfill. Scheduled runs leave
// it empty.
type BackfillPayload struct {
	RequestedBy string    `json:"requested_by,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewBackfillTask builds the asynq task for a tag backfill
func NewBackfillTask(payload BackfillPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal backfill payload: %w", err)
	}
	return asynq.NewTask(shared.TypeBackfillThoughtTags, data), nil
}

// BackfillTagsHandler tags thoughts that were stored without tags
type BackfillTagsHandler struct {
	thoughtService service.ServiceInterface
}

func NewBackfillTagsHandler(thoughtService service.ServiceInterface) *BackfillTagsHandler {
	return &BackfillTagsHandler{thoughtService: thoughtService}
}

// ProcessTask runs the backfill. Running it twice is harmless.
func (h *BackfillTagsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload BackfillPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal BackfillTags payload")
			return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
		}
	}

	log.Info().
		Str("requested_by", payload.RequestedBy).
		Msg("Backfilling thought tags")

	updated, err := h.thoughtService.BackfillTags(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to backfill thought tags")
		return fmt.Errorf("backfill tags: %w", err)
	}

	log.Info().
		Int("updated", updated).
		Msg("Thought tags backfilled")

	return nil
}

// ========================================
// ENQUEUER
// ========================================

// Enqueuer puts backfill tasks on the thought queue
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueBackfill queues a backfill and returns the task ID
func (e *Enqueuer) EnqueueBackfill(ctx context.Context) (string, error) {
	task, err := NewBackfillTask(BackfillPayload{RequestedAt: time.Now().UTC()})
	if err != nil {
		return "", err
	}

	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueThought),
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("enqueue backfill: %w", err)
	}

	log.Info().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("Backfill task enqueued")

	return info.ID, nil
}
