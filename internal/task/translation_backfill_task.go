package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Moktur/N-LanguagesAI/internal/events"
	"github.com/google/uuid"
)

// TaskTypeTranslationBackfill is the type of TranslationBackfillTask.
const TaskTypeTranslationBackfill = events.TypeTranslationBackfill

// Common errors
var (
	ErrNilBackfiller = errors.New("backfiller cannot be nil")
	ErrEmptyUserID   = errors.New("user ID cannot be empty")
	ErrEmptyLanguage = errors.New("language cannot be empty")
)

// LanguageBackfiller adds translations in language to every sentence of a
// user that lacks one, returning how many were added.
type LanguageBackfiller interface {
	BackfillLanguage(ctx context.Context, userID uuid.UUID, language string) (int, error)
}

// TranslationBackfillTask translates a user's existing sentences into a
// newly added target language.
type TranslationBackfillTask struct {
	id         uuid.UUID
	userID     uuid.UUID
	language   string
	backfiller LanguageBackfiller
	logger     *slog.Logger

	mu     sync.Mutex
	status TaskStatus
}

// NewTranslationBackfillTask creates a task with the given id. A nil id gets
// a fresh one.
func NewTranslationBackfillTask(
	id uuid.UUID,
	userID uuid.UUID,
	language string,
	backfiller LanguageBackfiller,
	logger *slog.Logger,
) (*TranslationBackfillTask, error) {
	if backfiller == nil {
		return nil, ErrNilBackfiller
	}
	if userID == uuid.Nil {
		return nil, ErrEmptyUserID
	}
	if language == "" {
		return nil, ErrEmptyLanguage
	}
	if logger == nil {
		logger = slog.Default()
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &TranslationBackfillTask{
		id:         id,
		userID:     userID,
		language:   language,
		backfiller: backfiller,
		logger: logger.With(
			"task_type", TaskTypeTranslationBackfill,
			"user_id", userID,
			"language", language,
		),
		status: TaskStatusPending,
	}, nil
}

// NewTranslationBackfillFactory returns the Factory that rebuilds
// TranslationBackfillTasks from their payload.
func NewTranslationBackfillFactory(backfiller LanguageBackfiller, logger *slog.Logger) Factory {
	return func(id uuid.UUID, payload []byte) (Task, error) {
		var p events.TranslationBackfillPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to decode %s payload: %w", TaskTypeTranslationBackfill, err)
		}
		return NewTranslationBackfillTask(id, p.UserID, p.Language, backfiller, logger)
	}
}

// ID returns the task's unique identifier
func (t *TranslationBackfillTask) ID() uuid.UUID { return t.id }

// Type returns the task type identifier
func (t *TranslationBackfillTask) Type() string { return TaskTypeTranslationBackfill }

// Payload returns the task data as a byte slice
func (t *TranslationBackfillTask) Payload() []byte {
	data, err := json.Marshal(events.TranslationBackfillPayload{UserID: t.userID, Language: t.language})
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *TranslationBackfillTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *TranslationBackfillTask) setStatus(s TaskStatus) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

// Execute runs the backfill.
func (t *TranslationBackfillTask) Execute(ctx context.Context) error {
	t.setStatus(TaskStatusProcessing)
	t.logger.Info("starting translation backfill")

	if err := ctx.Err(); err != nil {
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	added, err := t.backfiller.BackfillLanguage(ctx, t.userID, t.language)
	if err != nil {
		t.setStatus(TaskStatusFailed)
		t.logger.Error("translation backfill failed", "error", err, "added", added)
		return fmt.Errorf("failed to backfill translations: %w", err)
	}

	t.setStatus(TaskStatusCompleted)
	t.logger.Info("translation backfill completed", "added", added)
	return nil
}
