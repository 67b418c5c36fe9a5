package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/store"
	"github.com/Moktur/N-LanguagesAI/internal/task"
	"github.com/google/uuid"
)

const taskColumns = `id, type, payload, status, error_message, created_at, updated_at`

// TaskStore implements task.TaskStore.
type TaskStore struct {
	q      querier
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskStore creates a TaskStore. It panics if db is nil.
func NewTaskStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		q:      newQuerier(db, dialect),
		logger: logger.With(slog.String("component", "task_store")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var _ task.TaskStore = (*TaskStore)(nil)

// SaveTask inserts t with its current status.
func (s *TaskStore) SaveTask(ctx context.Context, t task.Task) error {
	now := s.now()
	_, err := s.q.namedExec(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (:id, :type, :payload, :status, :error_message, :created_at, :updated_at)`,
		taskRow{
			ID:        t.ID(),
			Type:      t.Type(),
			Payload:   t.Payload(),
			Status:    string(t.Status()),
			CreatedAt: now,
			UpdatedAt: now,
		})
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// UpdateTaskStatus sets the status and error message of the task with id.
func (s *TaskStore) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status task.TaskStatus, errorMsg string) error {
	msg := sql.NullString{String: errorMsg, Valid: errorMsg != ""}
	res, err := s.q.exec(ctx, `
		UPDATE tasks SET status = ?, error_message = ?, updated_at = ?
		WHERE id = ?`, string(status), msg, s.now(), id)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	return checkRowsAffected(res, store.ErrTaskNotFound)
}

// GetPendingTasks returns pending tasks, oldest first.
func (s *TaskStore) GetPendingTasks(ctx context.Context) ([]task.Record, error) {
	return s.list(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE status = ?
		ORDER BY created_at, id`, string(task.TaskStatusPending))
}

// GetProcessingTasks returns processing tasks. A positive olderThan keeps
// only tasks whose last update is older than that.
func (s *TaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]task.Record, error) {
	if olderThan <= 0 {
		return s.list(ctx, `
			SELECT `+taskColumns+` FROM tasks
			WHERE status = ?
			ORDER BY created_at, id`, string(task.TaskStatusProcessing))
	}
	return s.list(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE status = ? AND updated_at < ?
		ORDER BY created_at, id`, string(task.TaskStatusProcessing), s.now().Add(-olderThan))
}

func (s *TaskStore) list(ctx context.Context, query string, args ...any) ([]task.Record, error) {
	var rows []taskRow
	if err := s.q.selectAll(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]task.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, task.Record{
			ID:           r.ID,
			Type:         r.Type,
			Payload:      r.Payload,
			Status:       task.TaskStatus(r.Status),
			ErrorMessage: r.ErrorMessage.String,
			CreatedAt:    r.CreatedAt.UTC(),
			UpdatedAt:    r.UpdatedAt.UTC(),
		})
	}
	return out, nil
}
