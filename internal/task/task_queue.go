package task

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
)

// TaskSource hands queued tasks to workers.
type TaskSource interface {
	Tasks() <-chan Task
}

// TaskQueue is a bounded FIFO of tasks. Enqueue never blocks.
type TaskQueue struct {
	mu     sync.Mutex
	ch     chan Task
	closed bool
	logger *slog.Logger
}

// NewTaskQueue creates a queue holding up to size tasks. Sizes below one
// are raised to one.
func NewTaskQueue(size int, logger *slog.Logger) *TaskQueue {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskQueue{
		ch:     make(chan Task, max(size, 1)),
		logger: logger,
	}
}

// Enqueue adds task or fails with ErrQueueFull or ErrQueueClosed.
func (q *TaskQueue) Enqueue(task Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- task:
	default:
		return fmt.Errorf("%w: %d tasks waiting", ErrQueueFull, cap(q.ch))
	}

	q.logger.Debug("task enqueued",
		"task_id", task.ID(),
		"task_type", task.Type(),
		"waiting", len(q.ch))
	return nil
}

// Close stops further enqueues. Tasks already queued can still be drained.
// Calling it again has no effect.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
	q.logger.Info("task queue closed")
}

// Tasks returns the channel workers receive from. It is closed by Close.
func (q *TaskQueue) Tasks() <-chan Task {
	return q.ch
}

// Len returns the number of waiting tasks.
func (q *TaskQueue) Len() int {
	return len(q.ch)
}
