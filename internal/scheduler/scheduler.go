// Package scheduler runs periodic background jobs. The only job is the due
// digest, which logs how many reviews every user has due.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/redact"
	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
)

// ErrInvalidInterval is returned by Start for a non-positive interval.
var ErrInvalidInterval = errors.New("digest interval must be positive")

// UserLister lists every user id.
type UserLister interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// DueQueue answers what is due for review.
type DueQueue interface {
	DueGroups(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*domain.ProgressGroup, error)
	DueItems(ctx context.Context, userID uuid.UUID, asOf time.Time, limit int) ([]*domain.DueItem, error)
}

// Digest summarizes one run of the digest job.
type Digest struct {
	Users       int
	UsersDue    int
	Groups      int
	Items       int
	FailedUsers int
}

// Scheduler runs the due digest every interval.
type Scheduler struct {
	cron     *gocron.Scheduler
	users    UserLister
	due      DueQueue
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates a Scheduler. A nil clock uses time.Now.
func New(users UserLister, due DueQueue, interval time.Duration, clock func() time.Time, logger *slog.Logger) *Scheduler {
	if users == nil || due == nil {
		panic("user lister and due queue are required for Scheduler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Scheduler{
		cron:     gocron.NewScheduler(time.UTC),
		users:    users,
		due:      due,
		interval: interval,
		now:      clock,
		logger:   logger.With(slog.String("component", "scheduler")),
	}
}

// Start schedules the digest and returns immediately. The first run happens
// at once. Runs never overlap; ctx bounds every run.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)

	_, err := s.cron.Every(s.interval).SingletonMode().Do(func() {
		if _, err := s.RunDigest(runCtx); err != nil && runCtx.Err() == nil {
			s.logger.Error("due digest failed", slog.String("error", redact.Error(err)))
		}
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to schedule due digest: %w", err)
	}

	s.cancel = cancel
	s.cron.StartAsync()
	s.logger.Info("scheduler started", slog.Duration("digest_interval", s.interval))
	return nil
}

// Stop cancels a running digest and stops the schedule.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cron.Stop()
	s.cancel = nil
	s.logger.Info("scheduler stopped")
}

// RunDigest counts the due groups and items of every user as of now and logs
// one line per user with anything due. A user whose counts cannot be read
// is skipped and counted in FailedUsers.
func (s *Scheduler) RunDigest(ctx context.Context) (Digest, error) {
	var d Digest

	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return d, fmt.Errorf("failed to list users: %w", err)
	}
	d.Users = len(ids)
	asOf := s.now().UTC()

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return d, err
		}
		log := s.logger.With(slog.String("user_id", id.String()))

		groups, err := s.due.DueGroups(ctx, id, asOf)
		if err != nil {
			d.FailedUsers++
			log.Warn("failed to count due groups", slog.String("error", redact.Error(err)))
			continue
		}
		items, err := s.due.DueItems(ctx, id, asOf, 0)
		if err != nil {
			d.FailedUsers++
			log.Warn("failed to count due items", slog.String("error", redact.Error(err)))
			continue
		}
		if len(groups) == 0 && len(items) == 0 {
			continue
		}

		d.UsersDue++
		d.Groups += len(groups)
		d.Items += len(items)
		log.Info("reviews due",
			slog.Int("groups", len(groups)),
			slog.Int("items", len(items)))
	}

	s.logger.Info("due digest completed",
		slog.Int("users", d.Users),
		slog.Int("users_due", d.UsersDue),
		slog.Int("groups", d.Groups),
		slog.Int("items", d.Items),
		slog.Int("failed_users", d.FailedUsers))
	return d, nil
}
