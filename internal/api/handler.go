package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/service"
	"github.com/google/uuid"
)

// Catalog manages users, languages, sentences and translations.
type Catalog interface {
	CreateUser(ctx context.Context, username, nativeLanguage string) (*domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	AddTargetLanguage(ctx context.Context, userID uuid.UUID, language string) (*domain.TargetLanguage, error)
	ListTargetLanguages(ctx context.Context, userID uuid.UUID) ([]string, error)
	CreateSentence(
		ctx context.Context,
		userID uuid.UUID,
		text, category string,
		texts map[string]string,
	) (*domain.SentenceWithTranslations, error)
	ListSentences(ctx context.Context, userID uuid.UUID, category string) ([]*domain.Sentence, error)
	GetSentence(ctx context.Context, id uuid.UUID) (*domain.SentenceWithTranslations, error)
	AddTranslation(ctx context.Context, sentenceID uuid.UUID, language, text string) (*domain.Translation, error)
	DeleteSentence(ctx context.Context, id uuid.UUID) error
}

// GroupManager schedules progress groups.
type GroupManager interface {
	UpdateGroup(ctx context.Context, groupID uuid.UUID, groupScore float64, success bool) (*domain.ProgressGroup, error)
	PostponeGroup(ctx context.Context, groupID uuid.UUID, days int) (*domain.ProgressGroup, error)
	ApplySchedule(ctx context.Context, userID uuid.UUID, days int) ([]*domain.ProgressGroup, error)
}

// ProgressTracker schedules the translations of a group.
type ProgressTracker interface {
	EnsureProgress(ctx context.Context, userID, translationID uuid.UUID) (*domain.LearningProgress, error)
	RecordReview(ctx context.Context, translationID uuid.UUID, newScore int, success bool) (*domain.LearningProgress, error)
	ScheduleItems(ctx context.Context, userID uuid.UUID, schedule []service.ItemSchedule) (*service.ScheduleResult, error)
}

// DueQueue answers what is due for review.
type DueQueue interface {
	DueGroups(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*domain.ProgressGroup, error)
	DueItems(ctx context.Context, userID uuid.UUID, asOf time.Time, limit int) ([]*domain.DueItem, error)
}

// StatsProvider aggregates review statistics.
type StatsProvider interface {
	GetStats(ctx context.Context, userID uuid.UUID) (domain.Stats, error)
}

// SessionReviewer reviews a sentence with its translations.
type SessionReviewer interface {
	ReviewSentence(
		ctx context.Context,
		userID, groupID uuid.UUID,
		groupScore float64,
		items []service.ItemReview,
	) (*service.SessionResult, error)
}

// Services bundles the dependencies of Handler. All fields are required.
type Services struct {
	Catalog  Catalog
	Groups   GroupManager
	Progress ProgressTracker
	Due      DueQueue
	Stats    StatsProvider
	Sessions SessionReviewer
}

// Handler serves the HTTP API.
type Handler struct {
	catalog  Catalog
	groups   GroupManager
	progress ProgressTracker
	due      DueQueue
	stats    StatsProvider
	sessions SessionReviewer
	now      service.Clock
	logger   *slog.Logger
}

// NewHandler creates a Handler. A nil clock uses the system clock.
func NewHandler(svcs Services, clock service.Clock, logger *slog.Logger) *Handler {
	if svcs.Catalog == nil || svcs.Groups == nil || svcs.Progress == nil ||
		svcs.Due == nil || svcs.Stats == nil || svcs.Sessions == nil {
		panic("all services are required for Handler")
	}
	if logger == nil {
		panic("logger cannot be nil for Handler")
	}
	if clock == nil {
		clock = service.SystemClock
	}
	return &Handler{
		catalog:  svcs.Catalog,
		groups:   svcs.Groups,
		progress: svcs.Progress,
		due:      svcs.Due,
		stats:    svcs.Stats,
		sessions: svcs.Sessions,
		now:      clock,
		logger:   logger.With(slog.String("component", "api_handler")),
	}
}
