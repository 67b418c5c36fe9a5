package api

import (
	"context"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) CreateUser(ctx context.Context, username, nativeLanguage string) (*domain.User, error) {
	args := m.Called(ctx, username, nativeLanguage)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockCatalog) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockCatalog) AddTargetLanguage(
	ctx context.Context,
	userID uuid.UUID,
	language string,
) (*domain.TargetLanguage, error) {
	args := m.Called(ctx, userID, language)
	tl, _ := args.Get(0).(*domain.TargetLanguage)
	return tl, args.Error(1)
}

func (m *mockCatalog) ListTargetLanguages(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	langs, _ := args.Get(0).([]string)
	return langs, args.Error(1)
}

func (m *mockCatalog) CreateSentence(
	ctx context.Context,
	userID uuid.UUID,
	text, category string,
	texts map[string]string,
) (*domain.SentenceWithTranslations, error) {
	args := m.Called(ctx, userID, text, category, texts)
	s, _ := args.Get(0).(*domain.SentenceWithTranslations)
	return s, args.Error(1)
}

func (m *mockCatalog) ListSentences(ctx context.Context, userID uuid.UUID, category string) ([]*domain.Sentence, error) {
	args := m.Called(ctx, userID, category)
	s, _ := args.Get(0).([]*domain.Sentence)
	return s, args.Error(1)
}

func (m *mockCatalog) GetSentence(ctx context.Context, id uuid.UUID) (*domain.SentenceWithTranslations, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.SentenceWithTranslations)
	return s, args.Error(1)
}

func (m *mockCatalog) AddTranslation(
	ctx context.Context,
	sentenceID uuid.UUID,
	language, text string,
) (*domain.Translation, error) {
	args := m.Called(ctx, sentenceID, language, text)
	tr, _ := args.Get(0).(*domain.Translation)
	return tr, args.Error(1)
}

func (m *mockCatalog) DeleteSentence(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockGroups struct{ mock.Mock }

func (m *mockGroups) UpdateGroup(
	ctx context.Context,
	groupID uuid.UUID,
	groupScore float64,
	success bool,
) (*domain.ProgressGroup, error) {
	args := m.Called(ctx, groupID, groupScore, success)
	g, _ := args.Get(0).(*domain.ProgressGroup)
	return g, args.Error(1)
}

func (m *mockGroups) PostponeGroup(ctx context.Context, groupID uuid.UUID, days int) (*domain.ProgressGroup, error) {
	args := m.Called(ctx, groupID, days)
	g, _ := args.Get(0).(*domain.ProgressGroup)
	return g, args.Error(1)
}

func (m *mockGroups) ApplySchedule(ctx context.Context, userID uuid.UUID, days int) ([]*domain.ProgressGroup, error) {
	args := m.Called(ctx, userID, days)
	g, _ := args.Get(0).([]*domain.ProgressGroup)
	return g, args.Error(1)
}

type mockProgress struct{ mock.Mock }

func (m *mockProgress) EnsureProgress(
	ctx context.Context,
	userID, translationID uuid.UUID,
) (*domain.LearningProgress, error) {
	args := m.Called(ctx, userID, translationID)
	p, _ := args.Get(0).(*domain.LearningProgress)
	return p, args.Error(1)
}

func (m *mockProgress) RecordReview(
	ctx context.Context,
	translationID uuid.UUID,
	newScore int,
	success bool,
) (*domain.LearningProgress, error) {
	args := m.Called(ctx, translationID, newScore, success)
	p, _ := args.Get(0).(*domain.LearningProgress)
	return p, args.Error(1)
}

func (m *mockProgress) ScheduleItems(
	ctx context.Context,
	userID uuid.UUID,
	schedule []service.ItemSchedule,
) (*service.ScheduleResult, error) {
	args := m.Called(ctx, userID, schedule)
	r, _ := args.Get(0).(*service.ScheduleResult)
	return r, args.Error(1)
}

type mockDue struct{ mock.Mock }

func (m *mockDue) DueGroups(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*domain.ProgressGroup, error) {
	args := m.Called(ctx, userID, asOf)
	g, _ := args.Get(0).([]*domain.ProgressGroup)
	return g, args.Error(1)
}

func (m *mockDue) DueItems(
	ctx context.Context,
	userID uuid.UUID,
	asOf time.Time,
	limit int,
) ([]*domain.DueItem, error) {
	args := m.Called(ctx, userID, asOf, limit)
	items, _ := args.Get(0).([]*domain.DueItem)
	return items, args.Error(1)
}

type mockStats struct{ mock.Mock }

func (m *mockStats) GetStats(ctx context.Context, userID uuid.UUID) (domain.Stats, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(domain.Stats)
	return s, args.Error(1)
}

type mockSessions struct{ mock.Mock }

func (m *mockSessions) ReviewSentence(
	ctx context.Context,
	userID, groupID uuid.UUID,
	groupScore float64,
	items []service.ItemReview,
) (*service.SessionResult, error) {
	args := m.Called(ctx, userID, groupID, groupScore, items)
	r, _ := args.Get(0).(*service.SessionResult)
	return r, args.Error(1)
}
