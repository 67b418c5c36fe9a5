package sqlstore

import (
	"database/sql"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/google/uuid"
)

// Row types mirror table columns. They keep nullable columns and driver time
// handling out of the domain types.

type userRow struct {
	ID             uuid.UUID `db:"id"`
	Username       string    `db:"username"`
	NativeLanguage string    `db:"native_language"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:             r.ID,
		Username:       r.Username,
		NativeLanguage: r.NativeLanguage,
		CreatedAt:      r.CreatedAt.UTC(),
	}
}

type languageRow struct {
	UserID    uuid.UUID `db:"user_id"`
	Language  string    `db:"language"`
	CreatedAt time.Time `db:"created_at"`
}

type sentenceRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Text      string    `db:"text"`
	Category  string    `db:"category"`
	CreatedAt time.Time `db:"created_at"`
}

func newSentenceRow(s *domain.Sentence) sentenceRow {
	return sentenceRow{ID: s.ID, UserID: s.UserID, Text: s.Text, Category: s.Category, CreatedAt: s.CreatedAt.UTC()}
}

func (r sentenceRow) toDomain() *domain.Sentence {
	return &domain.Sentence{
		ID:        r.ID,
		UserID:    r.UserID,
		Text:      r.Text,
		Category:  r.Category,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type translationRow struct {
	ID         uuid.UUID `db:"id"`
	SentenceID uuid.UUID `db:"sentence_id"`
	GroupID    uuid.UUID `db:"group_id"`
	Language   string    `db:"language"`
	Text       string    `db:"text"`
	CreatedAt  time.Time `db:"created_at"`
}

func newTranslationRow(t *domain.Translation) translationRow {
	return translationRow{
		ID:         t.ID,
		SentenceID: t.SentenceID,
		GroupID:    t.GroupID,
		Language:   t.Language,
		Text:       t.Text,
		CreatedAt:  t.CreatedAt.UTC(),
	}
}

func (r translationRow) toDomain() *domain.Translation {
	return &domain.Translation{
		ID:         r.ID,
		SentenceID: r.SentenceID,
		GroupID:    r.GroupID,
		Language:   r.Language,
		Text:       r.Text,
		CreatedAt:  r.CreatedAt.UTC(),
	}
}

type groupRow struct {
	ID           uuid.UUID    `db:"id"`
	SentenceID   uuid.UUID    `db:"sentence_id"`
	UserID       uuid.UUID    `db:"user_id"`
	GroupScore   float64      `db:"group_score"`
	ReviewCount  int          `db:"review_count"`
	LastReviewed sql.NullTime `db:"last_reviewed"`
	NextReview   time.Time    `db:"next_review"`
	CreatedAt    time.Time    `db:"created_at"`
}

func newGroupRow(g *domain.ProgressGroup) groupRow {
	return groupRow{
		ID:           g.ID,
		SentenceID:   g.SentenceID,
		UserID:       g.UserID,
		GroupScore:   g.GroupScore,
		ReviewCount:  g.ReviewCount,
		LastReviewed: nullTime(g.LastReviewed),
		NextReview:   domain.DateOf(g.NextReview),
		CreatedAt:    g.CreatedAt.UTC(),
	}
}

func (r groupRow) toDomain() *domain.ProgressGroup {
	return &domain.ProgressGroup{
		ID:           r.ID,
		SentenceID:   r.SentenceID,
		UserID:       r.UserID,
		GroupScore:   r.GroupScore,
		ReviewCount:  r.ReviewCount,
		LastReviewed: timePtr(r.LastReviewed),
		NextReview:   domain.DateOf(r.NextReview),
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

type progressRow struct {
	ID            uuid.UUID    `db:"id"`
	UserID        uuid.UUID    `db:"user_id"`
	TranslationID uuid.UUID    `db:"translation_id"`
	GroupID       uuid.UUID    `db:"group_id"`
	Score         int          `db:"score"`
	ReviewCount   int          `db:"review_count"`
	SuccessRate   float64      `db:"success_rate"`
	LastReviewed  sql.NullTime `db:"last_reviewed"`
	NextReview    time.Time    `db:"next_review"`
	CreatedAt     time.Time    `db:"created_at"`
}

func newProgressRow(p *domain.LearningProgress) progressRow {
	return progressRow{
		ID:            p.ID,
		UserID:        p.UserID,
		TranslationID: p.TranslationID,
		GroupID:       p.GroupID,
		Score:         p.Score,
		ReviewCount:   p.ReviewCount,
		SuccessRate:   p.SuccessRate,
		LastReviewed:  nullTime(p.LastReviewed),
		NextReview:    domain.DateOf(p.NextReview),
		CreatedAt:     p.CreatedAt.UTC(),
	}
}

func (r progressRow) toDomain() *domain.LearningProgress {
	return &domain.LearningProgress{
		ID:            r.ID,
		UserID:        r.UserID,
		TranslationID: r.TranslationID,
		GroupID:       r.GroupID,
		Score:         r.Score,
		ReviewCount:   r.ReviewCount,
		SuccessRate:   r.SuccessRate,
		LastReviewed:  timePtr(r.LastReviewed),
		NextReview:    domain.DateOf(r.NextReview),
		CreatedAt:     r.CreatedAt.UTC(),
	}
}

// dueItemRow is a progress row joined with its translation.
type dueItemRow struct {
	progressRow
	Language string `db:"language"`
	Text     string `db:"text"`
}

type reviewLogRow struct {
	ID            uuid.UUID     `db:"id"`
	UserID        uuid.UUID     `db:"user_id"`
	GroupID       uuid.UUID     `db:"group_id"`
	TranslationID uuid.NullUUID `db:"translation_id"`
	Kind          string        `db:"kind"`
	Success       bool          `db:"success"`
	Score         float64       `db:"score"`
	ReviewCount   int           `db:"review_count"`
	IntervalDays  int           `db:"interval_days"`
	ReviewedAt    time.Time     `db:"reviewed_at"`
	NextReview    time.Time     `db:"next_review"`
}

func newReviewLogRow(e *domain.ReviewLogEntry) reviewLogRow {
	row := reviewLogRow{
		ID:           e.ID,
		UserID:       e.UserID,
		GroupID:      e.GroupID,
		Kind:         string(e.Kind),
		Success:      e.Success,
		Score:        e.Score,
		ReviewCount:  e.ReviewCount,
		IntervalDays: e.IntervalDays,
		ReviewedAt:   e.ReviewedAt.UTC(),
		NextReview:   domain.DateOf(e.NextReview),
	}
	if e.TranslationID != nil {
		row.TranslationID = uuid.NullUUID{UUID: *e.TranslationID, Valid: true}
	}
	return row
}

func (r reviewLogRow) toDomain() *domain.ReviewLogEntry {
	e := &domain.ReviewLogEntry{
		ID:           r.ID,
		UserID:       r.UserID,
		GroupID:      r.GroupID,
		Kind:         domain.ReviewKind(r.Kind),
		Success:      r.Success,
		Score:        r.Score,
		ReviewCount:  r.ReviewCount,
		IntervalDays: r.IntervalDays,
		ReviewedAt:   r.ReviewedAt.UTC(),
		NextReview:   domain.DateOf(r.NextReview),
	}
	if r.TranslationID.Valid {
		id := r.TranslationID.UUID
		e.TranslationID = &id
	}
	return e
}

type taskRow struct {
	ID           uuid.UUID      `db:"id"`
	Type         string         `db:"type"`
	Payload      []byte         `db:"payload"`
	Status       string         `db:"status"`
	ErrorMessage sql.NullString `db:"error_message"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.UTC()
	return &utc
}
