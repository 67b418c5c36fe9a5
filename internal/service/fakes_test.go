package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/domain/srs"
	"github.com/Moktur/N-LanguagesAI/internal/events"
	"github.com/Moktur/N-LanguagesAI/internal/store"
	"github.com/google/uuid"
)

var testNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memTransactor serialises units of work, which is what row locks give the
// real stores for a single record.
type memTransactor struct {
	mu    sync.Mutex
	calls int
}

func (t *memTransactor) RunInTx(ctx context.Context, fn store.TxFn) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	return fn(ctx, nil)
}

// memDB is an in-memory database behind the store interfaces. Records are
// copied in and out so callers cannot alias stored state.
type memDB struct {
	mu           sync.Mutex
	users        map[uuid.UUID]domain.User
	languages    map[uuid.UUID][]string
	sentences    map[uuid.UUID]domain.Sentence
	translations map[uuid.UUID]domain.Translation
	groups       map[uuid.UUID]domain.ProgressGroup
	progress     map[uuid.UUID]domain.LearningProgress
	logs         []domain.ReviewLogEntry

	// fail injects an error for an operation name such as "progress.update".
	fail map[string]error
	// beforeProgressCreate runs with the lock released, before an insert.
	beforeProgressCreate func(p *domain.LearningProgress)
}

func newMemDB() *memDB {
	return &memDB{
		users:        map[uuid.UUID]domain.User{},
		languages:    map[uuid.UUID][]string{},
		sentences:    map[uuid.UUID]domain.Sentence{},
		translations: map[uuid.UUID]domain.Translation{},
		groups:       map[uuid.UUID]domain.ProgressGroup{},
		progress:     map[uuid.UUID]domain.LearningProgress{},
		fail:         map[string]error{},
	}
}

func (db *memDB) stores() Stores {
	return Stores{
		Users:        memUsers{db},
		Sentences:    memSentences{db},
		Translations: memTranslations{db},
		Groups:       memGroups{db},
		Progress:     memProgress{db},
		ReviewLogs:   memLogs{db},
	}
}

func (db *memDB) injected(op string) error {
	return db.fail[op]
}

func (db *memDB) progressCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.progress)
}

func (db *memDB) reviewLogs() []domain.ReviewLogEntry {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]domain.ReviewLogEntry(nil), db.logs...)
}

type memUsers struct{ db *memDB }

func (s memUsers) Create(_ context.Context, u *domain.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.users {
		if existing.Username == u.Username {
			return store.ErrUsernameExists
		}
	}
	s.db.users[u.ID] = *u
	return nil
}

func (s memUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

func (s memUsers) ListIDs(context.Context) ([]uuid.UUID, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(s.db.users))
	for id := range s.db.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func (s memUsers) AddLanguage(_ context.Context, l *domain.TargetLanguage) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[l.UserID]; !ok {
		return store.ErrInvalidEntity
	}
	for _, existing := range s.db.languages[l.UserID] {
		if existing == l.Language {
			return store.ErrLanguageExists
		}
	}
	s.db.languages[l.UserID] = append(s.db.languages[l.UserID], l.Language)
	return nil
}

func (s memUsers) ListLanguages(_ context.Context, userID uuid.UUID) ([]string, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return append([]string(nil), s.db.languages[userID]...), nil
}

func (s memUsers) WithTx(*sql.Tx) store.UserStore { return s }

type memSentences struct{ db *memDB }

func (s memSentences) Create(_ context.Context, sn *domain.Sentence) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.injected("sentence.create"); err != nil {
		return err
	}
	if _, ok := s.db.users[sn.UserID]; !ok {
		return store.ErrInvalidEntity
	}
	s.db.sentences[sn.ID] = *sn
	return nil
}

func (s memSentences) GetByID(_ context.Context, id uuid.UUID) (*domain.Sentence, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sn, ok := s.db.sentences[id]
	if !ok {
		return nil, store.ErrSentenceNotFound
	}
	return &sn, nil
}

func (s memSentences) ListByUser(_ context.Context, userID uuid.UUID, category string) ([]*domain.Sentence, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*domain.Sentence
	for _, sn := range s.db.sentences {
		if sn.UserID == userID && (category == "" || sn.Category == category) {
			sn := sn
			out = append(out, &sn)
		}
	}
	sortSentences(out)
	return out, nil
}

func (s memSentences) ListMissingLanguage(_ context.Context, userID uuid.UUID, language string) ([]*domain.Sentence, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*domain.Sentence
	for _, sn := range s.db.sentences {
		if sn.UserID != userID {
			continue
		}
		found := false
		for _, tr := range s.db.translations {
			if tr.SentenceID == sn.ID && tr.Language == language {
				found = true
				break
			}
		}
		if !found {
			sn := sn
			out = append(out, &sn)
		}
	}
	sortSentences(out)
	return out, nil
}

func (s memSentences) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.sentences[id]; !ok {
		return store.ErrSentenceNotFound
	}
	delete(s.db.sentences, id)

	groupIDs := map[uuid.UUID]bool{}
	for gid, g := range s.db.groups {
		if g.SentenceID == id {
			groupIDs[gid] = true
			delete(s.db.groups, gid)
		}
	}
	for tid, tr := range s.db.translations {
		if tr.SentenceID == id {
			delete(s.db.translations, tid)
		}
	}
	for pid, p := range s.db.progress {
		if groupIDs[p.GroupID] {
			delete(s.db.progress, pid)
		}
	}
	kept := s.db.logs[:0]
	for _, e := range s.db.logs {
		if !groupIDs[e.GroupID] {
			kept = append(kept, e)
		}
	}
	s.db.logs = kept
	return nil
}

func (s memSentences) WithTx(*sql.Tx) store.SentenceStore { return s }

func sortSentences(out []*domain.Sentence) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
}

type memTranslations struct{ db *memDB }

func (s memTranslations) Create(_ context.Context, tr *domain.Translation) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.sentences[tr.SentenceID]; !ok {
		return store.ErrInvalidEntity
	}
	for _, existing := range s.db.translations {
		if existing.SentenceID == tr.SentenceID && existing.Language == tr.Language {
			return store.ErrTranslationExists
		}
	}
	s.db.translations[tr.ID] = *tr
	return nil
}

func (s memTranslations) GetByID(_ context.Context, id uuid.UUID) (*domain.Translation, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	tr, ok := s.db.translations[id]
	if !ok {
		return nil, store.ErrTranslationNotFound
	}
	return &tr, nil
}

func (s memTranslations) ListBySentence(_ context.Context, sentenceID uuid.UUID) ([]*domain.Translation, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*domain.Translation
	for _, tr := range s.db.translations {
		if tr.SentenceID == sentenceID {
			tr := tr
			out = append(out, &tr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Language < out[j].Language })
	return out, nil
}

func (s memTranslations) WithTx(*sql.Tx) store.TranslationStore { return s }

type memGroups struct{ db *memDB }

func (s memGroups) Create(_ context.Context, g *domain.ProgressGroup) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.groups {
		if existing.SentenceID == g.SentenceID {
			return store.ErrGroupExists
		}
	}
	s.db.groups[g.ID] = *g
	return nil
}

func (s memGroups) GetByID(_ context.Context, id uuid.UUID) (*domain.ProgressGroup, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	g, ok := s.db.groups[id]
	if !ok {
		return nil, store.ErrGroupNotFound
	}
	return &g, nil
}

func (s memGroups) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.ProgressGroup, error) {
	return s.GetByID(ctx, id)
}

func (s memGroups) GetBySentenceID(_ context.Context, sentenceID uuid.UUID) (*domain.ProgressGroup, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, g := range s.db.groups {
		if g.SentenceID == sentenceID {
			return &g, nil
		}
	}
	return nil, store.ErrGroupNotFound
}

func (s memGroups) Update(_ context.Context, g *domain.ProgressGroup) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.injected("group.update"); err != nil {
		return err
	}
	if _, ok := s.db.groups[g.ID]; !ok {
		return store.ErrGroupNotFound
	}
	s.db.groups[g.ID] = *g
	return nil
}

func (s memGroups) ListDue(_ context.Context, userID uuid.UUID, asOf time.Time) ([]*domain.ProgressGroup, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.injected("group.list_due"); err != nil {
		return nil, err
	}
	var out []*domain.ProgressGroup
	for _, g := range s.db.groups {
		if g.UserID == userID && domain.IsDue(g.NextReview, asOf) {
			g := g
			out = append(out, &g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].NextReview.Equal(out[j].NextReview) {
			return out[i].NextReview.Before(out[j].NextReview)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s memGroups) WithTx(*sql.Tx) store.ProgressGroupStore { return s }

type memProgress struct{ db *memDB }

func (s memProgress) Create(_ context.Context, p *domain.LearningProgress) error {
	if hook := s.db.beforeProgressCreate; hook != nil {
		hook(p)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.progress {
		if existing.UserID == p.UserID && existing.TranslationID == p.TranslationID {
			return store.ErrProgressExists
		}
	}
	s.db.progress[p.ID] = *p
	return nil
}

func (s memProgress) GetByID(_ context.Context, id uuid.UUID) (*domain.LearningProgress, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.progress[id]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	return &p, nil
}

func (s memProgress) GetByUserAndTranslation(_ context.Context, userID, translationID uuid.UUID) (*domain.LearningProgress, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, p := range s.db.progress {
		if p.UserID == userID && p.TranslationID == translationID {
			return &p, nil
		}
	}
	return nil, store.ErrProgressNotFound
}

func (s memProgress) GetByTranslationForUpdate(_ context.Context, translationID uuid.UUID) (*domain.LearningProgress, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var found *domain.LearningProgress
	for _, p := range s.db.progress {
		if p.TranslationID != translationID {
			continue
		}
		if found == nil || p.CreatedAt.Before(found.CreatedAt) {
			p := p
			found = &p
		}
	}
	if found == nil {
		return nil, store.ErrProgressNotFound
	}
	return found, nil
}

func (s memProgress) GetByUserAndTranslationForUpdate(ctx context.Context, userID, translationID uuid.UUID) (*domain.LearningProgress, error) {
	return s.GetByUserAndTranslation(ctx, userID, translationID)
}

func (s memProgress) Update(_ context.Context, p *domain.LearningProgress) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.injected("progress.update"); err != nil {
		return err
	}
	if _, ok := s.db.progress[p.ID]; !ok {
		return store.ErrProgressNotFound
	}
	s.db.progress[p.ID] = *p
	return nil
}

func (s memProgress) ListDue(_ context.Context, userID uuid.UUID, asOf time.Time, limit int) ([]*domain.DueItem, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*domain.DueItem
	for _, p := range s.db.progress {
		if p.UserID != userID || !domain.IsDue(p.NextReview, asOf) {
			continue
		}
		p := p
		tr := s.db.translations[p.TranslationID]
		out = append(out, &domain.DueItem{Progress: &p, Language: tr.Language, Text: tr.Text})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Progress, out[j].Progress
		if !a.NextReview.Equal(b.NextReview) {
			return a.NextReview.Before(b.NextReview)
		}
		return a.ID.String() < b.ID.String()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s memProgress) Stats(_ context.Context, userID uuid.UUID) (domain.Stats, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.injected("progress.stats"); err != nil {
		return domain.Stats{}, err
	}
	var stats domain.Stats
	var sum float64
	for _, p := range s.db.progress {
		if p.UserID == userID {
			stats.TotalReviews++
			sum += p.SuccessRate
		}
	}
	if stats.TotalReviews > 0 {
		stats.AvgSuccessRate = sum / float64(stats.TotalReviews)
	}
	return stats, nil
}

func (s memProgress) WithTx(*sql.Tx) store.LearningProgressStore { return s }

type memLogs struct{ db *memDB }

func (s memLogs) Append(_ context.Context, e *domain.ReviewLogEntry) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.logs = append(s.db.logs, *e)
	return nil
}

func (s memLogs) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]*domain.ReviewLogEntry, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*domain.ReviewLogEntry
	for i := len(s.db.logs) - 1; i >= 0; i-- {
		if s.db.logs[i].UserID == userID {
			e := s.db.logs[i]
			out = append(out, &e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s memLogs) WithTx(*sql.Tx) store.ReviewLogStore { return s }

type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.TaskRequestEvent
	err    error
}

func (e *recordingEmitter) EmitEvent(_ context.Context, event *events.TaskRequestEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, event)
	return nil
}

// harness wires every service against one memDB.
type harness struct {
	db      *memDB
	tx      *memTransactor
	clock   *fakeClock
	groups  *ProgressGroupManager
	tracker *LearningProgressTracker
	queue   *DueQueue
	stats   *StatsAggregator
	session *ReviewSession
	catalog *CatalogService
	emitter *recordingEmitter
}

func newHarness(opts ...CatalogOption) *harness {
	db := newMemDB()
	tx := &memTransactor{}
	clock := newFakeClock(testNow)
	stores := db.stores()
	scheduler := srs.NewDefaultService()
	logger := discardLogger()
	emitter := &recordingEmitter{}

	groups := NewProgressGroupManager(tx, stores, scheduler, clock.Now, logger)
	tracker := NewLearningProgressTracker(tx, stores, scheduler, clock.Now, logger)

	catalogOpts := append([]CatalogOption{WithClock(clock.Now), WithEventEmitter(emitter)}, opts...)
	return &harness{
		db:      db,
		tx:      tx,
		clock:   clock,
		groups:  groups,
		tracker: tracker,
		queue:   NewDueQueue(stores, logger),
		stats:   NewStatsAggregator(stores.Progress, logger),
		session: NewReviewSession(groups, tracker, logger),
		catalog: NewCatalogService(tx, stores, logger, catalogOpts...),
		emitter: emitter,
	}
}

// seeded is a user with one sentence translated into each language.
type seeded struct {
	user         *domain.User
	sentence     *domain.Sentence
	group        *domain.ProgressGroup
	translations map[string]*domain.Translation
}

// seed inserts a user learning langs and one sentence directly into the
// database, bypassing the services under test.
func (h *harness) seed(username, text string, langs ...string) seeded {
	user, err := domain.NewUser(username, "en", h.clock.Now())
	if err != nil {
		panic(err)
	}
	h.db.users[user.ID] = *user
	h.db.languages[user.ID] = append([]string(nil), langs...)
	return h.seedSentence(user, text)
}

func (h *harness) seedSentence(user *domain.User, text string) seeded {
	now := h.clock.Now()
	sentence, err := domain.NewSentence(user.ID, text, "", now)
	if err != nil {
		panic(err)
	}
	group, err := domain.NewProgressGroup(sentence.ID, user.ID, now)
	if err != nil {
		panic(err)
	}
	h.db.sentences[sentence.ID] = *sentence
	h.db.groups[group.ID] = *group

	out := seeded{user: user, sentence: sentence, group: group, translations: map[string]*domain.Translation{}}
	for _, lang := range h.db.languages[user.ID] {
		tr, err := domain.NewTranslation(sentence.ID, group.ID, lang, text+" ("+lang+")", now)
		if err != nil {
			panic(err)
		}
		h.db.translations[tr.ID] = *tr
		out.translations[lang] = tr
	}
	return out
}
