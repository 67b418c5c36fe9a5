package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/events"
	"github.com/Moktur/N-LanguagesAI/internal/generation"
	"github.com/Moktur/N-LanguagesAI/internal/platform/logger"
	"github.com/Moktur/N-LanguagesAI/internal/redact"
	"github.com/Moktur/N-LanguagesAI/internal/store"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultTranslateConcurrency = 4

// CatalogService manages users, their target languages, sentences and
// translations.
type CatalogService struct {
	tx           store.Transactor
	users        store.UserStore
	sentences    store.SentenceStore
	translations store.TranslationStore
	groups       store.ProgressGroupStore
	translator   generation.Translator
	emitter      events.EventEmitter
	concurrency  int
	now          Clock
	logger       *slog.Logger
}

// CatalogOption configures a CatalogService.
type CatalogOption func(*CatalogService)

// WithTranslator sets the translator used for missing texts. Without one,
// every translation text must be supplied by the caller.
func WithTranslator(t generation.Translator) CatalogOption {
	return func(s *CatalogService) { s.translator = t }
}

// WithEventEmitter sets where background work requests are sent.
func WithEventEmitter(e events.EventEmitter) CatalogOption {
	return func(s *CatalogService) { s.emitter = e }
}

// WithTranslateConcurrency bounds parallel translator calls per sentence.
func WithTranslateConcurrency(n int) CatalogOption {
	return func(s *CatalogService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithClock sets the clock.
func WithClock(c Clock) CatalogOption {
	return func(s *CatalogService) { s.now = orSystem(c) }
}

// NewCatalogService creates a CatalogService. It panics if the transactor or
// a required store is nil.
func NewCatalogService(tx store.Transactor, stores Stores, logger *slog.Logger, opts ...CatalogOption) *CatalogService {
	if tx == nil {
		panic("transactor cannot be nil")
	}
	if stores.Users == nil || stores.Sentences == nil || stores.Translations == nil || stores.Groups == nil {
		panic("user, sentence, translation and group stores are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &CatalogService{
		tx:           tx,
		users:        stores.Users,
		sentences:    stores.Sentences,
		translations: stores.Translations,
		groups:       stores.Groups,
		translator:   generation.Unavailable{},
		emitter:      events.NopEmitter{},
		concurrency:  defaultTranslateConcurrency,
		now:          SystemClock,
		logger:       logger.With(slog.String("component", "catalog_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser registers a user. It returns store.ErrUsernameExists when the
// username is taken.
func (s *CatalogService) CreateUser(ctx context.Context, username, nativeLanguage string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, nativeLanguage, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, s.fail(log, "create_user", "failed to create user", err)
	}

	log.Info("created user", slog.String("user_id", user.ID.String()))
	return user, nil
}

// GetUser returns a user by id.
func (s *CatalogService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(logger.FromContextOrDefault(ctx, s.logger), "get_user", "failed to get user", err,
			slog.String("user_id", id.String()))
	}
	return user, nil
}

// AddTargetLanguage adds a language the user learns and requests a
// background backfill so existing sentences get translated into it.
func (s *CatalogService) AddTargetLanguage(ctx context.Context, userID uuid.UUID, language string) (*domain.TargetLanguage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, s.fail(log, "add_target_language", "failed to get user", err)
	}

	lang, err := domain.NewTargetLanguage(user, language, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.users.AddLanguage(ctx, lang); err != nil {
		return nil, s.fail(log, "add_target_language", "failed to add target language", err,
			slog.String("language", lang.Language))
	}

	event, err := events.NewTaskRequestEvent(events.TypeTranslationBackfill, events.TranslationBackfillPayload{
		UserID:   userID,
		Language: lang.Language,
	})
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		// The language is stored; a later AddTranslation or backfill can
		// still fill the gaps.
		log.Error("failed to request translation backfill",
			slog.String("language", lang.Language),
			slog.String("error", redact.Error(err)))
	}

	log.Info("added target language", slog.String("language", lang.Language))
	return lang, nil
}

// ListTargetLanguages returns the user's target languages in order.
func (s *CatalogService) ListTargetLanguages(ctx context.Context, userID uuid.UUID) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, s.fail(log, "list_target_languages", "failed to get user", err,
			slog.String("user_id", userID.String()))
	}

	langs, err := s.users.ListLanguages(ctx, userID)
	if err != nil {
		return nil, s.fail(log, "list_target_languages", "failed to list languages", err,
			slog.String("user_id", userID.String()))
	}
	if langs == nil {
		langs = []string{}
	}
	return langs, nil
}

// CreateSentence stores a sentence with its progress group and one
// translation per target language of the user, all in one unit of work.
// texts maps language tags to supplied translations; missing ones are
// produced by the translator before the unit of work starts.
func (s *CatalogService) CreateSentence(
	ctx context.Context,
	userID uuid.UUID,
	text, category string,
	texts map[string]string,
) (*domain.SentenceWithTranslations, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))
	now := s.now()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, s.fail(log, "create_sentence", "failed to get user", err)
	}
	langs, err := s.users.ListLanguages(ctx, userID)
	if err != nil {
		return nil, s.fail(log, "create_sentence", "failed to list languages", err)
	}

	sentence, err := domain.NewSentence(userID, text, category, now)
	if err != nil {
		return nil, err
	}

	supplied, err := normalizeTexts(texts, langs)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolveTexts(ctx, sentence.Text, user.NativeLanguage, langs, supplied)
	if err != nil {
		return nil, s.fail(log, "create_sentence", "failed to translate sentence", err)
	}

	group, err := domain.NewProgressGroup(sentence.ID, userID, now)
	if err != nil {
		return nil, err
	}
	translations := make([]*domain.Translation, 0, len(langs))
	for _, lang := range langs {
		tr, err := domain.NewTranslation(sentence.ID, group.ID, lang, resolved[lang], now)
		if err != nil {
			return nil, err
		}
		translations = append(translations, tr)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.sentences.WithTx(tx).Create(ctx, sentence); err != nil {
			return err
		}
		if err := s.groups.WithTx(tx).Create(ctx, group); err != nil {
			return err
		}
		txTranslations := s.translations.WithTx(tx)
		for _, tr := range translations {
			if err := txTranslations.Create(ctx, tr); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(log, "create_sentence", "failed to store sentence", err)
	}

	log.Info("created sentence",
		slog.String("sentence_id", sentence.ID.String()),
		slog.Int("translations", len(translations)))
	return &domain.SentenceWithTranslations{Sentence: sentence, Group: group, Translations: translations}, nil
}

// ListSentences returns the user's sentences, optionally of one category.
func (s *CatalogService) ListSentences(ctx context.Context, userID uuid.UUID, category string) ([]*domain.Sentence, error) {
	sentences, err := s.sentences.ListByUser(ctx, userID, category)
	if err != nil {
		return nil, s.fail(logger.FromContextOrDefault(ctx, s.logger), "list_sentences",
			"failed to list sentences", err, slog.String("user_id", userID.String()))
	}
	if sentences == nil {
		sentences = []*domain.Sentence{}
	}
	return sentences, nil
}

// GetSentence returns a sentence with its group and translations.
func (s *CatalogService) GetSentence(ctx context.Context, id uuid.UUID) (*domain.SentenceWithTranslations, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("sentence_id", id.String()))

	sentence, err := s.sentences.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(log, "get_sentence", "failed to get sentence", err)
	}
	group, err := s.groups.GetBySentenceID(ctx, id)
	if err != nil {
		return nil, s.fail(log, "get_sentence", "failed to get progress group", err)
	}
	translations, err := s.translations.ListBySentence(ctx, id)
	if err != nil {
		return nil, s.fail(log, "get_sentence", "failed to list translations", err)
	}
	if translations == nil {
		translations = []*domain.Translation{}
	}
	return &domain.SentenceWithTranslations{Sentence: sentence, Group: group, Translations: translations}, nil
}

// AddTranslation attaches a translation to an existing sentence. An empty
// text is produced by the translator. It returns store.ErrTranslationExists
// when the sentence already has one in that language.
func (s *CatalogService) AddTranslation(
	ctx context.Context,
	sentenceID uuid.UUID,
	language, text string,
) (*domain.Translation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("sentence_id", sentenceID.String()))

	sentence, err := s.sentences.GetByID(ctx, sentenceID)
	if err != nil {
		return nil, s.fail(log, "add_translation", "failed to get sentence", err)
	}
	tr, err := s.addTranslation(ctx, sentence, domain.NormalizeLanguage(language), text)
	if err != nil {
		return nil, s.fail(log, "add_translation", "failed to add translation", err,
			slog.String("language", language))
	}
	return tr, nil
}

// DeleteSentence removes a sentence. Its group, translations, progress and
// review log go with it.
func (s *CatalogService) DeleteSentence(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("sentence_id", id.String()))
	if err := s.sentences.Delete(ctx, id); err != nil {
		return s.fail(log, "delete_sentence", "failed to delete sentence", err)
	}
	log.Info("deleted sentence")
	return nil
}

// BackfillLanguage translates every sentence of the user that lacks a
// translation in language and returns how many were added. Sentences that
// fail are skipped and reported together in the error.
func (s *CatalogService) BackfillLanguage(ctx context.Context, userID uuid.UUID, language string) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("language", language))
	language = domain.NormalizeLanguage(language)

	missing, err := s.sentences.ListMissingLanguage(ctx, userID, language)
	if err != nil {
		return 0, s.fail(log, "backfill_language", "failed to list sentences", err)
	}

	var (
		mu    sync.Mutex
		added int
		errs  []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, sentence := range missing {
		g.Go(func() error {
			_, err := s.addTranslation(gctx, sentence, language, "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				added++
			case store.IsDuplicateError(err):
				// Added concurrently by a user request.
			default:
				errs = append(errs, fmt.Errorf("sentence %s: %w", sentence.ID, err))
			}
			return nil
		})
	}
	_ = g.Wait()

	log.Info("backfilled translations", slog.Int("added", added), slog.Int("failed", len(errs)))
	if len(errs) > 0 {
		return added, s.fail(log, "backfill_language", "some sentences could not be translated", errors.Join(errs...))
	}
	return added, nil
}

func (s *CatalogService) addTranslation(
	ctx context.Context,
	sentence *domain.Sentence,
	language, text string,
) (*domain.Translation, error) {
	if err := domain.ValidateLanguage("language", language); err != nil {
		return nil, err
	}

	group, err := s.groups.GetBySentenceID(ctx, sentence.ID)
	if err != nil {
		return nil, err
	}

	if text == "" {
		user, err := s.users.GetByID(ctx, sentence.UserID)
		if err != nil {
			return nil, err
		}
		text, err = s.translate(ctx, sentence.Text, user.NativeLanguage, language)
		if err != nil {
			return nil, err
		}
	}

	tr, err := domain.NewTranslation(sentence.ID, group.ID, language, text, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.translations.Create(ctx, tr); err != nil {
		return nil, err
	}
	return tr, nil
}

// resolveTexts fills in the languages missing from supplied by calling the
// translator concurrently.
func (s *CatalogService) resolveTexts(
	ctx context.Context,
	text, sourceLang string,
	langs []string,
	supplied map[string]string,
) (map[string]string, error) {
	resolved := make(map[string]string, len(langs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, lang := range langs {
		if t, ok := supplied[lang]; ok {
			resolved[lang] = t
			continue
		}
		g.Go(func() error {
			out, err := s.translate(gctx, text, sourceLang, lang)
			if err != nil {
				return fmt.Errorf("language %s: %w", lang, err)
			}
			mu.Lock()
			resolved[lang] = out
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}

func (s *CatalogService) translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	out, err := s.translator.Translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		if errors.Is(err, generation.ErrUnavailable) {
			return "", domain.NewValidationError("translations",
				fmt.Sprintf("text for %q is required when no translator is configured", targetLang), err)
		}
		return "", err
	}
	return out, nil
}

// normalizeTexts keys supplied translations by normalized language tag and
// rejects languages the user does not learn.
func normalizeTexts(texts map[string]string, langs []string) (map[string]string, error) {
	known := make(map[string]bool, len(langs))
	for _, l := range langs {
		known[l] = true
	}

	out := make(map[string]string, len(texts))
	var unknown []string
	for lang, text := range texts {
		norm := domain.NormalizeLanguage(lang)
		if !known[norm] {
			unknown = append(unknown, norm)
			continue
		}
		if text == "" {
			continue
		}
		out[norm] = text
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, domain.NewValidationError("translations",
			fmt.Sprintf("languages %v are not target languages of the user", unknown), nil)
	}
	return out, nil
}

func (s *CatalogService) fail(log *slog.Logger, op, msg string, err error, attrs ...any) error {
	return failure(log, "catalog_service", op, msg, err, attrs...)
}
