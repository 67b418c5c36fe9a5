package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/events"
	"github.com/Moktur/N-LanguagesAI/internal/generation"
	"github.com/Moktur/N-LanguagesAI/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// suffixTranslator "translates" by tagging the text with the target language.
func suffixTranslator(calls *atomic.Int32) generation.Translator {
	return generation.TranslatorFunc(func(_ context.Context, text, _, targetLang string) (string, error) {
		calls.Add(1)
		return text + " [" + targetLang + "]", nil
	})
}

func TestCreateUser(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	user, err := h.catalog.CreateUser(ctx, "  xena ", "EN")
	require.NoError(t, err)
	assert.Equal(t, "xena", user.Username)
	assert.Equal(t, "en", user.NativeLanguage)

	got, err := h.catalog.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = h.catalog.CreateUser(ctx, "xena", "de")
	assert.ErrorIs(t, err, store.ErrUsernameExists)

	_, err = h.catalog.CreateUser(ctx, "", "en")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.catalog.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAddTargetLanguage(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	user, err := h.catalog.CreateUser(ctx, "yan", "en")
	require.NoError(t, err)

	lang, err := h.catalog.AddTargetLanguage(ctx, user.ID, "ES")
	require.NoError(t, err)
	assert.Equal(t, "es", lang.Language)

	require.Len(t, h.emitter.events, 1)
	event := h.emitter.events[0]
	assert.Equal(t, events.TypeTranslationBackfill, event.Type)
	var payload events.TranslationBackfillPayload
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, user.ID, payload.UserID)
	assert.Equal(t, "es", payload.Language)

	_, err = h.catalog.AddTargetLanguage(ctx, user.ID, "es")
	assert.ErrorIs(t, err, store.ErrLanguageExists)

	_, err = h.catalog.AddTargetLanguage(ctx, user.ID, "en")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.catalog.AddTargetLanguage(ctx, uuid.New(), "fr")
	assert.ErrorIs(t, err, ErrUserNotFound)

	langs, err := h.catalog.ListTargetLanguages(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"es"}, langs)
}

func TestAddTargetLanguage_EmitFailureIsNotFatal(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.emitter.err = errors.New("queue full")

	user, err := h.catalog.CreateUser(ctx, "zoe", "en")
	require.NoError(t, err)
	_, err = h.catalog.AddTargetLanguage(ctx, user.ID, "it")
	require.NoError(t, err)

	langs, err := h.catalog.ListTargetLanguages(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"it"}, langs)
}

func TestCreateSentence(t *testing.T) {
	var calls atomic.Int32
	h := newHarness(WithTranslator(suffixTranslator(&calls)), WithTranslateConcurrency(2))
	ctx := context.Background()

	user, err := h.catalog.CreateUser(ctx, "abe", "en")
	require.NoError(t, err)
	for _, l := range []string{"es", "fr", "de"} {
		_, err := h.catalog.AddTargetLanguage(ctx, user.ID, l)
		require.NoError(t, err)
	}

	created, err := h.catalog.CreateSentence(ctx, user.ID, "Good evening", "greetings", map[string]string{
		"ES": "Buenas noches",
	})
	require.NoError(t, err)

	assert.Equal(t, "Good evening", created.Sentence.Text)
	assert.Equal(t, "greetings", created.Sentence.Category)
	assert.Equal(t, created.Sentence.ID, created.Group.SentenceID)
	assert.Zero(t, created.Group.ReviewCount)
	assert.Equal(t, domain.DateOf(testNow), created.Group.NextReview)
	assert.EqualValues(t, 2, calls.Load(), "only missing languages are translated")

	byLang := map[string]string{}
	for _, tr := range created.Translations {
		assert.Equal(t, created.Group.ID, tr.GroupID)
		byLang[tr.Language] = tr.Text
	}
	assert.Equal(t, map[string]string{
		"es": "Buenas noches",
		"fr": "Good evening [fr]",
		"de": "Good evening [de]",
	}, byLang)

	got, err := h.catalog.GetSentence(ctx, created.Sentence.ID)
	require.NoError(t, err)
	assert.Len(t, got.Translations, 3)
	assert.Equal(t, created.Group.ID, got.Group.ID)

	list, err := h.catalog.ListSentences(ctx, user.ID, "greetings")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	none, err := h.catalog.ListSentences(ctx, user.ID, "travel")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCreateSentence_Validation(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	s := h.seed("bea", "Seed", "es")

	t.Run("unknown language in supplied texts", func(t *testing.T) {
		_, err := h.catalog.CreateSentence(ctx, s.user.ID, "Hello", "", map[string]string{"ja": "Konnichiwa"})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.True(t, strings.Contains(err.Error(), "ja"))
	})

	t.Run("missing text without translator", func(t *testing.T) {
		_, err := h.catalog.CreateSentence(ctx, s.user.ID, "Hello", "", nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.ErrorIs(t, err, generation.ErrUnavailable)
	})

	t.Run("blank text", func(t *testing.T) {
		_, err := h.catalog.CreateSentence(ctx, s.user.ID, "   ", "", map[string]string{"es": "Hola"})
		assert.ErrorIs(t, err, domain.ErrEmptyContent)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := h.catalog.CreateSentence(ctx, uuid.New(), "Hello", "", nil)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	list, err := h.catalog.ListSentences(ctx, s.user.ID, "")
	require.NoError(t, err)
	assert.Len(t, list, 1, "failed creations store nothing")
}

func TestCreateSentence_TranslatorFailureStoresNothing(t *testing.T) {
	failing := generation.TranslatorFunc(func(context.Context, string, string, string) (string, error) {
		return "", generation.ErrContentBlocked
	})
	h := newHarness(WithTranslator(failing))
	ctx := context.Background()
	s := h.seed("cal", "Seed", "es")

	_, err := h.catalog.CreateSentence(ctx, s.user.ID, "Hello", "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrContentBlocked)
	assert.Zero(t, h.tx.calls)
	assert.Len(t, h.db.sentences, 1)
}

func TestCreateSentence_StoreFailure(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	s := h.seed("dee", "Seed", "es")
	h.db.fail["sentence.create"] = errors.New("database is locked")

	_, err := h.catalog.CreateSentence(ctx, s.user.ID, "Hello", "", map[string]string{"es": "Hola"})
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "catalog_service", svcErr.Service)
	assert.Equal(t, "create_sentence", svcErr.Operation)
}

func TestAddTranslation(t *testing.T) {
	var calls atomic.Int32
	h := newHarness(WithTranslator(suffixTranslator(&calls)))
	ctx := context.Background()
	s := h.seed("eli", "Goodbye", "es")

	tr, err := h.catalog.AddTranslation(ctx, s.sentence.ID, "fr", "Au revoir")
	require.NoError(t, err)
	assert.Equal(t, s.group.ID, tr.GroupID)
	assert.Equal(t, "Au revoir", tr.Text)
	assert.Zero(t, calls.Load())

	tr, err = h.catalog.AddTranslation(ctx, s.sentence.ID, "DE", "")
	require.NoError(t, err)
	assert.Equal(t, "de", tr.Language)
	assert.Equal(t, "Goodbye [de]", tr.Text)

	_, err = h.catalog.AddTranslation(ctx, s.sentence.ID, "es", "Adiós")
	assert.ErrorIs(t, err, store.ErrTranslationExists)

	_, err = h.catalog.AddTranslation(ctx, uuid.New(), "es", "Adiós")
	assert.ErrorIs(t, err, ErrSentenceNotFound)

	_, err = h.catalog.AddTranslation(ctx, s.sentence.ID, "x", "bad")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteSentence(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	s := h.seed("fay", "Good night", "es")
	keep := h.seedSentence(s.user, "Good day")

	_, err := h.tracker.EnsureProgress(ctx, s.user.ID, s.translations["es"].ID)
	require.NoError(t, err)
	_, err = h.tracker.RecordReview(ctx, s.translations["es"].ID, 1, true)
	require.NoError(t, err)
	_, err = h.groups.UpdateGroup(ctx, keep.group.ID, 1, true)
	require.NoError(t, err)

	require.NoError(t, h.catalog.DeleteSentence(ctx, s.sentence.ID))

	_, err = h.catalog.GetSentence(ctx, s.sentence.ID)
	assert.ErrorIs(t, err, ErrSentenceNotFound)
	_, err = h.tracker.RecordReview(ctx, s.translations["es"].ID, 1, true)
	assert.ErrorIs(t, err, ErrProgressNotFound)
	assert.Zero(t, h.db.progressCount())

	logs := h.db.reviewLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, keep.group.ID, logs[0].GroupID)

	assert.ErrorIs(t, h.catalog.DeleteSentence(ctx, s.sentence.ID), ErrSentenceNotFound)
}

func TestBackfillLanguage(t *testing.T) {
	var calls atomic.Int32
	h := newHarness(WithTranslator(suffixTranslator(&calls)))
	ctx := context.Background()
	s := h.seed("gus", "One", "es")
	h.seedSentence(s.user, "Two")
	h.seedSentence(s.user, "Three")

	_, err := h.catalog.AddTranslation(ctx, s.sentence.ID, "it", "Uno")
	require.NoError(t, err)

	added, err := h.catalog.BackfillLanguage(ctx, s.user.ID, "IT")
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.EqualValues(t, 2, calls.Load())

	again, err := h.catalog.BackfillLanguage(ctx, s.user.ID, "it")
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestBackfillLanguage_ReportsFailures(t *testing.T) {
	translator := generation.TranslatorFunc(func(_ context.Context, text, _, lang string) (string, error) {
		if text == "Blocked" {
			return "", generation.ErrContentBlocked
		}
		return text + " [" + lang + "]", nil
	})
	h := newHarness(WithTranslator(translator))
	ctx := context.Background()
	s := h.seed("hal", "Fine", "es")
	h.seedSentence(s.user, "Blocked")

	added, err := h.catalog.BackfillLanguage(ctx, s.user.ID, "pt")
	assert.Equal(t, 1, added)
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrContentBlocked)
}
