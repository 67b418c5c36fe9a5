//go:build cgo

package sqlstore_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/config"
	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/platform/migrate"
	"github.com/Moktur/N-LanguagesAI/internal/platform/sqlite"
	"github.com/Moktur/N-LanguagesAI/internal/platform/sqlstore"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openTestDB returns a migrated SQLite database in a temporary directory.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	db, err := sqlite.Open(ctx, config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		URL:          filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 4,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrate.Run(ctx, db, sqlite.Migrations(), migrate.CommandUp, testLogger()))
	return db
}

type stores struct {
	users        *sqlstore.UserStore
	sentences    *sqlstore.SentenceStore
	translations *sqlstore.TranslationStore
	groups       *sqlstore.ProgressGroupStore
	progress     *sqlstore.LearningProgressStore
	reviewLog    *sqlstore.ReviewLogStore
	tasks        *sqlstore.TaskStore
}

func newStores(db *sql.DB) stores {
	d := sqlite.Dialect()
	l := testLogger()
	return stores{
		users:        sqlstore.NewUserStore(db, d, l),
		sentences:    sqlstore.NewSentenceStore(db, d, l),
		translations: sqlstore.NewTranslationStore(db, d, l),
		groups:       sqlstore.NewProgressGroupStore(db, d, l),
		progress:     sqlstore.NewLearningProgressStore(db, d, l),
		reviewLog:    sqlstore.NewReviewLogStore(db, d, l),
		tasks:        sqlstore.NewTaskStore(db, d, l),
	}
}

// fixture is a user with one sentence, its group and one translation.
type fixture struct {
	user        *domain.User
	sentence    *domain.Sentence
	group       *domain.ProgressGroup
	translation *domain.Translation
}

func seedUser(t *testing.T, s stores, username string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(username, "en", testNow)
	require.NoError(t, err)
	require.NoError(t, s.users.Create(context.Background(), user))
	return user
}

func seedSentence(t *testing.T, s stores, user *domain.User, text string, now time.Time) fixture {
	t.Helper()
	ctx := context.Background()

	sentence, err := domain.NewSentence(user.ID, text, "greetings", now)
	require.NoError(t, err)
	require.NoError(t, s.sentences.Create(ctx, sentence))

	group, err := domain.NewProgressGroup(sentence.ID, user.ID, now)
	require.NoError(t, err)
	require.NoError(t, s.groups.Create(ctx, group))

	tr, err := domain.NewTranslation(sentence.ID, group.ID, "es", text+" (es)", now)
	require.NoError(t, err)
	require.NoError(t, s.translations.Create(ctx, tr))

	return fixture{user: user, sentence: sentence, group: group, translation: tr}
}
