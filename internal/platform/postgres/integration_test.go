//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/config"
	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/platform/migrate"
	"github.com/Moktur/N-LanguagesAI/internal/platform/postgres"
	"github.com/Moktur/N-LanguagesAI/internal/platform/sqlstore"
	"github.com/Moktur/N-LanguagesAI/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openIntegrationDB connects to DATABASE_URL and resets the schema.
func openIntegrationDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := postgres.Open(ctx, config.DatabaseConfig{
		Driver:       config.DriverPostgres,
		URL:          url,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, migrate.Run(ctx, db, postgres.Migrations(), migrate.CommandReset, logger))
	require.NoError(t, migrate.Run(ctx, db, postgres.Migrations(), migrate.CommandUp, logger))
	return db
}

func TestPostgres_ConcurrentGroupUpdates(t *testing.T) {
	ctx := context.Background()
	db := openIntegrationDB(t)
	d := postgres.Dialect()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := sqlstore.NewUserStore(db, d, logger)
	sentences := sqlstore.NewSentenceStore(db, d, logger)
	groups := sqlstore.NewProgressGroupStore(db, d, logger)

	now := time.Now().UTC()
	user, err := domain.NewUser("pg-user", "en", now)
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, user))

	sentence, err := domain.NewSentence(user.ID, "hola", "", now)
	require.NoError(t, err)
	require.NoError(t, sentences.Create(ctx, sentence))

	group, err := domain.NewProgressGroup(sentence.ID, user.ID, now)
	require.NoError(t, err)
	require.NoError(t, groups.Create(ctx, group))

	dup, err := domain.NewProgressGroup(sentence.ID, user.ID, now)
	require.NoError(t, err)
	assert.ErrorIs(t, groups.Create(ctx, dup), store.ErrGroupExists)

	tx := store.NewSQLTransactor(db, store.WithErrorMapper(postgres.MapError))

	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := tx.RunInTx(ctx, func(ctx context.Context, sqlTx *sql.Tx) error {
				g, err := groups.WithTx(sqlTx).GetByIDForUpdate(ctx, group.ID)
				if err != nil {
					return err
				}
				g.ReviewCount++
				return groups.WithTx(sqlTx).Update(ctx, g)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := groups.GetByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, writers, got.ReviewCount)
}
