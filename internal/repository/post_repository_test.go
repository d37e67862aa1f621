package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dodream/blog-api/internal/config"
	"github.com/dodream/blog-api/internal/persistence"
)

// newIntegrationRepo connects to POSTGRES_TEST_DSN; the test is skipped without it.
func newIntegrationRepo(t *testing.T) PostRepository {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, config.PostgresConfig{DSN: dsn}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pg.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pg.PoolHandle(), zap.NewNop()))
	_, err = pg.PoolHandle().Exec(ctx, `TRUNCATE posts`)
	require.NoError(t, err)

	return NewPostRepository(pg.PoolHandle())
}

func TestPostRepository_Postgres(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	first := samplePost("pg-first", "go", "sql")
	require.NoError(t, repo.Create(ctx, first))
	require.NotEmpty(t, first.ID)

	second := samplePost("pg-second")
	require.NoError(t, repo.Create(ctx, second))

	assert.ErrorIs(t, repo.Create(ctx, samplePost("pg-first")), ErrDuplicateSlug)

	got, err := repo.GetBySlug(ctx, "pg-first")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql"}, got.Tags)
	assert.Nil(t, got.SubCategory)

	sub := "web"
	got.SubCategory = &sub
	got.Title = "Updated"
	require.NoError(t, repo.Update(ctx, got))

	reloaded, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", reloaded.Title)
	require.NotNil(t, reloaded.SubCategory)
	assert.Equal(t, "web", *reloaded.SubCategory)

	newest, err := repo.List(ctx, NewestFirst)
	require.NoError(t, err)
	assert.Equal(t, []string{"pg-second", "pg-first"}, slugs(newest))

	require.NoError(t, repo.Delete(ctx, second.ID))
	assert.ErrorIs(t, repo.Delete(ctx, second.ID), ErrNotFound)

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByID(ctx, "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing-id"), ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, samplePost("no-such-id")), ErrNotFound)
}

func TestParseID(t *testing.T) {
	id := "3f1c2a9e-8d4b-4a8e-9c1d-2b7e6f5a4c3d"
	pk, ok := parseID(id)
	require.True(t, ok)
	assert.Equal(t, id, pk.String())

	for _, bad := range []string{"", "missing-id", "1234", "3f1c2a9e-8d4b-4a8e-9c1d"} {
		_, ok := parseID(bad)
		assert.False(t, ok, bad)
	}
}
