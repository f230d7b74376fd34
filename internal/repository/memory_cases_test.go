package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"rainpath-cases/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCasesRepo_Lifecycle(t *testing.T) {
	repo := NewMemoryCasesRepo()
	ctx := context.Background()

	fixed := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	first, err := repo.CreateCase(ctx, sampleCase("M-1"))
	require.NoError(t, err)
	second, err := repo.CreateCase(ctx, sampleCase("M-2"))
	require.NoError(t, err)

	cases, err := repo.ListCases(ctx)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	// equal timestamps fall back to id descending
	assert.Equal(t, second.ID, cases[0].ID)
	assert.Equal(t, first.ID, cases[1].ID)

	got, err := repo.GetCase(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	require.NoError(t, repo.DeleteCase(ctx, first.ID))
	_, err = repo.GetCase(ctx, first.ID)
	var notFound *domain.NotFoundError
	assert.True(t, errors.As(err, &notFound))

	// identifier is free again after delete
	_, err = repo.CreateCase(ctx, sampleCase("M-1"))
	assert.NoError(t, err)
}

func TestMemoryCasesRepo_Conflict(t *testing.T) {
	repo := NewMemoryCasesRepo()
	ctx := context.Background()

	_, err := repo.CreateCase(ctx, sampleCase("X"))
	require.NoError(t, err)

	_, err = repo.CreateCase(ctx, sampleCase("X"))
	var conflict *domain.ConflictError
	assert.True(t, errors.As(err, &conflict))
}

func TestMemoryCasesRepo_ReturnsCopies(t *testing.T) {
	repo := NewMemoryCasesRepo()
	ctx := context.Background()

	created, err := repo.CreateCase(ctx, sampleCase("COPY"))
	require.NoError(t, err)
	created.Specimens[0].Blocks[0].Slides[0].Staining = "mutated"

	got, err := repo.GetCase(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "HES", got.Specimens[0].Blocks[0].Slides[0].Staining)
}
