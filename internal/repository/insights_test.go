package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katherineChen0/crosscoach/backend/internal/models"
)

func TestInsightReplaceForUser(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "a@example.com")
	repo := NewInsightRepository(db)
	ctx := context.Background()

	first := []models.Insight{
		{Description: "sleep correlates with climbing", CorrelationScore: 0.82},
		{Description: "training load hurts mood", CorrelationScore: -0.61},
	}
	require.NoError(t, repo.ReplaceForUser(ctx, user.ID, first))

	stored, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	// A second run fully replaces the first set; nothing stale survives
	second := []models.Insight{
		{Description: "learning time tracks mood", CorrelationScore: 0.45},
	}
	require.NoError(t, repo.ReplaceForUser(ctx, user.ID, second))

	stored, err = repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "learning time tracks mood", stored[0].Description)
	assert.Equal(t, 0.45, stored[0].CorrelationScore)
	assert.Equal(t, user.ID, stored[0].UserID)
	assert.NotEmpty(t, stored[0].ID)
}

func TestInsightReplaceWithEmptySetClears(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "a@example.com")
	repo := NewInsightRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceForUser(ctx, user.ID, []models.Insight{
		{Description: "about to vanish", CorrelationScore: 0.5},
	}))
	require.NoError(t, repo.ReplaceForUser(ctx, user.ID, nil))

	stored, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestInsightReplaceIsolatesUsers(t *testing.T) {
	db := newTestDB(t)
	alice := newTestUser(t, db, "alice@example.com")
	bob := newTestUser(t, db, "bob@example.com")
	repo := NewInsightRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceForUser(ctx, alice.ID, []models.Insight{
		{Description: "alice insight", CorrelationScore: 0.7},
	}))
	require.NoError(t, repo.ReplaceForUser(ctx, bob.ID, []models.Insight{
		{Description: "bob insight", CorrelationScore: 0.6},
	}))

	// Replacing alice's set leaves bob's untouched
	require.NoError(t, repo.ReplaceForUser(ctx, alice.ID, nil))

	stored, err := repo.GetByUserID(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "bob insight", stored[0].Description)
}

func TestInsightGetByUserIDEmpty(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "a@example.com")
	repo := NewInsightRepository(db)

	stored, err := repo.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
