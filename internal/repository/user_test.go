package repository

import (
	"context"
	"testing"

	"hayami/internal/database"
	"hayami/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserRepo(t *testing.T) UserRepository {
	t.Helper()
	db, err := database.ConnectTest()
	require.NoError(t, err)
	return NewUserRepository(db)
}

func TestUpdateFlagsSingleStatement(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{ID: 100, ReplyMode: true}))
	require.NoError(t, repo.UpdateFlags(ctx, 100, map[string]interface{}{
		"reply_mode":   false,
		"forward_mode": true,
	}))

	user, err := repo.GetByID(ctx, 100)
	require.NoError(t, err)
	assert.False(t, user.ReplyMode)
	assert.True(t, user.ForwardMode)
}

func TestUpdateFlagsUnknownUser(t *testing.T) {
	repo := setupUserRepo(t)
	err := repo.UpdateFlags(context.Background(), 404, map[string]interface{}{"reply_mode": false})
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
}

func TestLastSelectionRoundTrip(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{ID: 101, ReplyMode: true}))
	require.NoError(t, repo.SetLastSelection(ctx, 101, []byte(`{"id":96373884}`)))

	user, err := repo.GetByID(ctx, 101)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":96373884}`, string(user.LastSelection))

	require.NoError(t, repo.SetLastSelection(ctx, 101, nil))
	user, err = repo.GetByID(ctx, 101)
	require.NoError(t, err)
	assert.Empty(t, user.LastSelection)
}
