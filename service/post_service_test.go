package service

import (
	"context"
	"testing"

	"postline/apperr"
	"postline/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetPost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")

	post := env.createPost(t, alice.User.ID, "hello")
	assert.True(t, post.IsPublic)

	got, err := env.postService.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Title)
	assert.Equal(t, alice.User.ID, got.UserID)
	assert.Equal(t, int64(0), got.CountLike)
	assert.Equal(t, int64(0), got.CountDislike)
}

func TestCreatePostUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.postService.Create(context.Background(), "missing-id", model.PostRequest{
		Title:   "x",
		Content: "y",
	})
	require.Error(t, err)
	appErr := apperr.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeNotFound, appErr.Code)
	assert.Equal(t, "user doesn't exist", appErr.Message)
}

func TestGetPostCountsLikesAndDislikesSeparately(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	bob := env.registerUser(t, "bob", "bob@example.com")
	carol := env.registerUser(t, "carol", "carol@example.com")

	post := env.createPost(t, alice.User.ID, "reactions")

	require.NoError(t, env.postService.Like(ctx, alice.User.ID, post.ID, true))
	require.NoError(t, env.postService.Like(ctx, bob.User.ID, post.ID, true))
	require.NoError(t, env.postService.Like(ctx, carol.User.ID, post.ID, false))

	got, err := env.postService.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.CountLike)
	assert.Equal(t, int64(1), got.CountDislike)
}

func TestGetMissingPost(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.postService.Get(context.Background(), "missing-id")
	require.Error(t, err)
	appErr := apperr.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeNotFound, appErr.Code)
	assert.Equal(t, "Post doesn't exist", appErr.Message)
}

func TestUpdatePostOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	bob := env.registerUser(t, "bob", "bob@example.com")

	post := env.createPost(t, alice.User.ID, "original")

	_, err := env.postService.Update(ctx, bob.User.ID, post.ID, model.PostRequest{
		Title:   "hijacked",
		Content: "nope",
	})
	require.Error(t, err)
	appErr := apperr.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeUnauthorized, appErr.Code)

	updated, err := env.postService.Update(ctx, alice.User.ID, post.ID, model.PostRequest{
		Title:   "edited",
		Content: "new content",
	})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Title)
}

func TestUpdatePostRejectsBlankFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	post := env.createPost(t, alice.User.ID, "keep me")

	// An empty rewrite must not blank the post.
	for _, req := range []model.PostRequest{
		{},
		{Title: "only title"},
		{Content: "only content"},
	} {
		_, err := env.postService.Update(ctx, alice.User.ID, post.ID, req)
		require.Error(t, err)
		appErr := apperr.FromError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperr.CodeBadRequest, appErr.Code)
		assert.Equal(t, "Title and content are required", appErr.Message)
	}

	got, err := env.postService.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Title)
	assert.Equal(t, "content of keep me", got.Content)
}

func TestDeletePostOwnerOnlyAndCascadesReactions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	bob := env.registerUser(t, "bob", "bob@example.com")

	post := env.createPost(t, alice.User.ID, "short-lived")
	require.NoError(t, env.postService.Like(ctx, bob.User.ID, post.ID, true))

	err := env.postService.Delete(ctx, bob.User.ID, post.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthorized, apperr.FromError(err).Code)

	require.NoError(t, env.postService.Delete(ctx, alice.User.ID, post.ID))

	_, err = env.postService.Get(ctx, post.ID)
	require.Error(t, err)

	count, err := env.likes.CountByTarget(ctx, model.LikeTypePost, post.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestDeleteMissingPost(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerUser(t, "alice", "alice@example.com")

	err := env.postService.Delete(context.Background(), alice.User.ID, "missing-id")
	require.Error(t, err)
	appErr := apperr.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "Post not found", appErr.Message)
}
