package service

import (
	"context"
	"testing"

	"postline/apperr"
	"postline/core/feed"
	"postline/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionUpsertFlipsInPlace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	post := env.createPost(t, alice.User.ID, "reacted")

	require.NoError(t, env.likeService.CreateUpdateLike(ctx, model.LikeTypePost, alice.User.ID, post.ID, true))

	like, dislike, err := env.likeService.Counts(ctx, model.LikeTypePost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), like)
	assert.Equal(t, int64(0), dislike)

	// Flipping to a dislike replaces the row instead of adding one.
	require.NoError(t, env.likeService.CreateUpdateLike(ctx, model.LikeTypePost, alice.User.ID, post.ID, false))

	like, dislike, err = env.likeService.Counts(ctx, model.LikeTypePost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), like)
	assert.Equal(t, int64(1), dislike)
}

func TestRepeatedReactionIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	post := env.createPost(t, alice.User.ID, "reacted")

	for i := 0; i < 3; i++ {
		require.NoError(t, env.likeService.CreateUpdateLike(ctx, model.LikeTypePost, alice.User.ID, post.ID, true))
	}

	like, _, err := env.likeService.Counts(ctx, model.LikeTypePost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), like)
}

func TestReactionMissingTarget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")

	err := env.likeService.CreateUpdateLike(ctx, model.LikeTypePost, alice.User.ID, "missing-post", true)
	require.Error(t, err)
	assert.Equal(t, "Post not found", apperr.FromError(err).Message)

	err = env.likeService.CreateUpdateLike(ctx, model.LikeTypeComment, alice.User.ID, "missing-comment", true)
	require.Error(t, err)
	assert.Equal(t, "Comment not found", apperr.FromError(err).Message)
}

func TestDeleteReactionIsNoOpSafe(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	post := env.createPost(t, alice.User.ID, "reacted")

	// Removing a reaction that was never recorded succeeds.
	require.NoError(t, env.likeService.DeleteLike(ctx, model.LikeTypePost, alice.User.ID, post.ID))

	require.NoError(t, env.likeService.CreateUpdateLike(ctx, model.LikeTypePost, alice.User.ID, post.ID, true))
	require.NoError(t, env.likeService.DeleteLike(ctx, model.LikeTypePost, alice.User.ID, post.ID))

	like, dislike, err := env.likeService.Counts(ctx, model.LikeTypePost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), like)
	assert.Equal(t, int64(0), dislike)
}

func TestReactionPublishesFeedEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	post := env.createPost(t, alice.User.ID, "reacted")

	require.NoError(t, env.likeService.CreateUpdateLike(ctx, model.LikeTypePost, alice.User.ID, post.ID, true))

	events := env.feed.byType(feed.EventReaction)
	require.Len(t, events, 1)
	assert.Equal(t, post.ID, events[0].PostID)
	assert.Equal(t, alice.User.ID, events[0].ActorID)
	require.NotNil(t, events[0].Like)
	assert.True(t, *events[0].Like)
}
