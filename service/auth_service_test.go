package service

import (
	"context"
	"testing"

	"postline/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginReturnsWorkingCredential(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t, "alice", "alice@example.com")

	access, err := env.authService.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, access.AccessToken)
	assert.Greater(t, access.Exp, int64(0))

	userID, tokenID, err := env.authService.ValidateSession(ctx, access.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.User.ID, userID)
	assert.NotEmpty(t, tokenID)
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.authService.Login(context.Background(), "nobody@example.com", "whatever")
	require.Error(t, err)
	appErr := apperr.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeUnauthorized, appErr.Code)
	assert.Equal(t, "User doesn't exist", appErr.Message)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "alice", "alice@example.com")

	_, err := env.authService.Login(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)
	appErr := apperr.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeUnauthorized, appErr.Code)
	assert.Equal(t, "Password incorrect", appErr.Message)
}

func TestEachLoginOpensSeparateSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerUser(t, "alice", "alice@example.com")

	first, err := env.authService.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	second, err := env.authService.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	// Revoking one session leaves the other alive.
	require.NoError(t, env.authService.Logout(ctx, first.AccessToken))

	_, _, err = env.authService.ValidateSession(ctx, first.AccessToken)
	require.Error(t, err)
	_, _, err = env.authService.ValidateSession(ctx, second.AccessToken)
	require.NoError(t, err)
}

func TestLogoutTwiceFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerUser(t, "alice", "alice@example.com")

	access, err := env.authService.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	require.NoError(t, env.authService.Logout(ctx, access.AccessToken))

	err = env.authService.Logout(ctx, access.AccessToken)
	require.Error(t, err)
	appErr := apperr.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeUnauthorized, appErr.Code)
	assert.Equal(t, "invalid token", appErr.Message)
}

func TestLogoutGarbageCredential(t *testing.T) {
	env := newTestEnv(t)

	err := env.authService.Logout(context.Background(), "not-a-jwt")
	require.Error(t, err)
	appErr := apperr.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "invalid token", appErr.Message)
}

func TestConfirmAccountActivatesUserOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t, "alice", "alice@example.com")
	assert.False(t, user.User.IsActive)

	confirmToken, err := env.authService.GenerateEmailConfirmationToken(user.User.ID)
	require.NoError(t, err)

	require.NoError(t, env.authService.ConfirmAccount(ctx, confirmToken))

	profile, err := env.userService.GetProfile(ctx, user.User.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsActive)
	require.NotNil(t, profile.VerifiedAt)

	// The transition is one-way: a second confirmation is rejected.
	err = env.authService.ConfirmAccount(ctx, confirmToken)
	require.Error(t, err)
	appErr := apperr.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeUnprocessableEntity, appErr.Code)
	assert.Equal(t, "Account already confirmed", appErr.Message)
}

func TestConfirmAccountUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	// A well-signed credential whose subject matches no account.
	confirmToken, err := env.authService.GenerateEmailConfirmationToken("missing-user-id")
	require.NoError(t, err)

	err = env.authService.ConfirmAccount(context.Background(), confirmToken)
	require.Error(t, err)
	appErr := apperr.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeNotFound, appErr.Code)
	assert.Equal(t, "User not found", appErr.Message)
}

func TestConfirmAccountRejectsAccessToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerUser(t, "alice", "alice@example.com")

	// An access credential is signed with the wrong secret for confirmation.
	access, err := env.authService.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	err = env.authService.ConfirmAccount(ctx, access.AccessToken)
	require.Error(t, err)
	appErr := apperr.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "Invalid Token", appErr.Message)
}
