package service

import (
	"context"
	"testing"
	"time"

	"postline/cache"
	"postline/core/auth"
	"postline/mail"
	"postline/model"
)

// testEnv wires every service over one in-memory store.
type testEnv struct {
	store    *memStore
	users    *fakeUserRepo
	posts    *fakePostRepo
	comments *fakeCommentRepo
	likes    *fakeLikeRepo
	tokens   *fakeTokenRepo
	feed     *capturePublisher

	authService    *AuthService
	userService    *UserService
	postService    *PostService
	commentService *CommentService
	likeService    *LikeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	env := &testEnv{
		store:    store,
		users:    &fakeUserRepo{store: store},
		posts:    &fakePostRepo{store: store},
		comments: &fakeCommentRepo{store: store},
		likes:    &fakeLikeRepo{store: store},
		tokens:   &fakeTokenRepo{store: store},
		feed:     &capturePublisher{},
	}

	jwtManager := auth.NewJWTManager("access-secret", 3600, "confirm-secret", 900)
	sessions := cache.NewSessionCache(nil, time.Hour)

	env.authService = NewAuthService(env.tokens, env.users, jwtManager, sessions)
	env.likeService = NewLikeService(env.likes, env.posts, env.comments, env.feed)
	env.userService = NewUserService(env.users, env.authService, mail.NoopMailer{}, env.feed, nil,
		"http://localhost:8080/api/auth/confirmAccount")
	env.postService = NewPostService(env.posts, env.likeService, env.feed)
	env.commentService = NewCommentService(env.comments, env.posts, env.users, env.likeService, env.feed)
	return env
}

// registerUser creates an account directly through the user service.
func (env *testEnv) registerUser(t *testing.T, name, email string) *RegisterResponse {
	t.Helper()
	resp, err := env.userService.Create(context.Background(), model.RegisterRequest{
		Name:                 name,
		UserName:             name,
		Email:                email,
		Password:             "s3cret-pass",
		PasswordConfirmation: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("failed to register %s: %v", email, err)
	}
	return resp
}

func (env *testEnv) createPost(t *testing.T, userID, title string) *model.Post {
	t.Helper()
	post, err := env.postService.Create(context.Background(), userID, model.PostRequest{
		Title:   title,
		Content: "content of " + title,
	})
	if err != nil {
		t.Fatalf("failed to create post %s: %v", title, err)
	}
	return post
}

func (env *testEnv) createComment(t *testing.T, userID, postID, content string) *model.CommentResponse {
	t.Helper()
	comment, err := env.commentService.Create(context.Background(), userID, postID, model.CommentRequest{
		Content: content,
	})
	if err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}
	return comment
}
