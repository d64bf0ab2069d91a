package service

import (
	"context"
	"errors"

	"postline/apperr"
	"postline/core/feed"
	"postline/logger"
	"postline/model"
	"postline/repository"
)

// PostService owns post CRUD and post reactions.
type PostService struct {
	posts repository.PostRepository
	likes *LikeService
	feed  feed.Publisher
}

// NewPostService creates a PostService.
func NewPostService(posts repository.PostRepository, likes *LikeService, publisher feed.Publisher) *PostService {
	return &PostService{
		posts: posts,
		likes: likes,
		feed:  publisher,
	}
}

// Create stores a new post owned by userID.
func (s *PostService) Create(ctx context.Context, userID string, req model.PostRequest) (*model.Post, error) {
	post := model.NewPost(userID, req)
	if err := s.posts.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, apperr.NotFound("user doesn't exist")
		}
		return nil, err
	}

	if s.feed != nil {
		s.feed.Publish(feed.Event{Type: feed.EventPostCreated, ActorID: userID, PostID: post.ID})
	}

	logger.Info("Post created", logger.String("postId", post.ID), logger.String("userId", userID))
	return post, nil
}

// Get returns a post with its like and dislike totals counted separately.
func (s *PostService) Get(ctx context.Context, postID string) (model.PostResponse, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return model.PostResponse{}, err
	}
	if post == nil {
		return model.PostResponse{}, apperr.NotFound("Post doesn't exist")
	}

	countLike, countDislike, err := s.likes.Counts(ctx, model.LikeTypePost, postID)
	if err != nil {
		return model.PostResponse{}, err
	}
	return post.ToResponse(countLike, countDislike), nil
}

// Update rewrites a post's content. Only the owner may update, and a rewrite
// may not blank the required fields.
func (s *PostService) Update(ctx context.Context, actorID, postID string, req model.PostRequest) (*model.Post, error) {
	if req.Title == "" || req.Content == "" {
		return nil, apperr.BadRequest("Title and content are required")
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperr.NotFound("Post not found")
	}
	if !canMutate(actorID, post) {
		return nil, apperr.Unauthorized("Unauthorized")
	}

	post.Title = req.Title
	post.Content = req.Content
	if req.IsPublic != nil {
		post.IsPublic = *req.IsPublic
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	logger.Info("Post updated", logger.String("postId", postID))
	return post, nil
}

// Delete removes a post and every reaction to it. Only the owner may delete.
// Comments survive the post via their own lifecycle; the rows cascade at the
// schema level.
func (s *PostService) Delete(ctx context.Context, actorID, postID string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return apperr.NotFound("Post not found")
	}
	if !canMutate(actorID, post) {
		return apperr.Unauthorized("Unauthorized")
	}

	if err := s.likes.RemoveAllForTarget(ctx, model.LikeTypePost, postID); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	if s.feed != nil {
		s.feed.Publish(feed.Event{Type: feed.EventPostDeleted, ActorID: actorID, PostID: postID})
	}

	logger.Info("Post deleted", logger.String("postId", postID))
	return nil
}

// Like records the caller's reaction to a post.
func (s *PostService) Like(ctx context.Context, userID, postID string, like bool) error {
	return s.likes.CreateUpdateLike(ctx, model.LikeTypePost, userID, postID, like)
}

// Unlike removes the caller's reaction to a post.
func (s *PostService) Unlike(ctx context.Context, userID, postID string) error {
	return s.likes.DeleteLike(ctx, model.LikeTypePost, userID, postID)
}
