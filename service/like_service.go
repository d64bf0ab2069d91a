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

// LikeService owns reactions to posts and comments.
type LikeService struct {
	likes    repository.LikeRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	feed     feed.Publisher
}

// NewLikeService creates a LikeService.
func NewLikeService(likes repository.LikeRepository, posts repository.PostRepository, comments repository.CommentRepository, publisher feed.Publisher) *LikeService {
	return &LikeService{
		likes:    likes,
		posts:    posts,
		comments: comments,
		feed:     publisher,
	}
}

// checkTarget verifies the reaction target exists.
func (s *LikeService) checkTarget(ctx context.Context, likeType, likeItemID string) error {
	switch likeType {
	case model.LikeTypePost:
		post, err := s.posts.GetByID(ctx, likeItemID)
		if err != nil {
			return err
		}
		if post == nil {
			return apperr.NotFound("Post not found")
		}
	case model.LikeTypeComment:
		comment, err := s.comments.GetByID(ctx, likeItemID)
		if err != nil {
			return err
		}
		if comment == nil {
			return apperr.NotFound("Comment not found")
		}
	default:
		return apperr.BadRequest("invalid like type")
	}
	return nil
}

// CreateUpdateLike records a user's reaction to a target, flipping the
// existing row in place when the user reacted before. Repeating the same
// reaction is a no-op at the data level.
func (s *LikeService) CreateUpdateLike(ctx context.Context, likeType, userID, likeItemID string, like bool) error {
	if err := s.checkTarget(ctx, likeType, likeItemID); err != nil {
		return err
	}

	row := model.NewLike(likeType, userID, likeItemID, like)
	if err := s.likes.Upsert(ctx, row); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return apperr.NotFound("User not found")
		}
		return err
	}

	event := feed.Event{Type: feed.EventReaction, ActorID: userID, Like: &like}
	if likeType == model.LikeTypePost {
		event.PostID = likeItemID
	} else {
		event.CommentID = likeItemID
	}
	s.publish(event)

	logger.Debug("Reaction recorded",
		logger.String("type", likeType),
		logger.String("likeItemId", likeItemID),
		logger.String("userId", userID),
		logger.Bool("like", like))
	return nil
}

// DeleteLike removes a user's reaction to a target. Removing a reaction
// that was never recorded succeeds.
func (s *LikeService) DeleteLike(ctx context.Context, likeType, userID, likeItemID string) error {
	if err := s.checkTarget(ctx, likeType, likeItemID); err != nil {
		return err
	}
	return s.likes.DeleteByTargetAndUser(ctx, likeType, likeItemID, userID)
}

// Counts returns the like and dislike totals for a target, counted
// separately.
func (s *LikeService) Counts(ctx context.Context, likeType, likeItemID string) (countLike, countDislike int64, err error) {
	countLike, err = s.likes.CountByTarget(ctx, likeType, likeItemID, true)
	if err != nil {
		return 0, 0, err
	}
	countDislike, err = s.likes.CountByTarget(ctx, likeType, likeItemID, false)
	if err != nil {
		return 0, 0, err
	}
	return countLike, countDislike, nil
}

// RemoveAllForTarget drops every reaction to a target, for target deletion.
func (s *LikeService) RemoveAllForTarget(ctx context.Context, likeType, likeItemID string) error {
	return s.likes.DeleteAllForTarget(ctx, likeType, likeItemID)
}

func (s *LikeService) publish(event feed.Event) {
	if s.feed != nil {
		s.feed.Publish(event)
	}
}
