package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"

	"postline/apperr"
	"postline/core/feed"
	"postline/logger"
	"postline/model"
	"postline/repository"
)

const (
	defaultCommentPage = 1
	defaultCommentTake = 10
)

var digitsOnly = regexp.MustCompile(`^[0-9]*$`)

// CommentService owns comments, their pagination, and comment reactions.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	users    repository.UserRepository
	likes    *LikeService
	feed     feed.Publisher
}

// NewCommentService creates a CommentService.
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, users repository.UserRepository, likes *LikeService, publisher feed.Publisher) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		users:    users,
		likes:    likes,
		feed:     publisher,
	}
}

// parsePageParam validates one pagination query value. Blank values fall back
// to the default; anything non-numeric or non-positive is rejected.
func parsePageParam(raw string, fallback int) (int, error) {
	if !digitsOnly.MatchString(raw) {
		return 0, apperr.BadRequest("Page or take aren't numbers")
	}
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperr.BadRequest("Page or take aren't numbers")
	}
	return n, nil
}

// GetComments returns one page of a post's comments in insertion order with
// a pagination block. Page numbering starts at 1; asking past the last page
// is rejected, which on a post with no comments rejects every page.
func (s *CommentService) GetComments(ctx context.Context, postID, pageRaw, takeRaw string) (*model.CommentListResponse, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperr.NotFound("Post does not exist")
	}

	page, err := parsePageParam(pageRaw, defaultCommentPage)
	if err != nil {
		return nil, err
	}
	take, err := parsePageParam(takeRaw, defaultCommentTake)
	if err != nil {
		return nil, err
	}

	totalItems, err := s.comments.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	totalPages := int((totalItems + int64(take) - 1) / int64(take))
	if page > totalPages {
		return nil, apperr.BadRequest("Pages limit exceeded")
	}

	items, err := s.comments.ListPageWithAuthor(ctx, postID, (page-1)*take, take)
	if err != nil {
		return nil, err
	}

	pagination := model.Pagination{
		TotalPages:   totalPages,
		ItemsPerPage: take,
		TotalItems:   totalItems,
		CurrentPage:  page,
	}
	if page < totalPages {
		next := page + 1
		pagination.NextPage = &next
	}
	if page > 1 {
		prev := page - 1
		pagination.PreviousPage = &prev
	}

	return &model.CommentListResponse{Comments: items, Pagination: pagination}, nil
}

// Create stores a new comment on postID owned by userID and returns it
// enriched with its author and reaction counts.
func (s *CommentService) Create(ctx context.Context, userID, postID string, req model.CommentRequest) (*model.CommentResponse, error) {
	comment := model.NewComment(userID, postID, req)
	if err := s.comments.Create(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, apperr.NotFound("User or post doesn't exist")
		}
		return nil, err
	}

	resp, err := s.enrich(ctx, comment)
	if err != nil {
		return nil, err
	}

	if s.feed != nil {
		s.feed.Publish(feed.Event{Type: feed.EventCommentCreated, ActorID: userID, PostID: postID, CommentID: comment.ID})
	}

	logger.Info("Comment created",
		logger.String("commentId", comment.ID),
		logger.String("postId", postID),
		logger.String("userId", userID))
	return resp, nil
}

// GetComment returns one comment with its author and reaction counts. The
// comment must live on the addressed post.
func (s *CommentService) GetComment(ctx context.Context, postID, commentID string) (*model.CommentResponse, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, apperr.NotFound("Comment does not exist")
	}
	if comment.PostID != postID {
		return nil, apperr.NotFound("Comment not found on this post")
	}
	return s.enrich(ctx, comment)
}

// Update rewrites a comment's content. Only the owner may update, the
// comment must live on the addressed post, and a rewrite may not blank the
// content.
func (s *CommentService) Update(ctx context.Context, actorID, postID, commentID string, req model.CommentRequest) (*model.CommentResponse, error) {
	if req.Content == "" {
		return nil, apperr.BadRequest("Content is required")
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, apperr.NotFound("Comment not found")
	}
	if comment.PostID != postID {
		return nil, apperr.NotFound("Comment not found on this post")
	}
	if !canMutate(actorID, comment) {
		return nil, apperr.Unauthorized("Unauthorized")
	}

	comment.Content = req.Content
	if req.IsPublic != nil {
		comment.IsPublic = *req.IsPublic
	}
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	logger.Info("Comment updated", logger.String("commentId", commentID))
	return s.enrich(ctx, comment)
}

// Delete removes a comment and every reaction to it. Only the owner may
// delete, and the comment must live on the addressed post.
func (s *CommentService) Delete(ctx context.Context, actorID, postID, commentID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return apperr.NotFound("Comment not found")
	}
	if comment.PostID != postID {
		return apperr.NotFound("Comment not found on this post")
	}
	if !canMutate(actorID, comment) {
		return apperr.Unauthorized("Unauthorized")
	}

	if err := s.likes.RemoveAllForTarget(ctx, model.LikeTypeComment, commentID); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return err
	}

	if s.feed != nil {
		s.feed.Publish(feed.Event{Type: feed.EventCommentDeleted, ActorID: actorID, PostID: postID, CommentID: commentID})
	}

	logger.Info("Comment deleted", logger.String("commentId", commentID))
	return nil
}

// Like records the caller's reaction to a comment on the addressed post.
func (s *CommentService) Like(ctx context.Context, userID, postID, commentID string, like bool) error {
	if err := s.requireOnPost(ctx, postID, commentID); err != nil {
		return err
	}
	return s.likes.CreateUpdateLike(ctx, model.LikeTypeComment, userID, commentID, like)
}

// Unlike removes the caller's reaction to a comment on the addressed post.
func (s *CommentService) Unlike(ctx context.Context, userID, postID, commentID string) error {
	if err := s.requireOnPost(ctx, postID, commentID); err != nil {
		return err
	}
	return s.likes.DeleteLike(ctx, model.LikeTypeComment, userID, commentID)
}

func (s *CommentService) requireOnPost(ctx context.Context, postID, commentID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return apperr.NotFound("Comment not found")
	}
	if comment.PostID != postID {
		return apperr.NotFound("Comment not found on this post")
	}
	return nil
}

func (s *CommentService) enrich(ctx context.Context, comment *model.Comment) (*model.CommentResponse, error) {
	countLike, countDislike, err := s.likes.Counts(ctx, model.LikeTypeComment, comment.ID)
	if err != nil {
		return nil, err
	}

	userName := ""
	author, err := s.users.GetByID(ctx, comment.UserID)
	if err != nil {
		return nil, err
	}
	if author != nil {
		userName = author.UserName
	}

	resp := comment.ToResponse(countLike, countDislike, userName)
	return &resp, nil
}
