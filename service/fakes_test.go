package service

import (
	"context"
	"sort"
	"sync"

	"postline/core/feed"
	"postline/model"
	"postline/repository"
)

// memStore is an in-memory stand-in for the database shared by the fake
// repositories, so foreign keys behave like the real schema.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*model.User
	posts    map[string]*model.Post
	comments map[string]*model.Comment
	likes    map[string]*model.Like
	tokens   map[string]*model.Token
	seq      int
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*model.User),
		posts:    make(map[string]*model.Post),
		comments: make(map[string]*model.Comment),
		likes:    make(map[string]*model.Like),
		tokens:   make(map[string]*model.Token),
	}
}

func likeKey(likeType, likeItemID, userID string) string {
	return likeType + "|" + likeItemID + "|" + userID
}

type fakeUserRepo struct{ store *memStore }

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEntry
		}
	}
	copied := *user
	r.store.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if u, ok := r.store.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, u := range r.store.users {
		if id != user.ID && u.Email == user.Email {
			return repository.ErrDuplicateEntry
		}
	}
	copied := *user
	r.store.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdateAvatarPath(ctx context.Context, id, avatarPath string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if u, ok := r.store.users[id]; ok {
		u.AvatarPath = avatarPath
	}
	return nil
}

type fakePostRepo struct{ store *memStore }

func (r *fakePostRepo) Create(ctx context.Context, post *model.Post) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[post.UserID]; !ok {
		return repository.ErrForeignKeyViolation
	}
	copied := *post
	r.store.posts[post.ID] = &copied
	return nil
}

func (r *fakePostRepo) GetByID(ctx context.Context, id string) (*model.Post, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p, ok := r.store.posts[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (r *fakePostRepo) Update(ctx context.Context, post *model.Post) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *post
	r.store.posts[post.ID] = &copied
	return nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.posts, id)
	return nil
}

type fakeCommentRepo struct{ store *memStore }

func (r *fakeCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[comment.UserID]; !ok {
		return repository.ErrForeignKeyViolation
	}
	if _, ok := r.store.posts[comment.PostID]; !ok {
		return repository.ErrForeignKeyViolation
	}
	r.store.seq++
	copied := *comment
	copied.CreatedAt = copied.CreatedAt.AddDate(0, 0, r.store.seq)
	r.store.comments[comment.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if c, ok := r.store.comments[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeCommentRepo) Update(ctx context.Context, comment *model.Comment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if existing, ok := r.store.comments[comment.ID]; ok {
		created := existing.CreatedAt
		copied := *comment
		copied.CreatedAt = created
		r.store.comments[comment.ID] = &copied
	}
	return nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.comments, id)
	return nil
}

func (r *fakeCommentRepo) CountByPost(ctx context.Context, postID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, c := range r.store.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *fakeCommentRepo) ListPageWithAuthor(ctx context.Context, postID string, offset, limit int) ([]model.CommentListItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var page []*model.Comment
	for _, c := range r.store.comments {
		if c.PostID == postID {
			page = append(page, c)
		}
	}
	sort.Slice(page, func(i, j int) bool {
		return page[i].CreatedAt.Before(page[j].CreatedAt)
	})

	if offset > len(page) {
		offset = len(page)
	}
	end := offset + limit
	if end > len(page) {
		end = len(page)
	}

	items := make([]model.CommentListItem, 0, end-offset)
	for _, c := range page[offset:end] {
		userName := ""
		if u, ok := r.store.users[c.UserID]; ok {
			userName = u.UserName
		}
		items = append(items, model.CommentListItem{
			ID:       c.ID,
			Content:  c.Content,
			IsPublic: c.IsPublic,
			User:     model.CommentAuthor{UserName: userName},
		})
	}
	return items, nil
}

type fakeLikeRepo struct{ store *memStore }

func (r *fakeLikeRepo) Upsert(ctx context.Context, like *model.Like) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[like.UserID]; !ok {
		return repository.ErrForeignKeyViolation
	}
	key := likeKey(like.Type, like.LikeItemID, like.UserID)
	if existing, ok := r.store.likes[key]; ok {
		existing.Like = like.Like
		return nil
	}
	copied := *like
	r.store.likes[key] = &copied
	return nil
}

func (r *fakeLikeRepo) CountByTarget(ctx context.Context, likeType, likeItemID string, like bool) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, l := range r.store.likes {
		if l.Type == likeType && l.LikeItemID == likeItemID && l.Like == like {
			count++
		}
	}
	return count, nil
}

func (r *fakeLikeRepo) DeleteByTargetAndUser(ctx context.Context, likeType, likeItemID, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.likes, likeKey(likeType, likeItemID, userID))
	return nil
}

func (r *fakeLikeRepo) DeleteAllForTarget(ctx context.Context, likeType, likeItemID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for key, l := range r.store.likes {
		if l.Type == likeType && l.LikeItemID == likeItemID {
			delete(r.store.likes, key)
		}
	}
	return nil
}

type fakeTokenRepo struct{ store *memStore }

func (r *fakeTokenRepo) Create(ctx context.Context, token *model.Token) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[token.UserID]; !ok {
		return repository.ErrForeignKeyViolation
	}
	copied := *token
	r.store.tokens[token.ID] = &copied
	return nil
}

func (r *fakeTokenRepo) GetByID(ctx context.Context, id string) (*model.Token, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if t, ok := r.store.tokens[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeTokenRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.tokens, id)
	return nil
}

// capturePublisher records published feed events.
type capturePublisher struct {
	mu     sync.Mutex
	events []feed.Event
}

func (p *capturePublisher) Publish(event feed.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) byType(t feed.EventType) []feed.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []feed.Event
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
