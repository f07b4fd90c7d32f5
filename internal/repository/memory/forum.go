package memory

import (
	"context"
	"time"

	"sailing-club-backend/internal/domain"
)

type tagRepository struct {
	h *handle
}

func (r *tagRepository) Create(ctx context.Context, t *domain.Tag) error {
	return r.h.write(func(st *state) (func(*state), error) {
		for _, existing := range st.tags {
			if existing.Name == t.Name {
				return nil, domain.Duplicate("tag already exists")
			}
		}
		t.ID = st.next("forum_tags")
		st.tags[t.ID] = *t
		id := t.ID
		return func(st *state) { delete(st.tags, id) }, nil
	})
}

func (r *tagRepository) GetByID(ctx context.Context, id int32) (*domain.Tag, error) {
	var (
		t  domain.Tag
		ok bool
	)
	r.h.read(func(st *state) { t, ok = st.tags[id] })
	if !ok {
		return nil, domain.NotFound("tag not found")
	}
	return &t, nil
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	var found *domain.Tag
	r.h.read(func(st *state) {
		for _, t := range st.tags {
			if t.Name == name {
				t := t
				found = &t
				return
			}
		}
	})
	if found == nil {
		return nil, domain.NotFound("tag not found")
	}
	return found, nil
}

func (r *tagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	r.h.read(func(st *state) {
		for _, t := range st.tags {
			tags = append(tags, t)
		}
	})
	return page(tags, func(a, b domain.Tag) bool { return a.ID < b.ID }, 0, int32(len(tags)+1)), nil
}

type postRepository struct {
	h *handle
}

func (r *postRepository) Create(ctx context.Context, p *domain.Post) error {
	return r.h.write(func(st *state) (func(*state), error) {
		if _, ok := st.users[p.UserID]; !ok {
			return nil, domain.NotFound("user not found")
		}
		if p.TagID != nil {
			if _, ok := st.tags[*p.TagID]; !ok {
				return nil, domain.NotFound("tag not found")
			}
		}
		now := time.Now().UTC()
		p.ID = st.next("posts")
		p.CreatedAt, p.UpdatedAt = now, now
		st.posts[p.ID] = *p
		id := p.ID
		return func(st *state) { delete(st.posts, id) }, nil
	})
}

func (r *postRepository) GetByID(ctx context.Context, id int32) (*domain.Post, error) {
	var (
		p  domain.Post
		ok bool
	)
	r.h.read(func(st *state) { p, ok = st.posts[id] })
	if !ok {
		return nil, domain.NotFound("post not found")
	}
	return &p, nil
}

func (r *postRepository) List(ctx context.Context, tagID *int32, offset, limit int32) ([]domain.Post, error) {
	var posts []domain.Post
	r.h.read(func(st *state) {
		for _, p := range st.posts {
			if tagID != nil && (p.TagID == nil || *p.TagID != *tagID) {
				continue
			}
			posts = append(posts, p)
		}
	})
	newest := func(a, b domain.Post) bool {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	}
	return page(posts, newest, offset, limit), nil
}

func (r *postRepository) LockForUpdate(ctx context.Context, id int32) (*domain.Post, error) {
	if err := r.h.lock(ctx, rowKey("posts", id)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postRepository) LockByAuthor(ctx context.Context, userID int32) ([]int32, error) {
	ids := []int32{}
	r.h.read(func(st *state) {
		for id, p := range st.posts {
			if p.UserID == userID {
				ids = append(ids, id)
			}
		}
	})
	return r.h.lockAll(ctx, "posts", ids)
}

func (r *postRepository) Update(ctx context.Context, p *domain.Post) error {
	return r.h.write(func(st *state) (func(*state), error) {
		prev, ok := st.posts[p.ID]
		if !ok {
			return nil, domain.NotFound("post not found")
		}
		if p.TagID != nil {
			if _, ok := st.tags[*p.TagID]; !ok {
				return nil, domain.NotFound("tag not found")
			}
		}
		next := prev
		next.Title, next.Content, next.TagID = p.Title, p.Content, p.TagID
		next.UpdatedAt = time.Now().UTC()
		*p = next
		st.posts[p.ID] = next
		return func(st *state) { st.posts[prev.ID] = prev }, nil
	})
}

func (r *postRepository) Delete(ctx context.Context, id int32) error {
	return r.h.write(func(st *state) (func(*state), error) {
		if _, ok := st.posts[id]; !ok {
			return nil, domain.NotFound("post not found")
		}
		return deletePost(st, id), nil
	})
}

// deletePost removes a post with its comments and returns the undo step.
// Caller holds the store mutex.
func deletePost(st *state, id int32) func(*state) {
	prev := st.posts[id]
	delete(st.posts, id)
	var removed []domain.Comment
	for cid, c := range st.comments {
		if c.PostID == id {
			removed = append(removed, c)
			delete(st.comments, cid)
		}
	}
	return func(st *state) {
		st.posts[prev.ID] = prev
		for _, c := range removed {
			st.comments[c.ID] = c
		}
	}
}

type commentRepository struct {
	h *handle
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	return r.h.write(func(st *state) (func(*state), error) {
		if _, ok := st.posts[c.PostID]; !ok {
			return nil, domain.NotFound("post not found")
		}
		if _, ok := st.users[c.UserID]; !ok {
			return nil, domain.NotFound("user not found")
		}
		c.ID = st.next("comments")
		c.CreatedAt = time.Now().UTC()
		st.comments[c.ID] = *c
		id := c.ID
		return func(st *state) { delete(st.comments, id) }, nil
	})
}

func (r *commentRepository) GetByID(ctx context.Context, id int32) (*domain.Comment, error) {
	var (
		c  domain.Comment
		ok bool
	)
	r.h.read(func(st *state) { c, ok = st.comments[id] })
	if !ok {
		return nil, domain.NotFound("comment not found")
	}
	return &c, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID int32, offset, limit int32) ([]domain.Comment, error) {
	var comments []domain.Comment
	r.h.read(func(st *state) {
		for _, c := range st.comments {
			if c.PostID == postID {
				comments = append(comments, c)
			}
		}
	})
	oldest := func(a, b domain.Comment) bool {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return page(comments, oldest, offset, limit), nil
}

func (r *commentRepository) Delete(ctx context.Context, id int32) error {
	return r.h.write(func(st *state) (func(*state), error) {
		prev, ok := st.comments[id]
		if !ok {
			return nil, domain.NotFound("comment not found")
		}
		delete(st.comments, id)
		return func(st *state) { st.comments[prev.ID] = prev }, nil
	})
}
