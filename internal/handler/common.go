// Package handler defines the HTTP handlers implementing the blog API:
// registration and login, session verification, post CRUD with ownership
// checks, and profile management.  Handlers depend on small store
// interfaces rather than concrete repositories so they can be exercised
// with in-memory fakes in tests; the repository types satisfy them.
package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-platform/internal/middleware"
	"github.com/iliyamo/blog-platform/internal/model"
)

// dbTimeout bounds every store call made from a handler.
const dbTimeout = 5 * time.Second

// UserStore is the slice of the user repository the handlers consume.
type UserStore interface {
	Create(ctx context.Context, name, email, password string, cost int) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	EmailTaken(ctx context.Context, email string, excludeID uint64) (bool, error)
	Update(ctx context.Context, u *model.User) error
}

// PostStore is the slice of the post repository the handlers consume.
type PostStore interface {
	Create(ctx context.Context, p *model.Post) error
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	List(ctx context.Context, category string) ([]model.Post, error)
	ListByAuthor(ctx context.Context, authorID uint64) ([]model.Post, error)
	UpdateBySlugAndAuthor(ctx context.Context, slug string, authorID uint64, p *model.Post) (*model.Post, error)
	DeleteBySlugAndAuthor(ctx context.Context, slug string, authorID uint64) error
}

// getUserID extracts the guard-provided user id from echo.Context.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get(middleware.CtxUserID)
	switch t := v.(type) {
	case uint64:
		if t != 0 {
			return t, nil
		}
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil && n != 0 {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// userPart is the user representation returned by auth and profile
// endpoints.  The password hash is never part of any response.
type userPart struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserPart(u *model.User) userPart {
	avatar := u.Avatar
	if avatar == "" {
		avatar = model.DefaultAvatar
	}
	return userPart{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: avatar, CreatedAt: u.CreatedAt}
}

// authorPart embeds the post author's public fields in post responses.
type authorPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// postResp is the post representation returned by all post endpoints.
type postResp struct {
	ID        uint64     `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Content   string     `json:"content"`
	ImageURL  string     `json:"image_url,omitempty"`
	Category  string     `json:"category"`
	Tags      []string   `json:"tags"`
	Author    authorPart `json:"author"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func toPostResp(p *model.Post) postResp {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return postResp{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		Category:  p.Category,
		Tags:      tags,
		Author:    authorPart{ID: p.AuthorID, Name: p.AuthorName, Email: p.AuthorEmail},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPostResps(posts []model.Post) []postResp {
	out := make([]postResp, 0, len(posts))
	for i := range posts {
		out = append(out, toPostResp(&posts[i]))
	}
	return out
}
