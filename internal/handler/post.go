package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-platform/internal/config"
	"github.com/iliyamo/blog-platform/internal/model"
	"github.com/iliyamo/blog-platform/internal/queue"
	"github.com/iliyamo/blog-platform/internal/repository"
	queue_publisher "github.com/iliyamo/blog-platform/internal/service"
	"github.com/iliyamo/blog-platform/internal/utils"
)

// PostHandler bundles dependencies for post endpoints.  Publish may be nil
// in tests; when set it is invoked asynchronously after a successful
// create and its errors are ignored, publishing never fails a request.
// PurgeCache is assigned at route registration and drops the cached read
// entries touched by a successful mutation.
type PostHandler struct {
	Cfg        config.Config
	Posts      PostStore
	Publish    func(ctx context.Context, ev queue.PostPublishedEvent) error
	PurgeCache func(ctx context.Context, paths ...string)
}

func NewPostHandler(cfg config.Config, posts PostStore) *PostHandler {
	if posts == nil {
		panic("nil post store passed to NewPostHandler")
	}
	return &PostHandler{Cfg: cfg, Posts: posts, Publish: queue_publisher.PublishPostPublished}
}

// ----- DTOs -----

type postReq struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	ImageURL string   `json:"image_url"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// normalize trims the free-text fields and drops empty tags.
func (r *postReq) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	r.ImageURL = strings.TrimSpace(r.ImageURL)
	r.Category = strings.TrimSpace(r.Category)
	tags := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	r.Tags = tags
}

// validate enforces required fields and the category enum.  An empty
// category is filled with the default instead of rejected, matching the
// create form which omits it.
func (r *postReq) validate() string {
	if r.Title == "" || r.Content == "" {
		return "title and content are required"
	}
	if r.Category == "" {
		r.Category = model.DefaultCategory
	}
	if !model.ValidCategory(r.Category) {
		return "invalid category"
	}
	return ""
}

// List handles GET /posts.  Public: no identity needed.  The optional
// category query parameter narrows the result.
func (h *PostHandler) List(c echo.Context) error {
	category := strings.TrimSpace(c.QueryParam("category"))
	if category != "" && !model.ValidCategory(category) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	posts, err := h.Posts.List(ctx, category)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "posts fetched successfully",
		"posts":   toPostResps(posts),
	})
}

// MyPosts handles GET /posts/my-posts behind the strict guard, returning
// only the caller's posts.
func (h *PostHandler) MyPosts(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required", "reason": "none"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	posts, err := h.Posts.ListByAuthor(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "user posts fetched successfully",
		"posts":   toPostResps(posts),
	})
}

// GetBySlug handles GET /posts/:slug.  Public.
func (h *PostHandler) GetBySlug(c echo.Context) error {
	slug := c.Param("slug")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := h.Posts.GetBySlug(ctx, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "post fetched successfully",
		"post":    toPostResp(p),
	})
}

// Create handles POST /posts behind the strict guard.  The slug is derived
// from the title with a timestamp disambiguator; a residual collision is
// reported as 409 rather than overwriting an existing post.
func (h *PostHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required", "reason": "none"})
	}

	var req postReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.normalize()
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	p := &model.Post{
		Title:    req.Title,
		Slug:     utils.UniqueSlug(req.Title),
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Category: req.Category,
		Tags:     req.Tags,
		AuthorID: uid,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Posts.Create(ctx, p); err != nil {
		if err == repository.ErrSlugExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "post with this title already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create post failed"})
	}

	if h.PurgeCache != nil {
		h.PurgeCache(ctx, "/posts")
	}

	if h.Publish != nil {
		ev := queue.PostPublishedEvent{
			PostID:      p.ID,
			Slug:        p.Slug,
			Title:       p.Title,
			Category:    p.Category,
			AuthorID:    p.AuthorID,
			AuthorName:  p.AuthorName,
			PublishedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		}
		go func() { _ = h.Publish(context.Background(), ev) }()
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "post created successfully",
		"post":    toPostResp(p),
	})
}

// Update handles PUT /posts/:slug behind the strict guard.  Check order is
// fixed: existence, then ownership, then validation.  The slug and the
// recorded author never change.
func (h *PostHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required", "reason": "none"})
	}
	slug := c.Param("slug")

	var req postReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.normalize()

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	existing, err := h.Posts.GetBySlug(ctx, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing.AuthorID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only edit your own posts"})
	}
	if req.Category == "" {
		req.Category = existing.Category // omitted category keeps the current one
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	p := &model.Post{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Category: req.Category,
		Tags:     req.Tags,
	}
	updated, err := h.Posts.UpdateBySlugAndAuthor(ctx, slug, uid, p)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only edit your own posts"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}

	if h.PurgeCache != nil {
		h.PurgeCache(ctx, "/posts/"+slug, "/posts")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "post updated successfully",
		"post":    toPostResp(updated),
	})
}

// Delete handles DELETE /posts/:slug behind the strict guard.  A missing
// post yields 404, a post owned by someone else 403, in that order.
func (h *PostHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required", "reason": "none"})
	}
	slug := c.Param("slug")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	err = h.Posts.DeleteBySlugAndAuthor(ctx, slug, uid)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only delete your own posts"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}

	if h.PurgeCache != nil {
		h.PurgeCache(ctx, "/posts/"+slug, "/posts")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "post deleted successfully"})
}
