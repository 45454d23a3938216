package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/iliyamo/blog-platform/internal/model"
)

// PostRepo manages persistence for posts. Every read joins the author so
// responses can embed the author's name and email without a second query.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

const postSelect = `SELECT p.id, p.title, p.slug, p.content, p.image_url, p.category, p.tags,
	p.author_id, u.name, u.email, p.created_at, p.updated_at
	FROM posts p JOIN users u ON u.id = p.author_id`

// Create inserts a new post and populates the struct with the stored row,
// including the joined author fields and DB timestamps. A slug collision
// surfaces as ErrSlugExists instead of overwriting the existing post.
func (r *PostRepo) Create(ctx context.Context, p *model.Post) error {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (title, slug, content, image_url, category, tags, author_id) VALUES (?,?,?,?,?,?,?)",
		p.Title, p.Slug, p.Content, p.ImageURL, p.Category, tags, p.AuthorID)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlugExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.getBy(ctx, "p.id=?", uint64(id))
	if err != nil {
		return err
	}
	*p = *stored
	return nil
}

// GetBySlug retrieves a post by its slug. Returns sql.ErrNoRows when no
// post resolves to the slug.
func (r *PostRepo) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	return r.getBy(ctx, "p.slug=?", slug)
}

// List returns all posts newest first. When category is non-empty only
// posts in that category are returned.
func (r *PostRepo) List(ctx context.Context, category string) ([]model.Post, error) {
	q := postSelect
	args := []any{}
	if category != "" {
		q += " WHERE p.category=?"
		args = append(args, category)
	}
	q += " ORDER BY p.created_at DESC, p.id DESC"
	return r.list(ctx, q, args...)
}

// ListByAuthor returns the given author's posts newest first.
func (r *PostRepo) ListByAuthor(ctx context.Context, authorID uint64) ([]model.Post, error) {
	q := postSelect + " WHERE p.author_id=? ORDER BY p.created_at DESC, p.id DESC"
	return r.list(ctx, q, authorID)
}

// UpdateBySlugAndAuthor overwrites the mutable fields of the post resolved
// by slug, provided it is authored by authorID. Existence is checked before
// ownership: a missing post yields sql.ErrNoRows, a post recorded under a
// different author yields ErrForbidden. The slug and author never change.
func (r *PostRepo) UpdateBySlugAndAuthor(ctx context.Context, slug string, authorID uint64, p *model.Post) (*model.Post, error) {
	if err := r.checkOwner(ctx, slug, authorID); err != nil {
		return nil, err
	}
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return nil, err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE posts SET title=?, content=?, image_url=?, category=?, tags=? WHERE slug=?",
		p.Title, p.Content, p.ImageURL, p.Category, tags, slug)
	if err != nil {
		return nil, err
	}
	return r.GetBySlug(ctx, slug)
}

// DeleteBySlugAndAuthor removes the post resolved by slug when it belongs
// to authorID. Error semantics match UpdateBySlugAndAuthor.
func (r *PostRepo) DeleteBySlugAndAuthor(ctx context.Context, slug string, authorID uint64) error {
	if err := r.checkOwner(ctx, slug, authorID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, "DELETE FROM posts WHERE slug=?", slug)
	return err
}

// checkOwner resolves the recorded author of a slug. sql.ErrNoRows means
// the post is absent; ErrForbidden means it belongs to someone else. The
// order matters: not-found must be reported before forbidden.
func (r *PostRepo) checkOwner(ctx context.Context, slug string, authorID uint64) error {
	var owner uint64
	err := r.DB.QueryRowContext(ctx, "SELECT author_id FROM posts WHERE slug=? LIMIT 1", slug).Scan(&owner)
	if err != nil {
		return err
	}
	if owner != authorID {
		return ErrForbidden
	}
	return nil
}

func (r *PostRepo) getBy(ctx context.Context, where string, arg any) (*model.Post, error) {
	var p model.Post
	var tags sql.NullString
	err := r.DB.QueryRowContext(ctx, postSelect+" WHERE "+where+" LIMIT 1", arg).Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.ImageURL, &p.Category, &tags,
		&p.AuthorID, &p.AuthorName, &p.AuthorEmail, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Tags = decodeTags(tags)
	return &p, nil
}

func (r *PostRepo) list(ctx context.Context, q string, args ...any) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		var tags sql.NullString
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.Content, &p.ImageURL, &p.Category, &tags,
			&p.AuthorID, &p.AuthorName, &p.AuthorEmail, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Tags = decodeTags(tags)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// encodeTags serializes the tag set to its JSON column form. A nil or
// empty set is stored as the empty array so decode never sees SQL NULL
// from rows written by this code path.
func encodeTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeTags tolerates NULL and malformed column values by returning an
// empty set; tags are presentation data and never worth failing a read.
func decodeTags(col sql.NullString) []string {
	if !col.Valid || col.String == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(col.String), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}
