package model

import "time"

// Post represents a published blog post as stored in the `posts`
// table. The slug is derived from the title at creation time and is
// globally unique; it is the public identifier used in URLs. The
// AuthorID reference is immutable after creation.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – post headline, required.
//  Slug        – URL-safe unique identifier derived from the title.
//  Content     – post body, required.
//  ImageURL    – optional cover image URL, may be empty.
//  Category    – one of the Categories values.
//  Tags        – free-form tag strings, stored as a JSON column.
//  AuthorID    – owner of the post; never changes after insert.
//  AuthorName  – joined from users.name for responses.
//  AuthorEmail – joined from users.email for responses.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Post struct {
	ID          uint64    // posts.id
	Title       string    // posts.title
	Slug        string    // posts.slug
	Content     string    // posts.content
	ImageURL    string    // posts.image_url
	Category    string    // posts.category
	Tags        []string  // posts.tags (JSON)
	AuthorID    uint64    // posts.author_id
	AuthorName  string    // users.name (join)
	AuthorEmail string    // users.email (join)
	CreatedAt   time.Time // posts.created_at
	UpdatedAt   time.Time // posts.updated_at
}

// DefaultCategory is used when a post is created without a category.
const DefaultCategory = "Technology"

// Categories lists the categories a post may belong to.
var Categories = []string{
	"Technology",
	"Design",
	"Business",
	"Lifestyle",
	"Health",
	"Travel",
	"Food",
	"Fashion",
	"Sports",
	"Entertainment",
}

// ValidCategory reports whether name is one of the allowed categories.
func ValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
