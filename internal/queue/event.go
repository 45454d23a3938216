// Package queue defines message payloads exchanged over the message broker.
package queue

// PostPublishedEvent is published when a post is successfully created.
// It carries enough information for downstream consumers to log, notify,
// or feed analytics without querying the primary database.
type PostPublishedEvent struct {
	PostID      uint64 `json:"post_id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	AuthorID    uint64 `json:"author_id"`
	AuthorName  string `json:"author_name"`
	PublishedAt string `json:"published_at"`
}
