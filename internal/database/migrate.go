package database

import (
	"context"
	"database/sql"
	"time"
)

// schema holds the DDL for the two application tables.  Statements are
// idempotent so Migrate can run on every startup.  Tags are stored as a
// JSON array; emails are stored lowercased and enforced unique by index.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name          VARCHAR(50)  NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		avatar        VARCHAR(32)  NOT NULL DEFAULT 'user-circle',
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS posts (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title      VARCHAR(255) NOT NULL,
		slug       VARCHAR(300) NOT NULL,
		content    MEDIUMTEXT   NOT NULL,
		image_url  VARCHAR(500) NOT NULL DEFAULT '',
		category   VARCHAR(32)  NOT NULL DEFAULT 'Technology',
		tags       JSON NULL,
		author_id  BIGINT UNSIGNED NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_posts_slug (slug),
		KEY ix_posts_author (author_id),
		KEY ix_posts_category (category),
		CONSTRAINT fk_posts_author FOREIGN KEY (author_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the schema statements in order.  It stops at the first
// failing statement and returns its error.
func Migrate(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
