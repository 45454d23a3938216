package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name shown next to posts.
//  Email        – unique email address, stored lowercased.
//  PasswordHash – bcrypt hashed password. Never exposed.
//  Avatar       – one of the Avatars tags, defaults to DefaultAvatar.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last profile update.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Avatar       string    // users.avatar
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// DefaultAvatar is assigned at registration when no avatar was chosen.
const DefaultAvatar = "user-circle"

// Avatars lists the avatar tags a profile may select.
var Avatars = []string{
	"user-circle",
	"user-check",
	"user-plus",
	"user-x",
	"user-minus",
	"crown",
	"star",
	"heart",
	"smile",
	"coffee",
}

// ValidAvatar reports whether tag is one of the allowed avatar tags.
func ValidAvatar(tag string) bool {
	for _, a := range Avatars {
		if a == tag {
			return true
		}
	}
	return false
}
