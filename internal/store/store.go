// Package store persists user accounts and generation history.
package store

import (
	"context"
	"time"

	"github.com/MalanSathya/terraformcoder-ai/pkg/diagram"
)

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	Name         string    `json:"name" bson:"name"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Generation is one stored infrastructure-generation result, including the
// diagram payload consumed by the dashboard panel.
type Generation struct {
	ID            string          `json:"id" bson:"_id"`
	UserID        string          `json:"user_id" bson:"user_id"`
	Description   string          `json:"description" bson:"description"`
	Provider      string          `json:"provider" bson:"provider"`
	Code          string          `json:"terraform_code" bson:"terraform_code"`
	Explanation   string          `json:"explanation" bson:"explanation"`
	Resources     []string        `json:"resources" bson:"resources"`
	EstimatedCost string          `json:"estimated_cost" bson:"estimated_cost"`
	FileHierarchy string          `json:"file_hierarchy,omitempty" bson:"file_hierarchy,omitempty"`
	Diagram       diagram.Payload `json:"diagram" bson:"diagram"`
	CreatedAt     time.Time       `json:"created_at" bson:"created_at"`
}

// Store is the persistence boundary for accounts and history.
type Store interface {
	// CreateUser inserts a new user. Returns USER_EXISTS when the email
	// is already registered.
	CreateUser(ctx context.Context, u User) error

	// UserByEmail looks up a user by email. Returns USER_NOT_FOUND on miss.
	UserByEmail(ctx context.Context, email string) (User, error)

	// UserByID looks up a user by ID. Returns USER_NOT_FOUND on miss.
	UserByID(ctx context.Context, id string) (User, error)

	// SaveGeneration appends a generation to the user's history.
	SaveGeneration(ctx context.Context, g Generation) error

	// GenerationsByUser returns the user's history, newest first, capped
	// at limit (0 means no cap).
	GenerationsByUser(ctx context.Context, userID string, limit int) ([]Generation, error)

	// GenerationByID fetches one generation. Returns GENERATION_NOT_FOUND
	// on miss.
	GenerationByID(ctx context.Context, id string) (Generation, error)

	// Close releases the underlying connection, if any.
	Close(ctx context.Context) error
}
