package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/MalanSathya/terraformcoder-ai/pkg/errors"
)

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	u := User{ID: uuid.NewString(), Email: "dev@example.com", Name: "Dev"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	dup := User{ID: uuid.NewString(), Email: "Dev@Example.com", Name: "Other"}
	if err := s.CreateUser(ctx, dup); !errors.Is(err, errors.ErrCodeUserExists) {
		t.Errorf("duplicate email err = %v, want USER_EXISTS", err)
	}
}

func TestUserLookups(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	u := User{ID: "u1", Email: "dev@example.com", Name: "Dev", PasswordHash: "abc"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	byEmail, err := s.UserByEmail(ctx, "DEV@example.com")
	if err != nil {
		t.Fatalf("UserByEmail: %v", err)
	}
	if byEmail.ID != "u1" {
		t.Errorf("UserByEmail ID = %q", byEmail.ID)
	}

	byID, err := s.UserByID(ctx, "u1")
	if err != nil {
		t.Fatalf("UserByID: %v", err)
	}
	if byID.Email != "dev@example.com" {
		t.Errorf("UserByID Email = %q", byID.Email)
	}

	if _, err := s.UserByEmail(ctx, "ghost@example.com"); !errors.Is(err, errors.ErrCodeUserNotFound) {
		t.Errorf("missing email err = %v, want USER_NOT_FOUND", err)
	}
	if _, err := s.UserByID(ctx, "ghost"); !errors.Is(err, errors.ErrCodeUserNotFound) {
		t.Errorf("missing id err = %v, want USER_NOT_FOUND", err)
	}
}

func TestGenerationsNewestFirstWithLimit(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		g := Generation{
			ID:        uuid.NewString(),
			UserID:    "u1",
			Provider:  "aws",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.SaveGeneration(ctx, g); err != nil {
			t.Fatalf("SaveGeneration: %v", err)
		}
	}
	// another user's rows must not leak in
	if err := s.SaveGeneration(ctx, Generation{ID: "other", UserID: "u2", CreatedAt: base.Add(time.Hour)}); err != nil {
		t.Fatalf("SaveGeneration: %v", err)
	}

	got, err := s.GenerationsByUser(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("GenerationsByUser: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Errorf("history not newest first at %d", i)
		}
	}
	if got[0].CreatedAt != base.Add(4*time.Minute) {
		t.Errorf("first entry = %v, want newest", got[0].CreatedAt)
	}
}

func TestGenerationByID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	g := Generation{ID: "g1", UserID: "u1", Description: "three tier app"}
	if err := s.SaveGeneration(ctx, g); err != nil {
		t.Fatalf("SaveGeneration: %v", err)
	}

	got, err := s.GenerationByID(ctx, "g1")
	if err != nil {
		t.Fatalf("GenerationByID: %v", err)
	}
	if got.Description != "three tier app" {
		t.Errorf("Description = %q", got.Description)
	}

	if _, err := s.GenerationByID(ctx, "ghost"); !errors.Is(err, errors.ErrCodeGenerationNotFound) {
		t.Errorf("missing generation err = %v, want GENERATION_NOT_FOUND", err)
	}
}
