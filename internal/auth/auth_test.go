package auth

import (
	"testing"
	"time"

	"github.com/MalanSathya/terraformcoder-ai/pkg/errors"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := NewManager("test-secret", 0)

	tok, err := m.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	userID, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("userID = %q, want %q", userID, "user-123")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := NewManager("secret-a", 0).Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	_, err = NewManager("secret-b", 0).Verify(tok)
	if !errors.Is(err, errors.ErrCodeInvalidToken) {
		t.Errorf("err = %v, want INVALID_TOKEN", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	issued := time.Now()
	m.now = func() time.Time { return issued }

	tok, err := m.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	m.now = func() time.Time { return issued.Add(61 * time.Minute) }
	if _, err := m.Verify(tok); !errors.Is(err, errors.ErrCodeInvalidToken) {
		t.Errorf("err = %v, want INVALID_TOKEN for expired token", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", 0)
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(tok); !errors.Is(err, errors.ErrCodeInvalidToken) {
			t.Errorf("Verify(%q) = %v, want INVALID_TOKEN", tok, err)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash := HashPassword("hunter2")
	if hash == "hunter2" {
		t.Fatal("password stored in clear text")
	}
	if !CheckPassword("hunter2", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("hunter3", hash) {
		t.Error("wrong password accepted")
	}
	if HashPassword("hunter2") != hash {
		t.Error("hash is not deterministic")
	}
}
