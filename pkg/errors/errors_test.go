package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidDescription, "test message: %s", "value")

	if err.Code != ErrCodeInvalidDescription {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidDescription)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_DESCRIPTION: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeRenderFailed, cause, "render proxy call failed")

	if err.Code != ErrCodeRenderFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeRenderFailed)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidToken, "test"),
			code:     ErrCodeInvalidToken,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidToken, "test"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeInternal,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInternal,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeEncodeDegraded, "x")); got != ErrCodeEncodeDegraded {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeEncodeDegraded)
	}

	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidFormat, "unsupported export format: %q", "bmp")
	if got := UserMessage(err); got != `unsupported export format: "bmp"` {
		t.Errorf("UserMessage() = %v", got)
	}

	plain := errors.New("plain message")
	if got := UserMessage(plain); got != "plain message" {
		t.Errorf("UserMessage(plain) = %v", got)
	}
}
