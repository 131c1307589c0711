package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeCacheUnavailable, cause, "connect to redis")

	if err.Code != ErrCodeCacheUnavailable {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeCacheUnavailable)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "CACHE_UNAVAILABLE: connect to redis: connection refused"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
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
			err:      New(ErrCodeInvalidSMILES, "test"),
			code:     ErrCodeInvalidSMILES,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidSMILES, "test"),
			code:     ErrCodeTimeout,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeTimeout, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeTimeout,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
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
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidTheme, "test"),
			expected: ErrCodeInvalidTheme,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCodeCategories(t *testing.T) {
	for _, c := range []Code{ErrCodeInvalidInput, ErrCodeInvalidSMILES, ErrCodeInvalidFormat, ErrCodeInvalidTheme, ErrCodeInvalidOption, ErrCodeInvalidPath} {
		if !c.IsInvalid() {
			t.Errorf("%s.IsInvalid() = false", c)
		}
	}
	for _, c := range []Code{ErrCodeNotFound, ErrCodeTimeout, ErrCodeInternal, ErrCodeCacheUnavailable} {
		if c.IsInvalid() {
			t.Errorf("%s.IsInvalid() = true", c)
		}
	}
	if !ErrCodeFileNotFound.IsNotFound() || ErrCodeInternal.IsNotFound() {
		t.Error("IsNotFound misclassifies codes")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "wrapped",
			err:      Wrap(ErrCodeInvalidSMILES, errors.New("unclosed branch"), "invalid SMILES"),
			expected: "invalid SMILES: unclosed branch",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
