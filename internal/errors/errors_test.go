package errors

import (
	"errors"
	"testing"
)

func TestNewsError_Error(t *testing.T) {
	err := &NewsError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "not found: 2024-01-01-missing.md",
	}

	expected := "NOT_FOUND: not found: 2024-01-01-missing.md"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewAlreadyExists(t *testing.T) {
	err := NewAlreadyExists("content/news/2024-01-01-post.md")

	if err.Code != ErrAlreadyExists {
		t.Errorf("Code = %q, want %q", err.Code, ErrAlreadyExists)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Details["path"] != "content/news/2024-01-01-post.md" {
		t.Errorf("Details[path] = %v", err.Details["path"])
	}
}

func TestNewBundleCollision(t *testing.T) {
	err := NewBundleCollision("upload.zip", "content/news/2024-01-01-post.md")

	if err.Code != ErrBundleCollision {
		t.Errorf("Code = %q, want %q", err.Code, ErrBundleCollision)
	}
	if err.Details["bundle"] != "upload.zip" {
		t.Errorf("Details[bundle] = %v", err.Details["bundle"])
	}
}

func TestNewFatal_WrapsCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewFatal("cannot list content directory", cause)

	if err.Code != ErrFatal {
		t.Errorf("Code = %q, want %q", err.Code, ErrFatal)
	}
	if err.Message != "cannot list content directory: permission denied" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestIs(t *testing.T) {
	err := NewInvalidRequest("title is required")

	if !Is(err, ErrInvalidRequest) {
		t.Error("Is() should match ErrInvalidRequest")
	}
	if Is(err, ErrNotFound) {
		t.Error("Is() should not match ErrNotFound")
	}
	if Is(errors.New("plain"), ErrInvalidRequest) {
		t.Error("Is() should not match a plain error")
	}
}
