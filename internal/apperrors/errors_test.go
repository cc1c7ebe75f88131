package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation(FieldError{Field: "name", Rule: "required", Message: "name is required"}), http.StatusBadRequest},
		{"not found", NotFound("Song", "abc"), http.StatusNotFound},
		{"authentication", Authentication("missing token"), http.StatusUnauthorized},
		{"forbidden", Forbidden("not owner"), http.StatusForbidden},
		{"plain error", errors.New("connection refused"), http.StatusInternalServerError},
		{"wrapped validation", fmt.Errorf("create: %w", Validation()), http.StatusBadRequest},
		{"op wrapped not found", Wrap("link", NotFound("User", "u1")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap("op", nil) != nil {
		t.Fatal("Wrap(nil) should be nil")
	}

	base := errors.New("dial tcp: refused")
	err := Wrap("store.create", base)
	if KindOf(err) != KindUnknown {
		t.Errorf("expected unknown kind, got %v", KindOf(err))
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error should unwrap to the cause")
	}

	fields := []FieldError{{Field: "email", Rule: "unique", Message: "email already registered"}}
	err = Wrap("register", Validation(fields...))
	if !Is(err, KindValidation) {
		t.Error("wrapped validation error should keep its kind")
	}
	if got := FieldsOf(err); len(got) != 1 || got[0].Field != "email" {
		t.Errorf("unexpected fields: %#v", got)
	}
}

func TestError_Message(t *testing.T) {
	err := Validation(
		FieldError{Field: "name", Rule: "required", Message: "name is required"},
		FieldError{Field: "songUrl", Rule: "required", Message: "songUrl is required"},
	)
	want := "name is required; songUrl is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	nf := NotFound("Playlist", "p1")
	if nf.Error() != `Playlist "p1" not found` {
		t.Errorf("unexpected message %q", nf.Error())
	}
}
