package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jesusmusic/backend/internal/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestResponderFail(t *testing.T) {
	tests := []struct {
		name       string
		production bool
		err        error
		status     int
		withDetail bool
	}{
		{"validation", false, apperrors.Validation(apperrors.FieldError{Field: "name", Rule: "required", Message: "Please provide name"}), http.StatusBadRequest, true},
		{"not found", false, apperrors.NotFound("Song", "x"), http.StatusNotFound, true},
		{"forbidden", true, apperrors.Forbidden("nope"), http.StatusForbidden, false},
		{"unknown in production", true, errors.New("db down"), http.StatusInternalServerError, false},
		{"unknown in development", false, errors.New("db down"), http.StatusInternalServerError, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			responder{production: tt.production}.fail(c, "Failed to do it", tt.err)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			var body ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Status != "error" || body.Message != "Failed to do it" {
				t.Errorf("unexpected envelope %+v", body)
			}
			if (body.Error != "") != tt.withDetail {
				t.Errorf("detail = %q, want present=%v", body.Error, tt.withDetail)
			}
			if tt.status == http.StatusBadRequest && len(body.Fields) != 1 {
				t.Errorf("fields = %v", body.Fields)
			}
		})
	}
}

func TestBind(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"empty body", "", "body"},
		{"bad json", "{", "body"},
		{"missing field", `{}`, "songId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req songRefRequest
			err := bind(c, &req)
			if !apperrors.Is(err, apperrors.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			fields := apperrors.FieldsOf(err)
			if len(fields) != 1 || fields[0].Field != tt.field {
				t.Errorf("fields = %v", fields)
			}
		})
	}

	t.Run("valid", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"songId":"S1"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		var req songRefRequest
		if err := bind(c, &req); err != nil {
			t.Fatal(err)
		}
		if req.SongID != "S1" {
			t.Errorf("songId = %q", req.SongID)
		}
	})
}
