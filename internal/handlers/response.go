package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jesusmusic/backend/internal/apperrors"
	"github.com/jesusmusic/backend/internal/logging"
	"github.com/jesusmusic/backend/pkg/validation"
)

// SuccessResponse is the envelope of every successful reply.
type SuccessResponse struct {
	Status string `json:"status" example:"success"`
	Data   any    `json:"data"`
}

// ErrorResponse is the envelope of every failed reply. Error carries the
// underlying detail and is left out in production.
type ErrorResponse struct {
	Status  string                 `json:"status" example:"error"`
	Message string                 `json:"message"`
	Error   string                 `json:"error,omitempty"`
	Fields  []apperrors.FieldError `json:"fields,omitempty"`
}

// responder writes envelopes. It is embedded by every handler.
type responder struct {
	production bool
}

func (r responder) success(c *gin.Context, status int, data any) {
	c.JSON(status, SuccessResponse{Status: "success", Data: data})
}

// fail maps err to a status and writes the error envelope with the
// operation-level message.
func (r responder) fail(c *gin.Context, message string, err error) {
	status := apperrors.HTTPStatus(err)
	resp := ErrorResponse{
		Status:  "error",
		Message: message,
		Fields:  apperrors.FieldsOf(err),
	}
	if !r.production {
		resp.Error = err.Error()
	}

	if status == http.StatusInternalServerError {
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// bind decodes the JSON body into req and runs its validate rules.
func bind(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.Validation(apperrors.FieldError{Field: "body", Rule: "required", Message: "Request body is required"})
		}
		return apperrors.Validation(apperrors.FieldError{Field: "body", Rule: "json", Message: "Request body is not valid JSON"})
	}
	return validation.Struct(req)
}
