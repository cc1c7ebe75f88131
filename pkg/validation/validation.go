// Package validation holds the field rules applied before every store write.
//
// Rules live in `validate` struct tags on the models and are checked with
// go-playground/validator, independently of the storage backend.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/jesusmusic/backend/internal/apperrors"
	"github.com/jesusmusic/backend/internal/models"
)

var (
	emailRegex = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	email = strings.TrimSpace(strings.ToLower(email))
	return emailRegex.MatchString(email)
}

const (
	minPasswordChars = 6
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

// ValidatePassword returns a ValidationError on the password field if
// password is shorter than six characters or longer than bcrypt allows.
func ValidatePassword(password string) error {
	switch {
	case utf8.RuneCountInString(password) < minPasswordChars:
		return apperrors.Validation(apperrors.FieldError{
			Field:   "password",
			Rule:    "min",
			Message: fmt.Sprintf("password must be at least %d characters long", minPasswordChars),
		})
	case len(password) > MaxPasswordBytes:
		return apperrors.Validation(apperrors.FieldError{
			Field:   "password",
			Rule:    "max",
			Message: fmt.Sprintf("password must be at most %d bytes long", MaxPasswordBytes),
		})
	}
	return nil
}

// SanitizeString removes potentially harmful characters
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}

// Validator returns the shared validator with the custom rules registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report JSON field names so messages match the API payloads.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return lowerFirst(fld.Name)
			}
			return name
		})

		_ = v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
			return ValidateEmail(fl.Field().String())
		})
		_ = v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
			return models.Genre(fl.Field().String()).Valid()
		})

		validate = v
	})
	return validate
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToLower(string(r)) + s[size:]
}

// Struct validates s and returns a ValidationError listing every violated
// rule, or nil.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Wrap("validate", err)
	}

	fields := make([]apperrors.FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		fields[i] = apperrors.FieldError{
			Field:   fieldPath(fe),
			Rule:    fe.Tag(),
			Message: message(fe),
		}
	}
	return apperrors.Validation(fields...)
}

// fieldPath strips the top-level struct name from the namespace, so
// "Playlist.songIds[0]" becomes "songIds[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Please provide %s", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "emailaddr":
		return "Please enter a valid email"
	case "genre":
		names := make([]string, len(models.Genres))
		for i, g := range models.Genres {
			names[i] = string(g)
		}
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(names, ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
