package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jesusmusic/backend/internal/apperrors"
	"github.com/jesusmusic/backend/internal/models"
	"github.com/jesusmusic/backend/pkg/validation"
)

// validated runs Prepare and the field rules before every write reaches the
// backend collection.
type validated[T any, P docPtr[T]] struct {
	Collection[T]
	now clock
}

func (v validated[T, P]) Create(ctx context.Context, doc *T) error {
	P(doc).Prepare(v.now())
	if err := validation.Struct(doc); err != nil {
		return err
	}
	return v.Collection.Create(ctx, doc)
}

func (v validated[T, P]) Save(ctx context.Context, doc *T) error {
	if P(doc).DocumentID() == uuid.Nil {
		var zero T
		return apperrors.NotFound(string(P(&zero).Kind()), "")
	}
	P(doc).Prepare(v.now())
	if err := validation.Struct(doc); err != nil {
		return err
	}
	return v.Collection.Save(ctx, doc)
}

func (v validated[T, P]) AddToSet(ctx context.Context, id string, field models.ListField, ref string) (*T, error) {
	if err := checkListField[T, P](field); err != nil {
		return nil, err
	}
	if strings.TrimSpace(ref) == "" {
		return nil, apperrors.Validation(apperrors.FieldError{
			Field:   string(field),
			Rule:    "required",
			Message: "Please provide an id for " + string(field),
		})
	}
	return v.Collection.AddToSet(ctx, id, field, ref)
}

type validatedUsers struct {
	validated[models.User, *models.User]
	inner UserCollection
}

func (v validatedUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return v.inner.FindByUsername(ctx, username)
}

func (v validatedUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return v.inner.FindByEmail(ctx, email)
}

func withValidation(s *Store, now clock) *Store {
	return &Store{
		Users: validatedUsers{
			validated: validated[models.User, *models.User]{Collection: s.Users, now: now},
			inner:     s.Users,
		},
		Songs:     validated[models.Song, *models.Song]{Collection: s.Songs, now: now},
		Albums:    validated[models.Album, *models.Album]{Collection: s.Albums, now: now},
		Playlists: validated[models.Playlist, *models.Playlist]{Collection: s.Playlists, now: now},
		Podcasts:  validated[models.Podcast, *models.Podcast]{Collection: s.Podcasts, now: now},
		close:     s.close,
	}
}
