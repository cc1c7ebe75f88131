// Package store is the document store: one collection per entity kind with
// create, find-by-id, find-all, save and add-to-set.
//
// Each call commits on its own. There is no cross-document transaction;
// callers that touch several documents accept partial completion.
//
// Two backends exist, Postgres (GORM, reference lists as JSONB) and an
// in-memory one. Both are wrapped by the same validation layer, so swapping
// the backend keeps every field rule.
package store

import (
	"context"
	"iter"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jesusmusic/backend/internal/apperrors"
	"github.com/jesusmusic/backend/internal/models"
)

// Collection is the set of documents of one kind.
type Collection[T any] interface {
	// Create assigns an id, applies defaults, validates and persists doc.
	Create(ctx context.Context, doc *T) error
	// FindByID returns the document or a NotFoundError. A malformed id is
	// reported as not found.
	FindByID(ctx context.Context, id string, opts ...FindOption) (*T, error)
	// FindAll returns every document in creation order. The sequence is
	// lazy and can be ranged over again to re-run the query.
	FindAll(ctx context.Context, opts ...FindOption) iter.Seq2[*T, error]
	// Save persists in-place changes to an existing document.
	Save(ctx context.Context, doc *T) error
	// AddToSet appends ref to the document's list field unless already
	// present and returns the updated document. The check and the append
	// are atomic with respect to other AddToSet calls on the same document.
	AddToSet(ctx context.Context, id string, field models.ListField, ref string) (*T, error)
}

// UserCollection adds the lookups used by authentication.
type UserCollection interface {
	Collection[models.User]
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Store groups the five collections.
type Store struct {
	Users     UserCollection
	Songs     Collection[models.Song]
	Albums    Collection[models.Album]
	Playlists Collection[models.Playlist]
	Podcasts  Collection[models.Podcast]

	close func() error
}

// Close releases the backend, if it holds anything.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// ExpandAlbum resolves a song's albumId.
const ExpandAlbum = "Album"

var expansions = map[models.Kind][]string{
	models.KindSong: {ExpandAlbum},
}

type findOptions struct {
	expand    []string
	batchSize int
}

// FindOption tunes FindByID and FindAll.
type FindOption func(*findOptions)

// Expand resolves the named soft references into embedded documents.
// Dangling references resolve to nil.
func Expand(refs ...string) FindOption {
	return func(o *findOptions) { o.expand = append(o.expand, refs...) }
}

// BatchSize sets how many documents FindAll loads per round trip.
func BatchSize(n int) FindOption {
	return func(o *findOptions) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

func buildOptions(kind models.Kind, opts []FindOption) (findOptions, error) {
	o := findOptions{batchSize: 100}
	for _, opt := range opts {
		opt(&o)
	}
	for _, name := range o.expand {
		if !slices.Contains(expansions[kind], name) {
			return o, apperrors.Validation(apperrors.FieldError{
				Field:   "expand",
				Rule:    "oneof",
				Message: string(kind) + " has no reference " + name,
			})
		}
	}
	return o, nil
}

func parseID(kind models.Kind, id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperrors.NotFound(string(kind), id)
	}
	return uid, nil
}

func checkListField[T any, P docPtr[T]](field models.ListField) error {
	var zero T
	if _, ok := P(&zero).RefList(field); !ok {
		return apperrors.Validation(apperrors.FieldError{
			Field:   string(field),
			Rule:    "field",
			Message: string(P(&zero).Kind()) + " has no list " + string(field),
		})
	}
	return nil
}

// Collect drains a FindAll sequence into a slice.
func Collect[T any](seq iter.Seq2[*T, error]) ([]*T, error) {
	out := []*T{}
	for doc, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

type docPtr[T any] interface {
	*T
	models.Document
}

type clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }
