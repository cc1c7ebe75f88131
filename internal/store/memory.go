package store

import (
	"context"
	"iter"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jesusmusic/backend/internal/apperrors"
	"github.com/jesusmusic/backend/internal/models"
)

// NewMemory returns a Store that keeps documents in process memory. Reads
// return copies, so callers may mutate what they get back.
func NewMemory() *Store {
	users := newMemCollection[models.User](models.KindUser)
	users.unique = uniqueUser

	albums := newMemCollection[models.Album](models.KindAlbum)
	songs := newMemCollection[models.Song](models.KindSong)
	songs.resolve = func(ctx context.Context, s *models.Song, name string) error {
		if name != ExpandAlbum || s.AlbumID == nil {
			return nil
		}
		a, err := albums.FindByID(ctx, s.AlbumID.String())
		if err != nil && !apperrors.Is(err, apperrors.KindNotFound) {
			return err
		}
		s.Album = a
		return nil
	}

	return withValidation(&Store{
		Users:     memUsers{users},
		Songs:     songs,
		Albums:    albums,
		Playlists: newMemCollection[models.Playlist](models.KindPlaylist),
		Podcasts:  newMemCollection[models.Podcast](models.KindPodcast),
	}, utcNow)
}

type memDoc[T any] interface {
	docPtr[T]
	Clone() *T
}

type memCollection[T any, P memDoc[T]] struct {
	kind models.Kind

	mu    sync.RWMutex
	docs  map[uuid.UUID]*T
	order []uuid.UUID

	// unique rejects doc if it collides with existing; called under mu.
	unique func(existing, doc *T) error
	// resolve fills one expanded reference on a copy.
	resolve func(ctx context.Context, doc *T, name string) error
}

func newMemCollection[T any, P memDoc[T]](kind models.Kind) *memCollection[T, P] {
	return &memCollection[T, P]{kind: kind, docs: make(map[uuid.UUID]*T)}
}

func (c *memCollection[T, P]) checkUnique(doc *T) error {
	if c.unique == nil {
		return nil
	}
	id := P(doc).DocumentID()
	for oid, existing := range c.docs {
		if oid == id {
			continue
		}
		if err := c.unique(existing, doc); err != nil {
			return err
		}
	}
	return nil
}

func (c *memCollection[T, P]) Create(ctx context.Context, doc *T) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap("create", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	id := P(doc).DocumentID()
	if _, exists := c.docs[id]; exists {
		return apperrors.Validation(apperrors.FieldError{Field: "id", Rule: "unique", Message: "id already exists"})
	}
	if err := c.checkUnique(doc); err != nil {
		return err
	}
	c.docs[id] = P(doc).Clone()
	c.order = append(c.order, id)
	return nil
}

func (c *memCollection[T, P]) FindByID(ctx context.Context, id string, opts ...FindOption) (*T, error) {
	o, err := buildOptions(c.kind, opts)
	if err != nil {
		return nil, err
	}
	uid, err := parseID(c.kind, id)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	stored, ok := c.docs[uid]
	var doc *T
	if ok {
		doc = P(stored).Clone()
	}
	c.mu.RUnlock()

	if !ok {
		return nil, apperrors.NotFound(string(c.kind), id)
	}
	if err := c.expand(ctx, doc, o.expand); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *memCollection[T, P]) expand(ctx context.Context, doc *T, names []string) error {
	if c.resolve == nil {
		return nil
	}
	for _, name := range names {
		if err := c.resolve(ctx, doc, name); err != nil {
			return err
		}
	}
	return nil
}

func (c *memCollection[T, P]) FindAll(ctx context.Context, opts ...FindOption) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		o, err := buildOptions(c.kind, opts)
		if err != nil {
			yield(nil, err)
			return
		}

		c.mu.RLock()
		snapshot := make([]*T, 0, len(c.order))
		for _, id := range c.order {
			snapshot = append(snapshot, P(c.docs[id]).Clone())
		}
		c.mu.RUnlock()

		for _, doc := range snapshot {
			if err := ctx.Err(); err != nil {
				yield(nil, apperrors.Wrap("find all", err))
				return
			}
			if err := c.expand(ctx, doc, o.expand); err != nil {
				yield(nil, err)
				return
			}
			if !yield(doc, nil) {
				return
			}
		}
	}
}

func (c *memCollection[T, P]) Save(ctx context.Context, doc *T) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap("save", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	id := P(doc).DocumentID()
	if _, ok := c.docs[id]; !ok {
		return apperrors.NotFound(string(c.kind), id.String())
	}
	if err := c.checkUnique(doc); err != nil {
		return err
	}
	c.docs[id] = P(doc).Clone()
	return nil
}

func (c *memCollection[T, P]) AddToSet(ctx context.Context, id string, field models.ListField, ref string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap("add to set", err)
	}
	uid, err := parseID(c.kind, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	stored, ok := c.docs[uid]
	if !ok {
		return nil, apperrors.NotFound(string(c.kind), id)
	}
	list, ok := P(stored).RefList(field)
	if !ok {
		return nil, checkListField[T, P](field)
	}
	if !models.ContainsRef(*list, ref) {
		*list = append(*list, ref)
	}
	return P(stored).Clone(), nil
}

type memUsers struct {
	*memCollection[models.User, *models.User]
}

func (m memUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.findBy(ctx, func(u *models.User) bool { return u.Username == strings.TrimSpace(username) }, username)
}

func (m memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return m.findBy(ctx, func(u *models.User) bool { return u.Email == email }, email)
}

func (m memUsers) findBy(ctx context.Context, match func(*models.User) bool, key string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap("find user", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.order {
		if u := m.docs[id]; match(u) {
			return u.Clone(), nil
		}
	}
	return nil, apperrors.NotFound(string(models.KindUser), key)
}

func uniqueUser(existing, doc *models.User) error {
	switch {
	case existing.Username == doc.Username:
		return apperrors.Validation(apperrors.FieldError{Field: "username", Rule: "unique", Message: "username already taken"})
	case existing.Email == doc.Email:
		return apperrors.Validation(apperrors.FieldError{Field: "email", Rule: "unique", Message: "email already registered"})
	}
	return nil
}
