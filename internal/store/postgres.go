package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/google/uuid"
	"github.com/jesusmusic/backend/internal/apperrors"
	"github.com/jesusmusic/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// listColumns maps reference list fields to their JSONB columns.
var listColumns = map[models.ListField]string{
	models.FieldLikeSongs:    "like_song_ids",
	models.FieldLikeAlbums:   "like_album_ids",
	models.FieldLikePodcasts: "like_podcast_ids",
	models.FieldPlaylists:    "playlist_ids",
	models.FieldSongIDs:      "song_ids",
}

// NewPostgres returns a Store backed by db. Tables must exist
// (see models.Migrate).
func NewPostgres(db *gorm.DB) *Store {
	return withValidation(&Store{
		Users:     gormUsers{newGormCollection[models.User](db, models.KindUser)},
		Songs:     newGormCollection[models.Song](db, models.KindSong),
		Albums:    newGormCollection[models.Album](db, models.KindAlbum),
		Playlists: newGormCollection[models.Playlist](db, models.KindPlaylist),
		Podcasts:  newGormCollection[models.Podcast](db, models.KindPodcast),
		close: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}, utcNow)
}

type gormCollection[T any, P docPtr[T]] struct {
	db   *gorm.DB
	kind models.Kind
}

func newGormCollection[T any, P docPtr[T]](db *gorm.DB, kind models.Kind) *gormCollection[T, P] {
	return &gormCollection[T, P]{db: db, kind: kind}
}

func (c *gormCollection[T, P]) translate(op, id string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(string(c.kind), id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Validation(apperrors.FieldError{
			Field:   "id",
			Rule:    "unique",
			Message: fmt.Sprintf("%s already exists", c.kind),
		})
	default:
		return apperrors.Wrap(op, err)
	}
}

func preload(names []string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, name := range names {
			db = db.Preload(name)
		}
		return db
	}
}

func (c *gormCollection[T, P]) Create(ctx context.Context, doc *T) error {
	err := c.db.WithContext(ctx).Omit(clause.Associations).Create(doc).Error
	if err != nil {
		return c.translate("create", P(doc).DocumentID().String(), err)
	}
	return nil
}

func (c *gormCollection[T, P]) FindByID(ctx context.Context, id string, opts ...FindOption) (*T, error) {
	o, err := buildOptions(c.kind, opts)
	if err != nil {
		return nil, err
	}
	uid, err := parseID(c.kind, id)
	if err != nil {
		return nil, err
	}

	doc := new(T)
	err = c.db.WithContext(ctx).Scopes(preload(o.expand)).First(doc, "id = ?", uid).Error
	if err != nil {
		return nil, c.translate("find by id", id, err)
	}
	return doc, nil
}

func (c *gormCollection[T, P]) FindAll(ctx context.Context, opts ...FindOption) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		o, err := buildOptions(c.kind, opts)
		if err != nil {
			yield(nil, err)
			return
		}

		base := c.db.WithContext(ctx)
		for offset := 0; ; offset += o.batchSize {
			var batch []*T
			if err := findPage(base, o, offset, &batch).Error; err != nil {
				yield(nil, c.translate("find all", "", err))
				return
			}
			for _, doc := range batch {
				if !yield(doc, nil) {
					return
				}
			}
			if len(batch) < o.batchSize {
				return
			}
		}
	}
}

func findPage[T any](tx *gorm.DB, o findOptions, offset int, batch *[]*T) *gorm.DB {
	return tx.Scopes(preload(o.expand)).
		Order("created_at ASC, id ASC").
		Limit(o.batchSize).
		Offset(offset).
		Find(batch)
}

func (c *gormCollection[T, P]) Save(ctx context.Context, doc *T) error {
	id := P(doc).DocumentID()
	res := saveAll(c.db.WithContext(ctx), doc)
	if res.Error != nil {
		return c.translate("save", id.String(), res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(string(c.kind), id.String())
	}
	return nil
}

// saveAll writes every column except the id and creation time.
func saveAll[T any](tx *gorm.DB, doc *T) *gorm.DB {
	return tx.Model(doc).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(doc)
}

// AddToSet appends in a single UPDATE guarded by JSONB containment, so two
// concurrent calls cannot lose each other's append.
func (c *gormCollection[T, P]) AddToSet(ctx context.Context, id string, field models.ListField, ref string) (*T, error) {
	if err := checkListField[T, P](field); err != nil {
		return nil, err
	}
	col, ok := listColumns[field]
	if !ok {
		return nil, checkListField[T, P]("")
	}
	uid, err := parseID(c.kind, id)
	if err != nil {
		return nil, err
	}

	if err := appendRef[T](c.db.WithContext(ctx), uid, col, ref).Error; err != nil {
		return nil, c.translate("add to set", id, err)
	}

	// Zero rows means either already present or missing; FindByID tells.
	return c.FindByID(ctx, id)
}

func appendRef[T any](tx *gorm.DB, id uuid.UUID, col, ref string) *gorm.DB {
	elem, err := json.Marshal([]string{ref})
	if err != nil {
		_ = tx.AddError(err)
		return tx
	}
	current := fmt.Sprintf("COALESCE(%s, '[]'::jsonb)", col)
	return tx.Model(new(T)).
		Where("id = ?", id).
		Where(fmt.Sprintf("NOT (%s @> ?::jsonb)", current), string(elem)).
		UpdateColumn(col, gorm.Expr(current+" || ?::jsonb", string(elem)))
}

type gormUsers struct {
	*gormCollection[models.User, *models.User]
}

// Create checks username and email first so the error names the field; the
// unique indexes still catch a concurrent duplicate.
func (g gormUsers) Create(ctx context.Context, doc *models.User) error {
	var existing models.User
	err := findConflict(g.db.WithContext(ctx), doc, &existing).Error
	switch {
	case err == nil:
		return uniqueUser(&existing, doc)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.Wrap("create user", err)
	}

	if err := g.gormCollection.Create(ctx, doc); err != nil {
		if apperrors.Is(err, apperrors.KindValidation) {
			return apperrors.Validation(apperrors.FieldError{
				Field:   "username",
				Rule:    "unique",
				Message: "username or email already exists",
			})
		}
		return err
	}
	return nil
}

func (g gormUsers) Save(ctx context.Context, doc *models.User) error {
	var existing models.User
	err := findConflict(g.db.WithContext(ctx), doc, &existing).Error
	switch {
	case err == nil:
		return uniqueUser(&existing, doc)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.Wrap("save user", err)
	}
	return g.gormCollection.Save(ctx, doc)
}

// findConflict loads another user sharing doc's username or email.
func findConflict(tx *gorm.DB, doc, existing *models.User) *gorm.DB {
	return tx.Where("id <> ? AND (username = ? OR email = ?)", doc.ID, doc.Username, doc.Email).
		First(existing)
}

func (g gormUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return g.findBy(ctx, "username = ?", strings.TrimSpace(username))
}

func (g gormUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return g.findBy(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (g gormUsers) findBy(ctx context.Context, cond, value string) (*models.User, error) {
	var u models.User
	if err := g.db.WithContext(ctx).Where(cond, value).First(&u).Error; err != nil {
		return nil, g.translate("find user", value, err)
	}
	return &u, nil
}
