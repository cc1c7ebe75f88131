package store

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jesusmusic/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dryRunDB renders statements without a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=music dbname=music_db sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return db
}

func assertSQL(t *testing.T, sql string, want, absent []string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(sql, w) {
			t.Errorf("missing %q in:\n%s", w, sql)
		}
	}
	for _, a := range absent {
		if strings.Contains(sql, a) {
			t.Errorf("unexpected %q in:\n%s", a, sql)
		}
	}
}

func TestPostgres_AppendRefStatement(t *testing.T) {
	db := dryRunDB(t)
	id := uuid.New()

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return appendRef[models.User](tx, id, listColumns[models.FieldLikeSongs], "S1")
	})

	assertSQL(t, sql, []string{
		`UPDATE "users" SET "like_song_ids"=COALESCE(like_song_ids, '[]'::jsonb) || '["S1"]'::jsonb`,
		`id = '` + id.String() + `'`,
		`AND NOT (COALESCE(like_song_ids, '[]'::jsonb) @> '["S1"]'::jsonb)`,
	}, []string{"SELECT"})
}

func TestPostgres_AppendRefQuotes(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return appendRef[models.Album](tx, uuid.New(), listColumns[models.FieldSongIDs], `it's`)
	})

	assertSQL(t, sql, []string{
		`UPDATE "albums" SET "song_ids"=`,
		`'["it''s"]'::jsonb`,
	}, nil)
}

func TestPostgres_SaveStatement(t *testing.T) {
	db := dryRunDB(t)
	album := &models.Album{Name: "Psalms", Author: "Asaph", SongIDs: models.RefList{"S1"}}
	album.Prepare(time.Now())

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return saveAll(tx, album)
	})

	assertSQL(t, sql, []string{
		`UPDATE "albums" SET `,
		`"name"='Psalms'`,
		`"author"='Asaph'`,
		`"song_image"='` + models.DefaultAlbumImage + `'`,
		`"song_ids"='["S1"]'`,
		`"id" = '` + album.ID.String() + `'`,
	}, []string{`"created_at"`, `"id"='`})
}

func TestPostgres_FindPageStatement(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var batch []*models.Podcast
		return findPage(tx, findOptions{batchSize: 2}, 4, &batch)
	})

	assertSQL(t, sql, []string{
		`SELECT * FROM "podcasts"`,
		`ORDER BY created_at ASC, id ASC`,
		`LIMIT 2 OFFSET 4`,
	}, nil)
}

func TestPostgres_UserConflictStatement(t *testing.T) {
	db := dryRunDB(t)
	u := &models.User{Username: "miriam", Email: "miriam@example.com"}
	u.Prepare(time.Now())

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var existing models.User
		return findConflict(tx, u, &existing)
	})

	assertSQL(t, sql, []string{
		`FROM "users"`,
		`id <> '` + u.ID.String() + `' AND (username = 'miriam' OR email = 'miriam@example.com')`,
		`LIMIT 1`,
	}, nil)
}
