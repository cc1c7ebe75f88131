package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jesusmusic/backend/internal/apperrors"
	"github.com/jesusmusic/backend/internal/models"
)

func newUser(t *testing.T, s *Store, username, email string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: email, Password: "hashed-password"}
	if err := s.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestCreateAndFindByID(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	u := newUser(t, s, "  psalmist ", "Psalmist@Example.com")

	if u.ID == uuid.Nil {
		t.Fatal("expected id to be assigned")
	}
	if u.CreatedAt.IsZero() {
		t.Error("expected createdAt to be set")
	}

	got, err := s.Users.FindByID(ctx, u.ID.String())
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Username != "psalmist" || got.Email != "psalmist@example.com" {
		t.Errorf("fields not normalized: %q %q", got.Username, got.Email)
	}
	if got.LikeSongIDs == nil || len(got.LikeSongIDs) != 0 {
		t.Errorf("expected empty likeSongId list, got %#v", got.LikeSongIDs)
	}
}

func TestCreate_Defaults(t *testing.T) {
	s := NewMemory()
	song := &models.Song{Name: "Amazing Grace", Author: "Newton", SongURL: "grace.mp3", CreatedBy: uuid.New()}
	if err := s.Songs.Create(context.Background(), song); err != nil {
		t.Fatalf("create song: %v", err)
	}
	if song.SongImage != models.DefaultSongImage {
		t.Errorf("songImage = %q", song.SongImage)
	}
	if song.Genre != models.GenreOther {
		t.Errorf("genre = %q", song.Genre)
	}
}

func TestCreate_ValidationError(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	err := s.Songs.Create(ctx, &models.Song{Name: "n", Author: "a", CreatedBy: uuid.New()})
	if !apperrors.Is(err, apperrors.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	songs, err := Collect(s.Songs.FindAll(ctx))
	if err != nil {
		t.Fatal(err)
	}
	if len(songs) != 0 {
		t.Errorf("invalid song persisted: %d", len(songs))
	}
}

func TestFindByID_NotFound(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	for _, id := range []string{uuid.NewString(), "not-a-uuid", ""} {
		_, err := s.Albums.FindByID(ctx, id)
		if !apperrors.Is(err, apperrors.KindNotFound) {
			t.Errorf("FindByID(%q): expected not found, got %v", id, err)
		}
	}
}

func TestUsers_Unique(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		field    string
	}{
		{"duplicate username", "grace", "other@example.com", "username"},
		{"duplicate email", "another", "GRACE@example.com", "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemory()
			ctx := context.Background()
			newUser(t, s, "grace", "grace@example.com")

			err := s.Users.Create(ctx, &models.User{Username: tt.username, Email: tt.email, Password: "secret1"})
			if !apperrors.Is(err, apperrors.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			fields := apperrors.FieldsOf(err)
			if len(fields) != 1 || fields[0].Field != tt.field {
				t.Errorf("unexpected fields %#v", fields)
			}

			users, _ := Collect(s.Users.FindAll(ctx))
			if len(users) != 1 {
				t.Errorf("expected 1 user persisted, got %d", len(users))
			}
		})
	}
}

func TestUsers_FindByUsernameAndEmail(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	u := newUser(t, s, "hymnal", "hymnal@example.com")

	got, err := s.Users.FindByUsername(ctx, "hymnal")
	if err != nil || got.ID != u.ID {
		t.Fatalf("FindByUsername: %v %v", got, err)
	}
	got, err = s.Users.FindByEmail(ctx, " HYMNAL@example.com")
	if err != nil || got.ID != u.ID {
		t.Fatalf("FindByEmail: %v %v", got, err)
	}
	if _, err := s.Users.FindByUsername(ctx, "nobody"); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestAddToSet(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	u := newUser(t, s, "choir", "choir@example.com")
	songID := uuid.NewString()

	for range 2 {
		got, err := s.Users.AddToSet(ctx, u.ID.String(), models.FieldLikeSongs, songID)
		if err != nil {
			t.Fatalf("AddToSet: %v", err)
		}
		if len(got.LikeSongIDs) != 1 || got.LikeSongIDs[0] != songID {
			t.Fatalf("likeSongId = %v", got.LikeSongIDs)
		}
	}

	second := uuid.NewString()
	got, err := s.Users.AddToSet(ctx, u.ID.String(), models.FieldLikeSongs, second)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.LikeSongIDs) != 2 || got.LikeSongIDs[1] != second {
		t.Errorf("insertion order not kept: %v", got.LikeSongIDs)
	}
}

func TestAddToSet_Errors(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	u := newUser(t, s, "organist", "organist@example.com")

	tests := []struct {
		name  string
		id    string
		field models.ListField
		ref   string
		kind  apperrors.Kind
	}{
		{"missing owner", uuid.NewString(), models.FieldLikeSongs, uuid.NewString(), apperrors.KindNotFound},
		{"malformed owner id", "xyz", models.FieldLikeSongs, uuid.NewString(), apperrors.KindNotFound},
		{"empty ref", u.ID.String(), models.FieldLikeSongs, " ", apperrors.KindValidation},
		{"unknown field", u.ID.String(), models.FieldSongIDs, uuid.NewString(), apperrors.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Users.AddToSet(ctx, tt.id, tt.field, tt.ref)
			if got := apperrors.KindOf(err); got != tt.kind {
				t.Errorf("kind = %v, want %v (err %v)", got, tt.kind, err)
			}
		})
	}
}

func TestAddToSet_Concurrent(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	u := newUser(t, s, "congregation", "congregation@example.com")

	const n = 50
	ids := make([]string, n)
	for i := range ids {
		ids[i] = uuid.NewString()
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(2)
		for range 2 {
			go func() {
				defer wg.Done()
				if _, err := s.Users.AddToSet(ctx, u.ID.String(), models.FieldLikeSongs, id); err != nil {
					t.Errorf("AddToSet: %v", err)
				}
			}()
		}
	}
	wg.Wait()

	got, err := s.Users.FindByID(ctx, u.ID.String())
	if err != nil {
		t.Fatal(err)
	}
	if len(got.LikeSongIDs) != n {
		t.Fatalf("expected %d ids, got %d", n, len(got.LikeSongIDs))
	}
	for _, id := range ids {
		if !models.ContainsRef(got.LikeSongIDs, id) {
			t.Errorf("id %s missing", id)
		}
	}
}

func TestFindAll_RestartableAndEarlyBreak(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	for i := range 3 {
		p := &models.Podcast{Name: fmt.Sprintf("episode %d", i), Author: "host", SongURL: "ep.mp3"}
		if err := s.Podcasts.Create(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	seq := s.Podcasts.FindAll(ctx)
	for range 2 {
		all, err := Collect(seq)
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 3 || all[0].Name != "episode 0" || all[2].Name != "episode 2" {
			t.Fatalf("unexpected order or size: %d", len(all))
		}
	}

	count := 0
	for _, err := range seq {
		if err != nil {
			t.Fatal(err)
		}
		count++
		break
	}
	if count != 1 {
		t.Errorf("early break yielded %d", count)
	}
}

func TestFindAll_ExpandAlbum(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	creator := newUser(t, s, "worshipper", "w@example.com")

	album := &models.Album{Name: "Hymns", Author: "Various"}
	if err := s.Albums.Create(ctx, album); err != nil {
		t.Fatal(err)
	}
	dangling := uuid.New()

	songs := []*models.Song{
		{Name: "linked", Author: "a", SongURL: "u", CreatedBy: creator.ID, AlbumID: &album.ID},
		{Name: "unset", Author: "a", SongURL: "u", CreatedBy: creator.ID},
		{Name: "dangling", Author: "a", SongURL: "u", CreatedBy: creator.ID, AlbumID: &dangling},
	}
	for _, song := range songs {
		if err := s.Songs.Create(ctx, song); err != nil {
			t.Fatal(err)
		}
	}

	got, err := Collect(s.Songs.FindAll(ctx, Expand(ExpandAlbum)))
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Album == nil || got[0].Album.Name != "Hymns" {
		t.Errorf("album not expanded: %#v", got[0].Album)
	}
	if got[1].Album != nil || got[2].Album != nil {
		t.Error("unset and dangling album should expand to nil")
	}

	if _, err := Collect(s.Albums.FindAll(ctx, Expand(ExpandAlbum))); !apperrors.Is(err, apperrors.KindValidation) {
		t.Errorf("expected validation error for unknown expansion, got %v", err)
	}
}

func TestSave(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	song := &models.Song{Name: "s", Author: "a", SongURL: "u", CreatedBy: uuid.New()}
	if err := s.Songs.Create(ctx, song); err != nil {
		t.Fatal(err)
	}

	albumID := uuid.New()
	song.AlbumID = &albumID
	if err := s.Songs.Save(ctx, song); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := s.Songs.FindByID(ctx, song.ID.String())
	if got.AlbumID == nil || *got.AlbumID != albumID {
		t.Errorf("albumId not saved: %v", got.AlbumID)
	}

	if err := s.Songs.Save(ctx, &models.Song{ID: uuid.New(), Name: "x", Author: "a", SongURL: "u", CreatedBy: uuid.New()}); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if err := s.Songs.Save(ctx, &models.Song{}); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("expected not found for unsaved doc, got %v", err)
	}

	got.SongURL = ""
	if err := s.Songs.Save(ctx, got); !apperrors.Is(err, apperrors.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestReadsReturnCopies(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	u := newUser(t, s, "copycat", "copy@example.com")

	got, _ := s.Users.FindByID(ctx, u.ID.String())
	got.LikeSongIDs = append(got.LikeSongIDs, uuid.NewString())

	again, _ := s.Users.FindByID(ctx, u.ID.String())
	if len(again.LikeSongIDs) != 0 {
		t.Error("mutating a read leaked into the store")
	}
}

func TestFindAll_BatchSize(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	for i := range 5 {
		if err := s.Albums.Create(ctx, &models.Album{Name: fmt.Sprintf("album %d", i), Author: "a"}); err != nil {
			t.Fatal(err)
		}
	}
	all, err := Collect(s.Albums.FindAll(ctx, BatchSize(2)))
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("got %d albums, want 5", len(all))
	}
}
