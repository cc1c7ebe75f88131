package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPrepare_Defaults(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("Song", func(t *testing.T) {
		s := &Song{Name: "  Amazing Grace  ", Author: "John Newton", SongURL: "https://cdn/x.mp3"}
		s.Prepare(now)

		if s.ID == uuid.Nil {
			t.Error("id should be assigned")
		}
		if !s.CreatedAt.Equal(now) {
			t.Errorf("createdAt = %v, want %v", s.CreatedAt, now)
		}
		if s.Name != "Amazing Grace" {
			t.Errorf("name should be trimmed, got %q", s.Name)
		}
		if s.SongImage != DefaultSongImage {
			t.Errorf("songImage = %q, want default", s.SongImage)
		}
		if s.Genre != GenreOther {
			t.Errorf("genre = %q, want Other", s.Genre)
		}
	})

	t.Run("collections", func(t *testing.T) {
		a := &Album{Name: "A", Author: "B"}
		p := &Playlist{Name: "P", Author: "B"}
		pc := &Podcast{Name: "C", Author: "B", SongURL: "u"}
		a.Prepare(now)
		p.Prepare(now)
		pc.Prepare(now)

		if a.SongImage != DefaultAlbumImage || p.SongImage != DefaultPlaylistImage || pc.SongImage != DefaultPodcastImage {
			t.Errorf("unexpected images %q %q %q", a.SongImage, p.SongImage, pc.SongImage)
		}
		if a.SongIDs == nil || p.SongIDs == nil || pc.SongIDs == nil {
			t.Error("song id lists should be non-nil after Prepare")
		}
	})

	t.Run("User", func(t *testing.T) {
		u := &User{Username: " alice ", Email: " Alice@Example.COM "}
		u.Prepare(now)

		if u.Username != "alice" || u.Email != "alice@example.com" {
			t.Errorf("unexpected normalization %q %q", u.Username, u.Email)
		}
		for _, f := range []ListField{FieldLikeSongs, FieldLikeAlbums, FieldLikePodcasts, FieldPlaylists} {
			l, ok := u.RefList(f)
			if !ok || *l == nil {
				t.Errorf("list %s should exist and be non-nil", f)
			}
		}
	})
}

func TestPrepare_Idempotent(t *testing.T) {
	s := &Song{Name: "x", Author: "y", SongURL: "z", SongImage: "custom.jpg", Genre: GenreHymn}
	s.Prepare(time.Now())
	id, created := s.ID, s.CreatedAt

	s.Prepare(time.Now().Add(time.Hour))

	if s.ID != id || !s.CreatedAt.Equal(created) {
		t.Error("Prepare must not reassign id or createdAt")
	}
	if s.SongImage != "custom.jpg" || s.Genre != GenreHymn {
		t.Error("Prepare must keep explicit values")
	}
}

func TestRefList_UnknownField(t *testing.T) {
	if _, ok := (&Playlist{}).RefList(FieldLikeSongs); ok {
		t.Error("playlist has no likeSongId list")
	}
	if _, ok := (&Song{}).RefList(FieldSongIDs); ok {
		t.Error("song has no reference lists")
	}
}

func TestClone_DeepCopiesLists(t *testing.T) {
	u := &User{LikeSongIDs: RefList{"a"}}
	cp := u.Clone()
	cp.LikeSongIDs = append(cp.LikeSongIDs, "b")
	cp.LikeSongIDs[0] = "z"

	if len(u.LikeSongIDs) != 1 || u.LikeSongIDs[0] != "a" {
		t.Errorf("original mutated: %v", u.LikeSongIDs)
	}
}

func TestUserJSON_OmitsPassword(t *testing.T) {
	u := &User{Username: "alice", Email: "a@b.com", Password: "secret-hash"}
	u.Prepare(time.Now())

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "secret-hash") || strings.Contains(string(data), "password") {
		t.Errorf("password leaked: %s", data)
	}
	if !strings.Contains(string(data), `"likeSongId":[]`) {
		t.Errorf("expected empty likeSongId array, got %s", data)
	}
}

func TestSongJSON_AlbumNullWhenUnset(t *testing.T) {
	s := &Song{Name: "x", Author: "y", SongURL: "z"}
	s.Prepare(time.Now())

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"album":null`) || !strings.Contains(string(data), `"albumId":null`) {
		t.Errorf("expected null album reference, got %s", data)
	}
}

func TestGenre_Valid(t *testing.T) {
	if !GenreChristianRock.Valid() {
		t.Error("Christian Rock should be valid")
	}
	if Genre("Metal").Valid() {
		t.Error("Metal should not be valid")
	}
}
