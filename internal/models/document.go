package models

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Kind names an entity collection.
type Kind string

const (
	KindUser     Kind = "User"
	KindSong     Kind = "Song"
	KindAlbum    Kind = "Album"
	KindPlaylist Kind = "Playlist"
	KindPodcast  Kind = "Podcast"
)

// ListField names a reference list on a document, using its JSON name.
type ListField string

const (
	FieldLikeSongs    ListField = "likeSongId"
	FieldLikeAlbums   ListField = "likeAlbumId"
	FieldLikePodcasts ListField = "likePodcastId"
	FieldPlaylists    ListField = "playlistId"
	FieldSongIDs      ListField = "songIds"
)

// RefList is an ordered list of soft references (ids of other documents),
// stored as a JSONB array.
type RefList = datatypes.JSONSlice[string]

// Document is implemented by pointers to every entity model.
type Document interface {
	Kind() Kind
	DocumentID() uuid.UUID
	// Prepare assigns the id and creation time when missing, fills defaults
	// and normalizes fields. It is idempotent.
	Prepare(now time.Time)
	// RefList returns the reference list named by field, if the kind has one.
	RefList(field ListField) (*RefList, bool)
}

func prepareID(id *uuid.UUID, createdAt *time.Time, now time.Time) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if createdAt.IsZero() {
		*createdAt = now
	}
}

func prepareList(l *RefList) {
	if *l == nil {
		*l = RefList{}
	}
}

func cloneList(l RefList) RefList {
	if l == nil {
		return RefList{}
	}
	return slices.Clone(l)
}

func defaultString(s *string, def string) {
	if strings.TrimSpace(*s) == "" {
		*s = def
	}
}

// ContainsRef reports whether id is present in l.
func ContainsRef(l RefList, id string) bool {
	return slices.Contains(l, id)
}
