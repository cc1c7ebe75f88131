package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultSongImage = "default-song-image.jpg"

type Genre string

const (
	GenreWorship               Genre = "Worship"
	GenreGospel                Genre = "Gospel"
	GenreChristianRock         Genre = "Christian Rock"
	GenreContemporaryChristian Genre = "Contemporary Christian"
	GenreHymn                  Genre = "Hymn"
	GenreOther                 Genre = "Other"
)

// Genres lists every accepted genre.
var Genres = []Genre{
	GenreWorship,
	GenreGospel,
	GenreChristianRock,
	GenreContemporaryChristian,
	GenreHymn,
	GenreOther,
}

func (g Genre) Valid() bool {
	for _, v := range Genres {
		if g == v {
			return true
		}
	}
	return false
}

type Song struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"not null" json:"name" validate:"required"`
	Author    string     `gorm:"not null" json:"author" validate:"required"`
	SongImage string     `gorm:"not null" json:"songImage"`
	SongURL   string     `gorm:"column:song_url;not null" json:"songUrl" validate:"required"`
	AlbumID   *uuid.UUID `gorm:"type:uuid;index" json:"albumId"`
	Genre     Genre      `gorm:"size:64;not null;default:'Other'" json:"genre" validate:"genre"`
	Duration  int        `gorm:"not null;default:0" json:"duration" validate:"gte=0"`
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null;index" json:"createdBy" validate:"required"`
	CreatedAt time.Time  `json:"createdAt"`

	// Soft reference, filled only when expanded. A dangling id stays nil.
	Album *Album `gorm:"foreignKey:AlbumID" json:"album" validate:"-"`
}

func (s *Song) Kind() Kind            { return KindSong }
func (s *Song) DocumentID() uuid.UUID { return s.ID }

func (s *Song) Prepare(now time.Time) {
	prepareID(&s.ID, &s.CreatedAt, now)
	s.Name = strings.TrimSpace(s.Name)
	defaultString(&s.SongImage, DefaultSongImage)
	if s.Genre == "" {
		s.Genre = GenreOther
	}
}

func (s *Song) RefList(ListField) (*RefList, bool) { return nil, false }

func (s *Song) Clone() *Song {
	cp := *s
	if s.AlbumID != nil {
		id := *s.AlbumID
		cp.AlbumID = &id
	}
	cp.Album = nil
	return &cp
}
