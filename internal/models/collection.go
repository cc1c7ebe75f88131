package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultAlbumImage    = "default-album-image.jpg"
	DefaultPlaylistImage = "default-playlist-image.jpg"
	DefaultPodcastImage  = "default-podcast-image.jpg"
)

// Album, Playlist and Podcast share the same shape: a named, authored,
// ordered list of song ids.

type Album struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name" validate:"required"`
	Author    string    `gorm:"not null" json:"author" validate:"required"`
	SongImage string    `gorm:"not null" json:"songImage"`
	SongURL   string    `gorm:"column:song_url" json:"songUrl,omitempty"`
	SongIDs   RefList   `gorm:"column:song_ids;type:jsonb;not null;default:'[]'" json:"songIds" validate:"dive,required"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a *Album) Kind() Kind            { return KindAlbum }
func (a *Album) DocumentID() uuid.UUID { return a.ID }

func (a *Album) Prepare(now time.Time) {
	prepareID(&a.ID, &a.CreatedAt, now)
	a.Name = strings.TrimSpace(a.Name)
	defaultString(&a.SongImage, DefaultAlbumImage)
	prepareList(&a.SongIDs)
}

func (a *Album) RefList(field ListField) (*RefList, bool) {
	if field == FieldSongIDs {
		return &a.SongIDs, true
	}
	return nil, false
}

func (a *Album) Clone() *Album {
	cp := *a
	cp.SongIDs = cloneList(a.SongIDs)
	return &cp
}

type Playlist struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name" validate:"required"`
	Author    string    `gorm:"not null" json:"author" validate:"required"`
	SongImage string    `gorm:"not null" json:"songImage"`
	SongURL   string    `gorm:"column:song_url" json:"songUrl,omitempty"`
	SongIDs   RefList   `gorm:"column:song_ids;type:jsonb;not null;default:'[]'" json:"songIds" validate:"dive,required"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p *Playlist) Kind() Kind            { return KindPlaylist }
func (p *Playlist) DocumentID() uuid.UUID { return p.ID }

func (p *Playlist) Prepare(now time.Time) {
	prepareID(&p.ID, &p.CreatedAt, now)
	p.Name = strings.TrimSpace(p.Name)
	defaultString(&p.SongImage, DefaultPlaylistImage)
	prepareList(&p.SongIDs)
}

func (p *Playlist) RefList(field ListField) (*RefList, bool) {
	if field == FieldSongIDs {
		return &p.SongIDs, true
	}
	return nil, false
}

func (p *Playlist) Clone() *Playlist {
	cp := *p
	cp.SongIDs = cloneList(p.SongIDs)
	return &cp
}

type Podcast struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name" validate:"required"`
	Author    string    `gorm:"not null" json:"author" validate:"required"`
	SongImage string    `gorm:"not null" json:"songImage"`
	SongURL   string    `gorm:"column:song_url;not null" json:"songUrl" validate:"required"`
	SongIDs   RefList   `gorm:"column:song_ids;type:jsonb;not null;default:'[]'" json:"songIds" validate:"dive,required"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p *Podcast) Kind() Kind            { return KindPodcast }
func (p *Podcast) DocumentID() uuid.UUID { return p.ID }

func (p *Podcast) Prepare(now time.Time) {
	prepareID(&p.ID, &p.CreatedAt, now)
	p.Name = strings.TrimSpace(p.Name)
	defaultString(&p.SongImage, DefaultPodcastImage)
	prepareList(&p.SongIDs)
}

func (p *Podcast) RefList(field ListField) (*RefList, bool) {
	if field == FieldSongIDs {
		return &p.SongIDs, true
	}
	return nil, false
}

func (p *Podcast) Clone() *Podcast {
	cp := *p
	cp.SongIDs = cloneList(p.SongIDs)
	return &cp
}
