package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null" json:"username" validate:"required,min=3"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email" validate:"required,emailaddr"`
	Password       string    `gorm:"not null" json:"-" validate:"required"`
	LikeSongIDs    RefList   `gorm:"column:like_song_ids;type:jsonb;not null;default:'[]'" json:"likeSongId" validate:"dive,required"`
	LikeAlbumIDs   RefList   `gorm:"column:like_album_ids;type:jsonb;not null;default:'[]'" json:"likeAlbumId" validate:"dive,required"`
	LikePodcastIDs RefList   `gorm:"column:like_podcast_ids;type:jsonb;not null;default:'[]'" json:"likePodcastId" validate:"dive,required"`
	PlaylistIDs    RefList   `gorm:"column:playlist_ids;type:jsonb;not null;default:'[]'" json:"playlistId" validate:"dive,required"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (u *User) Kind() Kind            { return KindUser }
func (u *User) DocumentID() uuid.UUID { return u.ID }

func (u *User) Prepare(now time.Time) {
	prepareID(&u.ID, &u.CreatedAt, now)
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	prepareList(&u.LikeSongIDs)
	prepareList(&u.LikeAlbumIDs)
	prepareList(&u.LikePodcastIDs)
	prepareList(&u.PlaylistIDs)
}

func (u *User) RefList(field ListField) (*RefList, bool) {
	switch field {
	case FieldLikeSongs:
		return &u.LikeSongIDs, true
	case FieldLikeAlbums:
		return &u.LikeAlbumIDs, true
	case FieldLikePodcasts:
		return &u.LikePodcastIDs, true
	case FieldPlaylists:
		return &u.PlaylistIDs, true
	}
	return nil, false
}

// Clone returns a deep copy.
func (u *User) Clone() *User {
	cp := *u
	cp.LikeSongIDs = cloneList(u.LikeSongIDs)
	cp.LikeAlbumIDs = cloneList(u.LikeAlbumIDs)
	cp.LikePodcastIDs = cloneList(u.LikePodcastIDs)
	cp.PlaylistIDs = cloneList(u.PlaylistIDs)
	return &cp
}
