package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/jesusmusic/backend/internal/apperrors"
	"github.com/jesusmusic/backend/internal/models"
	"github.com/jesusmusic/backend/internal/store"
)

// CatalogService creates and reads songs, albums, playlists and podcasts.
type CatalogService struct {
	store     *store.Store
	batchSize int
}

// NewCatalogService lists documents batchSize at a time; a non-positive size
// keeps the store default.
func NewCatalogService(s *store.Store, batchSize int) *CatalogService {
	return &CatalogService{store: s, batchSize: batchSize}
}

// SongInput carries the client-settable song fields.
type SongInput struct {
	Name      string       `json:"name"`
	Author    string       `json:"author"`
	SongImage string       `json:"songImage"`
	SongURL   string       `json:"songUrl"`
	AlbumID   string       `json:"albumId"`
	Genre     models.Genre `json:"genre"`
	Duration  int          `json:"duration"`
}

// CollectionInput carries the client-settable album, playlist and podcast fields.
type CollectionInput struct {
	Name      string   `json:"name"`
	Author    string   `json:"author"`
	SongImage string   `json:"songImage"`
	SongURL   string   `json:"songUrl"`
	SongIDs   []string `json:"songIds"`
}

// CreateSong stores a song created by caller.
func (s *CatalogService) CreateSong(ctx context.Context, caller Identity, in SongInput) (*models.Song, error) {
	var albumID *uuid.UUID
	if in.AlbumID != "" {
		id, err := uuid.Parse(in.AlbumID)
		if err != nil {
			return nil, apperrors.Validation(apperrors.FieldError{
				Field:   "albumId",
				Rule:    "uuid",
				Message: "albumId must be a valid id",
			})
		}
		albumID = &id
	}

	song := &models.Song{
		Name:      in.Name,
		Author:    in.Author,
		SongImage: in.SongImage,
		SongURL:   in.SongURL,
		AlbumID:   albumID,
		Genre:     in.Genre,
		Duration:  in.Duration,
		CreatedBy: caller.UserID,
	}
	if err := s.store.Songs.Create(ctx, song); err != nil {
		return nil, err
	}
	return song, nil
}

// ListSongs returns every song with its album expanded.
func (s *CatalogService) ListSongs(ctx context.Context) ([]*models.Song, error) {
	return store.Collect(s.store.Songs.FindAll(ctx, store.BatchSize(s.batchSize), store.Expand(store.ExpandAlbum)))
}

func (s *CatalogService) GetSong(ctx context.Context, id string) (*models.Song, error) {
	return s.store.Songs.FindByID(ctx, id, store.Expand(store.ExpandAlbum))
}

func (s *CatalogService) CreateAlbum(ctx context.Context, in CollectionInput) (*models.Album, error) {
	album := &models.Album{
		Name:      in.Name,
		Author:    in.Author,
		SongImage: in.SongImage,
		SongURL:   in.SongURL,
		SongIDs:   models.RefList(in.SongIDs),
	}
	if err := s.store.Albums.Create(ctx, album); err != nil {
		return nil, err
	}
	return album, nil
}

func (s *CatalogService) ListAlbums(ctx context.Context) ([]*models.Album, error) {
	return store.Collect(s.store.Albums.FindAll(ctx, store.BatchSize(s.batchSize)))
}

func (s *CatalogService) GetAlbum(ctx context.Context, id string) (*models.Album, error) {
	return s.store.Albums.FindByID(ctx, id)
}

func (s *CatalogService) CreatePodcast(ctx context.Context, in CollectionInput) (*models.Podcast, error) {
	podcast := &models.Podcast{
		Name:      in.Name,
		Author:    in.Author,
		SongImage: in.SongImage,
		SongURL:   in.SongURL,
		SongIDs:   models.RefList(in.SongIDs),
	}
	if err := s.store.Podcasts.Create(ctx, podcast); err != nil {
		return nil, err
	}
	return podcast, nil
}

func (s *CatalogService) ListPodcasts(ctx context.Context) ([]*models.Podcast, error) {
	return store.Collect(s.store.Podcasts.FindAll(ctx, store.BatchSize(s.batchSize)))
}

func (s *CatalogService) GetPodcast(ctx context.Context, id string) (*models.Podcast, error) {
	return s.store.Podcasts.FindByID(ctx, id)
}

func (s *CatalogService) GetPlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	return s.store.Playlists.FindByID(ctx, id)
}

// UserPlaylists returns the playlists owned by userID, skipping dangling ids.
func (s *CatalogService) UserPlaylists(ctx context.Context, userID uuid.UUID) ([]*models.Playlist, error) {
	user, err := s.store.Users.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	return resolve(ctx, s.store.Playlists, user.PlaylistIDs)
}
