package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/jesusmusic/backend/internal/apperrors"
	"github.com/jesusmusic/backend/internal/logging"
	"github.com/jesusmusic/backend/internal/metrics"
	"github.com/jesusmusic/backend/internal/models"
	"github.com/jesusmusic/backend/internal/store"
)

// LinkService maintains the reference lists that tie documents together.
// Operations spanning two documents are not atomic: the first write stays
// when the second fails, and the error is returned unchanged.
type LinkService struct {
	store *store.Store
}

func NewLinkService(s *store.Store) *LinkService {
	return &LinkService{store: s}
}

// LinkFavoriteSong adds songID to the user's liked songs and returns the
// updated list. The song is not required to exist.
func (s *LinkService) LinkFavoriteSong(ctx context.Context, userID uuid.UUID, songID string) ([]string, error) {
	return s.linkFavorite(ctx, "favorite_song", userID, models.FieldLikeSongs, songID)
}

func (s *LinkService) LinkFavoriteAlbum(ctx context.Context, userID uuid.UUID, albumID string) ([]string, error) {
	return s.linkFavorite(ctx, "favorite_album", userID, models.FieldLikeAlbums, albumID)
}

func (s *LinkService) LinkFavoritePodcast(ctx context.Context, userID uuid.UUID, podcastID string) ([]string, error) {
	return s.linkFavorite(ctx, "favorite_podcast", userID, models.FieldLikePodcasts, podcastID)
}

func (s *LinkService) linkFavorite(ctx context.Context, op string, userID uuid.UUID, field models.ListField, ref string) (list []string, err error) {
	defer func() { metrics.RecordLink(op, err) }()

	user, err := s.store.Users.AddToSet(ctx, userID.String(), field, ref)
	if err != nil {
		return nil, err
	}
	l, _ := user.RefList(field)
	return *l, nil
}

// CreatePlaylistAndLink creates a playlist authored by the caller and records
// it in the caller's playlists.
func (s *LinkService) CreatePlaylistAndLink(ctx context.Context, caller Identity, name string, songIDs []string) (playlist *models.Playlist, err error) {
	defer func() { metrics.RecordLink("create_playlist", err) }()

	playlist = &models.Playlist{
		Name:    name,
		Author:  caller.Username,
		SongIDs: models.RefList(songIDs),
	}
	if err := s.store.Playlists.Create(ctx, playlist); err != nil {
		return nil, err
	}

	if _, err := s.store.Users.AddToSet(ctx, caller.UserID.String(), models.FieldPlaylists, playlist.ID.String()); err != nil {
		logging.Ctx(ctx).Error().
			Err(err).
			Str("playlist_id", playlist.ID.String()).
			Str("user_id", caller.UserID.String()).
			Msg("Playlist created but not linked to owner")
		return nil, err
	}
	return playlist, nil
}

// AddSongToPlaylist appends songID to a playlist the caller owns.
func (s *LinkService) AddSongToPlaylist(ctx context.Context, caller Identity, playlistID, songID string) (playlist *models.Playlist, err error) {
	defer func() { metrics.RecordLink("playlist_add_song", err) }()

	if err := s.requireOwner(ctx, caller, playlistID); err != nil {
		return nil, err
	}
	return s.store.Playlists.AddToSet(ctx, playlistID, models.FieldSongIDs, songID)
}

func (s *LinkService) requireOwner(ctx context.Context, caller Identity, playlistID string) error {
	if _, err := s.store.Playlists.FindByID(ctx, playlistID); err != nil {
		return err
	}
	user, err := s.store.Users.FindByID(ctx, caller.UserID.String())
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return apperrors.Authentication("account no longer exists")
		}
		return err
	}
	if !models.ContainsRef(user.PlaylistIDs, playlistID) {
		return apperrors.Forbidden("only the playlist owner can change it")
	}
	return nil
}

// AddSongToAlbum appends songID to the album and points the song back at it.
func (s *LinkService) AddSongToAlbum(ctx context.Context, albumID, songID string) (album *models.Album, err error) {
	defer func() { metrics.RecordLink("album_add_song", err) }()

	song, err := s.store.Songs.FindByID(ctx, songID)
	if err != nil {
		return nil, err
	}
	album, err = s.store.Albums.AddToSet(ctx, albumID, models.FieldSongIDs, songID)
	if err != nil {
		return nil, err
	}

	song.AlbumID = &album.ID
	if err := s.store.Songs.Save(ctx, song); err != nil {
		logging.Ctx(ctx).Error().
			Err(err).
			Str("album_id", albumID).
			Str("song_id", songID).
			Msg("Song added to album but back-reference not saved")
		return nil, err
	}
	return album, nil
}

// Favorites holds the documents a user's reference lists point at.
type Favorites struct {
	Songs     []*models.Song     `json:"songs"`
	Albums    []*models.Album    `json:"albums"`
	Podcasts  []*models.Podcast  `json:"podcasts"`
	Playlists []*models.Playlist `json:"playlists"`
}

// Favorites resolves the user's liked songs, albums and podcasts and their
// playlists. Dangling ids are skipped.
func (s *LinkService) Favorites(ctx context.Context, userID uuid.UUID) (*Favorites, error) {
	user, err := s.store.Users.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	fav := &Favorites{}
	if fav.Songs, err = resolve(ctx, s.store.Songs, user.LikeSongIDs, store.Expand(store.ExpandAlbum)); err != nil {
		return nil, err
	}
	if fav.Albums, err = resolve(ctx, s.store.Albums, user.LikeAlbumIDs); err != nil {
		return nil, err
	}
	if fav.Podcasts, err = resolve(ctx, s.store.Podcasts, user.LikePodcastIDs); err != nil {
		return nil, err
	}
	if fav.Playlists, err = resolve(ctx, s.store.Playlists, user.PlaylistIDs); err != nil {
		return nil, err
	}
	return fav, nil
}

func resolve[T any](ctx context.Context, c store.Collection[T], ids []string, opts ...store.FindOption) ([]*T, error) {
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		doc, err := c.FindByID(ctx, id, opts...)
		if apperrors.Is(err, apperrors.KindNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}
