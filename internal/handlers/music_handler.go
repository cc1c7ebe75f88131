package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jesusmusic/backend/internal/apperrors"
	"github.com/jesusmusic/backend/internal/middleware"
	"github.com/jesusmusic/backend/internal/models"
	"github.com/jesusmusic/backend/internal/services"
)

// MusicHandler serves favorites and playlists, the operations that link a
// user to other documents.
type MusicHandler struct {
	responder
	linkService    *services.LinkService
	catalogService *services.CatalogService
}

func NewMusicHandler(linkService *services.LinkService, catalogService *services.CatalogService, production bool) *MusicHandler {
	return &MusicHandler{
		responder:      responder{production: production},
		linkService:    linkService,
		catalogService: catalogService,
	}
}

type favoriteSongRequest struct {
	SongID string `json:"songId" validate:"required"`
}

type favoriteAlbumRequest struct {
	AlbumID string `json:"albumId" validate:"required"`
}

type favoritePodcastRequest struct {
	PodcastID string `json:"podcastId" validate:"required"`
}

type playlistRequest struct {
	Name    string   `json:"name" validate:"required"`
	SongIDs []string `json:"songIds" validate:"dive,required"`
}

type songRefRequest struct {
	SongID string `json:"songId" validate:"required"`
}

func (h *MusicHandler) caller(c *gin.Context, message string) (services.Identity, bool) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		h.fail(c, message, apperrors.Authentication("not logged in"))
	}
	return id, ok
}

// AddFavoriteSong adds a song to the caller's favorites
//
//	@Summary	Add a song to user's favorites
//	@Tags		Favorites
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		favoriteSongRequest	true	"Song"
//	@Success	200		{object}	SuccessResponse
//	@Failure	401		{object}	ErrorResponse
//	@Failure	500		{object}	ErrorResponse
//	@Router		/music/favorites/song [post]
func (h *MusicHandler) AddFavoriteSong(c *gin.Context) {
	const msg = "Failed to add song to favorites"
	caller, ok := h.caller(c, msg)
	if !ok {
		return
	}
	var req favoriteSongRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, msg, err)
		return
	}

	list, err := h.linkService.LinkFavoriteSong(c.Request.Context(), caller.UserID, req.SongID)
	if err != nil {
		h.fail(c, msg, err)
		return
	}
	h.success(c, http.StatusOK, gin.H{string(models.FieldLikeSongs): list})
}

// AddFavoriteAlbum adds an album to the caller's favorites
//
//	@Summary	Add an album to user's favorites
//	@Tags		Favorites
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		favoriteAlbumRequest	true	"Album"
//	@Success	200		{object}	SuccessResponse
//	@Router		/music/favorites/album [post]
func (h *MusicHandler) AddFavoriteAlbum(c *gin.Context) {
	const msg = "Failed to add album to favorites"
	caller, ok := h.caller(c, msg)
	if !ok {
		return
	}
	var req favoriteAlbumRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, msg, err)
		return
	}

	list, err := h.linkService.LinkFavoriteAlbum(c.Request.Context(), caller.UserID, req.AlbumID)
	if err != nil {
		h.fail(c, msg, err)
		return
	}
	h.success(c, http.StatusOK, gin.H{string(models.FieldLikeAlbums): list})
}

// AddFavoritePodcast adds a podcast to the caller's favorites
//
//	@Summary	Add a podcast to user's favorites
//	@Tags		Favorites
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		favoritePodcastRequest	true	"Podcast"
//	@Success	200		{object}	SuccessResponse
//	@Router		/music/favorites/podcast [post]
func (h *MusicHandler) AddFavoritePodcast(c *gin.Context) {
	const msg = "Failed to add podcast to favorites"
	caller, ok := h.caller(c, msg)
	if !ok {
		return
	}
	var req favoritePodcastRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, msg, err)
		return
	}

	list, err := h.linkService.LinkFavoritePodcast(c.Request.Context(), caller.UserID, req.PodcastID)
	if err != nil {
		h.fail(c, msg, err)
		return
	}
	h.success(c, http.StatusOK, gin.H{string(models.FieldLikePodcasts): list})
}

// GetFavorites resolves everything the caller liked, plus their playlists
//
//	@Summary	List user's favorites
//	@Tags		Favorites
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	SuccessResponse
//	@Router		/music/favorites [get]
func (h *MusicHandler) GetFavorites(c *gin.Context) {
	const msg = "Failed to fetch favorites"
	caller, ok := h.caller(c, msg)
	if !ok {
		return
	}

	fav, err := h.linkService.Favorites(c.Request.Context(), caller.UserID)
	if err != nil {
		h.fail(c, msg, err)
		return
	}
	h.success(c, http.StatusOK, fav)
}

// CreatePlaylist creates a playlist owned by the caller
//
//	@Summary	Create a new playlist
//	@Tags		Playlist
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		playlistRequest	true	"Playlist"
//	@Success	201		{object}	SuccessResponse
//	@Failure	401		{object}	ErrorResponse
//	@Failure	500		{object}	ErrorResponse
//	@Router		/music/playlist [post]
func (h *MusicHandler) CreatePlaylist(c *gin.Context) {
	const msg = "Failed to create playlist"
	caller, ok := h.caller(c, msg)
	if !ok {
		return
	}
	var req playlistRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, msg, err)
		return
	}

	playlist, err := h.linkService.CreatePlaylistAndLink(c.Request.Context(), caller, req.Name, req.SongIDs)
	if err != nil {
		h.fail(c, msg, err)
		return
	}
	h.success(c, http.StatusCreated, gin.H{"playlist": playlist})
}

// ListMyPlaylists returns the caller's playlists
//
//	@Summary	List user's playlists
//	@Tags		Playlist
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	SuccessResponse
//	@Router		/music/playlists [get]
func (h *MusicHandler) ListMyPlaylists(c *gin.Context) {
	const msg = "Failed to fetch playlists"
	caller, ok := h.caller(c, msg)
	if !ok {
		return
	}

	playlists, err := h.catalogService.UserPlaylists(c.Request.Context(), caller.UserID)
	if err != nil {
		h.fail(c, msg, err)
		return
	}
	h.success(c, http.StatusOK, gin.H{"playlists": playlists})
}

// GetPlaylist returns one playlist
//
//	@Summary	Get a playlist
//	@Tags		Playlist
//	@Produce	json
//	@Param		id	path		string	true	"Playlist id"
//	@Success	200	{object}	SuccessResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/music/playlist/{id} [get]
func (h *MusicHandler) GetPlaylist(c *gin.Context) {
	playlist, err := h.catalogService.GetPlaylist(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to fetch playlist", err)
		return
	}
	h.success(c, http.StatusOK, gin.H{"playlist": playlist})
}

// AddSongToPlaylist appends a song to a playlist the caller owns
//
//	@Summary	Add a song to a playlist
//	@Tags		Playlist
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Playlist id"
//	@Param		body	body		songRefRequest	true	"Song"
//	@Success	200		{object}	SuccessResponse
//	@Failure	403		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/music/playlist/{id}/songs [post]
func (h *MusicHandler) AddSongToPlaylist(c *gin.Context) {
	const msg = "Failed to add song to playlist"
	caller, ok := h.caller(c, msg)
	if !ok {
		return
	}
	var req songRefRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, msg, err)
		return
	}

	playlist, err := h.linkService.AddSongToPlaylist(c.Request.Context(), caller, c.Param("id"), req.SongID)
	if err != nil {
		h.fail(c, msg, err)
		return
	}
	h.success(c, http.StatusOK, gin.H{"playlist": playlist})
}
