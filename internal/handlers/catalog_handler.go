package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jesusmusic/backend/internal/apperrors"
	"github.com/jesusmusic/backend/internal/middleware"
	"github.com/jesusmusic/backend/internal/services"
)

// CatalogHandler serves songs, albums and podcasts.
type CatalogHandler struct {
	responder
	catalogService *services.CatalogService
	linkService    *services.LinkService
}

func NewCatalogHandler(catalogService *services.CatalogService, linkService *services.LinkService, production bool) *CatalogHandler {
	return &CatalogHandler{
		responder:      responder{production: production},
		catalogService: catalogService,
		linkService:    linkService,
	}
}

// ListSongs returns every song with its album expanded
//
//	@Summary	Get all songs
//	@Tags		Songs
//	@Produce	json
//	@Success	200	{object}	SuccessResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/music/songs [get]
func (h *CatalogHandler) ListSongs(c *gin.Context) {
	songs, err := h.catalogService.ListSongs(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to fetch songs", err)
		return
	}
	h.success(c, http.StatusOK, gin.H{"songs": songs})
}

// GetSong returns one song
//
//	@Summary	Get a song
//	@Tags		Songs
//	@Produce	json
//	@Param		id	path		string	true	"Song id"
//	@Success	200	{object}	SuccessResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/music/songs/{id} [get]
func (h *CatalogHandler) GetSong(c *gin.Context) {
	song, err := h.catalogService.GetSong(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to fetch song", err)
		return
	}
	h.success(c, http.StatusOK, gin.H{"song": song})
}

// CreateSong stores a song uploaded by the caller
//
//	@Summary	Create a song
//	@Tags		Songs
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		services.SongInput	true	"Song"
//	@Success	201		{object}	SuccessResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/music/songs [post]
func (h *CatalogHandler) CreateSong(c *gin.Context) {
	const msg = "Failed to create song"
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		h.fail(c, msg, apperrors.Authentication("not logged in"))
		return
	}
	var in services.SongInput
	if err := bind(c, &in); err != nil {
		h.fail(c, msg, err)
		return
	}

	song, err := h.catalogService.CreateSong(c.Request.Context(), caller, in)
	if err != nil {
		h.fail(c, msg, err)
		return
	}
	h.success(c, http.StatusCreated, gin.H{"song": song})
}

// ListAlbums returns every album
//
//	@Summary	Get all albums
//	@Tags		Albums
//	@Produce	json
//	@Success	200	{object}	SuccessResponse
//	@Router		/music/albums [get]
func (h *CatalogHandler) ListAlbums(c *gin.Context) {
	albums, err := h.catalogService.ListAlbums(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to fetch albums", err)
		return
	}
	h.success(c, http.StatusOK, gin.H{"albums": albums})
}

// GetAlbum returns one album
//
//	@Summary	Get an album
//	@Tags		Albums
//	@Produce	json
//	@Param		id	path		string	true	"Album id"
//	@Success	200	{object}	SuccessResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/music/albums/{id} [get]
func (h *CatalogHandler) GetAlbum(c *gin.Context) {
	album, err := h.catalogService.GetAlbum(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to fetch album", err)
		return
	}
	h.success(c, http.StatusOK, gin.H{"album": album})
}

// CreateAlbum stores an album
//
//	@Summary	Create an album
//	@Tags		Albums
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		services.CollectionInput	true	"Album"
//	@Success	201		{object}	SuccessResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/music/albums [post]
func (h *CatalogHandler) CreateAlbum(c *gin.Context) {
	var in services.CollectionInput
	if err := bind(c, &in); err != nil {
		h.fail(c, "Failed to create album", err)
		return
	}

	album, err := h.catalogService.CreateAlbum(c.Request.Context(), in)
	if err != nil {
		h.fail(c, "Failed to create album", err)
		return
	}
	h.success(c, http.StatusCreated, gin.H{"album": album})
}

// AddSongToAlbum appends a song to an album and points the song back at it
//
//	@Summary	Add a song to an album
//	@Tags		Albums
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Album id"
//	@Param		body	body		songRefRequest	true	"Song"
//	@Success	200		{object}	SuccessResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/music/albums/{id}/songs [post]
func (h *CatalogHandler) AddSongToAlbum(c *gin.Context) {
	const msg = "Failed to add song to album"
	var req songRefRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, msg, err)
		return
	}

	album, err := h.linkService.AddSongToAlbum(c.Request.Context(), c.Param("id"), req.SongID)
	if err != nil {
		h.fail(c, msg, err)
		return
	}
	h.success(c, http.StatusOK, gin.H{"album": album})
}

// ListPodcasts returns every podcast
//
//	@Summary	Get all podcasts
//	@Tags		Podcasts
//	@Produce	json
//	@Success	200	{object}	SuccessResponse
//	@Router		/music/podcasts [get]
func (h *CatalogHandler) ListPodcasts(c *gin.Context) {
	podcasts, err := h.catalogService.ListPodcasts(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to fetch podcasts", err)
		return
	}
	h.success(c, http.StatusOK, gin.H{"podcasts": podcasts})
}

// GetPodcast returns one podcast
//
//	@Summary	Get a podcast
//	@Tags		Podcasts
//	@Produce	json
//	@Param		id	path		string	true	"Podcast id"
//	@Success	200	{object}	SuccessResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/music/podcasts/{id} [get]
func (h *CatalogHandler) GetPodcast(c *gin.Context) {
	podcast, err := h.catalogService.GetPodcast(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to fetch podcast", err)
		return
	}
	h.success(c, http.StatusOK, gin.H{"podcast": podcast})
}

// CreatePodcast stores a podcast
//
//	@Summary	Create a podcast
//	@Tags		Podcasts
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		services.CollectionInput	true	"Podcast"
//	@Success	201		{object}	SuccessResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/music/podcasts [post]
func (h *CatalogHandler) CreatePodcast(c *gin.Context) {
	var in services.CollectionInput
	if err := bind(c, &in); err != nil {
		h.fail(c, "Failed to create podcast", err)
		return
	}

	podcast, err := h.catalogService.CreatePodcast(c.Request.Context(), in)
	if err != nil {
		h.fail(c, "Failed to create podcast", err)
		return
	}
	h.success(c, http.StatusCreated, gin.H{"podcast": podcast})
}
