// Package router assembles the gin engine: ambient middleware, the /api
// routes, health, metrics and the API docs.
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jesusmusic/backend/internal/config"
	"github.com/jesusmusic/backend/internal/handlers"
	"github.com/jesusmusic/backend/internal/logging"
	"github.com/jesusmusic/backend/internal/middleware"
	"github.com/jesusmusic/backend/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/jesusmusic/backend/docs"
)

// Deps are the services the routes call into.
type Deps struct {
	Config  *config.Config
	Redis   *redis.Client
	Auth    *services.AuthService
	Links   *services.LinkService
	Catalog *services.CatalogService
	// Health reports backend readiness; nil means always healthy.
	Health func(*gin.Context) error
}

// New builds the HTTP handler.
func New(d Deps) *gin.Engine {
	if d.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		recovery(d.Config.IsProduction()),
		middleware.PrometheusMetrics(),
		middleware.CORS(d.Config),
	)

	production := d.Config.IsProduction()
	authHandler := handlers.NewAuthHandler(d.Auth, production)
	musicHandler := handlers.NewMusicHandler(d.Links, d.Catalog, production)
	catalogHandler := handlers.NewCatalogHandler(d.Catalog, d.Links, production)
	protected := middleware.Auth(d.Auth)

	r.GET("/health", health(d.Health))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/api-docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/api-docs/index.html")
	})
	r.GET("/api-docs/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL("/api-docs/doc.json"),
	)))

	api := r.Group("/api")
	api.Use(middleware.RateLimiter(d.Redis, d.Config))
	{
		auth := api.Group("/auth")
		{
			limited := auth.Group("", middleware.AuthRateLimit(d.Redis, d.Config))
			limited.POST("/register", authHandler.Register)
			limited.POST("/login", authHandler.Login)
			limited.POST("/refresh", authHandler.Refresh)

			auth.POST("/logout", protected, authHandler.Logout)
			auth.GET("/me", protected, authHandler.Me)
		}

		music := api.Group("/music")
		{
			music.GET("/songs", catalogHandler.ListSongs)
			music.GET("/songs/:id", catalogHandler.GetSong)
			music.GET("/albums", catalogHandler.ListAlbums)
			music.GET("/albums/:id", catalogHandler.GetAlbum)
			music.GET("/podcasts", catalogHandler.ListPodcasts)
			music.GET("/podcasts/:id", catalogHandler.GetPodcast)
			music.GET("/playlist/:id", musicHandler.GetPlaylist)

			authed := music.Group("", protected)
			authed.POST("/favorites/song", musicHandler.AddFavoriteSong)
			authed.POST("/favorites/album", musicHandler.AddFavoriteAlbum)
			authed.POST("/favorites/podcast", musicHandler.AddFavoritePodcast)
			authed.GET("/favorites", musicHandler.GetFavorites)

			authed.POST("/playlist", musicHandler.CreatePlaylist)
			authed.GET("/playlists", musicHandler.ListMyPlaylists)
			authed.POST("/playlist/:id/songs", musicHandler.AddSongToPlaylist)

			authed.POST("/songs", catalogHandler.CreateSong)
			authed.POST("/albums", catalogHandler.CreateAlbum)
			authed.POST("/albums/:id/songs", catalogHandler.AddSongToAlbum)
			authed.POST("/podcasts", catalogHandler.CreatePodcast)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "fail",
			"message": fmt.Sprintf("Can't find %s on this server!", c.Request.URL.RequestURI()),
		})
	})

	return r
}

func recovery(production bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.Ctx(c.Request.Context()).Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")

		body := gin.H{
			"status":  "error",
			"message": "Something went wrong!",
		}
		if !production {
			body["error"] = fmt.Sprint(recovered)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, body)
	})
}

func health(check func(*gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
