package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jesusmusic/backend/internal/apperrors"
	"github.com/jesusmusic/backend/internal/logging"
	"github.com/jesusmusic/backend/internal/services"
	jwtpkg "github.com/jesusmusic/backend/pkg/jwt"
)

const (
	identityKey = "identity"
	claimsKey   = "claims"
)

// Auth rejects requests without a valid bearer access token. On success the
// caller's identity is available through GetIdentity.
func Auth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "You are not logged in! Please log in to get access.")
			return
		}

		claims, err := authService.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			if !apperrors.Is(err, apperrors.KindAuthentication) {
				logging.Ctx(c.Request.Context()).Error().Err(err).Msg("Token verification failed")
			}
			abortUnauthorized(c, "Invalid or expired token. Please log in again.")
			return
		}

		c.Set(claimsKey, claims)
		c.Set(identityKey, services.IdentityFromClaims(claims))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  "error",
		"message": message,
	})
}

// GetIdentity returns the identity set by Auth.
func GetIdentity(c *gin.Context) (services.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return services.Identity{}, false
	}
	id, ok := v.(services.Identity)
	return id, ok
}

// GetClaims returns the verified token claims set by Auth.
func GetClaims(c *gin.Context) (*jwtpkg.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwtpkg.Claims)
	return claims, ok
}
