package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jesusmusic/backend/internal/apperrors"
	"github.com/jesusmusic/backend/internal/config"
	"github.com/jesusmusic/backend/internal/logging"
	"github.com/jesusmusic/backend/internal/metrics"
	"github.com/jesusmusic/backend/internal/models"
	"github.com/jesusmusic/backend/internal/store"
	"github.com/jesusmusic/backend/pkg/crypto"
	jwtpkg "github.com/jesusmusic/backend/pkg/jwt"
	"github.com/jesusmusic/backend/pkg/validation"
)

// Identity is the verified caller of a protected request.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

type AuthService struct {
	users     store.UserCollection
	blacklist TokenBlacklist
	cfg       *config.Config
}

func NewAuthService(users store.UserCollection, blacklist TokenBlacklist, cfg *config.Config) *AuthService {
	if blacklist == nil {
		blacklist = NopBlacklist{}
	}
	return &AuthService{
		users:     users,
		blacklist: blacklist,
		cfg:       cfg,
	}
}

// Tokens is an issued access/refresh pair.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// Register creates a new user account and signs it in.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (user *models.User, tokens Tokens, err error) {
	defer func() { metrics.RecordAuth("register", err) }()

	if err := validation.ValidatePassword(password); err != nil {
		return nil, Tokens{}, err
	}

	hashedPassword, err := crypto.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, Tokens{}, apperrors.Wrap("hash password", err)
	}

	user = &models.User{
		Username: validation.SanitizeString(username),
		Email:    validation.SanitizeString(email),
		Password: hashedPassword,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, Tokens{}, err
	}

	tokens, err = s.issue(user)
	if err != nil {
		return nil, Tokens{}, err
	}
	logging.Ctx(ctx).Info().Str("user_id", user.ID.String()).Msg("User registered")
	return user, tokens, nil
}

// Login authenticates by username or email and returns a token pair.
func (s *AuthService) Login(ctx context.Context, login, password string) (user *models.User, tokens Tokens, err error) {
	defer func() { metrics.RecordAuth("login", err) }()

	login = validation.SanitizeString(login)
	if login == "" || password == "" {
		return nil, Tokens{}, apperrors.Authentication("invalid credentials")
	}

	// Usernames may contain "@" too, so an email miss falls back to username.
	if strings.Contains(login, "@") {
		user, err = s.users.FindByEmail(ctx, login)
	}
	if user == nil && (err == nil || apperrors.Is(err, apperrors.KindNotFound)) {
		user, err = s.users.FindByUsername(ctx, login)
	}
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil, Tokens{}, apperrors.Authentication("invalid credentials")
		}
		return nil, Tokens{}, err
	}

	if !crypto.CheckPassword(password, user.Password) {
		return nil, Tokens{}, apperrors.Authentication("invalid credentials")
	}

	tokens, err = s.issue(user)
	if err != nil {
		return nil, Tokens{}, err
	}
	return user, tokens, nil
}

func (s *AuthService) issue(user *models.User) (Tokens, error) {
	accessToken, err := jwtpkg.GenerateToken(user.ID.String(), user.Username, jwtpkg.AccessToken, s.cfg.JWTSecret, s.cfg.JWTAccessTokenDuration)
	if err != nil {
		return Tokens{}, apperrors.Wrap("sign access token", err)
	}
	refreshToken, err := jwtpkg.GenerateToken(user.ID.String(), user.Username, jwtpkg.RefreshToken, s.cfg.JWTSecret, s.cfg.JWTRefreshTokenDuration)
	if err != nil {
		return Tokens{}, apperrors.Wrap("sign refresh token", err)
	}
	return Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshToken generates a new access token from a refresh token.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (token string, err error) {
	defer func() { metrics.RecordAuth("refresh", err) }()

	claims, err := s.verify(ctx, refreshToken, jwtpkg.RefreshToken)
	if err != nil {
		return "", err
	}

	// The account must still exist.
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return "", apperrors.Authentication("invalid refresh token")
		}
		return "", err
	}

	token, err = jwtpkg.GenerateToken(user.ID.String(), user.Username, jwtpkg.AccessToken, s.cfg.JWTSecret, s.cfg.JWTAccessTokenDuration)
	if err != nil {
		return "", apperrors.Wrap("sign access token", err)
	}
	return token, nil
}

// Logout revokes the access token and, when given, the refresh token until
// they would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, access *jwtpkg.Claims, refreshToken string) (err error) {
	defer func() { metrics.RecordAuth("logout", err) }()

	if err := s.blacklist.Revoke(ctx, access.ID, access.RemainingTTL()); err != nil {
		return apperrors.Wrap("revoke access token", err)
	}
	if refreshToken == "" {
		return nil
	}
	claims, err := jwtpkg.ValidateToken(refreshToken, s.cfg.JWTSecret)
	if err != nil || claims.UserID != access.UserID {
		// Nothing to revoke.
		return nil
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return apperrors.Wrap("revoke refresh token", err)
	}
	return nil
}

// ValidateAccessToken validates an access token and returns claims.
func (s *AuthService) ValidateAccessToken(ctx context.Context, token string) (*jwtpkg.Claims, error) {
	return s.verify(ctx, token, jwtpkg.AccessToken)
}

func (s *AuthService) verify(ctx context.Context, token string, want jwtpkg.TokenType) (*jwtpkg.Claims, error) {
	claims, err := jwtpkg.ValidateToken(token, s.cfg.JWTSecret)
	if err != nil {
		return nil, &apperrors.Error{Kind: apperrors.KindAuthentication, Message: "invalid or expired token", Err: err}
	}
	if claims.TokenType != want {
		return nil, apperrors.Authentication("invalid token type")
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, apperrors.Authentication("invalid token subject")
	}

	// If the blacklist backend is down the request proceeds.
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Could not check token blacklist")
	} else if revoked {
		return nil, apperrors.Authentication("token has been revoked")
	}
	return claims, nil
}

// IdentityFromClaims converts verified claims to the caller identity.
func IdentityFromClaims(claims *jwtpkg.Claims) Identity {
	return Identity{
		UserID:   uuid.MustParse(claims.UserID),
		Username: claims.Username,
	}
}

// GetUserByID retrieves a user by ID.
func (s *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.FindByID(ctx, userID.String())
}
