package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateToken("user-1", "alice", AccessToken, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "user-1" || claims.Username != "alice" || claims.TokenType != AccessToken {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Error("token id should be set")
	}
	if ttl := claims.RemainingTTL(); ttl <= 0 || ttl > time.Hour {
		t.Errorf("unexpected remaining ttl %v", ttl)
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	valid, _ := GenerateToken("u", "n", AccessToken, testSecret, time.Hour)
	expired, _ := GenerateToken("u", "n", AccessToken, testSecret, -time.Minute)
	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u"})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other-secret"},
		{"expired", expired, testSecret},
		{"garbage", "not.a.token", testSecret},
		{"none algorithm", unsigned, testSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateToken(tt.token, tt.secret); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

