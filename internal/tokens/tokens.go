package tokens

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/insurehub/insurehub/backend/go-services/internal/config"
	"github.com/insurehub/insurehub/backend/go-services/internal/users"
)

// GenerateAccessToken signs a JWT access token for the user. The subject is
// the OIDC sub when present, otherwise the numeric account id.
func GenerateAccessToken(cfg *config.Config, u *users.User, ttl time.Duration) (string, error) {
	sub := u.Sub
	if sub == "" {
		sub = strconv.FormatInt(u.ID, 10)
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   sub,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// ParseAccessToken verifies the HS256 signature and expiry and returns the
// claims.
func ParseAccessToken(cfg *config.Config, raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
