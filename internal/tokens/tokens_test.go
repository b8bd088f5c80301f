package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurehub/insurehub/backend/go-services/internal/config"
	"github.com/insurehub/insurehub/backend/go-services/internal/users"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	return cfg
}

func TestGenerateAccessToken_ValidAndClaims(t *testing.T) {
	cfg := testConfig("test-secret-32-bytes-should-be-long-enough")
	u := &users.User{ID: 7, Sub: "user-123", Name: "Test User", Email: "test@insurehub.example", Role: users.RoleAgent}

	tokenStr, err := GenerateAccessToken(cfg, u, 2*time.Minute)
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims["sub"])
	assert.Equal(t, users.RoleAgent, claims["role"])
	assert.Equal(t, "test@insurehub.example", claims["email"])
}

func TestGenerateAccessToken_NumericSubjectFallback(t *testing.T) {
	cfg := testConfig("another-secret-32-bytes-longgggg")
	u := &users.User{ID: 42, Name: "Local User", Email: "l@insurehub.example"}

	tokenStr, err := GenerateAccessToken(cfg, u, 2*time.Minute)
	require.NoError(t, err)
	claims, err := ParseAccessToken(cfg, tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "42", claims["sub"])
}

func TestParseAccessToken_Expiry(t *testing.T) {
	cfg := testConfig("another-secret-32-bytes-longgggg")
	u := &users.User{ID: 2, Sub: "u2"}
	tokenStr, err := GenerateAccessToken(cfg, u, -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, tokenStr)
	assert.Error(t, err, "expired token must not parse")
}

func TestParseAccessToken_WrongSecretFails(t *testing.T) {
	cfg := testConfig("secret-one-32-bytes-xxxxxxxxxxxxxxxx")
	tokenStr, err := GenerateAccessToken(cfg, &users.User{ID: 3, Sub: "u3"}, 2*time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(testConfig("different-secret-xxxxxxxxxxxxxxxx"), tokenStr)
	assert.Error(t, err)
}

func TestParseAccessToken_Malformed(t *testing.T) {
	_, err := ParseAccessToken(testConfig("x"), "not.a.jwt")
	assert.Error(t, err)
}

func TestParseAccessToken_AlgNoneRejected(t *testing.T) {
	enc := (&jwt.Token{}).EncodeSegment
	tok := enc([]byte(`{"alg":"none"}`)) + "." + enc([]byte(`{"sub":"u-none","exp":9999999999}`)) + "."

	_, err := ParseAccessToken(testConfig("x"), tok)
	assert.Error(t, err)
}

func TestParseAccessToken_TamperedPayload(t *testing.T) {
	cfg := testConfig("tamper-test-secret-32-bytes-xxxxxxx")
	tokenStr, err := GenerateAccessToken(cfg, &users.User{ID: 4, Sub: "user-t"}, 5*time.Minute)
	require.NoError(t, err)

	parts := strings.Split(tokenStr, ".")
	require.Len(t, parts, 3)
	payloadBytes, err := jwt.NewParser().DecodeSegment(parts[1])
	require.NoError(t, err)
	parts[1] = (&jwt.Token{}).EncodeSegment([]byte(strings.Replace(string(payloadBytes), "user-t", "attacker", 1)))

	_, err = ParseAccessToken(cfg, strings.Join(parts, "."))
	assert.Error(t, err, "signature verification must fail for a tampered token")
}
