package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homecare-service/pkg/config"
	"homecare-service/pkg/jwtutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveIdentity(t *testing.T, cfg *config.Config, header http.Header) (uuid.UUID, uuid.UUID) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var userID, orgID uuid.UUID
	handler := IdentityMiddleware(cfg)(func(c echo.Context) error {
		userID = CurrentUserID(c)
		orgID = CurrentOrganizationID(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return userID, orgID
}

func TestIdentity_TrustedHeaders(t *testing.T) {
	cfg := &config.Config{Auth: config.AuthConfig{TrustHeaders: true}}
	user := uuid.New()
	org := uuid.New()

	header := http.Header{}
	header.Set(UserIDHeader, user.String())
	header.Set(OrganizationIDHeader, org.String())

	gotUser, gotOrg := resolveIdentity(t, cfg, header)
	assert.Equal(t, user, gotUser)
	assert.Equal(t, org, gotOrg)
}

func TestIdentity_MissingHeadersFallBackToZeroUUID(t *testing.T) {
	cfg := &config.Config{Auth: config.AuthConfig{TrustHeaders: true}}

	gotUser, gotOrg := resolveIdentity(t, cfg, http.Header{})
	assert.Equal(t, uuid.Nil, gotUser)
	assert.Equal(t, uuid.Nil, gotOrg)
}

func TestIdentity_HeadersIgnoredWhenNotTrusted(t *testing.T) {
	cfg := &config.Config{Auth: config.AuthConfig{TrustHeaders: false}}

	header := http.Header{}
	header.Set(UserIDHeader, uuid.NewString())

	gotUser, _ := resolveIdentity(t, cfg, header)
	assert.Equal(t, uuid.Nil, gotUser)
}

func TestIdentity_BearerTokenWinsOverHeaders(t *testing.T) {
	cfg := &config.Config{Auth: config.AuthConfig{SigningKey: "test-key", TrustHeaders: true}}
	jwtutil.Init(cfg.Auth.SigningKey)

	tokenUser := uuid.New()
	tokenOrg := uuid.New()
	claims := jwtutil.UserClaims{
		UserID:         tokenUser.String(),
		OrganizationID: tokenOrg.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Auth.SigningKey))
	require.NoError(t, err)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+signed)
	header.Set(UserIDHeader, uuid.NewString())
	header.Set(OrganizationIDHeader, uuid.NewString())

	gotUser, gotOrg := resolveIdentity(t, cfg, header)
	assert.Equal(t, tokenUser, gotUser)
	assert.Equal(t, tokenOrg, gotOrg)
}

func TestIdentity_InvalidBearerFallsBackToHeaders(t *testing.T) {
	cfg := &config.Config{Auth: config.AuthConfig{SigningKey: "test-key", TrustHeaders: true}}
	jwtutil.Init(cfg.Auth.SigningKey)

	headerUser := uuid.New()
	header := http.Header{}
	header.Set("Authorization", "Bearer not-a-token")
	header.Set(UserIDHeader, headerUser.String())

	gotUser, _ := resolveIdentity(t, cfg, header)
	assert.Equal(t, headerUser, gotUser)
}
