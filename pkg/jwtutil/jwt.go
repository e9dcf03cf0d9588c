package jwtutil

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var signingKey []byte

// Init sets the signing key used to verify bearer tokens.
func Init(key string) {
	signingKey = []byte(key)
}

// UserClaims represents the JWT claims for an authenticated caller. The
// organization ID carries the tenant scope for all scoped queries.
type UserClaims struct {
	Email          string `json:"email"`
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id,omitempty"`
	Role           string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParsedIdentity is the validated identity carried by a token.
type ParsedIdentity struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Email          string
	Role           string
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

// Identity validates the token and resolves its UUID-typed identity. A
// missing or malformed organization claim resolves to the zero UUID rather
// than an error; user_id must be a valid UUID.
func Identity(tokenString string) (*ParsedIdentity, error) {
	claims, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, err
	}

	orgID := uuid.Nil
	if claims.OrganizationID != "" {
		if parsed, err := uuid.Parse(claims.OrganizationID); err == nil {
			orgID = parsed
		}
	}

	return &ParsedIdentity{
		UserID:         userID,
		OrganizationID: orgID,
		Email:          claims.Email,
		Role:           claims.Role,
	}, nil
}
