package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/commercekit/catalog-service/internal/domain"
)

// TokenIssuer mints and verifies the two JWT flavors. Access and
// refresh tokens are signed under distinct secrets so one can never
// be presented in place of the other.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenIssuer builds an issuer from the two secrets and lifetimes.
func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Claims is the identity payload embedded in both token flavors.
type Claims struct {
	UserID string      `json:"uid"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity converts the claims back into a domain identity.
func (c *Claims) Identity() domain.Identity {
	return domain.Identity{ID: c.UserID, Email: c.Email, Role: c.Role}
}

// IssueAccess signs a short-lived access token for the identity.
func (ti *TokenIssuer) IssueAccess(id domain.Identity) (string, time.Time, error) {
	return ti.issue(id, ti.accessSecret, ti.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the identity.
func (ti *TokenIssuer) IssueRefresh(id domain.Identity) (string, time.Time, error) {
	return ti.issue(id, ti.refreshSecret, ti.refreshTTL)
}

func (ti *TokenIssuer) issue(id domain.Identity, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		UserID: id.ID,
		Email:  id.Email,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique jti so two tokens minted for the same identity in
			// the same second still differ.
			ID:        uuid.NewString(),
			Subject:   id.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseAccess validates an access token and returns its claims.
func (ti *TokenIssuer) ParseAccess(tokenStr string) (*Claims, error) {
	return parse(tokenStr, ti.accessSecret)
}

// ParseRefresh validates a refresh token and returns its claims.
func (ti *TokenIssuer) ParseRefresh(tokenStr string) (*Claims, error) {
	return parse(tokenStr, ti.refreshSecret)
}

func parse(tokenStr string, secret []byte) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
