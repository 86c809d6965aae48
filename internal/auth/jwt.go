// Package auth issues and checks the bearer tokens that identify a user to the API.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gem-auction/internal/auctionerrors"
	"gem-auction/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDKey is the gin context key holding the authenticated user id
const UserIDKey = "user_id"

const issuer = "gem-auction"

// Tokens signs and validates HS256 tokens whose subject is the user id
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a token for userID
func (t *Tokens) Issue(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("auth: issue token: %w", auctionerrors.ErrUnauthenticated)
	}
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns its subject
func (t *Tokens) Parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", fmt.Errorf("auth: %w: %w", auctionerrors.ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("auth: %w: missing subject", auctionerrors.ErrUnauthenticated)
	}
	return claims.Subject, nil
}

// bearer extracts the token from an Authorization header
func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Optional sets UserIDKey when the request carries a valid token and lets every request through
func (t *Tokens) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearer(c.GetHeader("Authorization")); ok {
			if userID, err := t.Parse(token); err == nil {
				c.Set(UserIDKey, userID)
			} else {
				utils.Debug("auth: ignoring invalid token", map[string]any{"error": err.Error()})
			}
		}
		c.Next()
	}
}

// Required rejects requests without a valid bearer token
func (t *Tokens) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			abort(c, errors.New("missing bearer token"))
			return
		}
		userID, err := t.Parse(token)
		if err != nil {
			abort(c, err)
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	utils.Warn("auth: request rejected", map[string]any{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	})
	utils.JSONError(c, http.StatusUnauthorized, err, "authentication required")
	c.Abort()
}

// UserID returns the authenticated user, or "" for anonymous requests
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
