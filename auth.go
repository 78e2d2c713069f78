package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenValidity = 7 * 24 * time.Hour
	bcryptCost    = 12
)

// AuthUser is the identity carried inside a bearer token.
type AuthUser struct {
	ID       string
	Email    string
	Username string
}

type tokenClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func hashPassword(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func checkPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

func (api *API) issueToken(user *User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenValidity)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(api.config.JWTSecret)
}

// verifyToken accepts any well-formed, correctly signed, unexpired token.
// There is no revocation list; logout is a client-side credential discard.
func (api *API) verifyToken(token string) (*AuthUser, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return api.config.JWTSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return &AuthUser{ID: claims.Subject, Email: claims.Email, Username: claims.Username}, nil
}

func extractToken(authHeader string) string {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// authenticate resolves the request's bearer token. The error, when set,
// is ready to be written as the failure envelope.
func (api *API) authenticate(r *http.Request) (*AuthUser, *apiError) {
	token := extractToken(r.Header.Get("Authorization"))
	if token == "" {
		return nil, &apiError{status: http.StatusUnauthorized, message: "Authentication required"}
	}
	user, err := api.verifyToken(token)
	if err != nil {
		return nil, &apiError{status: http.StatusUnauthorized, message: "Invalid token"}
	}
	return user, nil
}
