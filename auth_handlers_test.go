package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	api := newTestAPI(t)

	auth := registerUser(t, api, "alice")

	claims, err := api.verifyToken(auth.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, claims.ID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "alice", claims.Username)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	api := newTestAPI(t)
	registerUser(t, api, "alice")

	rec := doRequest(t, api, http.MethodPost, "/auth/register", "", RegisterRequest{
		Email:       "alice@example.com",
		Username:    "someone_else",
		DisplayName: "Someone Else",
		Password:    "password123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	api := newTestAPI(t)
	registerUser(t, api, "alice")

	rec := doRequest(t, api, http.MethodPost, "/auth/register", "", RegisterRequest{
		Email:       "other@example.com",
		Username:    "alice",
		DisplayName: "Other Alice",
		Password:    "password123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	api := newTestAPI(t)

	cases := map[string]RegisterRequest{
		"missing email":    {Username: "bob", DisplayName: "Bob", Password: "password123"},
		"invalid email":    {Email: "not-an-email", Username: "bob", DisplayName: "Bob", Password: "password123"},
		"missing username": {Email: "bob@example.com", DisplayName: "Bob", Password: "password123"},
		"missing password": {Email: "bob@example.com", Username: "bob", DisplayName: "Bob"},
		"short password":   {Email: "bob@example.com", Username: "bob", DisplayName: "Bob", Password: "hi"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doRequest(t, api, http.MethodPost, "/auth/register", "", req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)
	registerUser(t, api, "alice")

	rec := doRequest(t, api, http.MethodPost, "/auth/login", "", LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var auth AuthResponse
	env := decodeData(t, rec, &auth)
	assert.Equal(t, "Login successful", env.Message)
	assert.Equal(t, "alice", auth.User.Username)

	claims, err := api.verifyToken(auth.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, claims.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	api := newTestAPI(t)
	registerUser(t, api, "alice")

	rec := doRequest(t, api, http.MethodPost, "/auth/login", "", LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, api, http.MethodPost, "/auth/login", "", LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
