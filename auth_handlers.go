package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func (api *API) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer afterRequestLogging(start, r)

	var req RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		api.metrics.BadRequests.WithLabelValues("register").Inc()
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		logger.WithError(err).Error("Failed to hash password")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := User{
		Email:        req.Email,
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		Bio:          req.Bio,
		PasswordHash: hash,
	}

	// Uniqueness of email and username is the store's constraint; a duplicate
	// surfaces here as a conflict instead of a pre-check race.
	if err := api.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			api.metrics.BadRequests.WithLabelValues("register").Inc()
			respondError(w, http.StatusConflict, "User with this email or username already exists")
			return
		}
		logger.WithError(err).Error("Failed to create user")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := api.issueToken(&user)
	if err != nil {
		logger.WithError(err).Error("Failed to issue token")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.WithFields(logrus.Fields{"username": user.Username}).Info("User registered successfully")
	api.metrics.TokensIssued.Inc()
	api.metrics.SuccessfulRequests.WithLabelValues("register").Inc()
	respondData(w, AuthResponse{User: user, Token: token}, "User registered successfully")
}

func (api *API) LoginHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer afterRequestLogging(start, r)

	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		api.metrics.BadRequests.WithLabelValues("login").Inc()
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	var user User
	err := api.db.Where("email = ?", req.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		api.metrics.BadRequests.WithLabelValues("login").Inc()
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		logger.WithError(err).Error("Failed to look up user")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !checkPassword(req.Password, user.PasswordHash) {
		logger.WithFields(logrus.Fields{"email": req.Email}).Warn("Invalid password attempt")
		api.metrics.BadRequests.WithLabelValues("login").Inc()
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := api.issueToken(&user)
	if err != nil {
		logger.WithError(err).Error("Failed to issue token")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.WithFields(logrus.Fields{"username": user.Username}).Info("User logged in successfully")
	api.metrics.TokensIssued.Inc()
	api.metrics.SuccessfulRequests.WithLabelValues("login").Inc()
	respondData(w, AuthResponse{User: user, Token: token}, "Login successful")
}
