// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

// Package auth implements the single-operator back-office login.
//
// # Model
//
// There is no user table. The operator's username and bcrypt password hash
// come from configuration, and a successful login issues a short-lived
// admin JWT. Role'd tokens for editors and viewers can be minted out of
// band with the same signing secret.
package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	"github.com/sohayama/kikira/internal/platform/apperr"
	"github.com/sohayama/kikira/internal/platform/constants"
	"github.com/sohayama/kikira/internal/platform/sec"
)

type Service struct {
	tokens            *sec.TokenService
	adminUsername     string
	adminPasswordHash string
	logger            *slog.Logger
}

func NewService(tokens *sec.TokenService, adminUsername, adminPasswordHash string, logger *slog.Logger) *Service {
	return &Service{
		tokens:            tokens,
		adminUsername:     adminUsername,
		adminPasswordHash: adminPasswordHash,
		logger:            logger,
	}
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Role        string    `json:"role"`
}

// Login verifies the operator credentials and issues an admin token.
//
// Both checks always run, so a bad username costs the same as a bad
// password and the response does not reveal which one failed.
func (service *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(service.adminUsername)) == 1
	passwordOK := sec.CheckPasswordHash(password, service.adminPasswordHash)

	if !usernameOK || !passwordOK {
		service.logger.Warn("login_rejected", slog.String("username", username))
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	token, err := service.tokens.GenerateAccessToken(username, sec.RoleAdmin, constants.AdminTokenTTL)
	if err != nil {
		return nil, err
	}

	service.logger.Info("login_succeeded", slog.String("username", username))

	return &Session{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(constants.AdminTokenTTL),
		Role:        string(sec.RoleAdmin),
	}, nil
}
