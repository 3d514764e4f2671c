// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohayama/kikira/internal/auth"
	"github.com/sohayama/kikira/internal/platform/apperr"
	"github.com/sohayama/kikira/internal/platform/constants"
	"github.com/sohayama/kikira/internal/platform/sec"
)

func newService(t *testing.T) (*auth.Service, *sec.TokenService) {
	t.Helper()

	tokens, err := sec.NewTokenService("0123456789abcdef0123456789abcdef", constants.AuthIssuer)
	require.NoError(t, err)

	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return auth.NewService(tokens, "haru", hash, logger), tokens
}

/* TestLogin_IssuesVerifiableAdminToken */
func TestLogin_IssuesVerifiableAdminToken(t *testing.T) {
	service, tokens := newService(t)

	session, err := service.Login(context.Background(), "haru", "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, string(sec.RoleAdmin), session.Role)

	claims, err := tokens.VerifyToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "haru", claims.Username)
	assert.Equal(t, string(sec.RoleAdmin), claims.Role)
}

/* TestLogin_RejectsBadCredentials */
func TestLogin_RejectsBadCredentials(t *testing.T) {
	service, _ := newService(t)

	testCases := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "haru", password: "nope"},
		{name: "wrong username", username: "mallory", password: "correct horse battery staple"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.Login(context.Background(), testCase.username, testCase.password)
			require.Error(t, err)
			assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
		})
	}
}
