package application

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/TheYassAnz/coabi-backend/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

func setTokenSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret-for-tests")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret-for-tests")
}

func registerRequest(password string) *RegisterRequest {
	return &RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		Email:     "ada@example.com",
		Password:  password,
	}
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := err.(*errors.Error)
	require.True(t, ok, "expected *errors.Error, got %T", err)
	return appErr.Code
}

func TestRegisterPasswordLength(t *testing.T) {
	service := NewAuthService(newFakeUserStore(), nil, testTracer())

	_, err := service.Register(context.Background(), registerRequest(strings.Repeat("x", 7)))
	require.Error(t, err)
	assert.Equal(t, errors.CodePasswordLength, errorCode(t, err))

	_, err = service.Register(context.Background(), registerRequest(strings.Repeat("x", 73)))
	require.Error(t, err)
	assert.Equal(t, errors.CodePasswordLength, errorCode(t, err))

	_, err = service.Register(context.Background(), registerRequest(strings.Repeat("x", 8)))
	require.NoError(t, err)
}

func TestRegisterBoundaryPasswordAccepted(t *testing.T) {
	service := NewAuthService(newFakeUserStore(), nil, testTracer())

	user, err := service.Register(context.Background(), registerRequest(strings.Repeat("x", 72)))
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	assert.Empty(t, user.AccommodationID)
}

func TestRegisterDuplicates(t *testing.T) {
	users := newFakeUserStore()
	service := NewAuthService(users, nil, testTracer())

	_, err := service.Register(context.Background(), registerRequest("password123"))
	require.NoError(t, err)

	_, err = service.Register(context.Background(), registerRequest("password123"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeUsernameTaken, errorCode(t, err))

	request := registerRequest("password123")
	request.Username = "ada2"
	_, err = service.Register(context.Background(), request)
	require.Error(t, err)
	assert.Equal(t, errors.CodeEmailTaken, errorCode(t, err))
}

func TestRegisterNeverStoresPlaintextPassword(t *testing.T) {
	users := newFakeUserStore()
	service := NewAuthService(users, nil, testTracer())

	user, err := service.Register(context.Background(), registerRequest("password123"))
	require.NoError(t, err)
	assert.NotEqual(t, "password123", users.users[user.ID].Password)
}

func TestLogin(t *testing.T) {
	setTokenSecrets(t)
	users := newFakeUserStore()
	service := NewAuthService(users, nil, testTracer())

	_, err := service.Register(context.Background(), registerRequest("password123"))
	require.NoError(t, err)

	user, tokens, err := service.Login(context.Background(), "ada", "password123")
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)
}

func TestLoginWrongPassword(t *testing.T) {
	setTokenSecrets(t)
	users := newFakeUserStore()
	service := NewAuthService(users, nil, testTracer())

	_, err := service.Register(context.Background(), registerRequest("password123"))
	require.NoError(t, err)

	_, _, err = service.Login(context.Background(), "ada", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, errors.CodeIncorrectCredentials, errorCode(t, err))
}

func TestLoginUnknownUser(t *testing.T) {
	service := NewAuthService(newFakeUserStore(), nil, testTracer())

	_, _, err := service.Login(context.Background(), "nobody", "password123")
	require.Error(t, err)
	appErr := err.(*errors.Error)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, errors.CodeUserNotFound, appErr.Code)
}

func TestLoginEmptyCredentials(t *testing.T) {
	service := NewAuthService(newFakeUserStore(), nil, testTracer())

	_, _, err := service.Login(context.Background(), "", "")
	require.Error(t, err)
	assert.Equal(t, errors.CodeBadRequest, errorCode(t, err))
}

func TestRefreshRotatesPair(t *testing.T) {
	setTokenSecrets(t)
	users := newFakeUserStore()
	service := NewAuthService(users, nil, testTracer())

	_, err := service.Register(context.Background(), registerRequest("password123"))
	require.NoError(t, err)

	_, tokens, err := service.Login(context.Background(), "ada", "password123")
	require.NoError(t, err)

	rotated, err := service.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEmpty(t, rotated.RefreshToken)
}

func TestRefreshMissingToken(t *testing.T) {
	service := NewAuthService(newFakeUserStore(), nil, testTracer())

	_, err := service.Refresh(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, errors.CodeNoRefreshToken, errorCode(t, err))
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	setTokenSecrets(t)
	users := newFakeUserStore()
	service := NewAuthService(users, nil, testTracer())

	_, err := service.Register(context.Background(), registerRequest("password123"))
	require.NoError(t, err)

	_, tokens, err := service.Login(context.Background(), "ada", "password123")
	require.NoError(t, err)

	// The access token is signed with a different secret and must not
	// pass as a refresh token.
	_, err = service.Refresh(context.Background(), tokens.AccessToken)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidRefreshToken, errorCode(t, err))
}
