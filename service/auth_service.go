package application

import (
	"context"
	"log"
	"net/http"

	"github.com/TheYassAnz/coabi-backend/authorization"
	"github.com/TheYassAnz/coabi-backend/domain"
	"github.com/TheYassAnz/coabi-backend/errors"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

const (
	PasswordMinLength = 8
	PasswordMaxLength = 72
)

type AuthService struct {
	users  domain.UserStore
	mailer *Mailer
	tracer trace.Tracer
}

func NewAuthService(users domain.UserStore, mailer *Mailer, tracer trace.Tracer) *AuthService {
	return &AuthService{
		users:  users,
		mailer: mailer,
		tracer: tracer,
	}
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func validPasswordLength(password string) bool {
	return len(password) >= PasswordMinLength && len(password) <= PasswordMaxLength
}

func (service *AuthService) Register(ctx context.Context, request *RegisterRequest) (*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	if !validPasswordLength(request.Password) {
		return nil, errors.BadRequestCode(errors.CodePasswordLength, "Password must be between 8 and 72 characters.")
	}

	if existing, err := service.users.GetByUsername(ctx, request.Username); err != nil && err != domain.ErrNotFound {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	} else if existing != nil {
		return nil, errors.Conflict(errors.CodeUsernameTaken, "Username already taken")
	}

	if existing, err := service.users.GetByEmail(ctx, request.Email); err != nil && err != domain.ErrNotFound {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	} else if existing != nil {
		return nil, errors.Conflict(errors.CodeEmailTaken, "Email already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	user := &domain.User{
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Username:  request.Username,
		Email:     request.Email,
		Password:  string(hash),
		Role:      domain.RoleUser,
	}

	if err := user.Validate(); err != nil {
		return nil, errors.BadRequest()
	}

	saved, err := service.users.Insert(ctx, user)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	// A dead mail relay must not fail registration.
	if service.mailer != nil {
		if err := service.mailer.SendWelcomeEmail(saved.Email, saved.Username); err != nil {
			log.Printf("welcome mail for %s not sent: %s", saved.Username, err)
		}
	}

	return saved, nil
}

// Login checks the credentials and issues a fresh token pair for the
// user. The refresh token only ever travels in the cookie the handler
// sets.
func (service *AuthService) Login(ctx context.Context, username string, password string) (*domain.User, *authorization.TokenPair, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	if username == "" || password == "" {
		return nil, nil, errors.BadRequest()
	}

	user, err := service.users.GetByUsername(ctx, username)
	if err == domain.ErrNotFound {
		return nil, nil, errors.New(http.StatusNotFound, errors.CodeUserNotFound, "User does not exist")
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, errors.Internal()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, errors.Unauthorized(errors.CodeIncorrectCredentials, "Incorrect credentials")
	}

	tokens, err := authorization.GenerateTokenPair(user.ID.Hex())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, errors.Internal()
	}

	return user, tokens, nil
}

// Refresh verifies the refresh token and rotates the whole pair.
func (service *AuthService) Refresh(ctx context.Context, refreshToken string) (*authorization.TokenPair, error) {
	_, span := service.tracer.Start(ctx, "AuthService.Refresh")
	defer span.End()

	if refreshToken == "" {
		return nil, errors.Unauthorized(errors.CodeNoRefreshToken, "No refresh token provided")
	}

	claims, err := authorization.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.Unauthorized(errors.CodeInvalidRefreshToken, "Invalid refresh token")
	}

	tokens, err := authorization.GenerateTokenPair(claims.ID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	return tokens, nil
}
