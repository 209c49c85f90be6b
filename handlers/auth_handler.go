package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/TheYassAnz/coabi-backend/authorization"
	"github.com/TheYassAnz/coabi-backend/errors"
	application "github.com/TheYassAnz/coabi-backend/service"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	refreshTokenCookie = "refreshToken"
	csrfSecretCookie   = "csrfSecret"
	csrfTokenHeader    = "X-CSRF-Token"
)

type AuthHandler struct {
	service *application.AuthService
	tracer  trace.Tracer
}

func NewAuthHandler(service *application.AuthService, tracer trace.Tracer) *AuthHandler {
	return &AuthHandler{
		service: service,
		tracer:  tracer,
	}
}

func (handler *AuthHandler) Init(router *mux.Router) {
	router.HandleFunc("/register", handler.Register).Methods("POST")
	router.HandleFunc("/login", handler.Login).Methods("POST")
	router.HandleFunc("/refresh", handler.Refresh).Methods("POST")
	router.HandleFunc("/logout", handler.Logout).Methods("POST")
}

func (handler *AuthHandler) Register(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Register")
	defer span.End()

	var request application.RegisterRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, errors.BadRequest())
		return
	}

	user, err := handler.service.Register(ctx, &request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken string `json:"accessToken"`
	CsrfToken   string `json:"csrfToken"`
}

func (handler *AuthHandler) Login(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Login")
	defer span.End()

	var request loginRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, errors.BadRequest())
		return
	}

	_, tokens, err := handler.service.Login(ctx, request.Username, request.Password)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}

	csrfSecret := authorization.GenerateCsrfSecret()
	setSessionCookies(writer, tokens.RefreshToken, csrfSecret)

	writeData(writer, http.StatusOK, sessionResponse{
		AccessToken: tokens.AccessToken,
		CsrfToken:   authorization.CreateCsrfToken(csrfSecret),
	})
}

// Refresh rotates the token pair. When the CSRF secret cookie is
// present the caller must prove possession of the matching token.
func (handler *AuthHandler) Refresh(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Refresh")
	defer span.End()

	if secretCookie, err := req.Cookie(csrfSecretCookie); err == nil {
		token := req.Header.Get(csrfTokenHeader)
		if !authorization.VerifyCsrfToken(secretCookie.Value, token) {
			writeError(writer, errors.Unauthorized(errors.CodeInvalidCsrfToken, "Invalid CSRF token"))
			return
		}
	}

	refreshToken := ""
	if cookie, err := req.Cookie(refreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}

	tokens, err := handler.service.Refresh(ctx, refreshToken)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}

	csrfSecret := authorization.GenerateCsrfSecret()
	setSessionCookies(writer, tokens.RefreshToken, csrfSecret)

	writeData(writer, http.StatusOK, sessionResponse{
		AccessToken: tokens.AccessToken,
		CsrfToken:   authorization.CreateCsrfToken(csrfSecret),
	})
}

func (handler *AuthHandler) Logout(writer http.ResponseWriter, req *http.Request) {
	_, span := handler.tracer.Start(req.Context(), "AuthHandler.Logout")
	defer span.End()

	clearSessionCookies(writer)
	writeNoContent(writer)
}

func setSessionCookies(writer http.ResponseWriter, refreshToken string, csrfSecret string) {
	maxAge := int(authorization.RefreshTokenDuration.Seconds())

	http.SetCookie(writer, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refreshToken,
		Path:     "/api/auth",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(writer, &http.Cookie{
		Name:     csrfSecretCookie,
		Value:    csrfSecret,
		Path:     "/api/auth",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearSessionCookies(writer http.ResponseWriter) {
	for _, name := range []string{refreshTokenCookie, csrfSecretCookie} {
		http.SetCookie(writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/api/auth",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
