package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/OliveroJ16/inventory-system-api/config"
	"github.com/OliveroJ16/inventory-system-api/services/auth"
	"github.com/OliveroJ16/inventory-system-api/services/session"
	"github.com/OliveroJ16/inventory-system-api/services/token"
	"github.com/OliveroJ16/inventory-system-api/services/users"
	"github.com/labstack/echo/v4"
)

const refreshCookieName = "refresh_token"

type AuthHandler struct {
	cfg  *config.Config
	auth *auth.Service
}

func NewAuthHandler(cfg *config.Config, authService *auth.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, auth: authService}
}

type registerRequest struct {
	UserName string `json:"user_name" validate:"required,min=3,max=50"`
	Name     string `json:"name" validate:"required,max=100"`
	Surname  string `json:"surname" validate:"max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN EMPLOYEE"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User        *users.User `json:"user"`
	AccessToken string      `json:"access_token"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Register(auth.RegisterInput{
		UserName: req.UserName,
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
		Role:     users.Role(req.Role),
	}, h.requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, users.ErrEmailTaken):
			return fail(c, http.StatusConflict, "Email is already registered")
		case strings.Contains(err.Error(), "password must"):
			return fail(c, http.StatusBadRequest, err.Error())
		default:
			return fail(c, http.StatusInternalServerError, "Registration failed")
		}
	}

	return h.respondWithTokens(c, http.StatusCreated, result)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(auth.Credentials{
		Email:    req.Email,
		Password: req.Password,
	}, h.requestMeta(c))
	if err != nil {
		if errors.Is(err, auth.ErrAuthenticationFailed) {
			return fail(c, http.StatusUnauthorized, "Invalid email or password")
		}
		return fail(c, http.StatusInternalServerError, "Login failed")
	}

	return h.respondWithTokens(c, http.StatusOK, result)
}

// Refresh exchanges the refresh token cookie for a fresh token pair. The old
// refresh token stops working as soon as the exchange succeeds.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return fail(c, http.StatusUnauthorized, "Refresh token required")
	}

	result, err := h.auth.Refresh(cookie.Value, h.requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, token.ErrExpiredToken):
			h.clearRefreshCookie(c)
			return fail(c, http.StatusUnauthorized, "Refresh token has expired")
		case errors.Is(err, users.ErrUserNotFound):
			h.clearRefreshCookie(c)
			return fail(c, http.StatusUnauthorized, "Account no longer exists")
		case errors.Is(err, token.ErrInvalidToken):
			h.clearRefreshCookie(c)
			return fail(c, http.StatusUnauthorized, "Invalid refresh token")
		default:
			return fail(c, http.StatusInternalServerError, "Token refresh failed")
		}
	}

	return h.respondWithTokens(c, http.StatusOK, result)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	accessToken := strings.TrimPrefix(authHeader, "Bearer ")
	if accessToken == "" || accessToken == authHeader {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}

	if err := h.auth.Logout(accessToken); err != nil {
		switch {
		case errors.Is(err, token.ErrExpiredToken):
			return fail(c, http.StatusUnauthorized, "Access token has expired")
		case errors.Is(err, users.ErrUserNotFound), errors.Is(err, session.ErrSessionNotFound):
			return fail(c, http.StatusNotFound, "Session not found")
		case errors.Is(err, token.ErrInvalidToken):
			return fail(c, http.StatusUnauthorized, "Invalid access token")
		default:
			return fail(c, http.StatusInternalServerError, "Logout failed")
		}
	}

	h.clearRefreshCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// respondWithTokens places the access token in both the body and the
// Authorization response header and the refresh token in the cookie.
func (h *AuthHandler) respondWithTokens(c echo.Context, status int, result *auth.AuthResult) error {
	c.Response().Header().Set(echo.HeaderAuthorization, "Bearer "+result.AccessToken)
	h.setRefreshCookie(c, result.RefreshToken)
	return c.JSON(status, authResponse{User: result.User, AccessToken: result.AccessToken})
}

func (h *AuthHandler) requestMeta(c echo.Context) auth.RequestMeta {
	return auth.RequestMeta{
		DeviceInfo: session.DeviceLabel(c.Request().UserAgent()),
	}
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, value string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/api/auth",
		MaxAge:   int(h.cfg.JWT.RefreshExpiry / time.Second),
		HttpOnly: true,
		Secure:   strings.HasPrefix(h.cfg.App.URL, "https://"),
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/auth",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
