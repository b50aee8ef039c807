package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/OliveroJ16/inventory-system-api/services/auth"
	"github.com/OliveroJ16/inventory-system-api/services/session"
	"github.com/OliveroJ16/inventory-system-api/services/token"
	"github.com/OliveroJ16/inventory-system-api/services/users"
	"github.com/OliveroJ16/inventory-system-api/testutils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authTestEnv struct {
	echo    *echo.Echo
	handler *AuthHandler
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()

	cfg := testutils.GetTestConfig()
	db := testutils.SetupTestDB(t, &users.User{}, &session.Session{})

	userService := users.NewService(db, nil)
	sessionService := session.NewService(db, nil)
	tokenService := token.NewService(cfg, nil)
	authService := auth.NewService(cfg, userService, sessionService, tokenService, nil)

	e := echo.New()
	handler := NewAuthHandler(cfg, authService)
	e.POST("/api/auth/register", handler.Register)
	e.POST("/api/auth/login", handler.Login)
	e.POST("/api/auth/refresh", handler.Refresh)
	e.POST("/api/auth/logout", handler.Logout)

	return &authTestEnv{echo: e, handler: handler}
}

func (env *authTestEnv) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == refreshCookieName {
			return cookie
		}
	}
	t.Fatal("refresh cookie not set")
	return nil
}

const registerBody = `{
	"user_name": "jdoe",
	"name": "John",
	"surname": "Doe",
	"email": "jdoe@example.com",
	"password": "SecurePass123"
}`

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns access token and sets refresh cookie", func(t *testing.T) {
		env := newAuthTestEnv(t)

		rec := env.postJSON("/api/auth/register", registerBody)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp authResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "jdoe@example.com", resp.User.Email)

		cookie := refreshCookie(t, rec)
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		env := newAuthTestEnv(t)

		env.postJSON("/api/auth/register", registerBody)
		rec := env.postJSON("/api/auth/register", registerBody)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("weak password rejected", func(t *testing.T) {
		env := newAuthTestEnv(t)

		rec := env.postJSON("/api/auth/register", `{
			"user_name": "jdoe",
			"name": "John",
			"email": "jdoe@example.com",
			"password": "short"
		}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		env := newAuthTestEnv(t)

		rec := env.postJSON("/api/auth/register", `{"email": "jdoe@example.com"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		env := newAuthTestEnv(t)
		env.postJSON("/api/auth/register", registerBody)

		rec := env.postJSON("/api/auth/login", `{"email": "jdoe@example.com", "password": "SecurePass123"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, refreshCookie(t, rec).Value)
	})

	t.Run("wrong password and unknown email look identical", func(t *testing.T) {
		env := newAuthTestEnv(t)
		env.postJSON("/api/auth/register", registerBody)

		wrongPassword := env.postJSON("/api/auth/login", `{"email": "jdoe@example.com", "password": "WrongPass123"}`)
		unknownEmail := env.postJSON("/api/auth/login", `{"email": "nobody@example.com", "password": "SecurePass123"}`)

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
		assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("rotates the refresh token", func(t *testing.T) {
		env := newAuthTestEnv(t)
		registered := env.postJSON("/api/auth/register", registerBody)
		oldCookie := refreshCookie(t, registered)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		req.AddCookie(oldCookie)
		rec := httptest.NewRecorder()
		env.echo.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		newCookie := refreshCookie(t, rec)
		assert.NotEqual(t, oldCookie.Value, newCookie.Value)

		// replaying the rotated-out token must fail
		replay := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		replay.AddCookie(oldCookie)
		replayRec := httptest.NewRecorder()
		env.echo.ServeHTTP(replayRec, replay)

		assert.Equal(t, http.StatusUnauthorized, replayRec.Code)
	})

	t.Run("missing cookie", func(t *testing.T) {
		env := newAuthTestEnv(t)

		rec := env.postJSON("/api/auth/refresh", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		env := newAuthTestEnv(t)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "not-a-jwt"})
		rec := httptest.NewRecorder()
		env.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("revokes the session", func(t *testing.T) {
		env := newAuthTestEnv(t)
		registered := env.postJSON("/api/auth/register", registerBody)

		var resp authResponse
		require.NoError(t, json.Unmarshal(registered.Body.Bytes(), &resp))
		cookie := refreshCookie(t, registered)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+resp.AccessToken)
		rec := httptest.NewRecorder()
		env.echo.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)

		// the surviving refresh token is dead after logout
		refreshReq := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		refreshReq.AddCookie(cookie)
		refreshRec := httptest.NewRecorder()
		env.echo.ServeHTTP(refreshRec, refreshReq)

		assert.Equal(t, http.StatusUnauthorized, refreshRec.Code)
	})

	t.Run("missing bearer token", func(t *testing.T) {
		env := newAuthTestEnv(t)

		rec := env.postJSON("/api/auth/logout", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
