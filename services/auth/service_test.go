package auth

import (
	"testing"
	"time"

	"github.com/OliveroJ16/inventory-system-api/services/session"
	"github.com/OliveroJ16/inventory-system-api/services/token"
	"github.com/OliveroJ16/inventory-system-api/services/users"
	"github.com/OliveroJ16/inventory-system-api/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	auth     *Service
	users    *users.Service
	sessions *session.Service
	tokens   *token.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := testutils.GetTestConfig()
	db := testutils.SetupTestDB(t, &users.User{}, &session.Session{})

	userSvc := users.NewService(db, nil)
	sessionSvc := session.NewService(db, nil)
	tokenSvc := token.NewService(cfg, nil)

	return &testEnv{
		auth:     NewService(cfg, userSvc, sessionSvc, tokenSvc, nil),
		users:    userSvc,
		sessions: sessionSvc,
		tokens:   tokenSvc,
	}
}

func registerInput(email string) RegisterInput {
	return RegisterInput{
		UserName: "jdoe",
		Name:     "John",
		Surname:  "Doe",
		Email:    email,
		Password: testutils.TestPasswords.Valid,
	}
}

func TestService_Register(t *testing.T) {
	env := newTestEnv(t)

	t.Run("returns user view and a valid token pair", func(t *testing.T) {
		result, err := env.auth.Register(registerInput("john@example.com"), RequestMeta{DeviceInfo: "Firefox on Linux"})

		require.NoError(t, err)
		require.NotNil(t, result.User)
		assert.Equal(t, users.RoleEmployee, result.User.Role)
		assert.NotEqual(t, testutils.TestPasswords.Valid, result.User.Password)

		accessClaims, err := env.tokens.ValidateToken(result.AccessToken, token.PurposeAccess)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID.String(), accessClaims.UserID)

		refreshClaims, err := env.tokens.ValidateToken(result.RefreshToken, token.PurposeRefresh)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID.String(), refreshClaims.UserID)

		record, err := env.sessions.FindByUser(result.User.ID)
		require.NoError(t, err)
		assert.True(t, record.Usable())
		assert.True(t, env.sessions.Matches(record, result.RefreshToken))
		assert.Equal(t, "Firefox on Linux", record.DeviceInfo)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.auth.Register(registerInput("john@example.com"), RequestMeta{})

		assert.ErrorIs(t, err, users.ErrEmailTaken)
	})

	t.Run("weak password", func(t *testing.T) {
		input := registerInput("weak@example.com")
		input.Password = testutils.TestPasswords.TooShort

		_, err := env.auth.Register(input, RequestMeta{})

		assert.Error(t, err)
		_, findErr := env.users.FindByEmail("weak@example.com")
		assert.ErrorIs(t, findErr, users.ErrUserNotFound)
	})
}

func TestService_Login(t *testing.T) {
	env := newTestEnv(t)
	registered, err := env.auth.Register(registerInput("alice@example.com"), RequestMeta{})
	require.NoError(t, err)

	t.Run("rotates the session to a fresh refresh value", func(t *testing.T) {
		result, err := env.auth.Login(Credentials{Email: "alice@example.com", Password: testutils.TestPasswords.Valid}, RequestMeta{})

		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, result.User.ID)
		assert.NotEqual(t, registered.RefreshToken, result.RefreshToken)

		record, err := env.sessions.FindByUser(result.User.ID)
		require.NoError(t, err)
		assert.True(t, env.sessions.Matches(record, result.RefreshToken))
		assert.False(t, env.sessions.Matches(record, registered.RefreshToken))
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, wrongPassErr := env.auth.Login(Credentials{Email: "alice@example.com", Password: "Wrong12345"}, RequestMeta{})
		_, unknownErr := env.auth.Login(Credentials{Email: "nobody@example.com", Password: testutils.TestPasswords.Valid}, RequestMeta{})

		assert.ErrorIs(t, wrongPassErr, ErrAuthenticationFailed)
		assert.ErrorIs(t, unknownErr, ErrAuthenticationFailed)
		assert.Equal(t, wrongPassErr.Error(), unknownErr.Error())
	})

	t.Run("creates the session record when none exists", func(t *testing.T) {
		// A user provisioned outside the register flow has no session row.
		hash, err := env.auth.HashPassword(testutils.TestPasswords.Valid)
		require.NoError(t, err)
		orphan := &users.User{UserName: "orphan", Email: "orphan@example.com", Password: hash, Role: users.RoleEmployee}
		require.NoError(t, env.users.Create(orphan))

		result, err := env.auth.Login(Credentials{Email: "orphan@example.com", Password: testutils.TestPasswords.Valid}, RequestMeta{})

		require.NoError(t, err)
		record, err := env.sessions.FindByUser(orphan.ID)
		require.NoError(t, err)
		assert.True(t, env.sessions.Matches(record, result.RefreshToken))
	})
}

func TestService_Refresh(t *testing.T) {
	t.Run("issues a new pair and rotates", func(t *testing.T) {
		env := newTestEnv(t)
		registered, err := env.auth.Register(registerInput("bob@example.com"), RequestMeta{})
		require.NoError(t, err)

		result, err := env.auth.Refresh(registered.RefreshToken, RequestMeta{DeviceInfo: "Chrome on macOS"})

		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, result.User.ID)
		assert.NotEqual(t, registered.RefreshToken, result.RefreshToken)
		assert.NotEmpty(t, result.AccessToken)

		record, err := env.sessions.FindByUser(result.User.ID)
		require.NoError(t, err)
		assert.True(t, env.sessions.Matches(record, result.RefreshToken))
		assert.Equal(t, "Chrome on macOS", record.DeviceInfo)
	})

	t.Run("rotation makes the previous token single-use", func(t *testing.T) {
		env := newTestEnv(t)
		registered, err := env.auth.Register(registerInput("carol@example.com"), RequestMeta{})
		require.NoError(t, err)

		rotated, err := env.auth.Refresh(registered.RefreshToken, RequestMeta{})
		require.NoError(t, err)

		_, err = env.auth.Refresh(registered.RefreshToken, RequestMeta{})
		assert.ErrorIs(t, err, token.ErrInvalidToken)

		// The replacement keeps working.
		_, err = env.auth.Refresh(rotated.RefreshToken, RequestMeta{})
		assert.NoError(t, err)
	})

	t.Run("access token rejected where refresh is required", func(t *testing.T) {
		env := newTestEnv(t)
		registered, err := env.auth.Register(registerInput("dave@example.com"), RequestMeta{})
		require.NoError(t, err)

		_, err = env.auth.Refresh(registered.AccessToken, RequestMeta{})

		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.auth.Refresh("not-a-token", RequestMeta{})

		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		env := newTestEnv(t)
		registered, err := env.auth.Register(registerInput("eve@example.com"), RequestMeta{})
		require.NoError(t, err)

		cfg := testutils.GetTestConfig()
		env.tokens.SetClock(func() time.Time {
			return time.Now().Add(cfg.JWT.RefreshExpiry + time.Hour)
		})

		_, err = env.auth.Refresh(registered.RefreshToken, RequestMeta{})

		assert.ErrorIs(t, err, token.ErrExpiredToken)
	})

	t.Run("principal no longer present", func(t *testing.T) {
		env := newTestEnv(t)

		// A syntactically valid refresh token for a user id that does not exist.
		ghost, err := env.tokens.GenerateRefreshToken(uuid.New().String())
		require.NoError(t, err)

		_, err = env.auth.Refresh(ghost, RequestMeta{})

		assert.ErrorIs(t, err, users.ErrUserNotFound)
	})

	t.Run("revoked session rejected", func(t *testing.T) {
		env := newTestEnv(t)
		registered, err := env.auth.Register(registerInput("grace@example.com"), RequestMeta{})
		require.NoError(t, err)

		record, err := env.sessions.FindByUser(registered.User.ID)
		require.NoError(t, err)
		require.NoError(t, env.sessions.Invalidate(record))

		_, err = env.auth.Refresh(registered.RefreshToken, RequestMeta{})

		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})
}

func TestService_Logout(t *testing.T) {
	t.Run("revokes the whole session", func(t *testing.T) {
		env := newTestEnv(t)
		registered, err := env.auth.Register(registerInput("henry@example.com"), RequestMeta{})
		require.NoError(t, err)

		err = env.auth.Logout(registered.AccessToken)

		require.NoError(t, err)
		record, err := env.sessions.FindByUser(registered.User.ID)
		require.NoError(t, err)
		assert.False(t, record.Usable())

		// The orphaned refresh token is dead too.
		_, err = env.auth.Refresh(registered.RefreshToken, RequestMeta{})
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("login restores a usable session after logout", func(t *testing.T) {
		env := newTestEnv(t)
		registered, err := env.auth.Register(registerInput("irene@example.com"), RequestMeta{})
		require.NoError(t, err)
		require.NoError(t, env.auth.Logout(registered.AccessToken))

		result, err := env.auth.Login(Credentials{Email: "irene@example.com", Password: testutils.TestPasswords.Valid}, RequestMeta{})
		require.NoError(t, err)

		_, err = env.auth.Refresh(result.RefreshToken, RequestMeta{})
		assert.NoError(t, err)
	})

	t.Run("refresh token rejected where access is required", func(t *testing.T) {
		env := newTestEnv(t)
		registered, err := env.auth.Register(registerInput("judy@example.com"), RequestMeta{})
		require.NoError(t, err)

		err = env.auth.Logout(registered.RefreshToken)

		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("missing session record", func(t *testing.T) {
		env := newTestEnv(t)
		hash, err := env.auth.HashPassword(testutils.TestPasswords.Valid)
		require.NoError(t, err)
		orphan := &users.User{UserName: "orphan", Email: "orphan@example.com", Password: hash}
		require.NoError(t, env.users.Create(orphan))

		accessToken, err := env.tokens.GenerateAccessToken(orphan.ID.String())
		require.NoError(t, err)

		err = env.auth.Logout(accessToken)

		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}

func TestService_RegisterRefreshReplayScenario(t *testing.T) {
	env := newTestEnv(t)

	registered, err := env.auth.Register(registerInput("alice@example.com"), RequestMeta{})
	require.NoError(t, err)

	refreshed, err := env.auth.Refresh(registered.RefreshToken, RequestMeta{})
	require.NoError(t, err)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	_, err = env.auth.Refresh(registered.RefreshToken, RequestMeta{})
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestService_ConcurrentLoginLastWriterWins(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.Register(registerInput("kate@example.com"), RequestMeta{})
	require.NoError(t, err)

	creds := Credentials{Email: "kate@example.com", Password: testutils.TestPasswords.Valid}

	// Two racing logins both receive token pairs; whichever rotation commits
	// last owns the surviving refresh value.
	first, err := env.auth.Login(creds, RequestMeta{})
	require.NoError(t, err)
	second, err := env.auth.Login(creds, RequestMeta{})
	require.NoError(t, err)

	_, err = env.auth.Refresh(first.RefreshToken, RequestMeta{})
	assert.ErrorIs(t, err, token.ErrInvalidToken)

	_, err = env.auth.Refresh(second.RefreshToken, RequestMeta{})
	assert.NoError(t, err)
}

func TestService_PasswordHelpers(t *testing.T) {
	env := newTestEnv(t)

	t.Run("hash and verify round-trip", func(t *testing.T) {
		hash, err := env.auth.HashPassword(testutils.TestPasswords.Valid)

		require.NoError(t, err)
		assert.NoError(t, env.auth.VerifyPassword(hash, testutils.TestPasswords.Valid))
		assert.ErrorIs(t, env.auth.VerifyPassword(hash, "Different123"), ErrAuthenticationFailed)
	})

	t.Run("policy enforcement", func(t *testing.T) {
		assert.Error(t, env.auth.ValidatePassword(testutils.TestPasswords.TooShort))
		assert.Error(t, env.auth.ValidatePassword(testutils.TestPasswords.NoUpper))
		assert.Error(t, env.auth.ValidatePassword(testutils.TestPasswords.NoLower))
		assert.Error(t, env.auth.ValidatePassword(testutils.TestPasswords.NoNumber))
		assert.NoError(t, env.auth.ValidatePassword(testutils.TestPasswords.Valid))
	})
}
