package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/OliveroJ16/inventory-system-api/config"
	"github.com/OliveroJ16/inventory-system-api/services/logging"
	"github.com/OliveroJ16/inventory-system-api/services/session"
	"github.com/OliveroJ16/inventory-system-api/services/token"
	"github.com/OliveroJ16/inventory-system-api/services/users"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordHashingFailed = errors.New("failed to hash password")
	// ErrAuthenticationFailed is returned for unknown emails and for wrong
	// passwords alike, so a caller cannot probe which accounts exist.
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// Service runs the register/login/refresh/logout state machine. It holds no
// state of its own; concurrent instances share only the session store.
type Service struct {
	config   *config.Config
	users    *users.Service
	sessions *session.Service
	tokens   *token.Service
	logger   *logging.Service
}

func NewService(cfg *config.Config, userSvc *users.Service, sessionSvc *session.Service, tokenSvc *token.Service, logger *logging.Service) *Service {
	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		cfg.Auth.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		config:   cfg,
		users:    userSvc,
		sessions: sessionSvc,
		tokens:   tokenSvc,
		logger:   logger,
	}
}

type RegisterInput struct {
	UserName string
	Name     string
	Surname  string
	Email    string
	Password string
	Role     users.Role
}

type Credentials struct {
	Email    string
	Password string
}

// RequestMeta carries boundary-derived context such as a device label. The
// orchestrator stores it on the session record but never branches on it.
type RequestMeta struct {
	DeviceInfo string
}

type AuthResult struct {
	User         *users.User
	AccessToken  string
	RefreshToken string
}

// Register creates the user, establishes their session record and issues the
// first token pair.
func (s *Service) Register(input RegisterInput, meta RequestMeta) (*AuthResult, error) {
	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = users.RoleEmployee
	}

	user := &users.User{
		UserName: input.UserName,
		Name:     input.Name,
		Surname:  input.Surname,
		Email:    input.Email,
		Password: hash,
		Role:     role,
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := s.issueTokenPair(user.ID)
	if err != nil {
		return nil, err
	}

	if _, err := s.sessions.Create(user.ID, refreshToken, meta.DeviceInfo); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()))

	return &AuthResult{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Login authenticates the credentials and rotates the user's session to a
// fresh refresh value, creating the record if registration predates the
// sessions table.
func (s *Service) Login(creds Credentials, meta RequestMeta) (*AuthResult, error) {
	user, err := s.users.FindByEmail(creds.Email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			s.logger.Warn("login failed - unknown email")
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	if err := s.VerifyPassword(user.Password, creds.Password); err != nil {
		s.logger.Warn("login failed - wrong password",
			zap.String("user_id", user.ID.String()))
		return nil, ErrAuthenticationFailed
	}

	accessToken, refreshToken, err := s.issueTokenPair(user.ID)
	if err != nil {
		return nil, err
	}

	record, err := s.sessions.FindByUser(user.ID)
	switch {
	case err == nil:
		if err := s.sessions.Rotate(record, refreshToken, meta.DeviceInfo); err != nil {
			return nil, err
		}
	case errors.Is(err, session.ErrSessionNotFound):
		if _, err := s.sessions.Create(user.ID, refreshToken, meta.DeviceInfo); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()))

	return &AuthResult{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair and rotates the
// session. The presented value must be the one currently bound to the
// session; a value superseded by a previous rotation fails, which makes
// every refresh token single-use.
func (s *Service) Refresh(refreshToken string, meta RequestMeta) (*AuthResult, error) {
	claims, err := s.tokens.ValidateToken(refreshToken, token.PurposeRefresh)
	if err != nil {
		if errors.Is(err, token.ErrExpiredToken) {
			return nil, token.ErrExpiredToken
		}
		return nil, token.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, token.ErrInvalidToken
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}

	record, err := s.sessions.FindByRefreshValue(refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			s.logger.Warn("refresh rejected - presented value not bound to any session",
				zap.String("user_id", user.ID.String()))
			return nil, token.ErrInvalidToken
		}
		return nil, err
	}

	if record.UserID != user.ID || !record.Usable() {
		s.logger.Warn("refresh rejected - session revoked or expired",
			zap.String("user_id", user.ID.String()))
		return nil, token.ErrInvalidToken
	}

	newAccessToken, newRefreshToken, err := s.issueTokenPair(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Rotate(record, newRefreshToken, meta.DeviceInfo); err != nil {
		return nil, err
	}

	s.logger.Info("session refreshed",
		zap.String("user_id", user.ID.String()))

	return &AuthResult{User: user, AccessToken: newAccessToken, RefreshToken: newRefreshToken}, nil
}

// Logout revokes the whole session identified by a valid access token. The
// last-issued refresh token becomes unusable until the next login.
func (s *Service) Logout(accessToken string) error {
	claims, err := s.tokens.ValidateToken(accessToken, token.PurposeAccess)
	if err != nil {
		if errors.Is(err, token.ErrExpiredToken) {
			return token.ErrExpiredToken
		}
		return token.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return token.ErrInvalidToken
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}

	record, err := s.sessions.FindByUser(user.ID)
	if err != nil {
		return err
	}

	if err := s.sessions.Invalidate(record); err != nil {
		return err
	}

	s.logger.Info("user logged out",
		zap.String("user_id", user.ID.String()))

	return nil
}

func (s *Service) issueTokenPair(userID uuid.UUID) (string, string, error) {
	accessToken, err := s.tokens.GenerateAccessToken(userID.String())
	if err != nil {
		return "", "", err
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(userID.String())
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *Service) ValidatePassword(password string) error {
	if len(password) < s.config.Auth.MinLength {
		return fmt.Errorf("password must be at least %d characters", s.config.Auth.MinLength)
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	var missing []string

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if s.config.Auth.RequireUpper && !hasUpper {
		missing = append(missing, "one uppercase letter")
	}
	if s.config.Auth.RequireLower && !hasLower {
		missing = append(missing, "one lowercase letter")
	}
	if s.config.Auth.RequireNumber && !hasNumber {
		missing = append(missing, "one number")
	}
	if s.config.Auth.RequireSpecial && !hasSpecial {
		missing = append(missing, "one special character")
	}

	if len(missing) > 0 {
		return fmt.Errorf("password must contain at least %s", strings.Join(missing, ", "))
	}

	return nil
}

func (s *Service) HashPassword(password string) (string, error) {
	if err := s.ValidatePassword(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.Auth.BcryptCost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return "", ErrPasswordHashingFailed
	}

	return string(hash), nil
}

func (s *Service) VerifyPassword(hashedPassword, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		return ErrAuthenticationFailed
	}
	return nil
}
