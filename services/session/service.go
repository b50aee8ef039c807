package session

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/OliveroJ16/inventory-system-api/services/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("session not found")

// Service owns session records. Mutations are single-row updates; two
// concurrent rotations for the same user resolve last-writer-wins, which is
// the intended single-active-session behaviour.
type Service struct {
	db     *gorm.DB
	logger *logging.Service
}

func NewService(db *gorm.DB, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// Create inserts the session record for a user that has none yet.
func (s *Service) Create(userID uuid.UUID, refreshValue, deviceInfo string) (*Session, error) {
	record := Session{
		UserID:       userID,
		RefreshToken: hashValue(refreshValue),
		Revoked:      false,
		Expired:      false,
		Kind:         KindBearer,
		DeviceInfo:   deviceInfo,
	}

	if err := s.db.Create(&record).Error; err != nil {
		s.logger.Error("failed to create session",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("session created",
		zap.String("user_id", userID.String()),
		zap.String("session_id", record.ID.String()))

	return &record, nil
}

func (s *Service) FindByUser(userID uuid.UUID) (*Session, error) {
	var record Session
	err := s.db.Where("user_id = ?", userID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &record, nil
}

func (s *Service) FindByRefreshValue(refreshValue string) (*Session, error) {
	var record Session
	err := s.db.Where("refresh_token_hash = ?", hashValue(refreshValue)).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("session lookup failed - refresh value not found")
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &record, nil
}

// Matches reports whether the presented refresh value is the one currently
// bound to the session. After a rotation the previous value no longer
// matches, which is what makes a refresh token single-use.
func (s *Service) Matches(record *Session, refreshValue string) bool {
	return record.RefreshToken == hashValue(refreshValue)
}

// Rotate swaps in a new refresh value and resets both flags in one update.
func (s *Service) Rotate(record *Session, newRefreshValue, deviceInfo string) error {
	updates := map[string]any{
		"refresh_token_hash": hashValue(newRefreshValue),
		"revoked":            false,
		"expired":            false,
		"device_info":        deviceInfo,
	}

	if err := s.db.Model(&Session{}).Where("id = ?", record.ID).Updates(updates).Error; err != nil {
		s.logger.Error("failed to rotate session",
			zap.String("session_id", record.ID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to rotate session: %w", err)
	}

	record.RefreshToken = updates["refresh_token_hash"].(string)
	record.Revoked = false
	record.Expired = false
	record.DeviceInfo = deviceInfo

	s.logger.Info("session rotated",
		zap.String("user_id", record.UserID.String()),
		zap.String("session_id", record.ID.String()))

	return nil
}

// Invalidate marks the session revoked and expired. The row is kept; the
// user re-enters via login.
func (s *Service) Invalidate(record *Session) error {
	updates := map[string]any{
		"revoked": true,
		"expired": true,
	}

	if err := s.db.Model(&Session{}).Where("id = ?", record.ID).Updates(updates).Error; err != nil {
		s.logger.Error("failed to invalidate session",
			zap.String("session_id", record.ID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to invalidate session: %w", err)
	}

	record.Revoked = true
	record.Expired = true

	s.logger.Info("session invalidated",
		zap.String("user_id", record.UserID.String()),
		zap.String("session_id", record.ID.String()))

	return nil
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
