package users

import (
	"errors"
	"fmt"
	"strings"

	"github.com/OliveroJ16/inventory-system-api/pagination"
	"github.com/OliveroJ16/inventory-system-api/services/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email is already in use")
)

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

func (s *Service) Create(user *User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	var count int64
	if err := s.db.Model(&User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		s.logger.Warn("user creation failed - email already in use")
		return ErrEmailTaken
	}

	if err := s.db.Create(user).Error; err != nil {
		s.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return nil
}

func (s *Service) FindByEmail(email string) (*User, error) {
	var user User
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *Service) FindByID(id uuid.UUID) (*User, error) {
	var user User
	err := s.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

// Update applies the non-zero fields of patch to an existing user.
func (s *Service) Update(id uuid.UUID, patch UserPatch) (*User, error) {
	user, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.UserName != nil {
		updates["user_name"] = *patch.UserName
	}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Surname != nil {
		updates["surname"] = *patch.Surname
	}
	if patch.Role != nil {
		updates["role"] = *patch.Role
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		s.logger.Error("failed to update user",
			zap.String("user_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

type UserPatch struct {
	UserName *string
	Name     *string
	Surname  *string
	Role     *Role
}

func (s *Service) List(req pagination.PageRequest) (pagination.Page[User], error) {
	var total int64
	if err := s.db.Model(&User{}).Count(&total).Error; err != nil {
		return pagination.Page[User]{}, fmt.Errorf("database error: %w", err)
	}

	var records []User
	if err := req.Scope(s.db.Model(&User{})).Find(&records).Error; err != nil {
		return pagination.Page[User]{}, fmt.Errorf("database error: %w", err)
	}

	return pagination.NewPage(records, req, total), nil
}
