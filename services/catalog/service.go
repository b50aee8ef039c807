package catalog

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
	ErrCategoryNotFound  = errors.New("category not found")
	ErrArticleNotFound   = errors.New("article not found")
	ErrNameTaken         = errors.New("name is already in use")
	ErrInsufficientStock = errors.New("insufficient stock")
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

func (s *Service) CreateCategory(category *Category) error {
	category.Name = strings.TrimSpace(category.Name)

	var count int64
	if err := s.db.Model(&Category{}).Where("name = ?", category.Name).Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return ErrNameTaken
	}

	if err := s.db.Create(category).Error; err != nil {
		s.logger.Error("failed to create category", zap.Error(err))
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

func (s *Service) FindCategory(id uuid.UUID) (*Category, error) {
	var category Category
	err := s.db.Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

type CategoryPatch struct {
	Name        *string
	Description *string
}

func (s *Service) UpdateCategory(id uuid.UUID, patch CategoryPatch) (*Category, error) {
	category, err := s.FindCategory(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}

	if len(updates) == 0 {
		return category, nil
	}

	if err := s.db.Model(category).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

func (s *Service) ListCategories(name string, req pagination.PageRequest) (pagination.Page[Category], error) {
	filter := func(db *gorm.DB) *gorm.DB {
		query := db.Model(&Category{})
		if name != "" {
			query = query.Where("name LIKE ?", "%"+strings.TrimSpace(name)+"%")
		}
		return query
	}

	var total int64
	if err := filter(s.db).Count(&total).Error; err != nil {
		return pagination.Page[Category]{}, fmt.Errorf("database error: %w", err)
	}

	var records []Category
	if err := req.Scope(filter(s.db)).Find(&records).Error; err != nil {
		return pagination.Page[Category]{}, fmt.Errorf("database error: %w", err)
	}

	return pagination.NewPage(records, req, total), nil
}

func (s *Service) CreateArticle(article *Article) error {
	article.Name = strings.TrimSpace(article.Name)

	if _, err := s.FindCategory(article.CategoryID); err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&Article{}).Where("name = ?", article.Name).Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return ErrNameTaken
	}

	if err := s.db.Create(article).Error; err != nil {
		s.logger.Error("failed to create article", zap.Error(err))
		return fmt.Errorf("failed to create article: %w", err)
	}

	return nil
}

func (s *Service) FindArticle(id uuid.UUID) (*Article, error) {
	var article Article
	err := s.db.Where("id = ?", id).First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &article, nil
}

type ArticlePatch struct {
	Name          *string
	Description   *string
	PurchasePrice *float64
	SalePrice     *float64
	CategoryID    *uuid.UUID
}

func (s *Service) UpdateArticle(id uuid.UUID, patch ArticlePatch) (*Article, error) {
	article, err := s.FindArticle(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.PurchasePrice != nil {
		updates["purchase_price"] = *patch.PurchasePrice
	}
	if patch.SalePrice != nil {
		updates["sale_price"] = *patch.SalePrice
	}
	if patch.CategoryID != nil {
		if _, err := s.FindCategory(*patch.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *patch.CategoryID
	}

	if len(updates) == 0 {
		return article, nil
	}

	if err := s.db.Model(article).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}

	return article, nil
}

func (s *Service) ListArticles(name string, req pagination.PageRequest) (pagination.Page[Article], error) {
	filter := func(db *gorm.DB) *gorm.DB {
		query := db.Model(&Article{})
		if name != "" {
			query = query.Where("name LIKE ?", "%"+strings.TrimSpace(name)+"%")
		}
		return query
	}

	var total int64
	if err := filter(s.db).Count(&total).Error; err != nil {
		return pagination.Page[Article]{}, fmt.Errorf("database error: %w", err)
	}

	var records []Article
	if err := req.Scope(filter(s.db).Preload("Category")).Find(&records).Error; err != nil {
		return pagination.Page[Article]{}, fmt.Errorf("database error: %w", err)
	}

	return pagination.NewPage(records, req, total), nil
}

// AdjustStock applies a signed quantity delta to an article inside the given
// transaction. Sales pass negative deltas and fail on insufficient stock.
func (s *Service) AdjustStock(tx *gorm.DB, articleID uuid.UUID, delta int) (*Article, error) {
	var article Article
	err := tx.Where("id = ?", articleID).First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	newStock := article.Stock + delta
	if newStock < 0 {
		s.logger.Warn("stock adjustment rejected",
			zap.String("article_id", articleID.String()),
			zap.Int("stock", article.Stock),
			zap.Int("delta", delta))
		return nil, ErrInsufficientStock
	}

	if err := tx.Model(&article).Update("stock", newStock).Error; err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}
	article.Stock = newStock

	return &article, nil
}
