package trade

import (
	"errors"
	"fmt"
	"time"

	"github.com/OliveroJ16/inventory-system-api/pagination"
	"github.com/OliveroJ16/inventory-system-api/services/catalog"
	"github.com/OliveroJ16/inventory-system-api/services/logging"
	"github.com/OliveroJ16/inventory-system-api/services/partners"
	"github.com/OliveroJ16/inventory-system-api/services/users"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrSaleNotFound     = errors.New("sale not found")
	ErrPurchaseNotFound = errors.New("purchase not found")
	ErrEmptyOrder       = errors.New("order has no lines")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrInvalidAmount    = errors.New("payment amount must be positive")
)

type Service struct {
	db       *gorm.DB
	catalog  *catalog.Service
	users    *users.Service
	partners *partners.Service
	logger   *logging.Service
}

func NewService(db *gorm.DB, catalogService *catalog.Service, userService *users.Service, partnerService *partners.Service, logger *logging.Service) *Service {
	return &Service{
		db:       db,
		catalog:  catalogService,
		users:    userService,
		partners: partnerService,
		logger:   logger,
	}
}

type OrderLine struct {
	ArticleID uuid.UUID
	Quantity  int
}

type SaleInput struct {
	UserID     uuid.UUID
	CustomerID *uuid.UUID
	Lines      []OrderLine
}

// RegisterSale creates a sale header plus one detail per line, decrementing
// article stock as it goes. The whole order commits or rolls back as a unit.
func (s *Service) RegisterSale(input SaleInput) (*Sale, error) {
	if len(input.Lines) == 0 {
		return nil, ErrEmptyOrder
	}

	if _, err := s.users.FindByID(input.UserID); err != nil {
		return nil, err
	}
	if input.CustomerID != nil {
		if _, err := s.partners.FindCustomer(*input.CustomerID); err != nil {
			return nil, err
		}
	}

	sale := &Sale{
		UserID:     input.UserID,
		CustomerID: input.CustomerID,
		Status:     StatusPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sale).Error; err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}

		var total float64
		for _, line := range input.Lines {
			if line.Quantity <= 0 {
				return ErrInvalidQuantity
			}

			article, err := s.catalog.AdjustStock(tx, line.ArticleID, -line.Quantity)
			if err != nil {
				return err
			}

			detail := SaleDetail{
				SaleID:    sale.ID,
				ArticleID: article.ID,
				Quantity:  line.Quantity,
				UnitPrice: article.SalePrice,
				Subtotal:  article.SalePrice * float64(line.Quantity),
			}
			if err := tx.Create(&detail).Error; err != nil {
				return fmt.Errorf("failed to create sale detail: %w", err)
			}

			total += detail.Subtotal
			sale.Details = append(sale.Details, detail)
		}

		sale.Total = total
		if err := tx.Model(sale).Update("total", total).Error; err != nil {
			return fmt.Errorf("failed to update sale total: %w", err)
		}

		return nil
	})
	if err != nil {
		s.logger.Warn("sale rejected", zap.String("user_id", input.UserID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("sale registered",
		zap.String("sale_id", sale.ID.String()),
		zap.Float64("total", sale.Total))

	return sale, nil
}

func (s *Service) FindSale(id uuid.UUID) (*Sale, error) {
	var sale Sale
	err := s.db.Preload("Customer").Preload("Details").Preload("Payments").Where("id = ?", id).First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &sale, nil
}

// AddSalePayment appends a payment and marks the sale paid once payments
// cover the total.
func (s *Service) AddSalePayment(saleID uuid.UUID, amount float64, method string) (*Sale, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	sale, err := s.FindSale(saleID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		payment := SalePayment{SaleID: sale.ID, Amount: amount, Method: method}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		sale.Payments = append(sale.Payments, payment)

		var paid float64
		for _, p := range sale.Payments {
			paid += p.Amount
		}
		if paid >= sale.Total && sale.Status != StatusPaid {
			if err := tx.Model(sale).Update("status", StatusPaid).Error; err != nil {
				return fmt.Errorf("failed to update sale status: %w", err)
			}
			sale.Status = StatusPaid
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

type SaleFilter struct {
	CustomerID *uuid.UUID
	From       *time.Time
	To         *time.Time
}

func (s *Service) ListSales(filter SaleFilter, req pagination.PageRequest) (pagination.Page[Sale], error) {
	scope := func(db *gorm.DB) *gorm.DB {
		query := db.Model(&Sale{})
		if filter.CustomerID != nil {
			query = query.Where("customer_id = ?", *filter.CustomerID)
		}
		if filter.From != nil {
			query = query.Where("created_at >= ?", *filter.From)
		}
		if filter.To != nil {
			query = query.Where("created_at <= ?", *filter.To)
		}
		return query
	}

	var total int64
	if err := scope(s.db).Count(&total).Error; err != nil {
		return pagination.Page[Sale]{}, fmt.Errorf("database error: %w", err)
	}

	var records []Sale
	if err := req.Scope(scope(s.db).Preload("Customer").Preload("Details")).Find(&records).Error; err != nil {
		return pagination.Page[Sale]{}, fmt.Errorf("database error: %w", err)
	}

	return pagination.NewPage(records, req, total), nil
}

type PurchaseInput struct {
	UserID     uuid.UUID
	SupplierID uuid.UUID
	Lines      []OrderLine
}

// RegisterPurchase mirrors RegisterSale on the supply side: stock is
// incremented and lines are priced at the article's purchase price.
func (s *Service) RegisterPurchase(input PurchaseInput) (*Purchase, error) {
	if len(input.Lines) == 0 {
		return nil, ErrEmptyOrder
	}

	if _, err := s.users.FindByID(input.UserID); err != nil {
		return nil, err
	}
	if _, err := s.partners.FindSupplier(input.SupplierID); err != nil {
		return nil, err
	}

	purchase := &Purchase{
		UserID:     input.UserID,
		SupplierID: input.SupplierID,
		Status:     StatusPaid,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(purchase).Error; err != nil {
			return fmt.Errorf("failed to create purchase: %w", err)
		}

		var total float64
		for _, line := range input.Lines {
			if line.Quantity <= 0 {
				return ErrInvalidQuantity
			}

			article, err := s.catalog.AdjustStock(tx, line.ArticleID, line.Quantity)
			if err != nil {
				return err
			}

			detail := PurchaseDetail{
				PurchaseID: purchase.ID,
				ArticleID:  article.ID,
				Quantity:   line.Quantity,
				UnitPrice:  article.PurchasePrice,
				Subtotal:   article.PurchasePrice * float64(line.Quantity),
			}
			if err := tx.Create(&detail).Error; err != nil {
				return fmt.Errorf("failed to create purchase detail: %w", err)
			}

			total += detail.Subtotal
			purchase.Details = append(purchase.Details, detail)
		}

		purchase.Total = total
		if err := tx.Model(purchase).Update("total", total).Error; err != nil {
			return fmt.Errorf("failed to update purchase total: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase registered",
		zap.String("purchase_id", purchase.ID.String()),
		zap.Float64("total", purchase.Total))

	return purchase, nil
}

func (s *Service) FindPurchase(id uuid.UUID) (*Purchase, error) {
	var purchase Purchase
	err := s.db.Preload("Supplier").Preload("Details").Preload("Payments").Where("id = ?", id).First(&purchase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &purchase, nil
}

func (s *Service) AddPurchasePayment(purchaseID uuid.UUID, amount float64, method string) (*Purchase, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	purchase, err := s.FindPurchase(purchaseID)
	if err != nil {
		return nil, err
	}

	payment := PurchasePayment{PurchaseID: purchase.ID, Amount: amount, Method: method}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	purchase.Payments = append(purchase.Payments, payment)

	return purchase, nil
}

type PurchaseFilter struct {
	SupplierID *uuid.UUID
	From       *time.Time
	To         *time.Time
}

func (s *Service) ListPurchases(filter PurchaseFilter, req pagination.PageRequest) (pagination.Page[Purchase], error) {
	scope := func(db *gorm.DB) *gorm.DB {
		query := db.Model(&Purchase{})
		if filter.SupplierID != nil {
			query = query.Where("supplier_id = ?", *filter.SupplierID)
		}
		if filter.From != nil {
			query = query.Where("created_at >= ?", *filter.From)
		}
		if filter.To != nil {
			query = query.Where("created_at <= ?", *filter.To)
		}
		return query
	}

	var total int64
	if err := scope(s.db).Count(&total).Error; err != nil {
		return pagination.Page[Purchase]{}, fmt.Errorf("database error: %w", err)
	}

	var records []Purchase
	if err := req.Scope(scope(s.db).Preload("Supplier").Preload("Details")).Find(&records).Error; err != nil {
		return pagination.Page[Purchase]{}, fmt.Errorf("database error: %w", err)
	}

	return pagination.NewPage(records, req, total), nil
}
