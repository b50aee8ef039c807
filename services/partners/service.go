package partners

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
	ErrCustomerNotFound = errors.New("customer not found")
	ErrSupplierNotFound = errors.New("supplier not found")
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

func (s *Service) CreateCustomer(customer *Customer) error {
	customer.Name = strings.TrimSpace(customer.Name)

	if err := s.db.Create(customer).Error; err != nil {
		s.logger.Error("failed to create customer", zap.Error(err))
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

func (s *Service) FindCustomer(id uuid.UUID) (*Customer, error) {
	var customer Customer
	err := s.db.Where("id = ?", id).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &customer, nil
}

type CustomerPatch struct {
	Name    *string
	Surname *string
	Email   *string
	Phone   *string
	Address *string
}

func (s *Service) UpdateCustomer(id uuid.UUID, patch CustomerPatch) (*Customer, error) {
	customer, err := s.FindCustomer(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Surname != nil {
		updates["surname"] = *patch.Surname
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.Address != nil {
		updates["address"] = *patch.Address
	}

	if len(updates) == 0 {
		return customer, nil
	}

	if err := s.db.Model(customer).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return customer, nil
}

func (s *Service) ListCustomers(name string, req pagination.PageRequest) (pagination.Page[Customer], error) {
	filter := func(db *gorm.DB) *gorm.DB {
		query := db.Model(&Customer{})
		if name != "" {
			query = query.Where("name LIKE ?", "%"+strings.TrimSpace(name)+"%")
		}
		return query
	}

	var total int64
	if err := filter(s.db).Count(&total).Error; err != nil {
		return pagination.Page[Customer]{}, fmt.Errorf("database error: %w", err)
	}

	var records []Customer
	if err := req.Scope(filter(s.db)).Find(&records).Error; err != nil {
		return pagination.Page[Customer]{}, fmt.Errorf("database error: %w", err)
	}

	return pagination.NewPage(records, req, total), nil
}

func (s *Service) CreateSupplier(supplier *Supplier) error {
	supplier.FullName = strings.TrimSpace(supplier.FullName)

	if err := s.db.Create(supplier).Error; err != nil {
		s.logger.Error("failed to create supplier", zap.Error(err))
		return fmt.Errorf("failed to create supplier: %w", err)
	}

	return nil
}

func (s *Service) FindSupplier(id uuid.UUID) (*Supplier, error) {
	var supplier Supplier
	err := s.db.Where("id = ?", id).First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &supplier, nil
}

type SupplierPatch struct {
	FullName *string
	Email    *string
	Phone    *string
	Address  *string
}

func (s *Service) UpdateSupplier(id uuid.UUID, patch SupplierPatch) (*Supplier, error) {
	supplier, err := s.FindSupplier(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*patch.FullName)
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.Address != nil {
		updates["address"] = *patch.Address
	}

	if len(updates) == 0 {
		return supplier, nil
	}

	if err := s.db.Model(supplier).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}

	return supplier, nil
}

func (s *Service) ListSuppliers(req pagination.PageRequest) (pagination.Page[Supplier], error) {
	var total int64
	if err := s.db.Model(&Supplier{}).Count(&total).Error; err != nil {
		return pagination.Page[Supplier]{}, fmt.Errorf("database error: %w", err)
	}

	var records []Supplier
	if err := req.Scope(s.db.Model(&Supplier{})).Find(&records).Error; err != nil {
		return pagination.Page[Supplier]{}, fmt.Errorf("database error: %w", err)
	}

	return pagination.NewPage(records, req, total), nil
}
