package trade

import (
	"time"

	"github.com/OliveroJ16/inventory-system-api/services/catalog"
	"github.com/OliveroJ16/inventory-system-api/services/partners"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
)

type Sale struct {
	ID         uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Customer   *partners.Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Total      float64            `gorm:"not null;default:0" json:"total"`
	Status     string             `gorm:"not null;default:PENDING" json:"status"`
	Details    []SaleDetail       `gorm:"foreignKey:SaleID" json:"details,omitempty"`
	Payments   []SalePayment      `gorm:"foreignKey:SaleID" json:"payments,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type SaleDetail struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	SaleID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"sale_id"`
	ArticleID uuid.UUID        `gorm:"type:uuid;not null" json:"article_id"`
	Article   *catalog.Article `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
	Quantity  int              `gorm:"not null" json:"quantity"`
	UnitPrice float64          `gorm:"not null" json:"unit_price"`
	Subtotal  float64          `gorm:"not null" json:"subtotal"`
}

func (d *SaleDetail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type SalePayment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SaleID    uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Method    string    `json:"method"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *SalePayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Purchase struct {
	ID         uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	SupplierID uuid.UUID          `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier   *partners.Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Total      float64            `gorm:"not null;default:0" json:"total"`
	Status     string             `gorm:"not null;default:PAID" json:"status"`
	Details    []PurchaseDetail   `gorm:"foreignKey:PurchaseID" json:"details,omitempty"`
	Payments   []PurchasePayment  `gorm:"foreignKey:PurchaseID" json:"payments,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type PurchaseDetail struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	PurchaseID uuid.UUID        `gorm:"type:uuid;not null;index" json:"purchase_id"`
	ArticleID  uuid.UUID        `gorm:"type:uuid;not null" json:"article_id"`
	Article    *catalog.Article `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
	Quantity   int              `gorm:"not null" json:"quantity"`
	UnitPrice  float64          `gorm:"not null" json:"unit_price"`
	Subtotal   float64          `gorm:"not null" json:"subtotal"`
}

func (d *PurchaseDetail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type PurchasePayment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PurchaseID uuid.UUID `gorm:"type:uuid;not null;index" json:"purchase_id"`
	Amount     float64   `gorm:"not null" json:"amount"`
	Method     string    `json:"method"`
	CreatedAt  time.Time `json:"created_at"`
}

func (p *PurchasePayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
