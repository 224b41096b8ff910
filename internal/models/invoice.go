package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusOpen    InvoiceStatus = "open"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// Invoice: Alacak (AR) faturası. Sipariş oluşturulduğunda otomatik açılır.
type Invoice struct {
	ID         uint   `gorm:"primaryKey"`
	InvoiceNo  string `gorm:"size:20;uniqueIndex;not null"` // INV<YYMM><seq>
	CustomerID uint   `gorm:"index;not null"`
	Customer   Customer
	OrderID    *uint           `gorm:"index"` // manuel faturalarda boş
	Amount     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	PaidAmount decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Status     InvoiceStatus   `gorm:"size:20;not null;default:'open'"`
	DueDate    *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Payments []Payment `gorm:"foreignKey:InvoiceID"`
}

// Payment: Faturaya yapılan tahsilat.
type Payment struct {
	ID          uint   `gorm:"primaryKey"`
	ReferenceNo string `gorm:"size:36;uniqueIndex;not null"` // uuid
	InvoiceID   uint   `gorm:"index;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	PaymentDate time.Time       `gorm:"index;not null"`
	Method      string          `gorm:"size:30"` // havale, nakit, çek
	Note        string          `gorm:"size:255"`
	CreatedAt   time.Time
}
