package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationEntry: Mutabakat koşusunda bulunan her uyumsuzluk için bir satır.
// Fatura üzerindeki paid_amount ile tahsilat toplamı karşılaştırılır.
type ReconciliationEntry struct {
	ID             uint   `gorm:"primaryKey"`
	RunID          string `gorm:"size:36;index;not null"` // uuid, aynı koşudaki satırları gruplar
	InvoiceID      uint   `gorm:"index;not null"`
	InvoiceNo      string `gorm:"size:20;not null"`
	StoredAmount   decimal.Decimal `gorm:"type:decimal(20,4);not null"` // fatura üzerindeki paid_amount
	ComputedAmount decimal.Decimal `gorm:"type:decimal(20,4);not null"` // tahsilatların toplamı
	Detail         string          `gorm:"size:255"`
	CreatedAt      time.Time
}
