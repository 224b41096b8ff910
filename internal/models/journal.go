package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry: Yevmiye kaydı. Satırların borç toplamı alacak toplamına
// eşit olmadan kaydedilemez.
type JournalEntry struct {
	ID         uint      `gorm:"primaryKey"`
	EntryNo    string    `gorm:"size:20;uniqueIndex;not null"` // JE<YYMM><seq>
	EntryDate  time.Time `gorm:"index;not null"`
	Memo       string    `gorm:"size:255"`
	PostedByID uint      `gorm:"not null"`
	PostedBy   string    `gorm:"size:100"` // kullanıcı adı denormalize
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Lines []JournalLine `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
}

// JournalLine: Tek satır; borç veya alacak, ikisi birden değil.
type JournalLine struct {
	ID        uint `gorm:"primaryKey"`
	EntryID   uint `gorm:"index;not null"`
	AccountID uint `gorm:"index;not null"`
	Account   Account
	Debit     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Credit    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CreatedAt time.Time
}
