package models

import "time"

type AccountType string

const (
	AccountAsset     AccountType = "asset"
	AccountLiability AccountType = "liability"
	AccountEquity    AccountType = "equity"
	AccountRevenue   AccountType = "revenue"
	AccountExpense   AccountType = "expense"
)

// Account: Hesap planı kalemi.
type Account struct {
	ID        uint        `gorm:"primaryKey"`
	Code      string      `gorm:"size:20;uniqueIndex;not null"`
	Name      string      `gorm:"size:100;not null"`
	Type      AccountType `gorm:"size:20;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
