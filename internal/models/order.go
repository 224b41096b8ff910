package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusOpen    OrderStatus = "open"
	OrderStatusShipped OrderStatus = "shipped"
)

type OrderItemType string

const (
	OrderItemStock   OrderItemType = "stock"
	OrderItemDivided OrderItemType = "divided"
)

// Order: Satış siparişi. OrderNo gün bazlı sıra numarasıdır (SO<YYMMDD><seq>).
type Order struct {
	ID          uint   `gorm:"primaryKey"`
	OrderNo     string `gorm:"size:20;uniqueIndex;not null"`
	CustomerID  uint   `gorm:"index;not null"`
	Customer    Customer
	Status      OrderStatus     `gorm:"size:20;not null;default:'open'"`
	OrderDate   time.Time       `gorm:"index;not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Note        string          `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem: Siparişteki her kalem tam olarak bir ruloya (ana veya alt) bağlıdır.
type OrderItem struct {
	ID        uint          `gorm:"primaryKey"`
	OrderID   uint          `gorm:"index;not null"`
	ItemType  OrderItemType `gorm:"size:10;not null"`
	ItemID    uint          `gorm:"index;not null"`            // Stock.ID veya Divided.ID
	RollNo    string        `gorm:"size:22;index;not null"`    // denormalize
	Length    float64       `gorm:"not null"`                  // metre
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,4);not null"` // metre başına
	Amount    decimal.Decimal `gorm:"type:decimal(20,4);not null"` // Length * UnitPrice
	CreatedAt time.Time
	UpdatedAt time.Time
}
