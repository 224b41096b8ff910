package models

import "time"

type ShipmentStatus string

const (
	ShipmentStatusPreparing ShipmentStatus = "preparing"
	ShipmentStatusCompleted ShipmentStatus = "completed"
)

// Shipment: Bir siparişin sevkiyatı. Tüm kalemler barkod okutularak
// doğrulandığında tamamlanır ve sipariş "shipped" olur.
type Shipment struct {
	ID          uint   `gorm:"primaryKey"`
	ReferenceNo string `gorm:"size:36;uniqueIndex;not null"` // uuid
	OrderID     uint   `gorm:"index;not null"`
	Order       Order
	Status      ShipmentStatus `gorm:"size:20;not null;default:'preparing'"`
	CompletedAt *time.Time
	Note        string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []ShipmentItem `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
}

// ShipmentItem: Sevkiyattaki her rulo. Barkod okutulana kadar ScannedAt boş.
type ShipmentItem struct {
	ID          uint `gorm:"primaryKey"`
	ShipmentID  uint `gorm:"index;not null"`
	OrderItemID uint `gorm:"index;not null"`
	OrderItem   OrderItem
	RollNo      string `gorm:"size:22;not null"` // beklenen barkod (denormalize)
	ScannedBarcode string `gorm:"size:22"`
	ScannedAt      *time.Time
	ScannedByID    *uint
	ScannedByName  string `gorm:"size:100"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
