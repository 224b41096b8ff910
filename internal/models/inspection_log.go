package models

import "time"

type InspectionEvent string

const (
	InspectionEventStock   InspectionEvent = "stock_inspected"
	InspectionEventDivided InspectionEvent = "divided_inspected"
)

type InspectionItemType string

const (
	InspectionItemStock   InspectionItemType = "stock"
	InspectionItemDivided InspectionItemType = "divided"
)

// InspectionLog: Denetim kaydı. Sadece eklenir, asla güncellenmez veya silinmez.
type InspectionLog struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	EventType InspectionEvent `gorm:"size:30;index;not null" json:"eventType"`

	// Hangi parça? İç id değil, okunabilir rulo numarası tutulur.
	ItemType   InspectionItemType `gorm:"size:10;not null" json:"itemType"`
	ItemRollNo string             `gorm:"size:22;index;not null" json:"itemRollNo"`

	// Kim denetledi? (kullanıcı adı denormalize)
	UserID   uint   `gorm:"not null" json:"userId"`
	UserName string `gorm:"size:100" json:"userName"`

	Note      string    `gorm:"size:255" json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}
