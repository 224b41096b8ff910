package models

import "time"

// Stock: Ana rulo (jumbo). RemainingLength bölme işlemleriyle azalır,
// toplu silme ile geri artar. 0 <= RemainingLength <= Length her zaman geçerli.
type Stock struct {
	ID              uint   `gorm:"primaryKey"`
	RollNo          string `gorm:"size:20;uniqueIndex;not null"` // SHZ<YY><MM><seq>
	Barcode         string `gorm:"size:20;index;not null"`       // = RollNo
	MaterialType    string `gorm:"size:50;not null"`
	Grammage        int    `gorm:"not null"` // gsm
	Width           int    `gorm:"not null"` // mm
	Length          float64 `gorm:"not null"` // metre, toplam
	Weight          float64 `gorm:"not null"` // kg
	RemainingLength float64 `gorm:"not null"` // metre, bölünmemiş kısım
	IsInspected     bool    `gorm:"default:false"`
	InspectedAt     *time.Time
	InspectedByID   *uint
	InspectedByName string `gorm:"size:100"`
	Note            string `gorm:"size:255"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Divideds []Divided `gorm:"foreignKey:StockID"`
}

// Divided: Ana rulodan kesilen alt rulo. RollNo = ana RollNo + harf eki.
type Divided struct {
	ID              uint   `gorm:"primaryKey"`
	StockID         uint   `gorm:"index;not null"`
	Stock           Stock
	RollNo          string  `gorm:"size:22;uniqueIndex;not null"`
	Barcode         string  `gorm:"size:22;index;not null"` // = RollNo
	Width           int     `gorm:"not null"`               // ana rulodan miras
	Length          float64 `gorm:"not null"`               // kesim anında sabitlenir
	Weight          float64 `gorm:"not null"`               // orantısal: parentWeight * length / parentLength
	IsInspected     bool    `gorm:"default:false"`
	InspectedAt     *time.Time
	InspectedByID   *uint
	InspectedByName string `gorm:"size:100"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
