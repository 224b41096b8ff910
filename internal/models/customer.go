package models

import "time"

type Customer struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null;unique"`
	ContactName string `gorm:"size:100"`
	Phone       string `gorm:"size:50"`
	Email       string `gorm:"size:100"`
	Address     string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
