package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID           uint    `gorm:"primaryKey;autoIncrement"`
	Name         string  `gorm:"not null"`
	Description  string
	SalePrice    float64 `gorm:"not null"` // Required
	RegularPrice float64
	Image        string
	Weight       float64
	Stock        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}
