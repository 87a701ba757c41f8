package models

import (
	"time"

	"gorm.io/datatypes"
)

// SessionRecord is the database row backing one persisted cart
// collection. Key is "cart." + cart name.
type SessionRecord struct {
	Key       string         `gorm:"primaryKey"`
	Data      datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
