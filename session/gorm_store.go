package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/junaidrashid-git/cartledger-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps cart collections in the session_records table as JSON.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(key string) (models.Collection, error) {
	var rec models.SessionRecord
	if err := s.db.First(&rec, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("session: read %q: %w", key, err)
	}

	var col models.Collection
	if err := json.Unmarshal(rec.Data, &col); err != nil {
		// Unreadable payload counts as an empty cart.
		return nil, nil
	}
	return col, nil
}

func (s *GormStore) Put(key string, col models.Collection) error {
	data, err := json.Marshal(col)
	if err != nil {
		return fmt.Errorf("session: encode %q: %w", key, err)
	}
	rec := models.SessionRecord{Key: key, Data: data}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("session: write %q: %w", key, err)
	}
	return nil
}

func (s *GormStore) Delete(key string) error {
	if err := s.db.Delete(&models.SessionRecord{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("session: delete %q: %w", key, err)
	}
	return nil
}
