package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Specialization is a catalog entry for a legal practice area (civil,
// corporate, labor, etc.) grouped under a broader category used when
// recording case results.
type Specialization struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"size:150;not null;uniqueIndex" json:"name"`
	Category    string `gorm:"size:100;not null;index" json:"category"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    bool   `gorm:"not null;default:true;index" json:"is_active"`
}

// BeforeCreate hook to generate UUID
func (s *Specialization) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Specialization) TableName() string {
	return "specializations"
}
