package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provider is a law firm offering consultations and legal opinions
type Provider struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name         string `gorm:"not null" json:"name"`
	Country      string `gorm:"not null" json:"country"`
	Timezone     string `gorm:"not null;default:UTC" json:"timezone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Phone        string `json:"phone"`
	Description  string `gorm:"type:text" json:"description"`
	ContactEmail string `gorm:"not null" json:"contact_email"`
	IsVerified   bool   `gorm:"not null;default:false" json:"is_verified"`
	IsActive     bool   `gorm:"not null;default:true;index" json:"is_active"`

	// Relationships
	Users           []User                   `gorm:"foreignKey:ProviderID" json:"-"`
	Specializations []ProviderSpecialization `gorm:"foreignKey:ProviderID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (p *Provider) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Provider model
func (Provider) TableName() string {
	return "providers"
}
