package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User role constants
const (
	RoleClient = "client"
	RoleLawyer = "lawyer"
	RoleAdmin  = "admin"
)

type User struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name       string  `gorm:"not null" json:"name"`
	Email      string  `gorm:"uniqueIndex;not null" json:"email"`
	ProviderID *string `gorm:"type:uuid;index" json:"provider_id"` // Nullable - clients have no provider
	Role       string  `gorm:"not null;default:client" json:"role"`
	IsActive   bool    `gorm:"not null;default:true" json:"is_active"`

	// Relationships
	Provider *Provider `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// HasProvider checks if the user belongs to a provider firm
func (u *User) HasProvider() bool {
	return u.ProviderID != nil && *u.ProviderID != ""
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
