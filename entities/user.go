package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Email       string    `gorm:"uniqueIndex;size:254" json:"email"`
	Username    string    `gorm:"size:150" json:"username"`
	FirstName   string    `gorm:"size:150" json:"first_name"`
	LastName    string    `gorm:"size:150" json:"last_name"`
	Password    string    `gorm:"size:150" json:"-"`
	IsSuperuser bool      `json:"is_superuser"`
	IsBlocked   bool      `json:"is_blocked"`

	Timestamp
}
