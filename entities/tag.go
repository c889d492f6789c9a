package entities

import (
	"github.com/google/uuid"
)

type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name  string    `gorm:"size:200" json:"name"`
	Color string    `gorm:"size:7" json:"color"`
	Slug  string    `gorm:"size:200;uniqueIndex" json:"slug"`
}
