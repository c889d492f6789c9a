package entities

import (
	"github.com/google/uuid"
)

// ShoppingCart is created lazily on the first add and persists even when
// emptied. The recipes relation is non-owning: clearing the cart never
// touches the recipe rows themselves.
type ShoppingCart struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`

	User    *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipes []*Recipe `gorm:"many2many:shopping_cart_recipes" json:"recipes,omitempty"`
	Timestamp
}
