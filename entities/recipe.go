package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	AuthorID    *uuid.UUID `gorm:"type:uuid" json:"author_id,omitempty"`
	Name        string     `gorm:"size:200" json:"name"`
	Text        string     `gorm:"type:text" json:"text"`
	Image       string     `json:"image,omitempty"`
	CookingTime int        `json:"cooking_time"`

	Author      *User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
	Tags        []*Tag              `gorm:"many2many:recipe_tags" json:"tags,omitempty"`
	Ingredients []*RecipeIngredient `gorm:"many2many:recipe_ingredient_links" json:"ingredients,omitempty"`
	Timestamp
}

// RecipeIngredient carries the amount of one catalog ingredient used by a
// recipe. Rows are deduplicated by (ingredient, amount) and shared between
// recipes through the recipe_ingredient_links join table.
type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	IngredientID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_ingredient_amount" json:"ingredient_id"`
	Amount       int       `gorm:"uniqueIndex:idx_ingredient_amount" json:"amount"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
}

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_favorite_user_recipe" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}
