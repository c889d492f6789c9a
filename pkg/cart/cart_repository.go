package cart

import (
	"context"
	"errors"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	CartRepository interface {
		GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*entities.ShoppingCart, error)
		GetCartByUserID(ctx context.Context, userID string) (*entities.ShoppingCart, error)
		AddRecipe(ctx context.Context, cartID, recipeID uuid.UUID) error
		RemoveRecipe(ctx context.Context, cartID, recipeID uuid.UUID) (bool, error)
		GetIngredientRows(ctx context.Context, cartID uuid.UUID) ([]domain.IngredientTotal, error)
	}

	cartRepository struct {
		db *gorm.DB
	}
)

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// GetOrCreateCart resolves the user's single cart, creating it on first
// use. The unique index on user_id backstops concurrent first adds.
func (r *cartRepository) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*entities.ShoppingCart, error) {
	cart := entities.ShoppingCart{UserID: userID}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		FirstOrCreate(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) GetCartByUserID(ctx context.Context, userID string) (*entities.ShoppingCart, error) {
	var cart entities.ShoppingCart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddRecipe inserts the membership row inside a transaction so two
// concurrent adds cannot both pass the existence check. Returns
// gorm.ErrDuplicatedKey when the recipe is already a member.
func (r *cartRepository) AddRecipe(ctx context.Context, cartID, recipeID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table("shopping_cart_recipes").
			Where("shopping_cart_id = ? AND recipe_id = ?", cartID, recipeID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrDuplicatedKey
		}

		return tx.Exec(
			"INSERT INTO shopping_cart_recipes (shopping_cart_id, recipe_id) VALUES (?, ?)",
			cartID, recipeID,
		).Error
	})
}

func (r *cartRepository) RemoveRecipe(ctx context.Context, cartID, recipeID uuid.UUID) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(
			"DELETE FROM shopping_cart_recipes WHERE shopping_cart_id = ? AND recipe_id = ?",
			cartID, recipeID,
		)
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// GetIngredientRows flattens every (ingredient, amount) pair across the
// cart's recipes, one row per recipe occurrence. Grouping and summing
// happen in the service (SumIngredientRows).
func (r *cartRepository) GetIngredientRows(ctx context.Context, cartID uuid.UUID) ([]domain.IngredientTotal, error) {
	var rows []domain.IngredientTotal
	err := r.db.WithContext(ctx).
		Table("shopping_cart_recipes").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS total").
		Joins("JOIN recipe_ingredient_links ON recipe_ingredient_links.recipe_id = shopping_cart_recipes.recipe_id").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.id = recipe_ingredient_links.recipe_ingredient_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_cart_recipes.shopping_cart_id = ?", cartID).
		Scan(&rows).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return rows, nil
}
