package recipe

import (
	"context"
	"errors"

	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeFilter struct {
		AuthorID string
		TagSlug  string
	}

	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter RecipeFilter, page, limit int) ([]*entities.Recipe, int64, error)
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		ReplaceIngredients(ctx context.Context, recipe *entities.Recipe, items []*entities.RecipeIngredient) error
		ReplaceTags(ctx context.Context, recipe *entities.Recipe, tags []*entities.Tag) error
		DeleteRecipe(ctx context.Context, id string) error

		GetOrCreateRecipeIngredient(ctx context.Context, ingredientID uuid.UUID, amount int) (*entities.RecipeIngredient, error)

		GetRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, error)
		CountRecipesByAuthor(ctx context.Context, authorID string) (int64, error)

		AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
		RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
		GetFavoriteRecipeIDs(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error)
		GetCartRecipeIDs(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter RecipeFilter, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.Recipe{})
	if filter.AuthorID != "" {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if filter.TagSlug != "" {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug = ?", filter.TagSlug)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Offset(offset).
		Limit(limit).
		Order("recipes.created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Omit("Tags", "Ingredients", "Author").Save(recipe).Error
}

func (r *recipeRepository) ReplaceIngredients(ctx context.Context, recipe *entities.Recipe, items []*entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Model(recipe).Association("Ingredients").Replace(items)
}

func (r *recipeRepository) ReplaceTags(ctx context.Context, recipe *entities.Recipe, tags []*entities.Tag) error {
	return r.db.WithContext(ctx).Model(recipe).Association("Tags").Replace(tags)
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe := entities.Recipe{}
		if err := tx.Where("id = ?", id).First(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// GetOrCreateRecipeIngredient resolves the shared (ingredient, amount) row,
// creating it when absent. The composite unique index keeps concurrent
// creates from producing duplicates.
func (r *recipeRepository) GetOrCreateRecipeIngredient(ctx context.Context, ingredientID uuid.UUID, amount int) (*entities.RecipeIngredient, error) {
	item := entities.RecipeIngredient{
		IngredientID: ingredientID,
		Amount:       amount,
	}
	if err := r.db.WithContext(ctx).
		Where("ingredient_id = ? AND amount = ?", ingredientID, amount).
		FirstOrCreate(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *recipeRepository) GetRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountRecipesByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *recipeRepository) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entities.Favorite
		err := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&existing).Error
		if err == nil {
			return gorm.ErrDuplicatedKey
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		favorite := entities.Favorite{
			ID:       uuid.New(),
			UserID:   userID,
			RecipeID: recipeID,
		}
		return tx.Create(&favorite).Error
	})
}

func (r *recipeRepository) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.Favorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *recipeRepository) GetFavoriteRecipeIDs(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&entities.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *recipeRepository) GetCartRecipeIDs(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Table("shopping_cart_recipes").
		Joins("JOIN shopping_carts ON shopping_carts.id = shopping_cart_recipes.shopping_cart_id").
		Where("shopping_carts.user_id = ? AND shopping_cart_recipes.recipe_id IN ?", userID, recipeIDs).
		Pluck("shopping_cart_recipes.recipe_id", &ids).Error; err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
