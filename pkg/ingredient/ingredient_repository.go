package ingredient

import (
	"context"

	"foodgram-backend/entities"

	"gorm.io/gorm"
)

type (
	IngredientRepository interface {
		CreateIngredients(ctx context.Context, ingredients []*entities.Ingredient) error
		GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error)
		GetIngredientsByIDs(ctx context.Context, ids []string) ([]*entities.Ingredient, error)
		SearchIngredients(ctx context.Context, name string, page, limit int) ([]*entities.Ingredient, int64, error)
		FindByNameAndUnit(ctx context.Context, name, unit string) (*entities.Ingredient, error)
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) CreateIngredients(ctx context.Context, ingredients []*entities.Ingredient) error {
	return r.db.WithContext(ctx).Create(ingredients).Error
}

func (r *ingredientRepository) GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error) {
	var ing entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ing).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

func (r *ingredientRepository) GetIngredientsByIDs(ctx context.Context, ids []string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) SearchIngredients(ctx context.Context, name string, page, limit int) ([]*entities.Ingredient, int64, error) {
	var ingredients []*entities.Ingredient
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.Ingredient{})
	if name != "" {
		query = query.Where("name ILIKE ?", name+"%")
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("name asc").Find(&ingredients).Error; err != nil {
		return nil, 0, err
	}

	return ingredients, count, nil
}

func (r *ingredientRepository) FindByNameAndUnit(ctx context.Context, name, unit string) (*entities.Ingredient, error) {
	var ing entities.Ingredient
	if err := r.db.WithContext(ctx).
		Where("name = ? AND measurement_unit = ?", name, unit).
		First(&ing).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}
