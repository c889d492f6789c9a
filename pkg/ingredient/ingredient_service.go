package ingredient

import (
	"context"
	"errors"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"gorm.io/gorm"
)

type (
	IngredientService interface {
		GetIngredients(ctx context.Context, name string, page, limit int) ([]domain.IngredientResponse, int64, error)
		GetIngredientByID(ctx context.Context, id string) (domain.IngredientResponse, error)
		ImportIngredients(ctx context.Context, items []domain.IngredientResponse) (int, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepository: ingredientRepository}
}

func (s *ingredientService) GetIngredients(ctx context.Context, name string, page, limit int) ([]domain.IngredientResponse, int64, error) {
	ingredients, count, err := s.ingredientRepository.SearchIngredients(ctx, name, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, ing := range ingredients {
		res = append(res, toIngredientResponse(ing))
	}
	return res, count, nil
}

func (s *ingredientService) GetIngredientByID(ctx context.Context, id string) (domain.IngredientResponse, error) {
	ing, err := s.ingredientRepository.GetIngredientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.IngredientResponse{}, domain.ErrIngredientNotFound
		}
		return domain.IngredientResponse{}, err
	}
	return toIngredientResponse(ing), nil
}

// ImportIngredients loads catalog fixtures, skipping rows whose exact
// (name, unit) pair is already present. Returns the number created.
func (s *ingredientService) ImportIngredients(ctx context.Context, items []domain.IngredientResponse) (int, error) {
	var toCreate []*entities.Ingredient
	for _, item := range items {
		_, err := s.ingredientRepository.FindByNameAndUnit(ctx, item.Name, item.MeasurementUnit)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		toCreate = append(toCreate, &entities.Ingredient{
			Name:            item.Name,
			MeasurementUnit: item.MeasurementUnit,
		})
	}

	if len(toCreate) == 0 {
		return 0, nil
	}

	if err := s.ingredientRepository.CreateIngredients(ctx, toCreate); err != nil {
		return 0, err
	}
	return len(toCreate), nil
}

func toIngredientResponse(ing *entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:              ing.ID.String(),
		Name:            ing.Name,
		MeasurementUnit: ing.MeasurementUnit,
	}
}
