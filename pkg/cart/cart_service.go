package cart

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"foodgram-backend/domain"
	"foodgram-backend/pkg/recipe"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	CartService interface {
		AddRecipe(ctx context.Context, recipeID string, userID string) (domain.RecipeShortResponse, error)
		RemoveRecipe(ctx context.Context, recipeID string, userID string) error
		DownloadShoppingCart(ctx context.Context, userID string) (string, error)
	}

	cartService struct {
		cartRepository   CartRepository
		recipeRepository recipe.RecipeRepository
	}
)

func NewCartService(cartRepository CartRepository, recipeRepository recipe.RecipeRepository) CartService {
	return &cartService{
		cartRepository:   cartRepository,
		recipeRepository: recipeRepository,
	}
}

func (s *cartService) AddRecipe(ctx context.Context, recipeID string, userID string) (domain.RecipeShortResponse, error) {
	rec, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeShortResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeShortResponse{}, err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeShortResponse{}, domain.ErrParseUUID
	}

	shoppingCart, err := s.cartRepository.GetOrCreateCart(ctx, userUUID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}

	if err := s.cartRepository.AddRecipe(ctx, shoppingCart.ID, rec.ID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeShortResponse{}, domain.ErrRecipeAlreadyInCart
		}
		return domain.RecipeShortResponse{}, err
	}

	return recipe.ToRecipeShortResponse(rec), nil
}

func (s *cartService) RemoveRecipe(ctx context.Context, recipeID string, userID string) error {
	rec, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	shoppingCart, err := s.cartRepository.GetOrCreateCart(ctx, userUUID)
	if err != nil {
		return err
	}

	removed, err := s.cartRepository.RemoveRecipe(ctx, shoppingCart.ID, rec.ID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrRecipeNotInCart
	}
	return nil
}

// DownloadShoppingCart renders the aggregated shopping list for the user's
// cart. A missing cart is an error; an empty cart yields an empty report.
func (s *cartService) DownloadShoppingCart(ctx context.Context, userID string) (string, error) {
	shoppingCart, err := s.cartRepository.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrShoppingCartNotFound
		}
		return "", err
	}

	rows, err := s.cartRepository.GetIngredientRows(ctx, shoppingCart.ID)
	if err != nil {
		return "", err
	}

	return RenderShoppingList(SumIngredientRows(rows)), nil
}

// SumIngredientRows folds flattened (name, unit, amount) rows into one
// group per display identity, summing amounts, ordered by name ascending.
// Two catalog rows with the same name and unit land in the same group.
func SumIngredientRows(rows []domain.IngredientTotal) []domain.IngredientTotal {
	type groupKey struct {
		name string
		unit string
	}

	sums := make(map[groupKey]int, len(rows))
	for _, row := range rows {
		sums[groupKey{row.Name, row.MeasurementUnit}] += row.Total
	}

	totals := make([]domain.IngredientTotal, 0, len(sums))
	for key, total := range sums {
		totals = append(totals, domain.IngredientTotal{
			Name:            key.name,
			MeasurementUnit: key.unit,
			Total:           total,
		})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Name != totals[j].Name {
			return totals[i].Name < totals[j].Name
		}
		return totals[i].MeasurementUnit < totals[j].MeasurementUnit
	})
	return totals
}

// RenderShoppingList formats aggregated rows one per line, CRLF separated,
// matching the downloadable shopping_cart.txt layout.
func RenderShoppingList(totals []domain.IngredientTotal) string {
	lines := make([]string, 0, len(totals))
	for _, row := range totals {
		lines = append(lines, fmt.Sprintf("%s (%s)— %d", row.Name, row.MeasurementUnit, row.Total))
	}
	return strings.Join(lines, "\r\n")
}
