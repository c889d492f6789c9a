package cart

import (
	"context"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/recipe"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCartRepository struct {
	carts   map[uuid.UUID]*entities.ShoppingCart
	members map[uuid.UUID]map[uuid.UUID]bool
	rows    []domain.IngredientTotal
}

func newFakeCartRepository() *fakeCartRepository {
	return &fakeCartRepository{
		carts:   map[uuid.UUID]*entities.ShoppingCart{},
		members: map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (f *fakeCartRepository) GetOrCreateCart(_ context.Context, userID uuid.UUID) (*entities.ShoppingCart, error) {
	if cart, ok := f.carts[userID]; ok {
		return cart, nil
	}
	cart := &entities.ShoppingCart{ID: uuid.New(), UserID: userID}
	f.carts[userID] = cart
	f.members[cart.ID] = map[uuid.UUID]bool{}
	return cart, nil
}

func (f *fakeCartRepository) GetCartByUserID(_ context.Context, userID string) (*entities.ShoppingCart, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	if cart, ok := f.carts[userUUID]; ok {
		return cart, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCartRepository) AddRecipe(_ context.Context, cartID, recipeID uuid.UUID) error {
	if f.members[cartID][recipeID] {
		return gorm.ErrDuplicatedKey
	}
	f.members[cartID][recipeID] = true
	return nil
}

func (f *fakeCartRepository) RemoveRecipe(_ context.Context, cartID, recipeID uuid.UUID) (bool, error) {
	if !f.members[cartID][recipeID] {
		return false, nil
	}
	delete(f.members[cartID], recipeID)
	return true, nil
}

func (f *fakeCartRepository) GetIngredientRows(_ context.Context, _ uuid.UUID) ([]domain.IngredientTotal, error) {
	return f.rows, nil
}

type fakeRecipeRepository struct {
	recipe.RecipeRepository
	recipes map[string]*entities.Recipe
}

func (f *fakeRecipeRepository) GetRecipeByID(_ context.Context, id string) (*entities.Recipe, error) {
	if r, ok := f.recipes[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newCartTestService(recipes ...*entities.Recipe) (CartService, *fakeCartRepository) {
	cartRepo := newFakeCartRepository()
	recipeRepo := &fakeRecipeRepository{recipes: map[string]*entities.Recipe{}}
	for _, r := range recipes {
		recipeRepo.recipes[r.ID.String()] = r
	}
	return NewCartService(cartRepo, recipeRepo), cartRepo
}

func TestAddRecipeUnknownRecipe(t *testing.T) {
	service, _ := newCartTestService()

	_, err := service.AddRecipe(context.Background(), uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestAddRecipeCreatesCartOnFirstUse(t *testing.T) {
	rec := &entities.Recipe{ID: uuid.New(), Name: "Borscht", CookingTime: 45}
	service, cartRepo := newCartTestService(rec)
	userID := uuid.New()

	res, err := service.AddRecipe(context.Background(), rec.ID.String(), userID.String())
	require.NoError(t, err)
	assert.Equal(t, rec.ID.String(), res.ID)
	assert.Equal(t, "Borscht", res.Name)
	assert.Equal(t, 45, res.CookingTime)

	cart, ok := cartRepo.carts[userID]
	require.True(t, ok)
	assert.True(t, cartRepo.members[cart.ID][rec.ID])
}

func TestAddRecipeTwiceConflicts(t *testing.T) {
	rec := &entities.Recipe{ID: uuid.New(), Name: "Omelette"}
	service, cartRepo := newCartTestService(rec)
	userID := uuid.NewString()

	_, err := service.AddRecipe(context.Background(), rec.ID.String(), userID)
	require.NoError(t, err)

	_, err = service.AddRecipe(context.Background(), rec.ID.String(), userID)
	assert.ErrorIs(t, err, domain.ErrRecipeAlreadyInCart)

	// the first membership is untouched
	assert.Len(t, cartRepo.carts, 1)
}

func TestRemoveRecipeNotInCart(t *testing.T) {
	rec := &entities.Recipe{ID: uuid.New(), Name: "Salad"}
	service, _ := newCartTestService(rec)

	err := service.RemoveRecipe(context.Background(), rec.ID.String(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRecipeNotInCart)
}

func TestAddRemoveRoundTrip(t *testing.T) {
	rec := &entities.Recipe{ID: uuid.New(), Name: "Soup"}
	service, cartRepo := newCartTestService(rec)
	userID := uuid.New()

	_, err := service.AddRecipe(context.Background(), rec.ID.String(), userID.String())
	require.NoError(t, err)

	err = service.RemoveRecipe(context.Background(), rec.ID.String(), userID.String())
	require.NoError(t, err)

	cart := cartRepo.carts[userID]
	assert.False(t, cartRepo.members[cart.ID][rec.ID])

	// removing again reports the absence
	err = service.RemoveRecipe(context.Background(), rec.ID.String(), userID.String())
	assert.ErrorIs(t, err, domain.ErrRecipeNotInCart)
}

func TestDownloadShoppingCartMissingCart(t *testing.T) {
	service, _ := newCartTestService()

	_, err := service.DownloadShoppingCart(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrShoppingCartNotFound)
}

func TestDownloadShoppingCartEmptyCart(t *testing.T) {
	rec := &entities.Recipe{ID: uuid.New(), Name: "Pasta"}
	service, _ := newCartTestService(rec)
	userID := uuid.NewString()

	_, err := service.AddRecipe(context.Background(), rec.ID.String(), userID)
	require.NoError(t, err)
	err = service.RemoveRecipe(context.Background(), rec.ID.String(), userID)
	require.NoError(t, err)

	content, err := service.DownloadShoppingCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestDownloadShoppingCartSumsAcrossRecipes(t *testing.T) {
	rec := &entities.Recipe{ID: uuid.New(), Name: "Pancakes"}
	service, cartRepo := newCartTestService(rec)
	userID := uuid.NewString()

	_, err := service.AddRecipe(context.Background(), rec.ID.String(), userID)
	require.NoError(t, err)

	// one row per recipe occurrence: two recipes each list eggs and flour
	cartRepo.rows = []domain.IngredientTotal{
		{Name: "flour", MeasurementUnit: "g", Total: 100},
		{Name: "eggs", MeasurementUnit: "pcs", Total: 2},
		{Name: "eggs", MeasurementUnit: "pcs", Total: 3},
		{Name: "flour", MeasurementUnit: "g", Total: 50},
	}

	content, err := service.DownloadShoppingCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "eggs (pcs)— 5\r\nflour (g)— 150", content)
}

func TestSumIngredientRows(t *testing.T) {
	totals := SumIngredientRows([]domain.IngredientTotal{
		{Name: "flour", MeasurementUnit: "g", Total: 100},
		{Name: "eggs", MeasurementUnit: "pcs", Total: 2},
		{Name: "eggs", MeasurementUnit: "pcs", Total: 3},
		{Name: "flour", MeasurementUnit: "g", Total: 50},
	})

	require.Len(t, totals, 2)
	assert.Equal(t, domain.IngredientTotal{Name: "eggs", MeasurementUnit: "pcs", Total: 5}, totals[0])
	assert.Equal(t, domain.IngredientTotal{Name: "flour", MeasurementUnit: "g", Total: 150}, totals[1])
}

func TestSumIngredientRowsGroupsByDisplayIdentity(t *testing.T) {
	// same name with different units stays in separate groups
	totals := SumIngredientRows([]domain.IngredientTotal{
		{Name: "sugar", MeasurementUnit: "g", Total: 40},
		{Name: "sugar", MeasurementUnit: "tbsp", Total: 1},
		{Name: "sugar", MeasurementUnit: "g", Total: 10},
	})

	require.Len(t, totals, 2)
	assert.Equal(t, domain.IngredientTotal{Name: "sugar", MeasurementUnit: "g", Total: 50}, totals[0])
	assert.Equal(t, domain.IngredientTotal{Name: "sugar", MeasurementUnit: "tbsp", Total: 1}, totals[1])
}

func TestRenderShoppingList(t *testing.T) {
	assert.Equal(t, "", RenderShoppingList(nil))

	out := RenderShoppingList([]domain.IngredientTotal{
		{Name: "milk", MeasurementUnit: "ml", Total: 500},
	})
	assert.Equal(t, "milk (ml)— 500", out)
}
