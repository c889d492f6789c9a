package recipe

import (
	"context"
	"mime/multipart"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/ingredient"
	"foodgram-backend/pkg/tag"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type favoriteKey struct {
	userID   uuid.UUID
	recipeID uuid.UUID
}

type ingredientAmountKey struct {
	ingredientID uuid.UUID
	amount       int
}

type fakeRecipeRepository struct {
	recipes     map[string]*entities.Recipe
	items       map[ingredientAmountKey]*entities.RecipeIngredient
	favorites   map[favoriteKey]bool
	cartMembers map[string]map[string]bool
}

func newFakeRecipeRepository() *fakeRecipeRepository {
	return &fakeRecipeRepository{
		recipes:     map[string]*entities.Recipe{},
		items:       map[ingredientAmountKey]*entities.RecipeIngredient{},
		favorites:   map[favoriteKey]bool{},
		cartMembers: map[string]map[string]bool{},
	}
}

func (f *fakeRecipeRepository) CreateRecipe(_ context.Context, recipe *entities.Recipe) error {
	f.recipes[recipe.ID.String()] = recipe
	return nil
}

func (f *fakeRecipeRepository) GetRecipeByID(_ context.Context, id string) (*entities.Recipe, error) {
	if r, ok := f.recipes[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRecipeRepository) GetRecipes(_ context.Context, _ RecipeFilter, _, _ int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	for _, r := range f.recipes {
		recipes = append(recipes, r)
	}
	return recipes, int64(len(recipes)), nil
}

func (f *fakeRecipeRepository) UpdateRecipe(_ context.Context, recipe *entities.Recipe) error {
	f.recipes[recipe.ID.String()] = recipe
	return nil
}

func (f *fakeRecipeRepository) ReplaceIngredients(_ context.Context, recipe *entities.Recipe, items []*entities.RecipeIngredient) error {
	recipe.Ingredients = items
	return nil
}

func (f *fakeRecipeRepository) ReplaceTags(_ context.Context, recipe *entities.Recipe, tags []*entities.Tag) error {
	recipe.Tags = tags
	return nil
}

func (f *fakeRecipeRepository) DeleteRecipe(_ context.Context, id string) error {
	if _, ok := f.recipes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.recipes, id)
	return nil
}

func (f *fakeRecipeRepository) GetOrCreateRecipeIngredient(_ context.Context, ingredientID uuid.UUID, amount int) (*entities.RecipeIngredient, error) {
	key := ingredientAmountKey{ingredientID, amount}
	if item, ok := f.items[key]; ok {
		return item, nil
	}
	item := &entities.RecipeIngredient{ID: uuid.New(), IngredientID: ingredientID, Amount: amount}
	f.items[key] = item
	return item, nil
}

func (f *fakeRecipeRepository) GetRecipesByAuthor(_ context.Context, authorID string, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	for _, r := range f.recipes {
		if r.AuthorID != nil && r.AuthorID.String() == authorID {
			recipes = append(recipes, r)
		}
	}
	if limit > 0 && limit < len(recipes) {
		recipes = recipes[:limit]
	}
	return recipes, nil
}

func (f *fakeRecipeRepository) CountRecipesByAuthor(_ context.Context, authorID string) (int64, error) {
	recipes, _ := f.GetRecipesByAuthor(context.Background(), authorID, 0)
	return int64(len(recipes)), nil
}

func (f *fakeRecipeRepository) AddFavorite(_ context.Context, userID, recipeID uuid.UUID) error {
	key := favoriteKey{userID, recipeID}
	if f.favorites[key] {
		return gorm.ErrDuplicatedKey
	}
	f.favorites[key] = true
	return nil
}

func (f *fakeRecipeRepository) RemoveFavorite(_ context.Context, userID, recipeID uuid.UUID) (bool, error) {
	key := favoriteKey{userID, recipeID}
	if !f.favorites[key] {
		return false, nil
	}
	delete(f.favorites, key)
	return true, nil
}

func (f *fakeRecipeRepository) GetFavoriteRecipeIDs(_ context.Context, userID string, recipeIDs []string) (map[string]bool, error) {
	set := map[string]bool{}
	for _, id := range recipeIDs {
		recipeUUID, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		userUUID, err := uuid.Parse(userID)
		if err != nil {
			continue
		}
		if f.favorites[favoriteKey{userUUID, recipeUUID}] {
			set[id] = true
		}
	}
	return set, nil
}

func (f *fakeRecipeRepository) GetCartRecipeIDs(_ context.Context, userID string, recipeIDs []string) (map[string]bool, error) {
	set := map[string]bool{}
	for _, id := range recipeIDs {
		if f.cartMembers[userID][id] {
			set[id] = true
		}
	}
	return set, nil
}

type fakeIngredientRepository struct {
	ingredient.IngredientRepository
	ingredients map[string]*entities.Ingredient
}

func (f *fakeIngredientRepository) GetIngredientsByIDs(_ context.Context, ids []string) ([]*entities.Ingredient, error) {
	var found []*entities.Ingredient
	for _, id := range ids {
		if ing, ok := f.ingredients[id]; ok {
			found = append(found, ing)
		}
	}
	return found, nil
}

type fakeTagRepository struct {
	tag.TagRepository
	tags map[string]*entities.Tag
}

func (f *fakeTagRepository) GetTagsByIDs(_ context.Context, ids []string) ([]*entities.Tag, error) {
	var found []*entities.Tag
	for _, id := range ids {
		if t, ok := f.tags[id]; ok {
			found = append(found, t)
		}
	}
	return found, nil
}

type fakeStorage struct{}

func (fakeStorage) UploadFile(_ context.Context, file *multipart.FileHeader, folder string) (string, error) {
	return "https://bucket.example.com/" + folder + "/" + file.Filename, nil
}

func (fakeStorage) DeleteFile(_ context.Context, _ string) error { return nil }

type recipeFixture struct {
	service        RecipeService
	recipeRepo     *fakeRecipeRepository
	ingredientRepo *fakeIngredientRepository
	tagRepo        *fakeTagRepository
}

func newRecipeFixture() recipeFixture {
	recipeRepo := newFakeRecipeRepository()
	ingredientRepo := &fakeIngredientRepository{ingredients: map[string]*entities.Ingredient{}}
	tagRepo := &fakeTagRepository{tags: map[string]*entities.Tag{}}
	return recipeFixture{
		service:        NewRecipeService(recipeRepo, ingredientRepo, tagRepo, fakeStorage{}),
		recipeRepo:     recipeRepo,
		ingredientRepo: ingredientRepo,
		tagRepo:        tagRepo,
	}
}

func (f recipeFixture) addIngredient(name, unit string) *entities.Ingredient {
	ing := &entities.Ingredient{ID: uuid.New(), Name: name, MeasurementUnit: unit}
	f.ingredientRepo.ingredients[ing.ID.String()] = ing
	return ing
}

func validCreateRequest(ingredientID string) domain.CreateRecipeRequest {
	return domain.CreateRecipeRequest{
		Name:        "Borscht",
		Text:        "Simmer the broth, add beets.",
		CookingTime: 45,
		Ingredients: []domain.RecipeIngredientRequest{
			{IngredientID: ingredientID, Amount: 2},
		},
	}
}

func TestCreateRecipeCookingTimeTooShort(t *testing.T) {
	f := newRecipeFixture()
	ing := f.addIngredient("beets", "pcs")

	req := validCreateRequest(ing.ID.String())
	req.CookingTime = 0

	_, err := f.service.CreateRecipe(context.Background(), req, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrCookingTimeTooShort)
}

func TestCreateRecipeWithoutIngredients(t *testing.T) {
	f := newRecipeFixture()

	req := validCreateRequest(uuid.NewString())
	req.Ingredients = nil

	_, err := f.service.CreateRecipe(context.Background(), req, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRecipeWithoutIngredients)
}

func TestCreateRecipeAmountTooLow(t *testing.T) {
	f := newRecipeFixture()
	ing := f.addIngredient("beets", "pcs")

	req := validCreateRequest(ing.ID.String())
	req.Ingredients[0].Amount = 0

	_, err := f.service.CreateRecipe(context.Background(), req, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrIngredientAmountTooLow)
}

func TestCreateRecipeUnknownIngredient(t *testing.T) {
	f := newRecipeFixture()

	req := validCreateRequest(uuid.NewString())

	_, err := f.service.CreateRecipe(context.Background(), req, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
}

func TestCreateRecipeUnknownTag(t *testing.T) {
	f := newRecipeFixture()
	ing := f.addIngredient("beets", "pcs")

	req := validCreateRequest(ing.ID.String())
	req.Tags = []string{uuid.NewString()}

	_, err := f.service.CreateRecipe(context.Background(), req, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
}

func TestCreateRecipeSuccess(t *testing.T) {
	f := newRecipeFixture()
	ing := f.addIngredient("beets", "pcs")
	userID := uuid.NewString()

	res, err := f.service.CreateRecipe(context.Background(), validCreateRequest(ing.ID.String()), userID)
	require.NoError(t, err)
	assert.Equal(t, "Borscht", res.Name)
	assert.False(t, res.IsFavorited)
	assert.False(t, res.IsInShoppingCart)
	require.Len(t, res.Ingredients, 1)
	assert.Equal(t, "beets", res.Ingredients[0].Name)
	assert.Equal(t, 2, res.Ingredients[0].Amount)
}

func TestCreateRecipeSharesIngredientRows(t *testing.T) {
	f := newRecipeFixture()
	ing := f.addIngredient("beets", "pcs")
	userID := uuid.NewString()

	first, err := f.service.CreateRecipe(context.Background(), validCreateRequest(ing.ID.String()), userID)
	require.NoError(t, err)
	second, err := f.service.CreateRecipe(context.Background(), validCreateRequest(ing.ID.String()), userID)
	require.NoError(t, err)

	// same (ingredient, amount) pair resolves to the same shared row
	require.Len(t, first.Ingredients, 1)
	require.Len(t, second.Ingredients, 1)
	assert.Equal(t, first.Ingredients[0].ID, second.Ingredients[0].ID)
	assert.Len(t, f.recipeRepo.items, 1)
}

func TestUpdateRecipeOnlyAuthor(t *testing.T) {
	f := newRecipeFixture()
	ing := f.addIngredient("beets", "pcs")
	authorID := uuid.NewString()

	created, err := f.service.CreateRecipe(context.Background(), validCreateRequest(ing.ID.String()), authorID)
	require.NoError(t, err)

	_, err = f.service.UpdateRecipe(
		context.Background(),
		created.ID,
		domain.UpdateRecipeRequest{Name: "Stolen"},
		uuid.NewString(),
	)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)

	res, err := f.service.UpdateRecipe(
		context.Background(),
		created.ID,
		domain.UpdateRecipeRequest{Name: "Green borscht"},
		authorID,
	)
	require.NoError(t, err)
	assert.Equal(t, "Green borscht", res.Name)
}

func TestUpdateRecipeUnknownRecipe(t *testing.T) {
	f := newRecipeFixture()

	_, err := f.service.UpdateRecipe(
		context.Background(),
		uuid.NewString(),
		domain.UpdateRecipeRequest{Name: "Nothing"},
		uuid.NewString(),
	)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestDeleteRecipeOnlyAuthor(t *testing.T) {
	f := newRecipeFixture()
	ing := f.addIngredient("beets", "pcs")
	authorID := uuid.NewString()

	created, err := f.service.CreateRecipe(context.Background(), validCreateRequest(ing.ID.String()), authorID)
	require.NoError(t, err)

	err = f.service.DeleteRecipe(context.Background(), created.ID, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)

	err = f.service.DeleteRecipe(context.Background(), created.ID, authorID)
	require.NoError(t, err)

	_, err = f.service.GetRecipeDetail(context.Background(), created.ID, authorID)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestAddFavoriteTwiceConflicts(t *testing.T) {
	f := newRecipeFixture()
	ing := f.addIngredient("beets", "pcs")
	userID := uuid.NewString()

	created, err := f.service.CreateRecipe(context.Background(), validCreateRequest(ing.ID.String()), userID)
	require.NoError(t, err)

	short, err := f.service.AddFavorite(context.Background(), created.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, short.ID)

	_, err = f.service.AddFavorite(context.Background(), created.ID, userID)
	assert.ErrorIs(t, err, domain.ErrAlreadyFavorited)
}

func TestRemoveFavoriteNotFavorited(t *testing.T) {
	f := newRecipeFixture()
	ing := f.addIngredient("beets", "pcs")
	userID := uuid.NewString()

	created, err := f.service.CreateRecipe(context.Background(), validCreateRequest(ing.ID.String()), userID)
	require.NoError(t, err)

	err = f.service.RemoveFavorite(context.Background(), created.ID, userID)
	assert.ErrorIs(t, err, domain.ErrFavoriteNotFound)
}

func TestGetRecipeDetailAnnotations(t *testing.T) {
	f := newRecipeFixture()
	ing := f.addIngredient("beets", "pcs")
	userID := uuid.NewString()

	created, err := f.service.CreateRecipe(context.Background(), validCreateRequest(ing.ID.String()), userID)
	require.NoError(t, err)

	_, err = f.service.AddFavorite(context.Background(), created.ID, userID)
	require.NoError(t, err)
	f.recipeRepo.cartMembers[userID] = map[string]bool{created.ID: true}

	res, err := f.service.GetRecipeDetail(context.Background(), created.ID, userID)
	require.NoError(t, err)
	assert.True(t, res.IsFavorited)
	assert.True(t, res.IsInShoppingCart)

	// anonymous requesters see both flags unset
	res, err = f.service.GetRecipeDetail(context.Background(), created.ID, "")
	require.NoError(t, err)
	assert.False(t, res.IsFavorited)
	assert.False(t, res.IsInShoppingCart)
}
