package recipe

import (
	"context"
	"errors"
	"mime/multipart"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/utils/storage"
	"foodgram-backend/pkg/ingredient"
	"foodgram-backend/pkg/tag"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, filter RecipeFilter, page, limit int, requesterID string) ([]domain.RecipeResponse, int64, error)
		GetRecipeDetail(ctx context.Context, id string, requesterID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, id string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, id string, userID string) error
		UploadRecipeImage(ctx context.Context, file *multipart.FileHeader) (string, error)

		AddFavorite(ctx context.Context, recipeID string, userID string) (domain.RecipeShortResponse, error)
		RemoveFavorite(ctx context.Context, recipeID string, userID string) error
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		ingredientRepository ingredient.IngredientRepository
		tagRepository        tag.TagRepository
		s3                   storage.AwsS3
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	ingredientRepository ingredient.IngredientRepository,
	tagRepository tag.TagRepository,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		ingredientRepository: ingredientRepository,
		tagRepository:        tagRepository,
		s3:                   s3,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	if req.CookingTime < domain.MinCookingTime {
		return domain.RecipeResponse{}, domain.ErrCookingTimeTooShort
	}
	if len(req.Ingredients) == 0 {
		return domain.RecipeResponse{}, domain.ErrRecipeWithoutIngredients
	}

	items, err := s.resolveIngredients(ctx, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    &userUUID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		Tags:        tags,
		Ingredients: items,
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeDetail(ctx, recipe.ID.String(), userID)
}

func (s *recipeService) GetRecipes(ctx context.Context, filter RecipeFilter, page, limit int, requesterID string) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	annotations, err := s.loadAnnotations(ctx, recipes, requesterID)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		res = append(res, toRecipeResponse(r, annotations))
	}
	return res, count, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, id string, requesterID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	annotations, err := s.loadAnnotations(ctx, []*entities.Recipe{recipe}, requesterID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	return toRecipeResponse(recipe, annotations), nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	if recipe.AuthorID == nil || recipe.AuthorID.String() != userID {
		return domain.RecipeResponse{}, domain.ErrUnauthorizedRecipeAccess
	}

	if req.Name != "" {
		recipe.Name = req.Name
	}
	if req.Text != "" {
		recipe.Text = req.Text
	}
	if req.Image != "" {
		recipe.Image = req.Image
	}
	if req.CookingTime != 0 {
		if req.CookingTime < domain.MinCookingTime {
			return domain.RecipeResponse{}, domain.ErrCookingTimeTooShort
		}
		recipe.CookingTime = req.CookingTime
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe); err != nil {
		return domain.RecipeResponse{}, err
	}

	if req.Ingredients != nil {
		items, err := s.resolveIngredients(ctx, req.Ingredients)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		if err := s.recipeRepository.ReplaceIngredients(ctx, recipe, items); err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	if req.Tags != nil {
		tags, err := s.resolveTags(ctx, req.Tags)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		if err := s.recipeRepository.ReplaceTags(ctx, recipe, tags); err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	return s.GetRecipeDetail(ctx, id, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id string, userID string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if recipe.AuthorID == nil || recipe.AuthorID.String() != userID {
		return domain.ErrUnauthorizedRecipeAccess
	}

	return s.recipeRepository.DeleteRecipe(ctx, id)
}

func (s *recipeService) UploadRecipeImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	return s.s3.UploadFile(ctx, file, "recipes")
}

func (s *recipeService) AddFavorite(ctx context.Context, recipeID string, userID string) (domain.RecipeShortResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
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

	if err := s.recipeRepository.AddFavorite(ctx, userUUID, recipe.ID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeShortResponse{}, domain.ErrAlreadyFavorited
		}
		return domain.RecipeShortResponse{}, err
	}

	return ToRecipeShortResponse(recipe), nil
}

func (s *recipeService) RemoveFavorite(ctx context.Context, recipeID string, userID string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
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

	removed, err := s.recipeRepository.RemoveFavorite(ctx, userUUID, recipe.ID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

func (s *recipeService) resolveIngredients(ctx context.Context, reqs []domain.RecipeIngredientRequest) ([]*entities.RecipeIngredient, error) {
	ids := make([]string, 0, len(reqs))
	for _, item := range reqs {
		if item.Amount < domain.MinIngredientAmount {
			return nil, domain.ErrIngredientAmountTooLow
		}
		ids = append(ids, item.IngredientID)
	}

	known, err := s.ingredientRepository.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	knownSet := make(map[string]bool, len(known))
	for _, ing := range known {
		knownSet[ing.ID.String()] = true
	}

	items := make([]*entities.RecipeIngredient, 0, len(reqs))
	for _, item := range reqs {
		if !knownSet[item.IngredientID] {
			return nil, domain.ErrIngredientNotFound
		}
		ingredientUUID, err := uuid.Parse(item.IngredientID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		resolved, err := s.recipeRepository.GetOrCreateRecipeIngredient(ctx, ingredientUUID, item.Amount)
		if err != nil {
			return nil, err
		}
		items = append(items, resolved)
	}
	return items, nil
}

func (s *recipeService) resolveTags(ctx context.Context, tagIDs []string) ([]*entities.Tag, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}

	tags, err := s.tagRepository.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, domain.ErrTagNotFound
	}
	return tags, nil
}

type recipeAnnotations struct {
	favorited map[string]bool
	inCart    map[string]bool
}

// loadAnnotations batch-loads favorite and cart membership for a page of
// recipes with two queries instead of one pair per row.
func (s *recipeService) loadAnnotations(ctx context.Context, recipes []*entities.Recipe, requesterID string) (recipeAnnotations, error) {
	annotations := recipeAnnotations{
		favorited: map[string]bool{},
		inCart:    map[string]bool{},
	}
	if requesterID == "" || len(recipes) == 0 {
		return annotations, nil
	}

	ids := make([]string, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID.String())
	}

	favorited, err := s.recipeRepository.GetFavoriteRecipeIDs(ctx, requesterID, ids)
	if err != nil {
		return annotations, err
	}
	inCart, err := s.recipeRepository.GetCartRecipeIDs(ctx, requesterID, ids)
	if err != nil {
		return annotations, err
	}

	annotations.favorited = favorited
	annotations.inCart = inCart
	return annotations, nil
}

func toRecipeResponse(r *entities.Recipe, annotations recipeAnnotations) domain.RecipeResponse {
	res := domain.RecipeResponse{
		ID:               r.ID.String(),
		Name:             r.Name,
		Text:             r.Text,
		Image:            r.Image,
		CookingTime:      r.CookingTime,
		Tags:             make([]domain.TagResponse, 0, len(r.Tags)),
		Ingredients:      make([]domain.RecipeIngredientResponse, 0, len(r.Ingredients)),
		IsFavorited:      annotations.favorited[r.ID.String()],
		IsInShoppingCart: annotations.inCart[r.ID.String()],
		CreatedAt:        r.CreatedAt,
	}

	if r.Author != nil {
		res.Author = &domain.UserResponse{
			ID:        r.Author.ID.String(),
			Email:     r.Author.Email,
			Username:  r.Author.Username,
			FirstName: r.Author.FirstName,
			LastName:  r.Author.LastName,
		}
	}

	for _, t := range r.Tags {
		res.Tags = append(res.Tags, tag.ToTagResponse(t))
	}

	for _, item := range r.Ingredients {
		ingredientRes := domain.RecipeIngredientResponse{
			ID:     item.ID.String(),
			Amount: item.Amount,
		}
		if item.Ingredient != nil {
			ingredientRes.Name = item.Ingredient.Name
			ingredientRes.MeasurementUnit = item.Ingredient.MeasurementUnit
		}
		res.Ingredients = append(res.Ingredients, ingredientRes)
	}

	return res
}

func ToRecipeShortResponse(r *entities.Recipe) domain.RecipeShortResponse {
	return domain.RecipeShortResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}
