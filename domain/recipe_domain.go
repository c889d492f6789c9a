package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessUploadImage     = "recipe image uploaded successfully"
	MessageSuccessAddFavorite     = "recipe added to favorites"
	MessageSuccessRemoveFavorite  = "recipe removed from favorites"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedUploadImage     = "failed to upload recipe image"
	MessageFailedAddFavorite     = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite  = "failed to remove recipe from favorites"

	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrUnauthorizedRecipeAccess = errors.New("unauthorized access to recipe")
	ErrCookingTimeTooShort      = errors.New("cooking time cannot be less than one minute")
	ErrIngredientAmountTooLow   = errors.New("ingredient amount cannot be less than the minimum")
	ErrRecipeWithoutIngredients = errors.New("recipe must contain at least one ingredient")
	ErrAlreadyFavorited         = errors.New("recipe already in favorites")
	ErrFavoriteNotFound         = errors.New("recipe is not in favorites")
)

type (
	RecipeIngredientRequest struct {
		IngredientID string `json:"ingredient_id" validate:"required,uuid"`
		Amount       int    `json:"amount" validate:"required,min=1"`
	}

	CreateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		Image       string                    `json:"image,omitempty"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
		Tags        []string                  `json:"tags" validate:"dive,uuid"`
	}

	UpdateRecipeRequest struct {
		Name        string                    `json:"name,omitempty" validate:"omitempty,max=200"`
		Text        string                    `json:"text,omitempty"`
		Image       string                    `json:"image,omitempty"`
		CookingTime int                       `json:"cooking_time,omitempty" validate:"omitempty,min=1"`
		Ingredients []RecipeIngredientRequest `json:"ingredients,omitempty" validate:"omitempty,min=1,dive"`
		Tags        []string                  `json:"tags,omitempty" validate:"omitempty,dive,uuid"`
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Author           *UserResponse              `json:"author,omitempty"`
		Name             string                     `json:"name"`
		Text             string                     `json:"text"`
		Image            string                     `json:"image,omitempty"`
		CookingTime      int                        `json:"cooking_time"`
		Tags             []TagResponse              `json:"tags"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		CreatedAt        time.Time                  `json:"created_at"`
	}

	// RecipeShortResponse is the compact representation returned by cart and
	// subscription endpoints.
	RecipeShortResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image,omitempty"`
		CookingTime int    `json:"cooking_time"`
	}

	FavoriteRequest struct {
		RecipeID string `json:"recipe_id" validate:"required,uuid"`
	}
)
