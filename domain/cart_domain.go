package domain

import (
	"errors"
)

const (
	ShoppingCartFileName    = "shopping_cart.txt"
	ShoppingCartContentType = "text/plain;charset=utf-8"
)

var (
	MessageSuccessAddToCart      = "recipe added to shopping cart"
	MessageSuccessRemoveFromCart = "recipe removed from shopping cart"
	MessageSuccessDownloadCart   = "success download shopping cart"

	MessageFailedAddToCart      = "failed to add recipe to shopping cart"
	MessageFailedRemoveFromCart = "failed to remove recipe from shopping cart"
	MessageFailedDownloadCart   = "failed to download shopping cart"

	ErrShoppingCartNotFound = errors.New("shopping cart does not exist")
	ErrRecipeAlreadyInCart  = errors.New("recipe already added to shopping cart")
	ErrRecipeNotInCart      = errors.New("cannot delete recipe that is not in the shopping cart")
)

type (
	// IngredientTotal is one aggregated row of the shopping list: all cart
	// recipes grouped by ingredient name and unit with their amounts summed.
	IngredientTotal struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Total           int    `json:"total"`
	}
)
