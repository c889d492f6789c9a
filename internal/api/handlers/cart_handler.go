package handlers

import (
	"errors"
	"fmt"

	"foodgram-backend/domain"
	"foodgram-backend/internal/api/presenters"
	"foodgram-backend/pkg/cart"

	"github.com/gofiber/fiber/v2"
)

type (
	CartHandler interface {
		AddToShoppingCart(c *fiber.Ctx) error
		RemoveFromShoppingCart(c *fiber.Ctx) error
		DownloadShoppingCart(c *fiber.Ctx) error
	}

	cartHandler struct {
		cartService cart.CartService
	}
)

func NewCartHandler(cartService cart.CartService) CartHandler {
	return &cartHandler{cartService: cartService}
}

func (h *cartHandler) AddToShoppingCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")

	res, err := h.cartService.AddRecipe(c.Context(), recipeID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedAddToCart, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddToCart, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddToCart)
}

func (h *cartHandler) RemoveFromShoppingCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")

	if err := h.cartService.RemoveRecipe(c.Context(), recipeID, userID); err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedRemoveFromCart, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRemoveFromCart, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadShoppingCart serves the aggregated shopping list as a plain-text
// attachment rather than the usual JSON envelope.
func (h *cartHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	content, err := h.cartService.DownloadShoppingCart(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrShoppingCartNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedDownloadCart, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDownloadCart, err)
	}

	c.Set(fiber.HeaderContentType, domain.ShoppingCartContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", domain.ShoppingCartFileName))
	return c.SendString(content)
}
