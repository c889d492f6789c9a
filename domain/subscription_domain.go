package domain

import (
	"errors"
)

var (
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessUnsubscribe      = "unsubscribed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"

	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedUnsubscribe      = "failed to unsubscribe"
	MessageFailedGetSubscriptions = "failed to get subscriptions"

	ErrSelfSubscribe        = errors.New("cannot subscribe to yourself")
	ErrAuthorNotFound       = errors.New("author not found")
	ErrSubscriptionNotFound = errors.New("cannot unsubscribe from a user you are not subscribed to")
)

type (
	SubscriptionResponse struct {
		Author       UserResponse          `json:"author"`
		Recipes      []RecipeShortResponse `json:"recipes"`
		RecipesCount int64                 `json:"recipes_count"`
	}
)
