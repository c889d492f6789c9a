package subscription

import (
	"context"
	"errors"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/recipe"
	"foodgram-backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	SubscriptionService interface {
		Subscribe(ctx context.Context, authorID string, userID string) (domain.SubscriptionResponse, error)
		Unsubscribe(ctx context.Context, authorID string, userID string) error
		GetSubscriptions(ctx context.Context, userID string, page, limit, recipesLimit int) ([]domain.SubscriptionResponse, int64, error)
	}

	subscriptionService struct {
		subscriptionRepository SubscriptionRepository
		userRepository         user.UserRepository
		recipeRepository       recipe.RecipeRepository
	}
)

func NewSubscriptionService(
	subscriptionRepository SubscriptionRepository,
	userRepository user.UserRepository,
	recipeRepository recipe.RecipeRepository,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepository: subscriptionRepository,
		userRepository:         userRepository,
		recipeRepository:       recipeRepository,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, authorID string, userID string) (domain.SubscriptionResponse, error) {
	// Self-subscription is rejected before any lookup or mutation.
	if authorID == userID {
		return domain.SubscriptionResponse{}, domain.ErrSelfSubscribe
	}

	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SubscriptionResponse{}, domain.ErrAuthorNotFound
		}
		return domain.SubscriptionResponse{}, err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.SubscriptionResponse{}, domain.ErrParseUUID
	}

	if _, err := s.subscriptionRepository.CreateSubscription(ctx, userUUID, author.ID); err != nil {
		return domain.SubscriptionResponse{}, err
	}

	return s.buildSubscriptionResponse(ctx, author, 0)
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, authorID string, userID string) error {
	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAuthorNotFound
		}
		return err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	removed, err := s.subscriptionRepository.DeleteSubscription(ctx, userUUID, author.ID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

func (s *subscriptionService) GetSubscriptions(ctx context.Context, userID string, page, limit, recipesLimit int) ([]domain.SubscriptionResponse, int64, error) {
	subs, count, err := s.subscriptionRepository.GetSubscriptions(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.SubscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		if sub.Author == nil {
			continue
		}
		item, err := s.buildSubscriptionResponse(ctx, sub.Author, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, item)
	}

	return res, count, nil
}

func (s *subscriptionService) buildSubscriptionResponse(ctx context.Context, author *entities.User, recipesLimit int) (domain.SubscriptionResponse, error) {
	recipes, err := s.recipeRepository.GetRecipesByAuthor(ctx, author.ID.String(), recipesLimit)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	count, err := s.recipeRepository.CountRecipesByAuthor(ctx, author.ID.String())
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	shortRecipes := make([]domain.RecipeShortResponse, 0, len(recipes))
	for _, r := range recipes {
		shortRecipes = append(shortRecipes, recipe.ToRecipeShortResponse(r))
	}

	return domain.SubscriptionResponse{
		Author: domain.UserResponse{
			ID:        author.ID.String(),
			Email:     author.Email,
			Username:  author.Username,
			FirstName: author.FirstName,
			LastName:  author.LastName,
		},
		Recipes:      shortRecipes,
		RecipesCount: count,
	}, nil
}
