package subscription

import (
	"context"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/recipe"
	"foodgram-backend/pkg/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type subscriptionKey struct {
	userID   uuid.UUID
	authorID uuid.UUID
}

type fakeSubscriptionRepository struct {
	edges map[subscriptionKey]*entities.Subscription
}

func newFakeSubscriptionRepository() *fakeSubscriptionRepository {
	return &fakeSubscriptionRepository{edges: map[subscriptionKey]*entities.Subscription{}}
}

func (f *fakeSubscriptionRepository) CreateSubscription(_ context.Context, userID, authorID uuid.UUID) (*entities.Subscription, error) {
	key := subscriptionKey{userID, authorID}
	if sub, ok := f.edges[key]; ok {
		return sub, nil
	}
	sub := &entities.Subscription{ID: uuid.New(), UserID: userID, AuthorID: authorID}
	f.edges[key] = sub
	return sub, nil
}

func (f *fakeSubscriptionRepository) DeleteSubscription(_ context.Context, userID, authorID uuid.UUID) (bool, error) {
	key := subscriptionKey{userID, authorID}
	if _, ok := f.edges[key]; !ok {
		return false, nil
	}
	delete(f.edges, key)
	return true, nil
}

func (f *fakeSubscriptionRepository) GetSubscriptions(_ context.Context, userID string, _, _ int) ([]*entities.Subscription, int64, error) {
	var subs []*entities.Subscription
	for _, sub := range f.edges {
		if sub.UserID.String() == userID {
			subs = append(subs, sub)
		}
	}
	return subs, int64(len(subs)), nil
}

type fakeUserRepository struct {
	user.UserRepository
	users map[string]*entities.User
}

func (f *fakeUserRepository) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeRecipeRepository struct {
	recipe.RecipeRepository
	byAuthor map[string][]*entities.Recipe
}

func (f *fakeRecipeRepository) GetRecipesByAuthor(_ context.Context, authorID string, limit int) ([]*entities.Recipe, error) {
	recipes := f.byAuthor[authorID]
	if limit > 0 && limit < len(recipes) {
		recipes = recipes[:limit]
	}
	return recipes, nil
}

func (f *fakeRecipeRepository) CountRecipesByAuthor(_ context.Context, authorID string) (int64, error) {
	return int64(len(f.byAuthor[authorID])), nil
}

type subscriptionFixture struct {
	service          SubscriptionService
	subscriptionRepo *fakeSubscriptionRepository
	userRepo         *fakeUserRepository
	recipeRepo       *fakeRecipeRepository
}

func newSubscriptionFixture(users ...*entities.User) subscriptionFixture {
	subscriptionRepo := newFakeSubscriptionRepository()
	userRepo := &fakeUserRepository{users: map[string]*entities.User{}}
	for _, u := range users {
		userRepo.users[u.ID.String()] = u
	}
	recipeRepo := &fakeRecipeRepository{byAuthor: map[string][]*entities.Recipe{}}
	return subscriptionFixture{
		service:          NewSubscriptionService(subscriptionRepo, userRepo, recipeRepo),
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		recipeRepo:       recipeRepo,
	}
}

func TestSubscribeToSelf(t *testing.T) {
	author := &entities.User{ID: uuid.New(), Username: "alice"}
	f := newSubscriptionFixture(author)

	_, err := f.service.Subscribe(context.Background(), author.ID.String(), author.ID.String())
	assert.ErrorIs(t, err, domain.ErrSelfSubscribe)
	assert.Empty(t, f.subscriptionRepo.edges)
}

func TestSubscribeUnknownAuthor(t *testing.T) {
	f := newSubscriptionFixture()

	_, err := f.service.Subscribe(context.Background(), uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrAuthorNotFound)
}

func TestSubscribeIsIdempotent(t *testing.T) {
	author := &entities.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	f := newSubscriptionFixture(author)
	userID := uuid.NewString()

	res, err := f.service.Subscribe(context.Background(), author.ID.String(), userID)
	require.NoError(t, err)
	assert.Equal(t, author.ID.String(), res.Author.ID)

	// subscribing again changes nothing and still succeeds
	_, err = f.service.Subscribe(context.Background(), author.ID.String(), userID)
	require.NoError(t, err)
	assert.Len(t, f.subscriptionRepo.edges, 1)
}

func TestUnsubscribeWithoutSubscription(t *testing.T) {
	author := &entities.User{ID: uuid.New(), Username: "alice"}
	f := newSubscriptionFixture(author)

	err := f.service.Unsubscribe(context.Background(), author.ID.String(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)
}

func TestUnsubscribeUnknownAuthor(t *testing.T) {
	f := newSubscriptionFixture()

	err := f.service.Unsubscribe(context.Background(), uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrAuthorNotFound)
}

func TestSubscribeUnsubscribeRoundTrip(t *testing.T) {
	author := &entities.User{ID: uuid.New(), Username: "alice"}
	f := newSubscriptionFixture(author)
	userID := uuid.NewString()

	_, err := f.service.Subscribe(context.Background(), author.ID.String(), userID)
	require.NoError(t, err)

	err = f.service.Unsubscribe(context.Background(), author.ID.String(), userID)
	require.NoError(t, err)
	assert.Empty(t, f.subscriptionRepo.edges)

	err = f.service.Unsubscribe(context.Background(), author.ID.String(), userID)
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)
}

func TestGetSubscriptionsIncludesAuthorRecipes(t *testing.T) {
	author := &entities.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	f := newSubscriptionFixture(author)
	userID := uuid.New()

	f.recipeRepo.byAuthor[author.ID.String()] = []*entities.Recipe{
		{ID: uuid.New(), Name: "Borscht", CookingTime: 45},
		{ID: uuid.New(), Name: "Pancakes", CookingTime: 20},
		{ID: uuid.New(), Name: "Salad", CookingTime: 10},
	}

	_, err := f.service.Subscribe(context.Background(), author.ID.String(), userID.String())
	require.NoError(t, err)

	key := subscriptionKey{userID, author.ID}
	f.subscriptionRepo.edges[key].Author = author

	subs, count, err := f.service.GetSubscriptions(context.Background(), userID.String(), 1, 10, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, subs, 1)

	sub := subs[0]
	assert.Equal(t, "alice", sub.Author.Username)
	assert.Len(t, sub.Recipes, 2)
	assert.EqualValues(t, 3, sub.RecipesCount)
}
