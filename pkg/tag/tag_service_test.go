package tag

import (
	"context"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTagRepository struct {
	tags map[string]*entities.Tag
}

func newFakeTagRepository() *fakeTagRepository {
	return &fakeTagRepository{tags: map[string]*entities.Tag{}}
}

func (f *fakeTagRepository) CreateTag(_ context.Context, tag *entities.Tag) error {
	f.tags[tag.ID.String()] = tag
	return nil
}

func (f *fakeTagRepository) GetTags(_ context.Context) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	for _, t := range f.tags {
		tags = append(tags, t)
	}
	return tags, nil
}

func (f *fakeTagRepository) GetTagByID(_ context.Context, id string) (*entities.Tag, error) {
	if t, ok := f.tags[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTagRepository) GetTagsByIDs(_ context.Context, ids []string) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	for _, id := range ids {
		if t, ok := f.tags[id]; ok {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func TestCreateTagGeneratesSlug(t *testing.T) {
	repo := newFakeTagRepository()
	service := NewTagService(repo)

	res, err := service.CreateTag(context.Background(), "Quick Breakfast", "#E26C2D")
	require.NoError(t, err)
	assert.Equal(t, "quick-breakfast", res.Slug)
	assert.Equal(t, "Quick Breakfast", res.Name)
	assert.Equal(t, "#E26C2D", res.Color)

	stored := repo.tags[res.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "quick-breakfast", stored.Slug)
}

func TestCreateTagSlugTransliterates(t *testing.T) {
	repo := newFakeTagRepository()
	service := NewTagService(repo)

	res, err := service.CreateTag(context.Background(), "Завтрак", "#49B64E")
	require.NoError(t, err)
	assert.Equal(t, "zavtrak", res.Slug)
}

func TestGetTagByIDUnknown(t *testing.T) {
	service := NewTagService(newFakeTagRepository())

	_, err := service.GetTagByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
}

func TestGetTagsReturnsCreated(t *testing.T) {
	repo := newFakeTagRepository()
	service := NewTagService(repo)

	_, err := service.CreateTag(context.Background(), "Dinner", "#8775D2")
	require.NoError(t, err)

	tags, err := service.GetTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "dinner", tags[0].Slug)
}
