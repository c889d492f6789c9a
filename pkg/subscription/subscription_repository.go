package subscription

import (
	"context"

	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	SubscriptionRepository interface {
		CreateSubscription(ctx context.Context, userID, authorID uuid.UUID) (*entities.Subscription, error)
		DeleteSubscription(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
		GetSubscriptions(ctx context.Context, userID string, page, limit int) ([]*entities.Subscription, int64, error)
	}

	subscriptionRepository struct {
		db *gorm.DB
	}
)

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// CreateSubscription is an idempotent get-or-create: a second subscribe to
// the same author returns the existing edge. The composite unique index
// keeps concurrent calls from creating two.
func (r *subscriptionRepository) CreateSubscription(ctx context.Context, userID, authorID uuid.UUID) (*entities.Subscription, error) {
	sub := entities.Subscription{
		UserID:   userID,
		AuthorID: authorID,
	}
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		FirstOrCreate(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) DeleteSubscription(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&entities.Subscription{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *subscriptionRepository) GetSubscriptions(ctx context.Context, userID string, page, limit int) ([]*entities.Subscription, int64, error) {
	var subs []*entities.Subscription
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("user_id = ?", userID).
		Offset(offset).
		Limit(limit).
		Order("created_at desc").
		Find(&subs).Error; err != nil {
		return nil, 0, err
	}

	return subs, count, nil
}
