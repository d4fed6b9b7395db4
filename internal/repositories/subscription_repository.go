package repositories

import (
	"errors"

	"github.com/annashamitova/foodgram-st/internal/models"
	"gorm.io/gorm"
)

// ErrSubscriptionNotFound is returned when unsubscribing from an author the
// user does not follow.
var ErrSubscriptionNotFound = errors.New("subscription not found")

// SubscriptionRepository defines the interface for subscription data operations
type SubscriptionRepository interface {
	CreateSubscription(sub *models.Subscription) error
	DeleteSubscription(userID, authorID uint) error
	IsSubscribed(userID, authorID uint) (bool, error)
	GetSubscribedAuthors(userID uint, limit, offset int) ([]models.User, error)
	CountSubscribedAuthors(userID uint) (int64, error)
}

// PostgresSubscriptionRepository implements SubscriptionRepository for PostgreSQL
type PostgresSubscriptionRepository struct {
	db *gorm.DB
}

// NewPostgresSubscriptionRepository creates a new PostgresSubscriptionRepository
func NewPostgresSubscriptionRepository(db *gorm.DB) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db}
}

func (r *PostgresSubscriptionRepository) CreateSubscription(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *PostgresSubscriptionRepository) DeleteSubscription(userID, authorID uint) error {
	res := r.db.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *PostgresSubscriptionRepository) IsSubscribed(userID, authorID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Subscription{}).Where("user_id = ? AND author_id = ?", userID, authorID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresSubscriptionRepository) GetSubscribedAuthors(userID uint, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id IN (?)",
		r.db.Table("subscriptions").Select("author_id").Where("user_id = ?", userID),
	).Order("email").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

func (r *PostgresSubscriptionRepository) CountSubscribedAuthors(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
