package repositories

import (
	"errors"

	"github.com/annashamitova/foodgram-st/internal/models"
	"gorm.io/gorm"
)

// ErrRelationNotFound is returned when a (user, recipe) pair to delete does
// not exist for the given relation kind.
var ErrRelationNotFound = errors.New("relation not found")

// RelationRepository is the backing store for both favorite and shopping
// cart toggles. One implementation serves both kinds: the pairs have the
// same shape and the same uniqueness guarantee.
type RelationRepository interface {
	Exists(kind models.RelationKind, userID, recipeID uint) (bool, error)
	Create(kind models.RelationKind, userID, recipeID uint) error
	Delete(kind models.RelationKind, userID, recipeID uint) error
	RecipeIDs(kind models.RelationKind, userID uint) ([]uint, error)
}

// PostgresRelationRepository implements RelationRepository for PostgreSQL
type PostgresRelationRepository struct {
	db *gorm.DB
}

// NewPostgresRelationRepository creates a new PostgresRelationRepository
func NewPostgresRelationRepository(db *gorm.DB) *PostgresRelationRepository {
	return &PostgresRelationRepository{db: db}
}

// model maps a relation kind to its GORM model. The kind set is closed;
// an unknown kind is a programming error.
func (r *PostgresRelationRepository) model(kind models.RelationKind) interface{} {
	if kind == models.RelationFavorite {
		return &models.Favorite{}
	}
	return &models.ShoppingCart{}
}

func (r *PostgresRelationRepository) Exists(kind models.RelationKind, userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.Model(r.model(kind)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRelationRepository) Create(kind models.RelationKind, userID, recipeID uint) error {
	if kind == models.RelationFavorite {
		return r.db.Create(&models.Favorite{UserID: userID, RecipeID: recipeID}).Error
	}
	return r.db.Create(&models.ShoppingCart{UserID: userID, RecipeID: recipeID}).Error
}

func (r *PostgresRelationRepository) Delete(kind models.RelationKind, userID, recipeID uint) error {
	res := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(r.model(kind))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRelationNotFound
	}
	return nil
}

func (r *PostgresRelationRepository) RecipeIDs(kind models.RelationKind, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(r.model(kind)).Where("user_id = ?", userID).Pluck("recipe_id", &ids).Error
	return ids, err
}
