package repositories

import (
	"strings"

	"github.com/annashamitova/foodgram-st/internal/models"
	"gorm.io/gorm"
)

// IngredientRepository defines the interface for ingredient lookups
type IngredientRepository interface {
	GetIngredientByID(id uint) (*models.Ingredient, error)
	GetIngredientsByIDs(ids []uint) ([]models.Ingredient, error)
	ListIngredients(namePrefix string) ([]models.Ingredient, error)
}

// PostgresIngredientRepository implements IngredientRepository for PostgreSQL
type PostgresIngredientRepository struct {
	db *gorm.DB
}

// NewPostgresIngredientRepository creates a new PostgresIngredientRepository
func NewPostgresIngredientRepository(db *gorm.DB) *PostgresIngredientRepository {
	return &PostgresIngredientRepository{db: db}
}

func (r *PostgresIngredientRepository) GetIngredientByID(id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.First(&ingredient, id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *PostgresIngredientRepository) GetIngredientsByIDs(ids []uint) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&ingredients).Error
	return ingredients, err
}

// ListIngredients returns ingredients ordered by name, optionally narrowed
// to a case-insensitive name prefix.
func (r *PostgresIngredientRepository) ListIngredients(namePrefix string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	q := r.db.Order("name")
	if namePrefix != "" {
		q = q.Where("LOWER(name) LIKE ?", strings.ToLower(namePrefix)+"%")
	}
	err := q.Find(&ingredients).Error
	return ingredients, err
}
