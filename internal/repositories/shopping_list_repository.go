package repositories

import (
	"github.com/annashamitova/foodgram-st/internal/models"
	"gorm.io/gorm"
)

// IngredientTotal is one aggregated shopping-list row: all cart recipes'
// amounts for the same (name, unit) pair summed together.
type IngredientTotal struct {
	Name            string
	MeasurementUnit string
	TotalAmount     int
}

// ShoppingListRepository reads everything the shopping-list document needs.
type ShoppingListRepository interface {
	IngredientTotals(userID uint) ([]IngredientTotal, error)
	CartRecipes(userID uint) ([]models.Recipe, error)
	CartSize(userID uint) (int64, error)
}

// PostgresShoppingListRepository implements ShoppingListRepository for PostgreSQL
type PostgresShoppingListRepository struct {
	db *gorm.DB
}

// NewPostgresShoppingListRepository creates a new PostgresShoppingListRepository
func NewPostgresShoppingListRepository(db *gorm.DB) *PostgresShoppingListRepository {
	return &PostgresShoppingListRepository{db: db}
}

// IngredientTotals joins the user's cart to the recipes' ingredient rows and
// sums amounts per (ingredient name, measurement unit), ordered by name.
// Amounts with coinciding names but different units land in separate rows;
// no unit conversion is attempted.
func (r *PostgresShoppingListRepository) IngredientTotals(userID uint) ([]IngredientTotal, error) {
	var totals []IngredientTotal
	err := r.db.Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&totals).Error
	return totals, err
}

// CartRecipes returns the distinct recipes in the user's cart with their
// authors loaded, for the "used in recipes" section. Same ordering as the
// recipe listings.
func (r *PostgresShoppingListRepository) CartRecipes(userID uint) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.Where("id IN (?)",
		r.db.Table("shopping_carts").Select("recipe_id").Where("user_id = ?", userID),
	).Preload("Author").Order("cooking_time DESC").Order("id").Find(&recipes).Error
	return recipes, err
}

func (r *PostgresShoppingListRepository) CartSize(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ShoppingCart{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
