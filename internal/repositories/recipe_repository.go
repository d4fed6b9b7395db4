package repositories

import (
	"github.com/annashamitova/foodgram-st/internal/models"
	"gorm.io/gorm"
)

// RecipeFilter narrows a recipe listing. Zero values mean "no filter".
type RecipeFilter struct {
	AuthorID    uint
	FavoritedBy uint // recipes favorited by this user
	InCartOf    uint // recipes in this user's shopping cart
}

// RecipeRepository defines the interface for recipe data operations
type RecipeRepository interface {
	CreateRecipe(recipe *models.Recipe, ingredients []models.IngredientAmountRequest) error
	UpdateRecipe(recipe *models.Recipe, ingredients []models.IngredientAmountRequest) error
	GetRecipeByID(id uint) (*models.Recipe, error)
	ListRecipes(filter RecipeFilter, limit, offset int) ([]models.Recipe, error)
	CountRecipes(filter RecipeFilter) (int64, error)
	ListRecipesByAuthor(authorID uint, limit int) ([]models.Recipe, error)
	CountRecipesByAuthor(authorID uint) (int64, error)
	DeleteRecipe(id uint) error
}

// PostgresRecipeRepository implements RecipeRepository for PostgreSQL
type PostgresRecipeRepository struct {
	db *gorm.DB
}

// NewPostgresRecipeRepository creates a new PostgresRecipeRepository
func NewPostgresRecipeRepository(db *gorm.DB) *PostgresRecipeRepository {
	return &PostgresRecipeRepository{db: db}
}

// CreateRecipe inserts the recipe together with its ingredient rows in one
// transaction, so a recipe is never visible without ingredients.
func (r *PostgresRecipeRepository) CreateRecipe(recipe *models.Recipe, ingredients []models.IngredientAmountRequest) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		return createIngredientRows(tx, recipe.ID, ingredients)
	})
}

// UpdateRecipe saves the recipe fields and replaces the full ingredient set
// atomically: old rows are deleted and the new set inserted in the same
// transaction, so a failure partway leaves the previous set visible.
func (r *PostgresRecipeRepository) UpdateRecipe(recipe *models.Recipe, ingredients []models.IngredientAmountRequest) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(recipe).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return createIngredientRows(tx, recipe.ID, ingredients)
	})
}

func createIngredientRows(tx *gorm.DB, recipeID uint, ingredients []models.IngredientAmountRequest) error {
	rows := make([]models.RecipeIngredient, 0, len(ingredients))
	for _, item := range ingredients {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	return tx.Create(&rows).Error
}

func (r *PostgresRecipeRepository) GetRecipeByID(id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.
		Preload("Author").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		First(&recipe, id).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *PostgresRecipeRepository) listQuery(filter RecipeFilter) *gorm.DB {
	q := r.db.Model(&models.Recipe{})
	if filter.AuthorID != 0 {
		q = q.Where("author_id = ?", filter.AuthorID)
	}
	if filter.FavoritedBy != 0 {
		q = q.Where("id IN (?)",
			r.db.Table("favorites").Select("recipe_id").Where("user_id = ?", filter.FavoritedBy),
		)
	}
	if filter.InCartOf != 0 {
		q = q.Where("id IN (?)",
			r.db.Table("shopping_carts").Select("recipe_id").Where("user_id = ?", filter.InCartOf),
		)
	}
	return q
}

func (r *PostgresRecipeRepository) ListRecipes(filter RecipeFilter, limit, offset int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.listQuery(filter).
		Preload("Author").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		Order("cooking_time DESC").Order("id").
		Limit(limit).Offset(offset).
		Find(&recipes).Error
	return recipes, err
}

func (r *PostgresRecipeRepository) CountRecipes(filter RecipeFilter) (int64, error) {
	var count int64
	err := r.listQuery(filter).Count(&count).Error
	return count, err
}

func (r *PostgresRecipeRepository) ListRecipesByAuthor(authorID uint, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	q := r.db.Where("author_id = ?", authorID).Order("cooking_time DESC").Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&recipes).Error
	return recipes, err
}

func (r *PostgresRecipeRepository) CountRecipesByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// DeleteRecipe removes the recipe and every row referencing it. The
// dependent deletes are explicit so the behavior does not hinge on the
// store's cascade configuration.
func (r *PostgresRecipeRepository) DeleteRecipe(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, id).Error
	})
}
