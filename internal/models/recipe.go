package models

import "time"

type Recipe struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	AuthorID    uint      `json:"author_id" gorm:"index"`
	Name        string    `json:"name" gorm:"size:256"`
	Text        string    `json:"text"`
	CookingTime int       `json:"cooking_time" gorm:"check:cooking_time > 0"`
	Image       string    `json:"image"` // Path to the stored recipe image
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Author      *User              `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `json:"-" gorm:"foreignKey:RecipeID"`
}

type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:128;uniqueIndex"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:64"`
}

// RecipeIngredient joins a recipe to an ingredient with an amount.
type RecipeIngredient struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	RecipeID     uint `json:"recipe_id" gorm:"index;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint `json:"ingredient_id" gorm:"index;uniqueIndex:idx_recipe_ingredient"`
	Amount       int  `json:"amount" gorm:"check:amount > 0"`

	Recipe     *Recipe     `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Ingredient *Ingredient `json:"-" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

// IngredientAmountRequest is one {id, amount} entry in a recipe write.
type IngredientAmountRequest struct {
	ID     uint `json:"id" validate:"required"`
	Amount int  `json:"amount" validate:"required,min=1"`
}

type CreateRecipeRequest struct {
	Name        string                    `json:"name" validate:"required,max=256"`
	Text        string                    `json:"text" validate:"required"`
	CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
	Image       string                    `json:"image" validate:"required"` // base64 data URI
	Ingredients []IngredientAmountRequest `json:"ingredients" validate:"required,dive"`
}

type UpdateRecipeRequest struct {
	Name        string                    `json:"name,omitempty" validate:"omitempty,max=256"`
	Text        string                    `json:"text,omitempty"`
	CookingTime int                       `json:"cooking_time,omitempty" validate:"omitempty,min=1"`
	Image       string                    `json:"image,omitempty"` // base64 data URI
	Ingredients []IngredientAmountRequest `json:"ingredients" validate:"required,dive"`
}

// IngredientInRecipeResponse is the read shape of one ingredient row.
type IngredientInRecipeResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full read representation. The author profile is
// embedded as a value rather than inherited field-by-field.
type RecipeResponse struct {
	ID                uint                         `json:"id"`
	Author            UserResponse                 `json:"author"`
	Ingredients       []IngredientInRecipeResponse `json:"ingredients"`
	IsFavorited       bool                         `json:"is_favorited"`
	IsInShoppingCart  bool                         `json:"is_in_shopping_cart"`
	Name              string                       `json:"name"`
	Image             string                       `json:"image"`
	Text              string                       `json:"text"`
	CookingTime       int                          `json:"cooking_time"`
}

// RecipeShortResponse is the minimal recipe view used in toggle responses
// and subscription listings.
type RecipeShortResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func NewRecipeShortResponse(r *Recipe) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}
