package models

import "time"

// RelationKind names one of the two (user, recipe) membership sets that
// share toggle semantics.
type RelationKind string

const (
	RelationFavorite     RelationKind = "favorites"
	RelationShoppingCart RelationKind = "shopping cart"
)

// Favorite marks a recipe as favorited by a user.
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_recipe_fav"`
	RecipeID  uint      `json:"recipe_id" gorm:"index;uniqueIndex:idx_user_recipe_fav"`
	CreatedAt time.Time `json:"created_at"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// ShoppingCart marks a recipe as queued for purchase by a user.
// Same shape and lifecycle as Favorite, independent set.
type ShoppingCart struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_recipe_cart"`
	RecipeID  uint      `json:"recipe_id" gorm:"index;uniqueIndex:idx_user_recipe_cart"`
	CreatedAt time.Time `json:"created_at"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}
