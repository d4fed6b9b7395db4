package models

import (
	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Email        string `json:"email" gorm:"size:254;uniqueIndex"` // Ensure email is unique across all users
	Username     string `json:"username" gorm:"size:60;uniqueIndex"`
	FirstName    string `json:"first_name" gorm:"size:60"`
	LastName     string `json:"last_name" gorm:"size:60"`
	Avatar       string `json:"-"` // Path to the stored avatar image, empty when not set
	PasswordHash string `json:"-"` // Store hashed password, ignore for JSON serialization
}

// DisplayName is the author name shown in the shopping list: first and last
// name, with the username standing in when the last name is empty.
func (u *User) DisplayName() string {
	last := u.LastName
	if last == "" {
		last = u.Username
	}
	return u.FirstName + " " + last
}

type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=60,username_charset"`
	FirstName string `json:"first_name" validate:"required,max=60"`
	LastName  string `json:"last_name" validate:"required,max=60"`
	Password  string `json:"password" validate:"required,min=8"`
}

type TokenLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	CurrentPassword string `json:"current_password" validate:"required"`
}

type SetAvatarRequest struct {
	Avatar string `json:"avatar" validate:"required"` // base64 data URI
}

// UserResponse is the profile representation embedded in recipe reads and
// subscription listings.
type UserResponse struct {
	ID           uint    `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

// SubscriptionResponse extends the profile with the author's recipes.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
