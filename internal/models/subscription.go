package models

import "time"

// Subscription represents a user following a recipe author.
// Self-subscription is rejected at the handler level, not by the schema.
type Subscription struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_author_sub"`
	AuthorID  uint      `json:"author_id" gorm:"index;uniqueIndex:idx_user_author_sub"`
	CreatedAt time.Time `json:"created_at"`

	User   *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author *User `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}
