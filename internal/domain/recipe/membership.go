package recipe

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_pair,priority:1;column:user_id" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_pair,priority:2;index;column:recipe_id" json:"recipe_id"`
	Recipe    *Recipe   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Favorite) TableName() string { return "favorite" }

func (f *Favorite) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (Favorite) OwnerColumn() string  { return "user_id" }
func (Favorite) MemberColumn() string { return "recipe_id" }

func (f *Favorite) SetMembership(owner, member uuid.UUID) {
	f.UserID = owner
	f.RecipeID = member
}

// CartItem puts a recipe into a user's shopping cart.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_pair,priority:1;column:user_id" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_pair,priority:2;index;column:recipe_id" json:"recipe_id"`
	Recipe    *Recipe   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (CartItem) TableName() string { return "cart_item" }

func (c *CartItem) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) OwnerColumn() string  { return "user_id" }
func (CartItem) MemberColumn() string { return "recipe_id" }

func (c *CartItem) SetMembership(owner, member uuid.UUID) {
	c.UserID = owner
	c.RecipeID = member
}
