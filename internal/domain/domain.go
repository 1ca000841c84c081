package domain

import (
	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/recipe"
	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/user"
)

type Role = user.Role

const (
	RoleUser      = user.RoleUser
	RoleModerator = user.RoleModerator
	RoleAdmin     = user.RoleAdmin
)

type User = user.User
type Subscription = user.Subscription

type Ingredient = recipe.Ingredient
type Tag = recipe.Tag
type Recipe = recipe.Recipe
type RecipeTag = recipe.RecipeTag
type RecipeIngredient = recipe.RecipeIngredient
type Favorite = recipe.Favorite
type CartItem = recipe.CartItem

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&User{},
		&Subscription{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&RecipeTag{},
		&RecipeIngredient{},
		&Favorite{},
		&CartItem{},
	}
}
