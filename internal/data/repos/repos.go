package repos

import (
	"gorm.io/gorm"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos/membership"
	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos/recipe"
	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos/user"
	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
)

type UserRepo = user.UserRepo

type RecipeRepo = recipe.RecipeRepo
type RecipeListFilter = recipe.ListFilter
type LedgerRepo = recipe.LedgerRepo
type LedgerLine = recipe.LedgerLine
type IngredientRepo = recipe.IngredientRepo
type TagRepo = recipe.TagRepo

type FavoriteRepo = membership.Repo[types.Favorite, *types.Favorite]
type CartRepo = membership.Repo[types.CartItem, *types.CartItem]
type SubscriptionRepo = membership.Repo[types.Subscription, *types.Subscription]

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }

func NewRecipeRepo(db *gorm.DB, log *logger.Logger) RecipeRepo { return recipe.NewRecipeRepo(db, log) }
func NewLedgerRepo(db *gorm.DB, log *logger.Logger) LedgerRepo { return recipe.NewLedgerRepo(db, log) }
func NewIngredientRepo(db *gorm.DB, log *logger.Logger) IngredientRepo {
	return recipe.NewIngredientRepo(db, log)
}
func NewTagRepo(db *gorm.DB, log *logger.Logger) TagRepo { return recipe.NewTagRepo(db, log) }

func NewFavoriteRepo(db *gorm.DB, log *logger.Logger) *FavoriteRepo {
	return membership.NewRepo[types.Favorite, *types.Favorite](db, log, "FavoriteRepo")
}

func NewCartRepo(db *gorm.DB, log *logger.Logger) *CartRepo {
	return membership.NewRepo[types.CartItem, *types.CartItem](db, log, "CartRepo")
}

func NewSubscriptionRepo(db *gorm.DB, log *logger.Logger) *SubscriptionRepo {
	return membership.NewRepo[types.Subscription, *types.Subscription](db, log, "SubscriptionRepo")
}
