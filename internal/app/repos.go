package app

import (
	"gorm.io/gorm"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
)

type Repos struct {
	User         repos.UserRepo
	Recipe       repos.RecipeRepo
	Ledger       repos.LedgerRepo
	Ingredient   repos.IngredientRepo
	Tag          repos.TagRepo
	Favorite     *repos.FavoriteRepo
	Cart         *repos.CartRepo
	Subscription *repos.SubscriptionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		Recipe:       repos.NewRecipeRepo(db, log),
		Ledger:       repos.NewLedgerRepo(db, log),
		Ingredient:   repos.NewIngredientRepo(db, log),
		Tag:          repos.NewTagRepo(db, log),
		Favorite:     repos.NewFavoriteRepo(db, log),
		Cart:         repos.NewCartRepo(db, log),
		Subscription: repos.NewSubscriptionRepo(db, log),
	}
}
