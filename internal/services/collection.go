package services

import (
	"context"

	"github.com/google/uuid"

	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
)

// CollectionService exposes one per-user recipe set (favorites or cart).
type CollectionService interface {
	Add(ctx context.Context, recipeID uuid.UUID) (*RecipeShort, error)
	Remove(ctx context.Context, recipeID uuid.UUID) error
}

type collectionService struct {
	set     domainagg.RecipeCollection
	recipes RecipeService
}

func NewCollectionService(set domainagg.RecipeCollection, recipes RecipeService) CollectionService {
	return &collectionService{set: set, recipes: recipes}
}

func (s *collectionService) Add(ctx context.Context, recipeID uuid.UUID) (*RecipeShort, error) {
	if err := s.set.Add(ctx, ActorFromContext(ctx), recipeID); err != nil {
		return nil, err
	}
	return s.recipes.Short(ctx, recipeID)
}

func (s *collectionService) Remove(ctx context.Context, recipeID uuid.UUID) error {
	return s.set.Remove(ctx, ActorFromContext(ctx), recipeID)
}
