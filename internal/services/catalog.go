package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
)

type IngredientView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

// CatalogService serves the read-only tag and ingredient reference data.
type CatalogService interface {
	ListTags(ctx context.Context) ([]TagView, error)
	GetTag(ctx context.Context, id uuid.UUID) (*TagView, error)
	SearchIngredients(ctx context.Context, prefix string) ([]IngredientView, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*IngredientView, error)
}

type catalogService struct {
	tags        repos.TagRepo
	ingredients repos.IngredientRepo
	searchLimit int
}

func NewCatalogService(tags repos.TagRepo, ingredients repos.IngredientRepo, searchLimit int) CatalogService {
	return &catalogService{tags: tags, ingredients: ingredients, searchLimit: searchLimit}
}

func (s *catalogService) ListTags(ctx context.Context) ([]TagView, error) {
	rows, err := s.tags.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, "Catalog.ListTags", err)
	}
	out := make([]TagView, 0, len(rows))
	for _, t := range rows {
		out = append(out, newTagView(*t))
	}
	return out, nil
}

func (s *catalogService) GetTag(ctx context.Context, id uuid.UUID) (*TagView, error) {
	const op = "Catalog.GetTag"
	rows, err := s.tags.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{id})
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if len(rows) == 0 {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "tag not found", nil)
	}
	v := newTagView(*rows[0])
	return &v, nil
}

func (s *catalogService) SearchIngredients(ctx context.Context, prefix string) ([]IngredientView, error) {
	rows, err := s.ingredients.SearchByPrefix(dbctx.Context{Ctx: ctx}, prefix, s.searchLimit)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, "Catalog.SearchIngredients", err)
	}
	out := make([]IngredientView, 0, len(rows))
	for _, ing := range rows {
		out = append(out, IngredientView{ID: ing.ID, Name: ing.Name, MeasurementUnit: ing.MeasurementUnit})
	}
	return out, nil
}

func (s *catalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*IngredientView, error) {
	const op = "Catalog.GetIngredient"
	rows, err := s.ingredients.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{id})
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if len(rows) == 0 {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "ingredient not found", nil)
	}
	ing := rows[0]
	return &IngredientView{ID: ing.ID, Name: ing.Name, MeasurementUnit: ing.MeasurementUnit}, nil
}
