package recipe

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
)

type IngredientRepo interface {
	Create(dbc dbctx.Context, ingredients []*types.Ingredient) ([]*types.Ingredient, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Ingredient, error)
	SearchByPrefix(dbc dbctx.Context, prefix string, limit int) ([]*types.Ingredient, error)
}

type ingredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	return &ingredientRepo{db: db, log: baseLog.With("repo", "IngredientRepo")}
}

func (r *ingredientRepo) Create(dbc dbctx.Context, ingredients []*types.Ingredient) ([]*types.Ingredient, error) {
	if len(ingredients) == 0 {
		return []*types.Ingredient{}, nil
	}
	if err := dbc.DB(r.db).Create(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Ingredient, error) {
	var out []*types.Ingredient
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SearchByPrefix matches names starting with prefix, case-insensitively.
func (r *ingredientRepo) SearchByPrefix(dbc dbctx.Context, prefix string, limit int) ([]*types.Ingredient, error) {
	q := dbc.DB(r.db).Order("name ASC").Order("measurement_unit ASC")
	if p := strings.TrimSpace(prefix); p != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(p))+"%")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.Ingredient
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type TagRepo interface {
	Create(dbc dbctx.Context, tags []*types.Tag) ([]*types.Tag, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Tag, error)
	List(dbc dbctx.Context) ([]*types.Tag, error)
}

type tagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	return &tagRepo{db: db, log: baseLog.With("repo", "TagRepo")}
}

func (r *tagRepo) Create(dbc dbctx.Context, tags []*types.Tag) ([]*types.Tag, error) {
	if len(tags) == 0 {
		return []*types.Tag{}, nil
	}
	if err := dbc.DB(r.db).Create(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Tag, error) {
	var out []*types.Tag
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepo) List(dbc dbctx.Context) ([]*types.Tag, error) {
	var out []*types.Tag
	if err := dbc.DB(r.db).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
