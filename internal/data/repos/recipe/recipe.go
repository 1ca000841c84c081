package recipe

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
)

// ListFilter narrows recipe listings. Zero values mean "no filter".
type ListFilter struct {
	AuthorID    uuid.UUID
	TagSlugs    []string
	FavoritedBy uuid.UUID
	InCartOf    uuid.UUID
	Limit       int
	Offset      int
}

type RecipeRepo interface {
	Create(dbc dbctx.Context, recipe *types.Recipe) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Recipe, error)
	GetDetailed(dbc dbctx.Context, id uuid.UUID) (*types.Recipe, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Recipe, error)
	Exists(dbc dbctx.Context, id uuid.UUID) (bool, error)
	NameTaken(dbc dbctx.Context, name string, authorID uuid.UUID, excludeID uuid.UUID) (bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	ReplaceTags(dbc dbctx.Context, recipeID uuid.UUID, tagIDs []uuid.UUID) error
	Delete(dbc dbctx.Context, id uuid.UUID) (int64, error)
	List(dbc dbctx.Context, f ListFilter) ([]*types.Recipe, error)
	Count(dbc dbctx.Context, f ListFilter) (int64, error)
	ListByAuthor(dbc dbctx.Context, authorID uuid.UUID, limit int) ([]*types.Recipe, error)
	CountByAuthors(dbc dbctx.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type recipeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	return &recipeRepo{db: db, log: baseLog.With("repo", "RecipeRepo")}
}

func (r *recipeRepo) Create(dbc dbctx.Context, recipe *types.Recipe) error {
	return dbc.DB(r.db).Omit(clause.Associations).Create(recipe).Error
}

func (r *recipeRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Recipe, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Recipe
	res := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &out, nil
}

func (r *recipeRepo) detailed(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(tx *gorm.DB) *gorm.DB { return tx.Order("tag.name ASC") }).
		Preload("Ingredients.Ingredient")
}

func (r *recipeRepo) GetDetailed(dbc dbctx.Context, id uuid.UUID) (*types.Recipe, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Recipe
	if err := r.detailed(dbc.DB(r.db)).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *recipeRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Recipe, error) {
	var out []*types.Recipe
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeRepo) Exists(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).Model(&types.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NameTaken checks name against every recipe, or only authorID's recipes
// when authorID is set. excludeID skips the recipe being renamed.
func (r *recipeRepo) NameTaken(dbc dbctx.Context, name string, authorID uuid.UUID, excludeID uuid.UUID) (bool, error) {
	q := dbc.DB(r.db).Model(&types.Recipe{}).Where("name = ?", name)
	if authorID != uuid.Nil {
		q = q.Where("author_id = ?", authorID)
	}
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.Recipe{}).Where("id = ?", id).Updates(updates).Error
}

// ReplaceTags clears the recipe's tag set and writes tagIDs.
func (r *recipeRepo) ReplaceTags(dbc dbctx.Context, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	db := dbc.DB(r.db)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&types.RecipeTag{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]*types.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, &types.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	return db.Create(&rows).Error
}

func (r *recipeRepo) Delete(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Recipe{})
	return res.RowsAffected, res.Error
}

func (r *recipeRepo) filtered(db *gorm.DB, f ListFilter) *gorm.DB {
	q := db.Model(&types.Recipe{})
	if f.AuthorID != uuid.Nil {
		q = q.Where("recipe.author_id = ?", f.AuthorID)
	}
	if slugs := cleanSlugs(f.TagSlugs); len(slugs) > 0 {
		q = q.Where(
			"recipe.id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Table("recipe_tag").
				Select("recipe_tag.recipe_id").
				Joins("JOIN tag ON tag.id = recipe_tag.tag_id").
				Where("tag.slug IN ?", slugs),
		)
	}
	if f.FavoritedBy != uuid.Nil {
		q = q.Where("recipe.id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&types.Favorite{}).
				Select("recipe_id").
				Where("user_id = ?", f.FavoritedBy),
		)
	}
	if f.InCartOf != uuid.Nil {
		q = q.Where("recipe.id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&types.CartItem{}).
				Select("recipe_id").
				Where("user_id = ?", f.InCartOf),
		)
	}
	return q
}

func (r *recipeRepo) List(dbc dbctx.Context, f ListFilter) ([]*types.Recipe, error) {
	q := r.detailed(r.filtered(dbc.DB(r.db), f)).Order("recipe.published_at DESC").Order("recipe.id ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	var out []*types.Recipe
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeRepo) Count(dbc dbctx.Context, f ListFilter) (int64, error) {
	var count int64
	if err := r.filtered(dbc.DB(r.db), f).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListByAuthor returns the author's newest recipes; limit <= 0 means all.
func (r *recipeRepo) ListByAuthor(dbc dbctx.Context, authorID uuid.UUID, limit int) ([]*types.Recipe, error) {
	q := dbc.DB(r.db).
		Where("author_id = ?", authorID).
		Order("published_at DESC").
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.Recipe
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeRepo) CountByAuthors(dbc dbctx.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	if err := dbc.DB(r.db).
		Model(&types.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.AuthorID] = row.Total
	}
	return out, nil
}

func cleanSlugs(in []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
