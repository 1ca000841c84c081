package recipe

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/user"
)

const (
	MaxNameLength  = 200
	MinCookingTime = 1
	MinAmount      = 1
)

type Recipe struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID    uuid.UUID          `gorm:"type:uuid;not null;index;column:author_id" json:"author_id"`
	Author      *user.User         `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Name        string             `gorm:"size:200;not null;column:name" json:"name"`
	Text        string             `gorm:"type:text;not null;column:text" json:"text"`
	Image       string             `gorm:"size:512;column:image" json:"image"`
	CookingTime int                `gorm:"not null;check:cooking_time >= 1;column:cooking_time" json:"cooking_time"`
	PublishedAt time.Time          `gorm:"not null;index;column:published_at" json:"published_at"`
	Tags        []Tag              `gorm:"many2many:recipe_tag;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
}

func (Recipe) TableName() string { return "recipe" }

func (r *Recipe) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeTag is the recipe_tag join row GORM creates for Recipe.Tags.
type RecipeTag struct {
	RecipeID uuid.UUID `gorm:"type:uuid;primaryKey;column:recipe_id"`
	TagID    uuid.UUID `gorm:"type:uuid;primaryKey;column:tag_id"`
}

func (RecipeTag) TableName() string { return "recipe_tag" }

// RecipeIngredient is one ledger entry: (recipe, ingredient) -> amount.
type RecipeIngredient struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"-"`
	RecipeID     uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient_pair,priority:1;column:recipe_id" json:"recipe_id"`
	IngredientID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient_pair,priority:2;index;column:ingredient_id" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:RESTRICT" json:"ingredient,omitempty"`
	Amount       int         `gorm:"not null;check:amount >= 1;column:amount" json:"amount"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredient" }

func (ri *RecipeIngredient) BeforeCreate(*gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}
