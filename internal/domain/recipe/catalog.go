package recipe

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is catalog reference data. Rows are never rewritten once a
// recipe points at them.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit,priority:1;column:name" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit,priority:2;column:measurement_unit" json:"measurement_unit"`
	CreatedAt       time.Time `gorm:"not null" json:"-"`
}

func (Ingredient) TableName() string { return "ingredient" }

func (i *Ingredient) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"size:200;not null;uniqueIndex;column:name" json:"name"`
	Color string    `gorm:"size:7;not null;uniqueIndex;column:color" json:"color"`
	Slug  string    `gorm:"size:200;not null;uniqueIndex;column:slug" json:"slug"`
}

func (Tag) TableName() string { return "tag" }

func (t *Tag) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
