package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.SetupJoinTable(&types.Recipe{}, "Tags", &types.RecipeTag{}); err != nil {
		return fmt.Errorf("setup recipe_tag join table: %w", err)
	}
	return db.AutoMigrate(types.Models()...)
}

// EnsureRecipeIndexes installs the recipe name uniqueness rule for scope and
// drops the index belonging to the other scope.
func EnsureRecipeIndexes(db *gorm.DB, scope domainagg.NameScope) error {
	stmts := []string{
		`DROP INDEX IF EXISTS idx_recipe_name_global;`,
		`DROP INDEX IF EXISTS idx_recipe_name_author;`,
	}
	switch scope {
	case domainagg.NameScopeGlobal:
		stmts = append(stmts, `CREATE UNIQUE INDEX IF NOT EXISTS idx_recipe_name_global ON recipe(name);`)
	case domainagg.NameScopeAuthor:
		stmts = append(stmts, `CREATE UNIQUE INDEX IF NOT EXISTS idx_recipe_name_author ON recipe(author_id, name);`)
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("recipe name index (%s): %w", scope, err)
		}
	}
	return nil
}

// Migrate runs every schema step in order.
func Migrate(db *gorm.DB, scope domainagg.NameScope) error {
	if err := AutoMigrateAll(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := EnsureRecipeIndexes(db, scope); err != nil {
		return err
	}
	return nil
}
