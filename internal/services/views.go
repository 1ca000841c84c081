package services

import (
	"sort"
	"time"

	"github.com/google/uuid"

	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
)

type Page[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}

type UserView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

func newUserView(u *types.User, subscribed bool) UserView {
	if u == nil {
		return UserView{}
	}
	return UserView{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

type TagView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

type IngredientLine struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type RecipeView struct {
	ID               uuid.UUID        `json:"id"`
	Tags             []TagView        `json:"tags"`
	Author           UserView         `json:"author"`
	Ingredients      []IngredientLine `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	Name             string           `json:"name"`
	Image            string           `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int              `json:"cooking_time"`
	PublishedAt      time.Time        `json:"pub_date"`
}

// RecipeShort is the compact form used in collections and author previews.
type RecipeShort struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func newRecipeShort(r *types.Recipe) RecipeShort {
	return RecipeShort{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

type AuthorView struct {
	UserView
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

func newTagView(t types.Tag) TagView {
	return TagView{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func newRecipeView(r *types.Recipe, subscribed, favorited, inCart bool) RecipeView {
	v := RecipeView{
		ID:               r.ID,
		Tags:             make([]TagView, 0, len(r.Tags)),
		Author:           newUserView(r.Author, subscribed),
		Ingredients:      make([]IngredientLine, 0, len(r.Ingredients)),
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		PublishedAt:      r.PublishedAt,
	}
	for _, t := range r.Tags {
		v.Tags = append(v.Tags, newTagView(t))
	}
	for _, ri := range r.Ingredients {
		line := IngredientLine{ID: ri.IngredientID, Amount: ri.Amount}
		if ri.Ingredient != nil {
			line.Name = ri.Ingredient.Name
			line.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		v.Ingredients = append(v.Ingredients, line)
	}
	sort.SliceStable(v.Ingredients, func(i, j int) bool {
		return v.Ingredients[i].Name < v.Ingredients[j].Name
	})
	return v
}
