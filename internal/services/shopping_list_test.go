package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos"
	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos/testutil"
	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
)

func TestAggregateShoppingListSumsPerNameAndUnit(t *testing.T) {
	r1, r2, r3 := uuid.New(), uuid.New(), uuid.New()
	rows := []repos.LedgerLine{
		{RecipeID: r1, Name: "salt", MeasurementUnit: "g", Amount: 5},
		{RecipeID: r1, Name: "flour", MeasurementUnit: "g", Amount: 200},
		{RecipeID: r2, Name: "salt", MeasurementUnit: "g", Amount: 3},
		{RecipeID: r2, Name: "milk", MeasurementUnit: "ml", Amount: 250},
		{RecipeID: r3, Name: "milk", MeasurementUnit: "cup", Amount: 1},
	}
	want := []ShoppingLine{
		{Name: "flour", MeasurementUnit: "g", Amount: 200},
		{Name: "milk", MeasurementUnit: "cup", Amount: 1},
		{Name: "milk", MeasurementUnit: "ml", Amount: 250},
		{Name: "salt", MeasurementUnit: "g", Amount: 8},
	}
	require.Equal(t, want, AggregateShoppingList(rows))

	reversed := make([]repos.LedgerLine, len(rows))
	for i, r := range rows {
		reversed[len(rows)-1-i] = r
	}
	require.Equal(t, want, AggregateShoppingList(reversed))
}

func TestAggregateShoppingListEmpty(t *testing.T) {
	got := AggregateShoppingList(nil)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, []ShoppingLine{
		{Name: "salt", MeasurementUnit: "g", Amount: 8},
		{Name: "oil, olive", MeasurementUnit: "ml", Amount: 30},
	}))
	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, utf8BOM))
	require.Equal(t,
		"ingredient,measurement_unit,amount\nsalt,g,8\n\"oil, olive\",ml,30\n",
		string(out[len(utf8BOM):]))
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, []ShoppingLine{{Name: "salt", MeasurementUnit: "g", Amount: 8}}))
	require.Equal(t, string(utf8BOM)+"Shopping list:\nsalt: 8 g\n", buf.String())
}

func TestBuildListAcrossCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	author := testutil.SeedUser(t, f.db, "author")
	shopper := testutil.SeedUser(t, f.db, "shopper")
	tag := testutil.SeedTag(t, f.db, "dinner")
	salt := testutil.SeedIngredient(t, f.db, "salt", "g")
	eggs := testutil.SeedIngredient(t, f.db, "eggs", "pcs")

	soup := testutil.SeedRecipe(t, f.db, author, "soup", []*types.Tag{tag}, map[*types.Ingredient]int{salt: 5})
	omelette := testutil.SeedRecipe(t, f.db, author, "omelette", []*types.Tag{tag}, map[*types.Ingredient]int{salt: 3, eggs: 2})
	testutil.SeedRecipe(t, f.db, author, "not in cart", []*types.Tag{tag}, map[*types.Ingredient]int{salt: 100})

	svc := f.shoppingList()
	empty, err := svc.BuildList(ctx, shopper.ID)
	require.NoError(t, err)
	require.Empty(t, empty)

	for _, r := range []*types.Recipe{omelette, soup} {
		_, err := f.cart.Create(dbc, shopper.ID, r.ID)
		require.NoError(t, err)
	}
	lines, err := svc.BuildList(ctx, shopper.ID)
	require.NoError(t, err)
	require.Equal(t, []ShoppingLine{
		{Name: "eggs", MeasurementUnit: "pcs", Amount: 2},
		{Name: "salt", MeasurementUnit: "g", Amount: 8},
	}, lines)
}

func TestDownloadFormats(t *testing.T) {
	f := newFixture(t)
	shopper := testutil.SeedUser(t, f.db, "shopper")
	author := testutil.SeedUser(t, f.db, "author")
	tag := testutil.SeedTag(t, f.db, "lunch")
	salt := testutil.SeedIngredient(t, f.db, "salt", "g")
	r := testutil.SeedRecipe(t, f.db, author, "soup", []*types.Tag{tag}, map[*types.Ingredient]int{salt: 5})
	_, err := f.cart.Create(dbctx.Context{Ctx: context.Background()}, shopper.ID, r.ID)
	require.NoError(t, err)

	svc := f.shoppingList()
	ctx := asUser(shopper)

	csvFile, err := svc.Download(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "shopping_cart.csv", csvFile.Filename)
	require.True(t, strings.HasPrefix(csvFile.ContentType, "text/csv"))
	require.Equal(t, 1, csvFile.Lines)
	require.Contains(t, string(csvFile.Body), "salt,g,5")

	txtFile, err := svc.Download(ctx, "TXT")
	require.NoError(t, err)
	require.Equal(t, "shopping_cart.txt", txtFile.Filename)
	require.True(t, strings.HasPrefix(txtFile.ContentType, "text/plain"))
	require.Contains(t, string(txtFile.Body), "salt: 5 g")

	_, err = svc.Download(ctx, "pdf")
	requireCode(t, err, domainagg.CodeValidation)
	require.Equal(t, "format", domainagg.FieldOf(err))

	_, err = svc.Download(context.Background(), "csv")
	requireCode(t, err, domainagg.CodeUnauthenticated)
}
