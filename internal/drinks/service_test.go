package drinks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/speakeasy-backend/pkg/db/models"
	"github.com/angelmondragon/speakeasy-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/speakeasy-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, map[string]models.Ingredient) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "drinks.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Ingredient{}))

	seed := []models.Ingredient{
		{Name: "Vodka", Type: enums.IngredientTypeBase, AlcoholContent: decimal.NewFromInt(40)},
		{Name: "Cola", Type: enums.IngredientTypeMixer, AlcoholContent: decimal.Zero},
		{Name: "Lime", Type: enums.IngredientTypeGarnish, AlcoholContent: decimal.Zero},
		{Name: "Gin", Type: enums.IngredientTypeBase, AlcoholContent: decimal.RequireFromString("37.5")},
		{Name: "Tonic Water", Type: enums.IngredientTypeMixer, AlcoholContent: decimal.Zero},
	}
	byName := map[string]models.Ingredient{}
	for i := range seed {
		require.NoError(t, conn.Create(&seed[i]).Error)
		byName[seed[i].Name] = seed[i]
	}

	svc, err := NewService(NewRepository(conn), nil)
	require.NoError(t, err)
	return svc, byName
}

func TestListIngredients(t *testing.T) {
	svc, _ := newTestService(t)

	rows, err := svc.ListIngredients(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 5)

	dtos := ToIngredientDTOs(rows)
	names := make([]string, 0, len(dtos))
	for _, dto := range dtos {
		names = append(names, dto.Name)
	}
	require.ElementsMatch(t, []string{"Vodka", "Cola", "Lime", "Gin", "Tonic Water"}, names)
}

func TestBuildDrinkByName(t *testing.T) {
	svc, _ := newTestService(t)

	drink, err := svc.BuildDrink(context.Background(), BuildInput{BaseName: "Vodka", MixerName: "Cola", GarnishName: "Lime"})
	require.NoError(t, err)
	require.Equal(t, "VODOLA-LX", drink.Name)
	require.Equal(t, []string{"Vodka", "Cola", "Lime"}, drink.Ingredients)
	require.Equal(t, "20%", drink.EstimatedABV)
}

func TestBuildDrinkByID(t *testing.T) {
	svc, seeded := newTestService(t)

	drink, err := svc.BuildDrink(context.Background(), BuildInput{
		BaseID:      seeded["Gin"].ID.String(),
		MixerID:     seeded["Tonic Water"].ID.String(),
		GarnishName: "Lime",
		MixerName:   "Cola",
	})
	require.NoError(t, err)
	require.Equal(t, "GINTER-LX", drink.Name)
	require.Equal(t, "19%", drink.EstimatedABV)
}

func TestBuildDrinkMissingRoles(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.BuildDrink(context.Background(), BuildInput{BaseName: "Vodka", GarnishID: "  "})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	require.Equal(t, "Missing ingredient selections. Provide either IDs or names for base, mixer, and garnish.", typed.Message())
	require.Equal(t, map[string]any{"missingRoles": []string{"mixer", "garnish"}}, typed.Details())
}

func TestBuildDrinkListsEveryUnresolvedRole(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.BuildDrink(context.Background(), BuildInput{
		BaseID:      "not-a-uuid",
		MixerID:     uuid.NewString(),
		GarnishName: "Lime",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	require.Equal(t, "Ingredient(s) not found: base, mixer", typed.Message())
}

type failingRepo struct{}

func (failingRepo) List(context.Context) ([]models.Ingredient, error) {
	return nil, errors.New("connection reset")
}

func (failingRepo) FindByID(context.Context, uuid.UUID) (*models.Ingredient, error) {
	return nil, errors.New("connection reset")
}

func (failingRepo) FindByName(context.Context, string) (*models.Ingredient, error) {
	return nil, errors.New("connection reset")
}

func TestStorageFailuresHideDetails(t *testing.T) {
	svc, err := NewService(failingRepo{}, nil)
	require.NoError(t, err)

	_, err = svc.ListIngredients(context.Background())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInternal, typed.Code())
	require.Equal(t, "Error fetching ingredients.", typed.PublicMessage())

	_, err = svc.BuildDrink(context.Background(), BuildInput{BaseName: "a", MixerName: "b", GarnishName: "c"})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInternal, typed.Code())
	require.Equal(t, "Error building custom drink", typed.PublicMessage())
}
