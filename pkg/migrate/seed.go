package migrate

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/speakeasy-backend/pkg/db/models"
	"github.com/angelmondragon/speakeasy-backend/pkg/enums"
)

// defaultIngredients mirrors the seed migration so sqlite databases get the same catalog.
var defaultIngredients = []struct {
	name string
	kind enums.IngredientType
	abv  int64
}{
	{"Vodka", enums.IngredientTypeBase, 40},
	{"Gin", enums.IngredientTypeBase, 40},
	{"Rum", enums.IngredientTypeBase, 40},
	{"Tequila", enums.IngredientTypeBase, 38},
	{"Whiskey", enums.IngredientTypeBase, 43},
	{"Cola", enums.IngredientTypeMixer, 0},
	{"Tonic", enums.IngredientTypeMixer, 0},
	{"Soda Water", enums.IngredientTypeMixer, 0},
	{"Ginger Beer", enums.IngredientTypeMixer, 0},
	{"Orange Juice", enums.IngredientTypeMixer, 0},
	{"Cranberry Juice", enums.IngredientTypeMixer, 0},
	{"Lime", enums.IngredientTypeGarnish, 0},
	{"Lemon", enums.IngredientTypeGarnish, 0},
	{"Mint", enums.IngredientTypeGarnish, 0},
	{"Orange Peel", enums.IngredientTypeGarnish, 0},
	{"Olive", enums.IngredientTypeGarnish, 0},
}

// SeedIngredients inserts the default catalog, leaving existing names untouched.
func SeedIngredients(ctx context.Context, conn *gorm.DB) error {
	rows := make([]models.Ingredient, 0, len(defaultIngredients))
	for _, ing := range defaultIngredients {
		rows = append(rows, models.Ingredient{
			Name:           ing.name,
			Type:           ing.kind,
			AlcoholContent: decimal.NewFromInt(ing.abv),
		})
	}
	return conn.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows).Error
}
