package drinks

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/speakeasy-backend/pkg/db/models"
)

func TestDrinkName(t *testing.T) {
	cases := []struct {
		base, mixer, garnish, want string
	}{
		{"Vodka", "Cola", "Lime", "VODOLA-LX"},
		{"Gin", "Tonic Water", "Cucumber", "GINTER-CX"},
		{"Rv", "Ok", "m", "RVOK-MX"},
		{"Añejo", "Café", "ñ", "AÑEAFÉ-ÑX"},
	}
	for _, tc := range cases {
		if got := DrinkName(tc.base, tc.mixer, tc.garnish); got != tc.want {
			t.Fatalf("DrinkName(%q, %q, %q) = %q, want %q", tc.base, tc.mixer, tc.garnish, got, tc.want)
		}
	}
}

func TestEstimateABV(t *testing.T) {
	ing := func(v string) models.Ingredient {
		return models.Ingredient{AlcoholContent: decimal.RequireFromString(v)}
	}
	cases := []struct {
		name string
		in   []models.Ingredient
		want int64
	}{
		{"empty", nil, 0},
		{"vodka and cola", []models.Ingredient{ing("40"), ing("0")}, 20},
		{"nearest whole percent", []models.Ingredient{ing("37.5"), ing("0")}, 19},
		{"half rounds away from zero", []models.Ingredient{ing("25"), ing("0")}, 13},
		{"below half", []models.Ingredient{ing("12.4"), ing("12.4")}, 12},
		{"single", []models.Ingredient{ing("15")}, 15},
	}
	for _, tc := range cases {
		if got := EstimateABV(tc.in...); got != tc.want {
			t.Fatalf("%s: EstimateABV = %d, want %d", tc.name, got, tc.want)
		}
	}
}
