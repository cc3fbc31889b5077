package drinks

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/speakeasy-backend/pkg/db/models"
)

// EstimateABV averages the alcohol content of the given ingredients and rounds
// half away from zero to a whole percent. No ingredients means 0.
func EstimateABV(ingredients ...models.Ingredient) int64 {
	if len(ingredients) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, ing := range ingredients {
		sum = sum.Add(ing.AlcoholContent)
	}
	return sum.Div(decimal.NewFromInt(int64(len(ingredients)))).Round(0).IntPart()
}

// DrinkName is the first three letters of the base, the last three of the
// mixer, then "-", the garnish initial and "X". Everything is upper-cased.
func DrinkName(base, mixer, garnish string) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(firstRunes(base, 3)))
	b.WriteString(strings.ToUpper(lastRunes(mixer, 3)))
	b.WriteString("-")
	b.WriteString(strings.ToUpper(firstRunes(garnish, 1)))
	b.WriteString("X")
	return b.String()
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[len(r)-n:]
	}
	return string(r)
}
