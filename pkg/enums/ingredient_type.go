package enums

import "fmt"

// IngredientType is the role an ingredient plays in a drink.
type IngredientType string

const (
	IngredientTypeBase    IngredientType = "base"
	IngredientTypeMixer   IngredientType = "mixer"
	IngredientTypeGarnish IngredientType = "garnish"
)

var validIngredientTypes = []IngredientType{
	IngredientTypeBase,
	IngredientTypeMixer,
	IngredientTypeGarnish,
}

func (t IngredientType) String() string {
	return string(t)
}

func (t IngredientType) IsValid() bool {
	for _, candidate := range validIngredientTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

func ParseIngredientType(value string) (IngredientType, error) {
	for _, candidate := range validIngredientTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ingredient type %q", value)
}
