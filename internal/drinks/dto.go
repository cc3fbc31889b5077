package drinks

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/speakeasy-backend/pkg/db/models"
	"github.com/angelmondragon/speakeasy-backend/pkg/enums"
)

// BuildInput selects one ingredient per role by id or by exact name. An id wins when both are set.
type BuildInput struct {
	BaseID      string `json:"baseId"`
	MixerID     string `json:"mixerId"`
	GarnishID   string `json:"garnishId"`
	BaseName    string `json:"baseName"`
	MixerName   string `json:"mixerName"`
	GarnishName string `json:"garnishName"`
}

type IngredientDTO struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	Type           enums.IngredientType `json:"type"`
	AlcoholContent float64              `json:"alcoholContent"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// Drink is the generated custom cocktail.
type Drink struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	EstimatedABV string   `json:"estimatedABV"`
}

func ToIngredientDTO(ing models.Ingredient) IngredientDTO {
	return IngredientDTO{
		ID:             ing.ID,
		Name:           ing.Name,
		Type:           ing.Type,
		AlcoholContent: ing.AlcoholContent.InexactFloat64(),
		CreatedAt:      ing.CreatedAt,
	}
}

func ToIngredientDTOs(rows []models.Ingredient) []IngredientDTO {
	out := make([]IngredientDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToIngredientDTO(row))
	}
	return out
}
