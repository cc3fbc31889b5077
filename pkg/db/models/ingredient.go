package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/speakeasy-backend/pkg/enums"
)

// Ingredient is reference data for the drink builder.
type Ingredient struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Name           string               `gorm:"column:name;type:varchar(100);not null;uniqueIndex:ux_ingredients_name"`
	Type           enums.IngredientType `gorm:"column:type;type:varchar(16);not null"`
	AlcoholContent decimal.Decimal      `gorm:"column:alcohol_content;type:numeric(5,2);not null;default:0"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (Ingredient) TableName() string { return "ingredients" }

func (i *Ingredient) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
