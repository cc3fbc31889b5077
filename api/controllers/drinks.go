package controllers

import (
	"net/http"

	"github.com/angelmondragon/speakeasy-backend/api/responses"
	"github.com/angelmondragon/speakeasy-backend/api/validators"
	"github.com/angelmondragon/speakeasy-backend/internal/drinks"
	pkgerrors "github.com/angelmondragon/speakeasy-backend/pkg/errors"
	"github.com/angelmondragon/speakeasy-backend/pkg/logger"
)

type drinkResponse struct {
	Success bool          `json:"success"`
	Drink   *drinks.Drink `json:"drink"`
}

func IngredientsList(svc drinks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "drink service unavailable"))
			return
		}

		rows, err := svc.ListIngredients(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, drinks.ToIngredientDTOs(rows))
	}
}

func DrinkBuild(svc drinks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "drink service unavailable"))
			return
		}

		var input drinks.BuildInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		drink, err := svc.BuildDrink(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteBody(w, http.StatusOK, drinkResponse{Success: true, Drink: drink})
	}
}
