package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/speakeasy-backend/api/responses"
	"github.com/angelmondragon/speakeasy-backend/api/validators"
	"github.com/angelmondragon/speakeasy-backend/internal/reservations"
	pkgerrors "github.com/angelmondragon/speakeasy-backend/pkg/errors"
	"github.com/angelmondragon/speakeasy-backend/pkg/logger"
)

type availabilityResponse struct {
	Success   bool                    `json:"success"`
	Date      string                  `json:"date"`
	TimeSlots []reservations.TimeSlot `json:"timeSlots"`
}

// ReservationCreate books a slot and returns 201 with the confirmation.
func ReservationCreate(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reservation service unavailable"))
			return
		}

		var input reservations.CreateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto := reservations.ToDTO(result.Reservation)
		dto.DiscountCode = result.DiscountCode
		responses.WriteSuccessStatus(w, http.StatusCreated, "Reservation created successfully!", dto)
	}
}

// ReservationGet looks a reservation up by confirmation code.
func ReservationGet(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reservation service unavailable"))
			return
		}

		reservation, err := svc.GetByConfirmationCode(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reservations.ToDTO(reservation))
	}
}

// ReservationCancel releases the slot held by a reservation.
func ReservationCancel(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reservation service unavailable"))
			return
		}

		reservation, err := svc.Cancel(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusOK, "Reservation cancelled", reservations.ToDTO(reservation))
	}
}

// AvailabilityGet lists the slot catalog for ?date=YYYY-MM-DD.
func AvailabilityGet(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reservation service unavailable"))
			return
		}

		availability, err := svc.GetAvailability(r.Context(), r.URL.Query().Get("date"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteBody(w, http.StatusOK, availabilityResponse{
			Success:   true,
			Date:      availability.Date,
			TimeSlots: availability.TimeSlots,
		})
	}
}
