package reservations

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/speakeasy-backend/pkg/db/models"
	"github.com/angelmondragon/speakeasy-backend/pkg/enums"
)

// ReservationDTO is the API shape of a reservation.
type ReservationDTO struct {
	ID               uuid.UUID               `json:"id"`
	FirstName        string                  `json:"firstName"`
	LastName         string                  `json:"lastName"`
	Email            string                  `json:"email"`
	Phone            string                  `json:"phone"`
	Date             string                  `json:"date"`
	Time             string                  `json:"time"`
	PartySize        int                     `json:"partySize"`
	SpecialRequests  string                  `json:"specialRequests"`
	Status           enums.ReservationStatus `json:"status"`
	ConfirmationCode string                  `json:"confirmationCode"`
	DiscountCode     string                  `json:"discountCode,omitempty"`
	CreatedAt        time.Time               `json:"createdAt"`
	CancelledAt      *time.Time              `json:"cancelledAt,omitempty"`
}

// TimeSlot is one entry of the availability catalog for a day.
type TimeSlot struct {
	Time   string           `json:"time"`
	Status enums.SlotStatus `json:"status"`
}

// Availability is the per-day slot listing.
type Availability struct {
	Date      string     `json:"date"`
	TimeSlots []TimeSlot `json:"timeSlots"`
}

// CreateResult carries the persisted reservation and the discount it earned, if any.
type CreateResult struct {
	Reservation  *models.Reservation
	DiscountCode string
}

func ToDTO(r *models.Reservation) ReservationDTO {
	dto := ReservationDTO{
		ID:               r.ID,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		Phone:            r.Phone,
		Date:             FormatDate(r.ReservationDate),
		Time:             r.TimeSlot,
		PartySize:        r.PartySize,
		SpecialRequests:  r.SpecialRequests,
		Status:           r.Status,
		ConfirmationCode: r.ConfirmationCode,
		CreatedAt:        r.CreatedAt,
		CancelledAt:      r.CancelledAt,
	}
	if r.DiscountCode != nil {
		dto.DiscountCode = *r.DiscountCode
	}
	return dto
}
