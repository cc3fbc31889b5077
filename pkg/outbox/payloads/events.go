package payloads

import (
	"github.com/google/uuid"
)

// ReservationConfirmedEvent is emitted when a booking is written.
type ReservationConfirmedEvent struct {
	ReservationID    uuid.UUID `json:"reservation_id"`
	ConfirmationCode string    `json:"confirmation_code"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	PartySize        int       `json:"party_size"`
	DiscountCode     string    `json:"discount_code,omitempty"`
}

// ReservationCancelledEvent is emitted when a guest releases a slot.
type ReservationCancelledEvent struct {
	ReservationID    uuid.UUID `json:"reservation_id"`
	ConfirmationCode string    `json:"confirmation_code"`
	Email            string    `json:"email"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
}

// ReservationReminderEvent asks the notification side to remind the guest.
type ReservationReminderEvent struct {
	ReservationID    uuid.UUID `json:"reservation_id"`
	ConfirmationCode string    `json:"confirmation_code"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	PartySize        int       `json:"party_size"`
}
