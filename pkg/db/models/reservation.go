package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/speakeasy-backend/pkg/enums"
)

const (
	ReservationActiveSlotIndex       = "ux_reservations_active_slot"
	ReservationConfirmationCodeIndex = "ux_reservations_confirmation_code"
)

// Reservation is one booking for a (date, time) slot.
// ReservationDate holds the calendar day at 00:00 UTC.
type Reservation struct {
	ID               uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	FirstName        string                  `gorm:"column:first_name;type:varchar(50);not null"`
	LastName         string                  `gorm:"column:last_name;type:varchar(50);not null"`
	Email            string                  `gorm:"column:email;type:varchar(254);not null;index:ix_reservations_email"`
	Phone            string                  `gorm:"column:phone;type:varchar(32);not null"`
	ReservationDate  time.Time               `gorm:"column:reservation_date;type:date;not null;index:ix_reservations_date_time,priority:1;uniqueIndex:ux_reservations_active_slot,priority:1,where:status <> 'cancelled'"`
	TimeSlot         string                  `gorm:"column:time_slot;type:varchar(5);not null;index:ix_reservations_date_time,priority:2;uniqueIndex:ux_reservations_active_slot,priority:2,where:status <> 'cancelled'"`
	PartySize        int                     `gorm:"column:party_size;not null"`
	SpecialRequests  string                  `gorm:"column:special_requests;type:varchar(500);not null;default:''"`
	Status           enums.ReservationStatus `gorm:"column:status;type:varchar(16);not null;default:'pending'"`
	ConfirmationCode string                  `gorm:"column:confirmation_code;type:varchar(8);not null;uniqueIndex:ux_reservations_confirmation_code"`
	DiscountCode     *string                 `gorm:"column:discount_code;type:varchar(32)"`
	CancelledAt      *time.Time              `gorm:"column:cancelled_at"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (Reservation) TableName() string { return "reservations" }

func (r *Reservation) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = enums.ReservationStatusPending
	}
	return nil
}
