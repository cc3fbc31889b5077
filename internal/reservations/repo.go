package reservations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/speakeasy-backend/pkg/db/models"
	"github.com/angelmondragon/speakeasy-backend/pkg/enums"
)

// Repository exposes reservation persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a reservation repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ActiveSlotExists reports whether a non-cancelled reservation holds the slot.
func (r *Repository) ActiveSlotExists(ctx context.Context, day time.Time, slot string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("reservation_date = ? AND time_slot = ? AND status <> ?", day, slot, enums.ReservationStatusCancelled).
		Count(&count).Error
	return count > 0, err
}

// CountConfirmedByEmail counts confirmed bookings for an already-normalized email.
func (r *Repository) CountConfirmedByEmail(tx *gorm.DB, email string) (int64, error) {
	var count int64
	err := tx.Model(&models.Reservation{}).
		Where("email = ? AND status = ?", email, enums.ReservationStatusConfirmed).
		Count(&count).Error
	return count, err
}

func (r *Repository) Insert(tx *gorm.DB, reservation *models.Reservation) error {
	return tx.Create(reservation).Error
}

// BookedTimes returns the distinct times of confirmed reservations on day.
func (r *Repository) BookedTimes(ctx context.Context, day time.Time) ([]string, error) {
	var times []string
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("reservation_date = ? AND status = ?", day, enums.ReservationStatusConfirmed).
		Distinct("time_slot").
		Pluck("time_slot", &times).Error
	return times, err
}

func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.db.WithContext(ctx).Where("confirmation_code = ?", code).First(&reservation).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// FindByCodeForUpdate loads the row inside tx, locking it on postgres.
func (r *Repository) FindByCodeForUpdate(tx *gorm.DB, code string) (*models.Reservation, error) {
	query := tx.Where("confirmation_code = ?", code)
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var reservation models.Reservation
	if err := query.First(&reservation).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *Repository) MarkCancelled(tx *gorm.DB, id uuid.UUID, at time.Time) error {
	return tx.Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       enums.ReservationStatusCancelled,
			"cancelled_at": at,
		}).Error
}

// ListConfirmedOn returns confirmed reservations for day ordered by time.
func (r *Repository) ListConfirmedOn(ctx context.Context, day time.Time) ([]models.Reservation, error) {
	var rows []models.Reservation
	err := r.db.WithContext(ctx).
		Where("reservation_date = ? AND status = ?", day, enums.ReservationStatusConfirmed).
		Order("time_slot ASC").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
