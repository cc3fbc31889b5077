package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/speakeasy-backend/internal/reservations"
	"github.com/angelmondragon/speakeasy-backend/pkg/db/models"
	"github.com/angelmondragon/speakeasy-backend/pkg/enums"
	"github.com/angelmondragon/speakeasy-backend/pkg/logger"
	"github.com/angelmondragon/speakeasy-backend/pkg/outbox"
	"github.com/angelmondragon/speakeasy-backend/pkg/outbox/payloads"
)

const (
	defaultReminderLead = 24 * time.Hour
	reminderSource      = "cron"
)

type reminderRepo interface {
	ListConfirmedOn(ctx context.Context, day time.Time) ([]models.Reservation, error)
}

type reminderEmitter interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) (bool, error)
}

type ReservationReminderJobParams struct {
	Logger       *logger.Logger
	DB           txRunner
	Reservations reminderRepo
	Outbox       reminderEmitter
	Location     *time.Location
	Lead         time.Duration
	Now          func() time.Time
}

// NewReservationReminderJob queues one reservation_reminder event per
// confirmed reservation on the day Lead from now, in the restaurant's zone.
func NewReservationReminderJob(params ReservationReminderJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Reservations == nil {
		return nil, fmt.Errorf("reservation repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	lead := params.Lead
	if lead <= 0 {
		lead = defaultReminderLead
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &reservationReminderJob{
		logg:   params.Logger,
		db:     params.DB,
		repo:   params.Reservations,
		outbox: params.Outbox,
		loc:    loc,
		lead:   lead,
		now:    now,
	}, nil
}

type reservationReminderJob struct {
	logg   *logger.Logger
	db     txRunner
	repo   reminderRepo
	outbox reminderEmitter
	loc    *time.Location
	lead   time.Duration
	now    func() time.Time
}

func (j *reservationReminderJob) Name() string { return "reservation-reminder" }

// targetDay is the local calendar day of now+lead, stored form (00:00 UTC).
func (j *reservationReminderJob) targetDay() time.Time {
	local := j.now().In(j.loc).Add(j.lead)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func (j *reservationReminderJob) Run(ctx context.Context) error {
	day := j.targetDay()
	ctx = j.logg.WithField(ctx, "reminder_date", reservations.FormatDate(day))

	rows, err := j.repo.ListConfirmedOn(ctx, day)
	if err != nil {
		return fmt.Errorf("list reservations: %w", err)
	}

	var (
		errs   error
		queued int
	)
	for i := range rows {
		reservation := rows[i]
		event := outbox.DomainEvent{
			EventType:     enums.EventReservationReminder,
			AggregateType: enums.AggregateReservation,
			AggregateID:   reservation.ID,
			Source:        reminderSource,
			Data: payloads.ReservationReminderEvent{
				ReservationID:    reservation.ID,
				ConfirmationCode: reservation.ConfirmationCode,
				Email:            reservation.Email,
				FirstName:        reservation.FirstName,
				Date:             reservations.FormatDate(reservation.ReservationDate),
				Time:             reservation.TimeSlot,
				PartySize:        reservation.PartySize,
			},
		}
		var inserted bool
		err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
			var emitErr error
			inserted, emitErr = j.outbox.EmitIfNotExists(ctx, tx, event)
			return emitErr
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("reservation %s: %w", reservation.ConfirmationCode, err))
			continue
		}
		if inserted {
			queued++
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"candidates": len(rows),
		"queued":     queued,
		"failed":     len(multierr.Errors(errs)),
	})
	j.logg.Info(logCtx, "reservation reminders queued")
	return errs
}
