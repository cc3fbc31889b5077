package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/angelmondragon/speakeasy-backend/pkg/db"
	"github.com/angelmondragon/speakeasy-backend/pkg/db/models"
	"github.com/angelmondragon/speakeasy-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/speakeasy-backend/pkg/errors"
	"github.com/angelmondragon/speakeasy-backend/pkg/logger"
	"github.com/angelmondragon/speakeasy-backend/pkg/metrics"
	"github.com/angelmondragon/speakeasy-backend/pkg/outbox"
	"github.com/angelmondragon/speakeasy-backend/pkg/outbox/payloads"
)

const (
	createFailedMessage = "Server error. Please try again later."
	eventSource         = "api"
)

type reservationsRepository interface {
	ActiveSlotExists(ctx context.Context, day time.Time, slot string) (bool, error)
	CountConfirmedByEmail(tx *gorm.DB, email string) (int64, error)
	Insert(tx *gorm.DB, reservation *models.Reservation) error
	BookedTimes(ctx context.Context, day time.Time) ([]string, error)
	FindByCode(ctx context.Context, code string) (*models.Reservation, error)
	FindByCodeForUpdate(tx *gorm.DB, code string) (*models.Reservation, error)
	MarkCancelled(tx *gorm.DB, id uuid.UUID, at time.Time) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service books, looks up, and cancels reservations and reports slot availability.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*CreateResult, error)
	GetAvailability(ctx context.Context, date string) (*Availability, error)
	GetByConfirmationCode(ctx context.Context, code string) (*models.Reservation, error)
	Cancel(ctx context.Context, code string) (*models.Reservation, error)
}

// Options tune booking rules; zero values fall back to the defaults.
type Options struct {
	Slots         []string
	Location      *time.Location
	DiscountEvery int
	DiscountCode  string
	CodeAttempts  int
}

// ServiceParams wires the reservation service.
type ServiceParams struct {
	Repo    reservationsRepository
	Tx      txRunner
	Outbox  outboxEmitter
	Logger  *logger.Logger
	Metrics *metrics.BookingMetrics
	Options Options
	Now     func() time.Time
	NewCode CodeGenerator
}

type service struct {
	repo    reservationsRepository
	tx      txRunner
	outbox  outboxEmitter
	logg    *logger.Logger
	metrics *metrics.BookingMetrics
	opts    Options
	now     func() time.Time
	newCode CodeGenerator
}

// NewService validates params and builds the reservation service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("reservation repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	opts := params.Options
	if len(opts.Slots) == 0 {
		return nil, fmt.Errorf("slot catalog required")
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.DiscountEvery <= 0 {
		opts.DiscountEvery = 5
	}
	if opts.DiscountCode == "" {
		opts.DiscountCode = "DISCOUNT10"
	}
	if opts.CodeAttempts <= 0 {
		opts.CodeAttempts = 5
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	newCode := params.NewCode
	if newCode == nil {
		newCode = GenerateConfirmationCode
	}
	return &service{
		repo:    params.Repo,
		tx:      params.Tx,
		outbox:  params.Outbox,
		logg:    params.Logger,
		metrics: params.Metrics,
		opts:    opts,
		now:     now,
		newCode: newCode,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CreateResult, error) {
	input = input.Normalize()

	if missing := input.MissingFields(); len(missing) > 0 {
		s.metrics.IncAttempt(metrics.BookingOutcomeInvalid)
		return nil, missingFieldsError(missing)
	}

	violations := formatViolations(input)
	day, err := ParseDate(input.Date)
	switch {
	case err != nil:
		violations["date"] = "Please enter a valid date in YYYY-MM-DD format"
	case !isFutureDay(day, s.opts.Location, s.now()):
		violations["date"] = "Reservation date must be in the future"
	}
	if len(violations) > 0 {
		s.metrics.IncAttempt(metrics.BookingOutcomeInvalid)
		return nil, violationsError(violations)
	}

	taken, err := s.repo.ActiveSlotExists(ctx, day, input.Time)
	if err != nil {
		s.metrics.IncAttempt(metrics.BookingOutcomeError)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check slot").WithPublicMessage(createFailedMessage)
	}
	if taken {
		s.metrics.IncAttempt(metrics.BookingOutcomeSlotConflict)
		return nil, slotConflictError()
	}

	var result *CreateResult
	for attempt := 1; attempt <= s.opts.CodeAttempts; attempt++ {
		result, err = s.insertConfirmed(ctx, input, day)
		if err == nil {
			break
		}
		if dbpkg.IsUniqueViolation(err, "confirmation_code") {
			s.metrics.IncCodeCollision()
			if s.logg != nil {
				s.logg.Warn(s.logg.WithField(ctx, "attempt", attempt), "confirmation code collision, retrying")
			}
			continue
		}
		if dbpkg.IsUniqueViolation(err, "active_slot", "time_slot") {
			s.metrics.IncAttempt(metrics.BookingOutcomeSlotConflict)
			return nil, slotConflictError()
		}
		s.metrics.IncAttempt(metrics.BookingOutcomeError)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create reservation").WithPublicMessage(createFailedMessage)
	}
	if err != nil {
		s.metrics.IncAttempt(metrics.BookingOutcomeError)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirmation code attempts exhausted").WithPublicMessage(createFailedMessage)
	}

	s.metrics.IncAttempt(metrics.BookingOutcomeConfirmed)
	if result.DiscountCode != "" {
		s.metrics.IncDiscount()
	}
	if s.logg != nil {
		logCtx := s.logg.WithConfirmationCode(ctx, result.Reservation.ConfirmationCode)
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"reservation_id": result.Reservation.ID.String(),
			"date":           input.Date,
			"time":           input.Time,
		})
		s.logg.Info(logCtx, "reservation confirmed")
	}
	return result, nil
}

// insertConfirmed runs one booking transaction with a fresh confirmation code.
func (s *service) insertConfirmed(ctx context.Context, input CreateInput, day time.Time) (*CreateResult, error) {
	code, err := s.newCode()
	if err != nil {
		return nil, fmt.Errorf("generate confirmation code: %w", err)
	}

	var result *CreateResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		prior, err := s.repo.CountConfirmedByEmail(tx, input.Email)
		if err != nil {
			return err
		}

		reservation := &models.Reservation{
			FirstName:        input.FirstName,
			LastName:         input.LastName,
			Email:            input.Email,
			Phone:            input.Phone,
			ReservationDate:  day,
			TimeSlot:         input.Time,
			PartySize:        input.PartySize,
			SpecialRequests:  input.SpecialRequests,
			Status:           enums.ReservationStatusConfirmed,
			ConfirmationCode: code,
		}
		var discount string
		if (prior+1)%int64(s.opts.DiscountEvery) == 0 {
			discount = s.opts.DiscountCode
			reservation.DiscountCode = &discount
		}

		if err := s.repo.Insert(tx, reservation); err != nil {
			return err
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventReservationConfirmed,
			AggregateType: enums.AggregateReservation,
			AggregateID:   reservation.ID,
			Source:        eventSource,
			Data: payloads.ReservationConfirmedEvent{
				ReservationID:    reservation.ID,
				ConfirmationCode: reservation.ConfirmationCode,
				Email:            reservation.Email,
				FirstName:        reservation.FirstName,
				Date:             FormatDate(day),
				Time:             reservation.TimeSlot,
				PartySize:        reservation.PartySize,
				DiscountCode:     discount,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return fmt.Errorf("emit reservation confirmed: %w", err)
		}

		result = &CreateResult{Reservation: reservation, DiscountCode: discount}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) GetByConfirmationCode(ctx context.Context, code string) (*models.Reservation, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, reservationNotFound()
	}
	reservation, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, reservationNotFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load reservation")
	}
	return reservation, nil
}

func (s *service) Cancel(ctx context.Context, code string) (*models.Reservation, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, reservationNotFound()
	}

	var cancelled *models.Reservation
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		reservation, err := s.repo.FindByCodeForUpdate(tx, code)
		if err != nil {
			if dbpkg.IsNotFound(err) {
				return reservationNotFound()
			}
			return err
		}
		if reservation.Status == enums.ReservationStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "Reservation is already cancelled")
		}

		at := s.now().UTC()
		if err := s.repo.MarkCancelled(tx, reservation.ID, at); err != nil {
			return err
		}
		reservation.Status = enums.ReservationStatusCancelled
		reservation.CancelledAt = &at

		event := outbox.DomainEvent{
			EventType:     enums.EventReservationCancelled,
			AggregateType: enums.AggregateReservation,
			AggregateID:   reservation.ID,
			Source:        eventSource,
			Data: payloads.ReservationCancelledEvent{
				ReservationID:    reservation.ID,
				ConfirmationCode: reservation.ConfirmationCode,
				Email:            reservation.Email,
				Date:             FormatDate(reservation.ReservationDate),
				Time:             reservation.TimeSlot,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return fmt.Errorf("emit reservation cancelled: %w", err)
		}
		cancelled = reservation
		return nil
	})
	if err != nil {
		var typed *pkgerrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel reservation")
	}

	s.metrics.IncCancellation()
	if s.logg != nil {
		s.logg.Info(s.logg.WithConfirmationCode(ctx, cancelled.ConfirmationCode), "reservation cancelled")
	}
	return cancelled, nil
}

func slotConflictError() error {
	return pkgerrors.New(pkgerrors.CodeSlotConflict, "This time slot is already booked. Please choose a different time.")
}

func reservationNotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "Reservation not found")
}
