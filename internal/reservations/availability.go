package reservations

import (
	"context"

	"github.com/angelmondragon/speakeasy-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/speakeasy-backend/pkg/errors"
)

func (s *service) GetAvailability(ctx context.Context, date string) (*Availability, error) {
	if date == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Date query parameter is required")
	}
	day, err := ParseDate(date)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid date format")
	}

	booked, err := s.repo.BookedTimes(ctx, day)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load booked times").WithPublicMessage(createFailedMessage)
	}

	return &Availability{
		Date:      FormatDate(day),
		TimeSlots: buildSlots(s.opts.Slots, booked),
	}, nil
}

// buildSlots marks each catalog slot booked when a reservation holds the exact same time string.
func buildSlots(catalog, booked []string) []TimeSlot {
	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}
	slots := make([]TimeSlot, 0, len(catalog))
	for _, t := range catalog {
		status := enums.SlotStatusAvailable
		if _, ok := taken[t]; ok {
			status = enums.SlotStatusBooked
		}
		slots = append(slots, TimeSlot{Time: t, Status: status})
	}
	return slots
}
