package bookings

import (
	"context"
	"time"

	"github.com/loomhotels/roomledger/internal/inventoryclient"
	"github.com/loomhotels/roomledger/pkg/db/models"
	"github.com/loomhotels/roomledger/pkg/enums"
	pkgerrors "github.com/loomhotels/roomledger/pkg/errors"
	"github.com/loomhotels/roomledger/pkg/logger"
	"github.com/loomhotels/roomledger/pkg/metrics"
	"github.com/loomhotels/roomledger/pkg/types"
)

const (
	opDecrement = "decrement"
	opIncrement = "increment"
)

// InventoryAPI is the slice of the inventory client the booking flows use.
type InventoryAPI interface {
	Rows(ctx context.Context, hotelID int, start, end types.Date) ([]inventoryclient.Row, error)
	HotelName(ctx context.Context, hotelID int) (*inventoryclient.Hotel, error)
	Adjust(ctx context.Context, hotelID int, req inventoryclient.AdjustRequest) (bool, error)
}

// Service exposes the booking flows.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*BookingDTO, error)
	Get(ctx context.Context, bookingID string) (*BookingDTO, error)
	List(ctx context.Context, query ListQuery) (*ListResult, error)
	Update(ctx context.Context, bookingID string, input UpdateInput) (*BookingDTO, error)
	Cancel(ctx context.Context, bookingID string) (*BookingDTO, error)
}

type service struct {
	repo      *Repository
	inventory InventoryAPI
	logg      *logger.Logger
	adjust    *metrics.AdjustMetrics
	now       func() types.Date
}

// NewService builds the booking service.
func NewService(repo *Repository, inventory InventoryAPI, logg *logger.Logger, adjust *metrics.AdjustMetrics) Service {
	return &service{
		repo:      repo,
		inventory: inventory,
		logg:      logg,
		adjust:    adjust,
		now:       types.Today,
	}
}

// Create runs the booking creation saga: validate the stay, read price and
// availability from inventory in one call, persist the booking as
// confirmed, then best-effort decrement inventory. A persisted booking is
// never rolled back because of a failed decrement; the gap is logged and
// counted instead.
func (s *service) Create(ctx context.Context, input CreateInput) (*BookingDTO, error) {
	if input.ArrivalDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "arrival_date is required")
	}
	if input.ArrivalDate.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "arrival_date must not be in the past")
	}

	row, err := s.effectiveRow(ctx, input.HotelID, input.RoomType, input.ArrivalDate)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "no inventory for the requested hotel, room type, and date")
	}
	if row.AvailableUnits < 1 {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "no units available for the requested stay")
	}

	bookingID, err := NewBookingID()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate booking id")
	}

	booking := models.Booking{
		BookingID:      bookingID,
		GuestName:      input.GuestName,
		HotelID:        input.HotelID,
		ArrivalDate:    input.ArrivalDate,
		StayLength:     input.StayLength,
		RoomType:       input.RoomType,
		Adults:         input.Adults,
		Children:       input.Children,
		MealPlan:       input.MealPlan,
		MarketSegment:  input.MarketSegment,
		IsWeekend:      stayTouchesWeekend(input.ArrivalDate, input.StayLength),
		IsHoliday:      input.IsHoliday,
		BookingChannel: input.BookingChannel,
		UnitPrice:      row.UnitPrice,
		Status:         enums.BookingStatusConfirmed,
	}

	if err := s.repo.Create(ctx, &booking); err == ErrDuplicateID {
		booking.BookingID, err = NewBookingID()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "regenerate booking id")
		}
		if err := s.repo.Create(ctx, &booking); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist booking")
		}
	} else if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist booking")
	}

	if s.logg != nil {
		ctx = s.logg.WithBookingID(ctx, booking.BookingID)
		ctx = s.logg.WithFields(ctx, map[string]any{
			"hotel_id":   booking.HotelID,
			"room_type":  booking.RoomType,
			"guest_name": logger.Redact(booking.GuestName),
		})
		s.logg.Info(ctx, "booking.created")
	}

	// The booking is durable from here on. Inventory drift is preferable
	// to losing the reservation.
	s.bestEffortAdjust(ctx, opDecrement, booking, 1)

	return s.enrich(ctx, booking), nil
}

func (s *service) Get(ctx context.Context, bookingID string) (*BookingDTO, error) {
	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*booking, nil)
	return &dto, nil
}

func (s *service) List(ctx context.Context, query ListQuery) (*ListResult, error) {
	if query.Limit <= 0 {
		query.Limit = 50
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	rows, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list bookings")
	}

	dtos := make([]BookingDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toDTO(row, nil))
	}
	return &ListResult{Bookings: dtos, Total: total, Limit: query.Limit, Offset: query.Offset}, nil
}

// Update patches the non-terminal booking in place. It never re-runs
// inventory adjustment, even when room_type or stay_length changes; the
// original reservation's unit stays held as-is.
func (s *service) Update(ctx context.Context, bookingID string, input UpdateInput) (*BookingDTO, error) {
	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "booking is in a terminal state").
			WithDetails(map[string]string{"status": string(booking.Status)})
	}

	if input.GuestName != nil {
		booking.GuestName = *input.GuestName
	}
	if input.ArrivalDate != nil {
		booking.ArrivalDate = *input.ArrivalDate
	}
	if input.StayLength != nil {
		booking.StayLength = *input.StayLength
	}
	if input.RoomType != nil {
		booking.RoomType = *input.RoomType
	}
	if input.Adults != nil {
		booking.Adults = *input.Adults
	}
	if input.Children != nil {
		booking.Children = *input.Children
	}
	if input.ArrivalDate != nil || input.StayLength != nil {
		booking.IsWeekend = stayTouchesWeekend(booking.ArrivalDate, booking.StayLength)
	}

	if err := s.repo.Save(ctx, booking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist booking update")
	}

	dto := toDTO(*booking, nil)
	return &dto, nil
}

// Cancel marks the booking cancelled, then best-effort releases its unit.
// Cancellation is deliberately not idempotent: a second call surfaces a
// distinct state error instead of success, and never double-increments
// inventory.
func (s *service) Cancel(ctx context.Context, bookingID string) (*BookingDTO, error) {
	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == enums.BookingStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "booking already cancelled")
	}
	if booking.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "booking is in a terminal state").
			WithDetails(map[string]string{"status": string(booking.Status)})
	}

	booking.Status = enums.BookingStatusCancelled
	if err := s.repo.Save(ctx, booking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist cancellation")
	}

	if s.logg != nil {
		ctx = s.logg.WithBookingID(ctx, booking.BookingID)
		s.logg.Info(ctx, "booking.cancelled")
	}

	// The cancellation sticks even when the release fails.
	s.bestEffortAdjust(ctx, opIncrement, *booking, -1)

	dto := toDTO(*booking, nil)
	return &dto, nil
}

func (s *service) load(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load booking")
	}
	if booking == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
	}
	return booking, nil
}

// effectiveRow reads price and availability in a single inventory call and
// resolves the carry-forward row for the arrival date client-side: the
// newest row at or before it for the requested room type.
func (s *service) effectiveRow(ctx context.Context, hotelID int, roomType string, arrival types.Date) (*inventoryclient.Row, error) {
	rows, err := s.inventory.Rows(ctx, hotelID, types.Date{}, arrival)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read inventory")
	}

	var best *inventoryclient.Row
	for i := range rows {
		row := rows[i]
		if row.RoomType != roomType || row.Date.After(arrival) {
			continue
		}
		if best == nil || row.Date.After(best.Date) {
			best = &rows[i]
		}
	}
	return best, nil
}

// bestEffortAdjust applies an inventory adjustment after the booking
// mutation is already durable. Failures are logged and counted, never
// propagated.
func (s *service) bestEffortAdjust(ctx context.Context, operation string, booking models.Booking, units int) {
	start := time.Now()
	ok, err := s.inventory.Adjust(ctx, booking.HotelID, inventoryclient.AdjustRequest{
		RoomType: booking.RoomType,
		Date:     booking.ArrivalDate,
		NumUnits: units,
	})
	s.adjust.ObserveDuration(operation, time.Since(start))

	if err == nil && ok {
		return
	}

	s.adjust.IncFailure(operation)
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"operation": operation,
			"hotel_id":  booking.HotelID,
			"room_type": booking.RoomType,
			"date":      booking.ArrivalDate.String(),
		})
		if err != nil {
			s.logg.Error(ctx, "inventory.adjust.unreachable", err)
		} else {
			s.logg.Warn(ctx, "inventory.adjust.rejected")
		}
	}
}

// enrich attaches the hotel display name when the inventory service can
// supply it. Absence is cosmetic, never an error.
func (s *service) enrich(ctx context.Context, booking models.Booking) *BookingDTO {
	var hotelName *string
	if hotel, err := s.inventory.HotelName(ctx, booking.HotelID); err == nil && hotel != nil {
		hotelName = &hotel.HotelName
	} else if err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithHotelID(ctx, booking.HotelID), "booking.enrich.hotel_name_unavailable")
	}
	dto := toDTO(booking, hotelName)
	return &dto
}

// stayTouchesWeekend reports whether any night of
// [arrival, arrival+stayLength) falls on a Saturday or Sunday.
func stayTouchesWeekend(arrival types.Date, stayLength int) bool {
	for i := 0; i < stayLength; i++ {
		switch arrival.AddDays(i).Weekday() {
		case time.Saturday, time.Sunday:
			return true
		}
	}
	return false
}
