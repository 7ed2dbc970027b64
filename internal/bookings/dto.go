package bookings

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loomhotels/roomledger/pkg/db/models"
	"github.com/loomhotels/roomledger/pkg/types"
)

// CreateInput is the validated payload for booking creation. is_weekend is
// intentionally absent: it is derived server-side from the stay window.
type CreateInput struct {
	GuestName      string     `json:"guest_name" validate:"required,max=100"`
	HotelID        int        `json:"hotel_id" validate:"required,gt=0"`
	ArrivalDate    types.Date `json:"arrival_date"`
	StayLength     int        `json:"stay_length" validate:"required,gt=0"`
	RoomType       string     `json:"room_type" validate:"required,max=50"`
	Adults         int        `json:"adults" validate:"required,gt=0"`
	Children       int        `json:"children" validate:"gte=0"`
	MealPlan       *string    `json:"meal_plan,omitempty" validate:"omitempty,max=50"`
	MarketSegment  *string    `json:"market_segment,omitempty" validate:"omitempty,max=50"`
	IsHoliday      bool       `json:"is_holiday"`
	BookingChannel *string    `json:"booking_channel,omitempty" validate:"omitempty,max=50"`
}

// UpdateInput carries the patchable subset of booking fields. Nil means
// "leave unchanged". Room type and stay length changes deliberately do not
// re-run inventory adjustment.
type UpdateInput struct {
	GuestName   *string     `json:"guest_name,omitempty" validate:"omitempty,max=100"`
	ArrivalDate *types.Date `json:"arrival_date,omitempty"`
	StayLength  *int        `json:"stay_length,omitempty" validate:"omitempty,gt=0"`
	RoomType    *string     `json:"room_type,omitempty" validate:"omitempty,max=50"`
	Adults      *int        `json:"adults,omitempty" validate:"omitempty,gt=0"`
	Children    *int        `json:"children,omitempty" validate:"omitempty,gte=0"`
}

// BookingDTO is the public projection of a booking. HotelName is cosmetic
// enrichment from the inventory service and may be null.
type BookingDTO struct {
	BookingID      string          `json:"booking_id"`
	GuestName      string          `json:"guest_name"`
	HotelID        int             `json:"hotel_id"`
	HotelName      *string         `json:"hotel_name"`
	ArrivalDate    types.Date      `json:"arrival_date"`
	StayLength     int             `json:"stay_length"`
	CheckOutDate   types.Date      `json:"check_out_date"`
	RoomType       string          `json:"room_type"`
	Adults         int             `json:"adults"`
	Children       int             `json:"children"`
	MealPlan       *string         `json:"meal_plan,omitempty"`
	MarketSegment  *string         `json:"market_segment,omitempty"`
	IsWeekend      bool            `json:"is_weekend"`
	IsHoliday      bool            `json:"is_holiday"`
	BookingChannel *string         `json:"booking_channel,omitempty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ListQuery bounds a booking listing.
type ListQuery struct {
	Limit  int
	Offset int
}

// ListResult pairs a page of bookings with the total count.
type ListResult struct {
	Bookings []BookingDTO `json:"bookings"`
	Total    int64        `json:"total"`
	Limit    int          `json:"limit"`
	Offset   int          `json:"offset"`
}

func toDTO(b models.Booking, hotelName *string) BookingDTO {
	return BookingDTO{
		BookingID:      b.BookingID,
		GuestName:      b.GuestName,
		HotelID:        b.HotelID,
		HotelName:      hotelName,
		ArrivalDate:    b.ArrivalDate,
		StayLength:     b.StayLength,
		CheckOutDate:   b.CheckOutDate,
		RoomType:       b.RoomType,
		Adults:         b.Adults,
		Children:       b.Children,
		MealPlan:       b.MealPlan,
		MarketSegment:  b.MarketSegment,
		IsWeekend:      b.IsWeekend,
		IsHoliday:      b.IsHoliday,
		BookingChannel: b.BookingChannel,
		UnitPrice:      b.UnitPrice,
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt,
	}
}
