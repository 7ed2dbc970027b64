package models

import (
	"time"

	"github.com/loomhotels/roomledger/pkg/enums"
	"github.com/loomhotels/roomledger/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Booking is the reservation record owned by the booking service. Rows are
// created once, mutated in place by cancellation/update/reconciliation, and
// never physically deleted.
//
// check_out_date is derived from arrival_date + stay_length on every save;
// it is never settable on its own.
type Booking struct {
	BookingID      string              `gorm:"column:booking_id;size:7;primaryKey" json:"booking_id"`
	GuestName      string              `gorm:"column:guest_name;size:100;not null" json:"guest_name"`
	HotelID        int                 `gorm:"column:hotel_id;not null;index" json:"hotel_id"`
	ArrivalDate    types.Date          `gorm:"column:arrival_date;not null;index" json:"arrival_date"`
	StayLength     int                 `gorm:"column:stay_length;not null" json:"stay_length"`
	CheckOutDate   types.Date          `gorm:"column:check_out_date;not null" json:"check_out_date"`
	RoomType       string              `gorm:"column:room_type;size:50;not null" json:"room_type"`
	Adults         int                 `gorm:"column:adults;not null" json:"adults"`
	Children       int                 `gorm:"column:children;not null" json:"children"`
	MealPlan       *string             `gorm:"column:meal_plan;size:50" json:"meal_plan,omitempty"`
	MarketSegment  *string             `gorm:"column:market_segment;size:50" json:"market_segment,omitempty"`
	IsWeekend      bool                `gorm:"column:is_weekend;not null" json:"is_weekend"`
	IsHoliday      bool                `gorm:"column:is_holiday;not null" json:"is_holiday"`
	BookingChannel *string             `gorm:"column:booking_channel;size:50" json:"booking_channel,omitempty"`
	UnitPrice      decimal.Decimal     `gorm:"column:unit_price;type:numeric(8,2);not null" json:"unit_price"`
	Status         enums.BookingStatus `gorm:"column:status;size:20;not null" json:"status"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Booking) TableName() string { return "booking" }

// BeforeSave keeps check_out_date consistent with arrival_date + stay_length.
func (b *Booking) BeforeSave(tx *gorm.DB) error {
	if !b.ArrivalDate.IsZero() && b.StayLength > 0 {
		b.CheckOutDate = b.ArrivalDate.AddDays(b.StayLength)
	}
	return nil
}
