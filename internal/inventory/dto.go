package inventory

import (
	"github.com/loomhotels/roomledger/pkg/types"
	"github.com/shopspring/decimal"
)

// AdjustInput is the wire payload for the adjust endpoint. A positive
// NumUnits consumes availability, a negative one releases it back.
type AdjustInput struct {
	RoomType string     `json:"room_type" validate:"required,max=50"`
	Date     types.Date `json:"date"`
	NumUnits int        `json:"num_units"`
}

// AdjustResult reports whether the adjustment was applied.
type AdjustResult struct {
	Success bool `json:"success"`
}

// RowDTO is the public projection of one availability row.
type RowDTO struct {
	HotelID        int             `json:"hotel_id"`
	RoomType       string          `json:"room_type"`
	Date           types.Date      `json:"date"`
	AvailableUnits int             `json:"available_units"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DemandLevel    string          `json:"demand_level"`
}

// HotelDTO exposes the directory entry for a property.
type HotelDTO struct {
	HotelID   int    `json:"hotel_id"`
	HotelName string `json:"hotel_name"`
	Location  string `json:"location"`
}
