package models

import (
	"github.com/loomhotels/roomledger/pkg/enums"
	"github.com/loomhotels/roomledger/pkg/types"
	"github.com/shopspring/decimal"
)

// InventoryRow holds unit availability and pricing for one hotel, room
// type, and date. A row also acts as the effective availability for any
// later date until a newer row exists (the carry-forward policy).
//
// available_units never goes below zero; the adjuster enforces that with a
// conditional update, not an application-side check.
type InventoryRow struct {
	HotelID        int               `gorm:"column:hotel_id;primaryKey" json:"hotel_id"`
	RoomType       string            `gorm:"column:room_type;size:50;primaryKey" json:"room_type"`
	Date           types.Date        `gorm:"column:date;primaryKey" json:"date"`
	AvailableUnits int               `gorm:"column:available_units;not null" json:"available_units"`
	UnitPrice      decimal.Decimal   `gorm:"column:unit_price;type:numeric(8,2);not null" json:"unit_price"`
	DemandLevel    enums.DemandLevel `gorm:"column:demand_level;size:20" json:"demand_level"`
}

func (InventoryRow) TableName() string { return "inventory" }
