package seed

import (
	"context"
	"math/rand"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/loomhotels/roomledger/pkg/db/models"
	"github.com/loomhotels/roomledger/pkg/enums"
	"github.com/loomhotels/roomledger/pkg/logger"
	"github.com/loomhotels/roomledger/pkg/types"
)

type hotelSeed struct {
	hotelID   int
	hotelName string
	location  string
	basePrice int64
}

var hotelSeeds = []hotelSeed{
	{111, "Royal Lancaster", "London", 304},
	{222, "Shangri-La The Shard", "London", 415},
	{333, "Abbots Grange Manor House", "Worcestershire", 310},
	{444, "The Gleneagles", "Scotland", 346},
	{555, "The Grand", "Brighton", 130},
	{666, "St Brides Spa", "Wales", 190},
	{777, "Cliveden House", "Berkshire", 280},
}

type roomTypeSeed struct {
	name       string
	minUnits   int
	maxUnits   int
	multiplier string
}

var roomTypeSeeds = []roomTypeSeed{
	{"Standard Rooms", 10, 20, "1.0"},
	{"Deluxe Rooms", 5, 10, "1.2"},
	{"Suites", 2, 5, "1.5"},
	{"Penthouse Suites", 1, 2, "2.0"},
}

var demandLevels = []enums.DemandLevel{
	enums.DemandLevelLow,
	enums.DemandLevelMedium,
	enums.DemandLevelHigh,
}

// Populate fills an empty database with the sample hotel directory and one
// availability row per hotel and room type, dated today. A database with
// any inventory rows is left untouched.
func Populate(ctx context.Context, conn *gorm.DB, logg *logger.Logger) error {
	var count int64
	if err := conn.WithContext(ctx).Model(&models.InventoryRow{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		if logg != nil {
			logg.Info(ctx, "seed.skipped")
		}
		return nil
	}

	today := types.Today()

	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, hs := range hotelSeeds {
			hotel := models.Hotel{HotelID: hs.hotelID, HotelName: hs.hotelName, Location: hs.location}
			if err := tx.FirstOrCreate(&hotel, models.Hotel{HotelID: hs.hotelID}).Error; err != nil {
				return err
			}

			base := decimal.NewFromInt(hs.basePrice)
			for _, rt := range roomTypeSeeds {
				multiplier := decimal.RequireFromString(rt.multiplier)
				row := models.InventoryRow{
					HotelID:        hs.hotelID,
					RoomType:       rt.name,
					Date:           today,
					AvailableUnits: rt.minUnits + rand.Intn(rt.maxUnits-rt.minUnits+1),
					UnitPrice:      base.Mul(multiplier).Round(2),
					DemandLevel:    demandLevels[rand.Intn(len(demandLevels))],
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}

		if logg != nil {
			logg.Info(ctx, "seed.populated")
		}
		return nil
	})
}
