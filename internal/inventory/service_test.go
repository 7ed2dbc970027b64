package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/loomhotels/roomledger/pkg/db/models"
	"github.com/loomhotels/roomledger/pkg/enums"
	pkgerrors "github.com/loomhotels/roomledger/pkg/errors"
	"github.com/loomhotels/roomledger/pkg/types"
)

func TestAdjustConsumesAgainstCarriedForwardRow(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := NewService(NewRepository(conn), nil)
	ctx := context.Background()

	seedRows(t, conn, models.InventoryRow{HotelID: 111, RoomType: "Deluxe Rooms", Date: types.NewDate(2025, 6, 1), AvailableUnits: 2, UnitPrice: decimal.RequireFromString("400.00"), DemandLevel: enums.DemandLevelMedium})

	result, err := svc.Adjust(ctx, 111, AdjustInput{RoomType: "Deluxe Rooms", Date: types.NewDate(2025, 6, 5), NumUnits: 1})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected consume to succeed against the carried-forward row")
	}

	var row models.InventoryRow
	if err := conn.First(&row, "hotel_id = ?", 111).Error; err != nil {
		t.Fatalf("reload row: %v", err)
	}
	if row.AvailableUnits != 1 {
		t.Fatalf("expected 1 unit left, got %d", row.AvailableUnits)
	}
}

func TestAdjustReportsFailureWithoutError(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := NewService(NewRepository(conn), nil)
	ctx := context.Background()

	seedRows(t, conn, models.InventoryRow{HotelID: 111, RoomType: "Suites", Date: types.NewDate(2025, 6, 1), AvailableUnits: 0, UnitPrice: decimal.NewFromInt(600), DemandLevel: enums.DemandLevelHigh})

	tests := []struct {
		name  string
		input AdjustInput
	}{
		{"insufficient units", AdjustInput{RoomType: "Suites", Date: types.NewDate(2025, 6, 5), NumUnits: 1}},
		{"no covering row", AdjustInput{RoomType: "Suites", Date: types.NewDate(2025, 5, 1), NumUnits: 1}},
		{"unknown room type", AdjustInput{RoomType: "Penthouse Suites", Date: types.NewDate(2025, 6, 5), NumUnits: 1}},
	}

	for _, tt := range tests {
		result, err := svc.Adjust(ctx, 111, tt.input)
		if err != nil {
			t.Fatalf("%s: adjust returned error: %v", tt.name, err)
		}
		if result.Success {
			t.Fatalf("%s: expected rejection", tt.name)
		}
	}
}

func TestAdjustReleaseRestoresUnits(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := NewService(NewRepository(conn), nil)
	ctx := context.Background()

	seedRows(t, conn, models.InventoryRow{HotelID: 777, RoomType: "Penthouse Suites", Date: types.NewDate(2025, 6, 1), AvailableUnits: 0, UnitPrice: decimal.NewFromInt(560), DemandLevel: enums.DemandLevelLow})

	result, err := svc.Adjust(ctx, 777, AdjustInput{RoomType: "Penthouse Suites", Date: types.NewDate(2025, 6, 20), NumUnits: -1})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if !result.Success {
		t.Fatalf("release should succeed while the row exists")
	}

	var row models.InventoryRow
	if err := conn.First(&row, "hotel_id = ?", 777).Error; err != nil {
		t.Fatalf("reload row: %v", err)
	}
	if row.AvailableUnits != 1 {
		t.Fatalf("expected 1 unit after release, got %d", row.AvailableUnits)
	}
}

func TestAdjustValidatesInput(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := NewService(NewRepository(conn), nil)
	ctx := context.Background()

	if _, err := svc.Adjust(ctx, 111, AdjustInput{RoomType: "Suites", NumUnits: 1}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("missing date should fail validation, got %v", err)
	}
	if _, err := svc.Adjust(ctx, 111, AdjustInput{RoomType: "Suites", Date: types.NewDate(2025, 6, 1), NumUnits: 0}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("zero num_units should fail validation, got %v", err)
	}
}

func TestHotelNameLookup(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := NewService(NewRepository(conn), nil)
	ctx := context.Background()

	if err := conn.Create(&models.Hotel{HotelID: 111, HotelName: "Royal Lancaster", Location: "London"}).Error; err != nil {
		t.Fatalf("seed hotel: %v", err)
	}

	hotel, err := svc.HotelName(ctx, 111)
	if err != nil {
		t.Fatalf("hotel name: %v", err)
	}
	if hotel.HotelName != "Royal Lancaster" || hotel.Location != "London" {
		t.Fatalf("unexpected hotel %+v", hotel)
	}

	_, err = svc.HotelName(ctx, 999)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unknown hotel should map to not found, got %v", err)
	}
}
