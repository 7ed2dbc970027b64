package bookings

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/loomhotels/roomledger/internal/inventoryclient"
	"github.com/loomhotels/roomledger/pkg/enums"
	pkgerrors "github.com/loomhotels/roomledger/pkg/errors"
	"github.com/loomhotels/roomledger/pkg/types"
)

// stubInventory backs the booking flows with an in-memory availability
// ledger so saga ordering is observable without a live inventory service.
type stubInventory struct {
	rows        []inventoryclient.Row
	hotelName   string
	adjustCalls []inventoryclient.AdjustRequest
	adjustErr   error
	rowsErr     error
}

func (s *stubInventory) Rows(_ context.Context, _ int, _, _ types.Date) ([]inventoryclient.Row, error) {
	if s.rowsErr != nil {
		return nil, s.rowsErr
	}
	return s.rows, nil
}

func (s *stubInventory) HotelName(_ context.Context, hotelID int) (*inventoryclient.Hotel, error) {
	if s.hotelName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "hotel not found")
	}
	return &inventoryclient.Hotel{HotelID: hotelID, HotelName: s.hotelName}, nil
}

func (s *stubInventory) Adjust(_ context.Context, _ int, req inventoryclient.AdjustRequest) (bool, error) {
	s.adjustCalls = append(s.adjustCalls, req)
	if s.adjustErr != nil {
		return false, s.adjustErr
	}
	for i := range s.rows {
		row := &s.rows[i]
		if row.RoomType != req.RoomType {
			continue
		}
		if req.NumUnits > 0 && row.AvailableUnits < req.NumUnits {
			return false, nil
		}
		row.AvailableUnits -= req.NumUnits
		return true, nil
	}
	return false, nil
}

func newBookingService(t *testing.T, inv *stubInventory) (*service, *Repository) {
	t.Helper()
	repo := NewRepository(newTestDB(t))
	svc := NewService(repo, inv, nil, nil).(*service)
	svc.now = func() types.Date { return types.NewDate(2025, 6, 1) }
	return svc, repo
}

func deluxeRow(units int) inventoryclient.Row {
	return inventoryclient.Row{
		HotelID:        111,
		RoomType:       "Deluxe Rooms",
		Date:           types.NewDate(2025, 6, 1),
		AvailableUnits: units,
		UnitPrice:      decimal.RequireFromString("400.00"),
		DemandLevel:    "medium",
	}
}

func createInput() CreateInput {
	return CreateInput{
		GuestName:   "Avery Quinn",
		HotelID:     111,
		ArrivalDate: types.NewDate(2025, 6, 1),
		StayLength:  1,
		RoomType:    "Deluxe Rooms",
		Adults:      2,
	}
}

func TestCreatePersistsThenDecrements(t *testing.T) {
	t.Parallel()

	inv := &stubInventory{rows: []inventoryclient.Row{deluxeRow(1)}, hotelName: "Royal Lancaster"}
	svc, repo := newBookingService(t, inv)

	dto, err := svc.Create(context.Background(), createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Status != string(enums.BookingStatusConfirmed) {
		t.Fatalf("expected confirmed, got %s", dto.Status)
	}
	if !dto.UnitPrice.Equal(decimal.RequireFromString("400.00")) {
		t.Fatalf("price snapshot mismatch: %s", dto.UnitPrice)
	}
	if dto.HotelName == nil || *dto.HotelName != "Royal Lancaster" {
		t.Fatalf("expected hotel name enrichment, got %v", dto.HotelName)
	}

	if len(inv.adjustCalls) != 1 || inv.adjustCalls[0].NumUnits != 1 {
		t.Fatalf("expected one decrement call, got %+v", inv.adjustCalls)
	}
	if inv.rows[0].AvailableUnits != 0 {
		t.Fatalf("expected the unit to be consumed, got %d", inv.rows[0].AvailableUnits)
	}

	persisted, err := repo.FindByID(context.Background(), dto.BookingID)
	if err != nil || persisted == nil {
		t.Fatalf("booking not persisted: %v", err)
	}
}

func TestCreateRejectsPastArrival(t *testing.T) {
	t.Parallel()

	inv := &stubInventory{rows: []inventoryclient.Row{deluxeRow(1)}}
	svc, repo := newBookingService(t, inv)

	input := createInput()
	input.ArrivalDate = types.NewDate(2025, 5, 31)
	_, err := svc.Create(context.Background(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodePrecondition {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if len(inv.adjustCalls) != 0 {
		t.Fatalf("no adjust call expected on validation failure")
	}

	rows, total, err := repo.List(context.Background(), ListQuery{Limit: 10})
	if err != nil || total != 0 || len(rows) != 0 {
		t.Fatalf("nothing should be persisted, got %d rows", total)
	}
}

func TestCreateRejectsWhenNoUnitsAvailable(t *testing.T) {
	t.Parallel()

	inv := &stubInventory{rows: []inventoryclient.Row{deluxeRow(0)}}
	svc, _ := newBookingService(t, inv)

	_, err := svc.Create(context.Background(), createInput())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodePrecondition {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if len(inv.adjustCalls) != 0 {
		t.Fatalf("no adjust call expected when availability check fails")
	}
}

func TestCreateSurvivesDecrementFailure(t *testing.T) {
	t.Parallel()

	inv := &stubInventory{rows: []inventoryclient.Row{deluxeRow(1)}, adjustErr: errors.New("inventory down")}
	svc, repo := newBookingService(t, inv)

	dto, err := svc.Create(context.Background(), createInput())
	if err != nil {
		t.Fatalf("a failed decrement must not fail the booking: %v", err)
	}

	persisted, err := repo.FindByID(context.Background(), dto.BookingID)
	if err != nil || persisted == nil {
		t.Fatalf("booking must stay durable after decrement failure: %v", err)
	}
	if persisted.Status != enums.BookingStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", persisted.Status)
	}
}

func TestCreateDerivesWeekendFromStaySpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		arrival types.Date
		nights  int
		want    bool
	}{
		{"friday three nights", types.NewDate(2025, 6, 6), 3, true},
		{"monday one night", types.NewDate(2025, 6, 2), 1, false},
		{"thursday one night", types.NewDate(2025, 6, 5), 1, false},
		{"saturday arrival", types.NewDate(2025, 6, 7), 1, true},
	}

	for _, tt := range tests {
		inv := &stubInventory{rows: []inventoryclient.Row{deluxeRow(5)}}
		svc, _ := newBookingService(t, inv)

		input := createInput()
		input.ArrivalDate = tt.arrival
		input.StayLength = tt.nights
		dto, err := svc.Create(context.Background(), input)
		if err != nil {
			t.Fatalf("%s: create: %v", tt.name, err)
		}
		if dto.IsWeekend != tt.want {
			t.Fatalf("%s: expected is_weekend=%v", tt.name, tt.want)
		}
	}
}

func TestCancelReleasesUnitOnce(t *testing.T) {
	t.Parallel()

	inv := &stubInventory{rows: []inventoryclient.Row{deluxeRow(1)}, hotelName: "Royal Lancaster"}
	svc, _ := newBookingService(t, inv)
	ctx := context.Background()

	dto, err := svc.Create(ctx, createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.rows[0].AvailableUnits != 0 {
		t.Fatalf("expected 0 units after creation")
	}

	cancelled, err := svc.Cancel(ctx, dto.BookingID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != string(enums.BookingStatusCancelled) {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if inv.rows[0].AvailableUnits != 1 {
		t.Fatalf("expected the unit back, got %d", inv.rows[0].AvailableUnits)
	}

	_, err = svc.Cancel(ctx, dto.BookingID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("second cancel must fail distinctly, got %v", err)
	}
	if inv.rows[0].AvailableUnits != 1 {
		t.Fatalf("double cancel must not double-increment, got %d", inv.rows[0].AvailableUnits)
	}
}

func TestCancelStaysCancelledWhenReleaseFails(t *testing.T) {
	t.Parallel()

	inv := &stubInventory{rows: []inventoryclient.Row{deluxeRow(1)}}
	svc, repo := newBookingService(t, inv)
	ctx := context.Background()

	dto, err := svc.Create(ctx, createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	inv.adjustErr = errors.New("inventory down")
	if _, err := svc.Cancel(ctx, dto.BookingID); err != nil {
		t.Fatalf("release failure must not fail the cancellation: %v", err)
	}

	persisted, err := repo.FindByID(ctx, dto.BookingID)
	if err != nil || persisted == nil {
		t.Fatalf("load booking: %v", err)
	}
	if persisted.Status != enums.BookingStatusCancelled {
		t.Fatalf("booking must stay cancelled, got %s", persisted.Status)
	}
}

func TestCancelUnknownBooking(t *testing.T) {
	t.Parallel()

	svc, _ := newBookingService(t, &stubInventory{})
	_, err := svc.Cancel(context.Background(), "ZZZ9999")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdatePatchesWithoutInventoryAdjustment(t *testing.T) {
	t.Parallel()

	inv := &stubInventory{rows: []inventoryclient.Row{deluxeRow(5)}}
	svc, _ := newBookingService(t, inv)
	ctx := context.Background()

	dto, err := svc.Create(ctx, createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	callsAfterCreate := len(inv.adjustCalls)

	newRoom := "Suites"
	newStay := 3
	newArrival := types.NewDate(2025, 6, 6)
	updated, err := svc.Update(ctx, dto.BookingID, UpdateInput{
		RoomType:    &newRoom,
		StayLength:  &newStay,
		ArrivalDate: &newArrival,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.RoomType != "Suites" || updated.StayLength != 3 {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if !updated.CheckOutDate.Equal(newArrival.AddDays(3)) {
		t.Fatalf("check_out_date not re-derived: %s", updated.CheckOutDate)
	}
	if !updated.IsWeekend {
		t.Fatalf("weekend flag should be re-derived for a Friday 3-night stay")
	}
	if len(inv.adjustCalls) != callsAfterCreate {
		t.Fatalf("update must never touch inventory, saw %d extra calls", len(inv.adjustCalls)-callsAfterCreate)
	}
}

func TestUpdateRejectsTerminalBooking(t *testing.T) {
	t.Parallel()

	inv := &stubInventory{rows: []inventoryclient.Row{deluxeRow(5)}}
	svc, _ := newBookingService(t, inv)
	ctx := context.Background()

	dto, err := svc.Create(ctx, createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Cancel(ctx, dto.BookingID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	name := "Robin Vale"
	_, err = svc.Update(ctx, dto.BookingID, UpdateInput{GuestName: &name})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestLastUnitScenario(t *testing.T) {
	t.Parallel()

	inv := &stubInventory{rows: []inventoryclient.Row{deluxeRow(1)}, hotelName: "Royal Lancaster"}
	svc, _ := newBookingService(t, inv)
	ctx := context.Background()

	first, err := svc.Create(ctx, createInput())
	if err != nil {
		t.Fatalf("booking A: %v", err)
	}
	if inv.rows[0].AvailableUnits != 0 {
		t.Fatalf("expected 0 units after booking A")
	}

	_, err = svc.Create(ctx, createInput())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodePrecondition {
		t.Fatalf("booking B must be rejected, got %v", err)
	}
	if inv.rows[0].AvailableUnits != 0 {
		t.Fatalf("rejected booking must not change inventory")
	}

	if _, err := svc.Cancel(ctx, first.BookingID); err != nil {
		t.Fatalf("cancel booking A: %v", err)
	}
	if inv.rows[0].AvailableUnits != 1 {
		t.Fatalf("expected the unit restored, got %d", inv.rows[0].AvailableUnits)
	}
}
