package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/loomhotels/roomledger/internal/bookings"
	"github.com/loomhotels/roomledger/internal/inventory"
	"github.com/loomhotels/roomledger/internal/inventoryclient"
	"github.com/loomhotels/roomledger/pkg/config"
	"github.com/loomhotels/roomledger/pkg/db/models"
	"github.com/loomhotels/roomledger/pkg/enums"
	"github.com/loomhotels/roomledger/pkg/logger"
	"github.com/loomhotels/roomledger/pkg/types"
)

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "dev"}}
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "routes-test", Output: io.Discard})
}

func openDB(t *testing.T, entities ...any) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := conn.AutoMigrate(entities...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

type bookingEnvelope struct {
	Data bookings.BookingDTO `json:"data"`
}

type rowsEnvelope struct {
	Data []inventory.RowDTO `json:"data"`
}

// The full consistency protocol over the wire: two services, one shared
// availability row with a single unit.
func TestBookingInventoryScenario(t *testing.T) {
	logg := quietLogger()
	cfg := testConfig()

	arrival := types.Today().AddDays(30)

	invDB := openDB(t, &models.Hotel{}, &models.InventoryRow{})
	if err := invDB.Create(&models.Hotel{HotelID: 111, HotelName: "Royal Lancaster", Location: "London"}).Error; err != nil {
		t.Fatalf("seed hotel: %v", err)
	}
	if err := invDB.Create(&models.InventoryRow{
		HotelID:        111,
		RoomType:       "Deluxe Rooms",
		Date:           arrival,
		AvailableUnits: 1,
		UnitPrice:      decimal.RequireFromString("400.00"),
		DemandLevel:    enums.DemandLevelMedium,
	}).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	invService := inventory.NewService(inventory.NewRepository(invDB), logg)
	invServer := httptest.NewServer(NewInventoryRouter(cfg, logg, invService, nil))
	defer invServer.Close()

	invClient := inventoryclient.New(config.InventoryConfig{BaseURL: invServer.URL, CallTimeout: 2 * time.Second})

	bookingDB := openDB(t, &models.Booking{})
	bookingService := bookings.NewService(bookings.NewRepository(bookingDB), invClient, logg, nil)
	bookingServer := httptest.NewServer(NewBookingRouter(cfg, logg, nil, bookingService, nil))
	defer bookingServer.Close()

	createBody := fmt.Sprintf(`{
		"guest_name": "Avery Quinn",
		"hotel_id": 111,
		"arrival_date": %q,
		"stay_length": 1,
		"room_type": "Deluxe Rooms",
		"adults": 2,
		"children": 0,
		"is_holiday": false
	}`, arrival.String())

	// Booking A takes the last unit.
	resp, err := http.Post(bookingServer.URL+"/bookings", "application/json", bytes.NewReader([]byte(createBody)))
	if err != nil {
		t.Fatalf("create booking A: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, raw)
	}
	var created bookingEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode booking A: %v", err)
	}
	resp.Body.Close()

	if created.Data.Status != string(enums.BookingStatusConfirmed) {
		t.Fatalf("expected confirmed, got %s", created.Data.Status)
	}
	if created.Data.HotelName == nil || *created.Data.HotelName != "Royal Lancaster" {
		t.Fatalf("expected hotel name enrichment, got %v", created.Data.HotelName)
	}
	if !created.Data.UnitPrice.Equal(decimal.RequireFromString("400.00")) {
		t.Fatalf("price snapshot mismatch: %s", created.Data.UnitPrice)
	}

	if units := availableUnits(t, invServer.URL, arrival); units != 0 {
		t.Fatalf("expected 0 units after booking A, got %d", units)
	}

	// Booking B must be rejected without touching inventory.
	resp, err = http.Post(bookingServer.URL+"/bookings", "application/json", bytes.NewReader([]byte(createBody)))
	if err != nil {
		t.Fatalf("create booking B: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for booking B, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	if units := availableUnits(t, invServer.URL, arrival); units != 0 {
		t.Fatalf("rejected booking must not change inventory, got %d", units)
	}

	// Cancelling A releases the unit.
	req, err := http.NewRequest(http.MethodDelete, bookingServer.URL+"/bookings/"+created.Data.BookingID, nil)
	if err != nil {
		t.Fatalf("build cancel request: %v", err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("cancel booking A: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on cancel, got %d", resp.StatusCode)
	}
	var cancelled bookingEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&cancelled); err != nil {
		t.Fatalf("decode cancelled booking: %v", err)
	}
	resp.Body.Close()
	if cancelled.Data.Status != string(enums.BookingStatusCancelled) {
		t.Fatalf("expected cancelled, got %s", cancelled.Data.Status)
	}

	if units := availableUnits(t, invServer.URL, arrival); units != 1 {
		t.Fatalf("expected the unit back after cancellation, got %d", units)
	}

	// A second cancel is a distinct state error, not a no-op.
	resp, err = http.DefaultClient.Do(req.Clone(req.Context()))
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 on double cancel, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	if units := availableUnits(t, invServer.URL, arrival); units != 1 {
		t.Fatalf("double cancel must not double-increment, got %d", units)
	}
}

func availableUnits(t *testing.T, baseURL string, date types.Date) int {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/inventory/111?start_date=%s&end_date=%s", baseURL, date, date))
	if err != nil {
		t.Fatalf("list inventory: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list inventory status %d", resp.StatusCode)
	}

	var env rowsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode inventory rows: %v", err)
	}
	for _, row := range env.Data {
		if row.RoomType == "Deluxe Rooms" {
			return row.AvailableUnits
		}
	}
	t.Fatalf("no Deluxe Rooms row returned")
	return 0
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	invDB := openDB(t, &models.Hotel{}, &models.InventoryRow{})
	invService := inventory.NewService(inventory.NewRepository(invDB), nil)
	server := httptest.NewServer(NewInventoryRouter(testConfig(), quietLogger(), invService, nil))
	defer server.Close()

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status %d", path, resp.StatusCode)
		}
		if env := resp.Header.Get("X-RoomLedger-Env"); env != "dev" {
			t.Fatalf("%s: missing env header, got %q", path, env)
		}
		resp.Body.Close()
	}
}
