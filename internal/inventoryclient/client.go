package inventoryclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loomhotels/roomledger/pkg/config"
	pkgerrors "github.com/loomhotels/roomledger/pkg/errors"
	"github.com/loomhotels/roomledger/pkg/types"
)

// Client is the booking side's view of the inventory service. The base URL
// and the per-call timeout are injected at construction; callers never see
// an endpoint.
type Client struct {
	baseURL string
	timeout time.Duration
	httpc   *http.Client
}

// AdjustRequest mirrors the adjust endpoint payload. Positive NumUnits
// consumes units, negative releases them.
type AdjustRequest struct {
	RoomType string     `json:"room_type"`
	Date     types.Date `json:"date"`
	NumUnits int        `json:"num_units"`
}

// Row is one availability row as served by the inventory service.
type Row struct {
	HotelID        int             `json:"hotel_id"`
	RoomType       string          `json:"room_type"`
	Date           types.Date      `json:"date"`
	AvailableUnits int             `json:"available_units"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DemandLevel    string          `json:"demand_level"`
}

// Hotel is the directory entry served by the inventory service.
type Hotel struct {
	HotelID   int    `json:"hotel_id"`
	HotelName string `json:"hotel_name"`
	Location  string `json:"location"`
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// New builds a client from the injected inventory settings.
func New(cfg config.InventoryConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.CallTimeout,
		httpc:   &http.Client{},
	}
}

// Adjust asks the inventory service to apply a unit adjustment. A false
// result is a rejection by the adjuster, not a transport fault.
func (c *Client) Adjust(ctx context.Context, hotelID int, req AdjustRequest) (bool, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode adjust request")
	}

	var result struct {
		Success bool `json:"success"`
	}
	path := fmt.Sprintf("/inventory/%d/adjust", hotelID)
	if err := c.do(ctx, http.MethodPost, path, payload, &result); err != nil {
		return false, err
	}
	return result.Success, nil
}

// Rows fetches availability rows for a hotel, optionally bounded by an
// inclusive date range.
func (c *Client) Rows(ctx context.Context, hotelID int, start, end types.Date) ([]Row, error) {
	path := fmt.Sprintf("/inventory/%d", hotelID)
	params := []string{}
	if !start.IsZero() {
		params = append(params, "start_date="+start.String())
	}
	if !end.IsZero() {
		params = append(params, "end_date="+end.String())
	}
	if len(params) > 0 {
		path += "?" + strings.Join(params, "&")
	}

	var rows []Row
	if err := c.do(ctx, http.MethodGet, path, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// HotelName resolves the display name for a hotel.
func (c *Client) HotelName(ctx context.Context, hotelID int) (*Hotel, error) {
	var hotel Hotel
	path := fmt.Sprintf("/inventory/hotel_name/%d", hotelID)
	if err := c.do(ctx, http.MethodGet, path, nil, &hotel); err != nil {
		return nil, err
	}
	return &hotel, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, dest any) error {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(callCtx, method, c.baseURL+path, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build inventory request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call inventory service")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read inventory response")
	}

	if resp.StatusCode == http.StatusNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory resource not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("inventory service returned %d", resp.StatusCode)).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	if dest == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode inventory envelope")
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode inventory payload")
	}
	return nil
}
