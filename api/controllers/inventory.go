package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/loomhotels/roomledger/api/responses"
	"github.com/loomhotels/roomledger/api/validators"
	inventorysvc "github.com/loomhotels/roomledger/internal/inventory"
	pkgerrors "github.com/loomhotels/roomledger/pkg/errors"
	"github.com/loomhotels/roomledger/pkg/logger"
)

// ListInventory serves availability rows for one hotel, optionally bounded
// by start_date/end_date query parameters.
func ListInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hotelID, err := hotelIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start, err := validators.ParseQueryDate(r, "start_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := validators.ParseQueryDate(r, "end_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListRows(r.Context(), hotelID, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetHotelName serves the hotel directory entry.
func GetHotelName(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hotelID, err := hotelIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hotel, err := svc.HotelName(r.Context(), hotelID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, hotel)
	}
}

// AdjustInventory applies a unit adjustment and reports the verdict.
func AdjustInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hotelID, err := hotelIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload inventorysvc.AdjustInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Adjust(r.Context(), hotelID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func hotelIDParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "hotelID")
	hotelID, err := strconv.Atoi(raw)
	if err != nil || hotelID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "hotel id must be a positive integer")
	}
	return hotelID, nil
}
