package inventory

import (
	"context"

	"github.com/loomhotels/roomledger/pkg/db/models"
	pkgerrors "github.com/loomhotels/roomledger/pkg/errors"
	"github.com/loomhotels/roomledger/pkg/logger"
	"github.com/loomhotels/roomledger/pkg/types"
)

// Service exposes availability reads and the adjust operation.
type Service interface {
	ListRows(ctx context.Context, hotelID int, start, end types.Date) ([]RowDTO, error)
	HotelName(ctx context.Context, hotelID int) (*HotelDTO, error)
	Adjust(ctx context.Context, hotelID int, input AdjustInput) (*AdjustResult, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds the availability service.
func NewService(repo *Repository, logg *logger.Logger) Service {
	return &service{repo: repo, logg: logg}
}

func (s *service) ListRows(ctx context.Context, hotelID int, start, end types.Date) ([]RowDTO, error) {
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_date must not precede start_date")
	}

	rows, err := s.repo.ListRows(ctx, hotelID, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list availability")
	}

	dtos := make([]RowDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toRowDTO(row))
	}
	return dtos, nil
}

func (s *service) HotelName(ctx context.Context, hotelID int) (*HotelDTO, error) {
	hotel, err := s.repo.FindHotel(ctx, hotelID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load hotel")
	}
	if hotel == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "hotel not found")
	}
	return &HotelDTO{HotelID: hotel.HotelID, HotelName: hotel.HotelName, Location: hotel.Location}, nil
}

// Adjust applies a unit adjustment against the row in effect for the given
// date. Rejections (no covering row, insufficient units) are a successful
// call with Success=false, not an error: the caller needs the verdict, not
// a fault.
func (s *service) Adjust(ctx context.Context, hotelID int, input AdjustInput) (*AdjustResult, error) {
	if input.Date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date is required")
	}
	if input.NumUnits == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "num_units must be non-zero")
	}

	row, err := s.repo.FindEffectiveRow(ctx, hotelID, input.RoomType, input.Date)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve availability row")
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"hotel_id":  hotelID,
			"room_type": input.RoomType,
			"date":      input.Date.String(),
			"num_units": input.NumUnits,
		})
	}

	if row == nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "inventory.adjust.no_row")
		}
		return &AdjustResult{Success: false}, nil
	}

	var applied bool
	if input.NumUnits > 0 {
		applied, err = s.repo.ConsumeUnits(ctx, hotelID, input.RoomType, row.Date, input.NumUnits)
	} else {
		applied, err = s.repo.ReleaseUnits(ctx, hotelID, input.RoomType, row.Date, -input.NumUnits)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply adjustment")
	}

	if s.logg != nil {
		if applied {
			s.logg.Info(ctx, "inventory.adjust.applied")
		} else {
			s.logg.Warn(ctx, "inventory.adjust.rejected")
		}
	}

	return &AdjustResult{Success: applied}, nil
}

func toRowDTO(row models.InventoryRow) RowDTO {
	return RowDTO{
		HotelID:        row.HotelID,
		RoomType:       row.RoomType,
		Date:           row.Date,
		AvailableUnits: row.AvailableUnits,
		UnitPrice:      row.UnitPrice,
		DemandLevel:    string(row.DemandLevel),
	}
}
