package inventory

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/loomhotels/roomledger/internal/repo"
	"github.com/loomhotels/roomledger/pkg/db/models"
	"github.com/loomhotels/roomledger/pkg/types"
)

// Repository wires together availability persistence helpers.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// FindEffectiveRow resolves the availability row governing the given date:
// the newest row whose date is on or before it. Returns nil when no row
// covers the date.
func (r *Repository) FindEffectiveRow(ctx context.Context, hotelID int, roomType string, date types.Date) (*models.InventoryRow, error) {
	var row models.InventoryRow
	err := r.DB(ctx).
		Where("hotel_id = ? AND room_type = ? AND date <= ?", hotelID, roomType, date).
		Order("date DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ConsumeUnits decrements availability on the identified row only when
// enough units remain. The guard lives in the WHERE clause so two
// concurrent consumers can never drive the count below zero.
func (r *Repository) ConsumeUnits(ctx context.Context, hotelID int, roomType string, date types.Date, units int) (bool, error) {
	result := r.DB(ctx).
		Model(&models.InventoryRow{}).
		Where("hotel_id = ? AND room_type = ? AND date = ? AND available_units >= ?", hotelID, roomType, date, units).
		UpdateColumn("available_units", gorm.Expr("available_units - ?", units))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ReleaseUnits returns units to the identified row. It only fails when the
// row no longer exists.
func (r *Repository) ReleaseUnits(ctx context.Context, hotelID int, roomType string, date types.Date, units int) (bool, error) {
	result := r.DB(ctx).
		Model(&models.InventoryRow{}).
		Where("hotel_id = ? AND room_type = ? AND date = ?", hotelID, roomType, date).
		UpdateColumn("available_units", gorm.Expr("available_units + ?", units))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListRows returns availability rows for a hotel, optionally bounded by an
// inclusive date range. Zero dates leave that bound open.
func (r *Repository) ListRows(ctx context.Context, hotelID int, start, end types.Date) ([]models.InventoryRow, error) {
	query := r.DB(ctx).
		Where("hotel_id = ?", hotelID).
		Order("room_type ASC, date ASC")
	if !start.IsZero() {
		query = query.Where("date >= ?", start)
	}
	if !end.IsZero() {
		query = query.Where("date <= ?", end)
	}

	var rows []models.InventoryRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindHotel loads the directory entry for a property. Returns nil when the
// hotel is unknown.
func (r *Repository) FindHotel(ctx context.Context, hotelID int) (*models.Hotel, error) {
	var hotel models.Hotel
	err := r.DB(ctx).First(&hotel, "hotel_id = ?", hotelID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &hotel, nil
}
