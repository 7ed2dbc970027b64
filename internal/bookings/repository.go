package bookings

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/loomhotels/roomledger/internal/repo"
	"github.com/loomhotels/roomledger/pkg/db/models"
	"github.com/loomhotels/roomledger/pkg/enums"
	"github.com/loomhotels/roomledger/pkg/types"
)

// Repository wires together booking persistence helpers.
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

// Create inserts the booking row. Returns ErrDuplicateID when the token is
// already taken so the caller can regenerate and retry.
func (r *Repository) Create(ctx context.Context, booking *models.Booking) error {
	err := r.DB(ctx).Create(booking).Error
	if err != nil && isDuplicateKey(err) {
		return ErrDuplicateID
	}
	return err
}

// ErrDuplicateID marks a booking token collision on insert.
var ErrDuplicateID = errors.New("booking id already exists")

// FindByID loads one booking. Returns nil when absent.
func (r *Repository) FindByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.DB(ctx).First(&booking, "booking_id = ?", bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// List returns a page of bookings, newest first, with the total count.
func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Booking, int64, error) {
	var total int64
	if err := r.DB(ctx).Model(&models.Booking{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Booking
	err := r.DB(ctx).
		Order("created_at DESC, booking_id ASC").
		Limit(query.Limit).
		Offset(query.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Save persists the full booking row in place.
func (r *Repository) Save(ctx context.Context, booking *models.Booking) error {
	return r.DB(ctx).Save(booking).Error
}

// FindConfirmedCheckedOutBefore returns confirmed bookings whose stay ended
// before the given day. The reconciliation sweep consumes this.
func (r *Repository) FindConfirmedCheckedOutBefore(ctx context.Context, day types.Date) ([]models.Booking, error) {
	var rows []models.Booking
	err := r.DB(ctx).
		Where("status = ? AND check_out_date < ?", enums.BookingStatusConfirmed, day).
		Order("check_out_date ASC, booking_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// sqlite (tests) reports unique violations as plain strings.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
