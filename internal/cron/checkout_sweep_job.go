package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/loomhotels/roomledger/internal/inventoryclient"
	"github.com/loomhotels/roomledger/pkg/db/models"
	"github.com/loomhotels/roomledger/pkg/enums"
	"github.com/loomhotels/roomledger/pkg/logger"
	"github.com/loomhotels/roomledger/pkg/metrics"
	"github.com/loomhotels/roomledger/pkg/types"
)

const checkoutSweepJobName = "checkout-sweep"

type bookingStore interface {
	FindConfirmedCheckedOutBefore(ctx context.Context, day types.Date) ([]models.Booking, error)
	Save(ctx context.Context, booking *models.Booking) error
}

type inventoryAdjuster interface {
	Adjust(ctx context.Context, hotelID int, req inventoryclient.AdjustRequest) (bool, error)
}

// CheckoutSweepJob closes out confirmed bookings whose stay has ended:
// best-effort release of the held unit, then a transition to checked-out.
// A failed release never blocks the transition, and one booking's failure
// never aborts the rest of the batch.
type CheckoutSweepJob struct {
	store     bookingStore
	inventory inventoryAdjuster
	logg      *logger.Logger
	adjust    *metrics.AdjustMetrics
	now       func() types.Date
}

// NewCheckoutSweepJob builds the sweep job.
func NewCheckoutSweepJob(store bookingStore, inventory inventoryAdjuster, logg *logger.Logger, adjust *metrics.AdjustMetrics) *CheckoutSweepJob {
	return &CheckoutSweepJob{
		store:     store,
		inventory: inventory,
		logg:      logg,
		adjust:    adjust,
		now:       types.Today,
	}
}

// Name implements Job.
func (j *CheckoutSweepJob) Name() string { return checkoutSweepJobName }

// Run implements Job. Only persistence failures count against the job;
// inventory release failures are logged, counted, and swallowed.
func (j *CheckoutSweepJob) Run(ctx context.Context) error {
	due, err := j.store.FindConfirmedCheckedOutBefore(ctx, j.now())
	if err != nil {
		return fmt.Errorf("find past-checkout bookings: %w", err)
	}

	var errs error
	for i := range due {
		booking := due[i]
		bookingCtx := ctx
		if j.logg != nil {
			bookingCtx = j.logg.WithBookingID(ctx, booking.BookingID)
		}

		j.releaseUnit(bookingCtx, booking)

		booking.Status = enums.BookingStatusCheckedOut
		if err := j.store.Save(bookingCtx, &booking); err != nil {
			if j.logg != nil {
				j.logg.Error(bookingCtx, "sweep.checkout_transition_failed", err)
			}
			errs = multierr.Append(errs, fmt.Errorf("booking %s: %w", booking.BookingID, err))
			continue
		}
		if j.logg != nil {
			j.logg.Info(bookingCtx, "sweep.checked_out")
		}
	}
	return errs
}

func (j *CheckoutSweepJob) releaseUnit(ctx context.Context, booking models.Booking) {
	start := time.Now()
	ok, err := j.inventory.Adjust(ctx, booking.HotelID, inventoryclient.AdjustRequest{
		RoomType: booking.RoomType,
		Date:     booking.ArrivalDate,
		NumUnits: -1,
	})
	j.adjust.ObserveDuration("increment", time.Since(start))

	if err == nil && ok {
		return
	}

	j.adjust.IncFailure("increment")
	if j.logg != nil {
		ctx = j.logg.WithFields(ctx, map[string]any{
			"hotel_id":  booking.HotelID,
			"room_type": booking.RoomType,
			"date":      booking.ArrivalDate.String(),
		})
		if err != nil {
			j.logg.Error(ctx, "sweep.release_unreachable", err)
		} else {
			j.logg.Warn(ctx, "sweep.release_rejected")
		}
	}
}
