package enums

import "fmt"

// BookingStatus is the lifecycle state of a booking record.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	// BookingStatusCheckedOut is the terminal post-stay state set by the
	// reconciliation sweep once the stay has ended.
	BookingStatusCheckedOut BookingStatus = "checked-out"
)

var validBookingStatuses = []BookingStatus{
	BookingStatusConfirmed,
	BookingStatusCancelled,
	BookingStatusCheckedOut,
}

// IsValid reports whether the value matches the canonical booking status enum.
func (b BookingStatus) IsValid() bool {
	for _, candidate := range validBookingStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (b BookingStatus) IsTerminal() bool {
	return b == BookingStatusCancelled || b == BookingStatusCheckedOut
}

// ParseBookingStatus converts the raw string to BookingStatus.
func ParseBookingStatus(value string) (BookingStatus, error) {
	for _, candidate := range validBookingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid booking status %q", value)
}
