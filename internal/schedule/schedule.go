// Package schedule holds the booking rules: wall-clock parsing, the
// working-hours bound, and the conflict window around a requested slot.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"doctor-booking-api/internal/model"
)

var (
	ErrMalformedClock = errors.New("malformed time, want HH:mm")
	ErrMalformedDate  = errors.New("malformed date, want YYYY-MM-DD")
)

// ConflictWindow is how close two confirmed appointments may sit on the same
// doctor and day. A confirmed appointment exactly 60 minutes away still
// blocks the slot.
const ConflictWindow = 60 * time.Minute

// clockAnchor is the epoch day times-of-day are stored against. Date and
// time are independent axes, not a combined timestamp.
var clockAnchor = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

const dateLayout = "2006-01-02"

// Clock is a wall-clock time of day. No timezone: all times are local
// strings compared by hour then minute.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses strict 24-hour "HH:mm". Malformed input is an error,
// never a silent default.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("%w: %q", ErrMalformedClock, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("%w: %q", ErrMalformedClock, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrMalformedClock, s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// Anchored places the clock on the epoch day, the stored form of a
// time-of-day.
func (c Clock) Anchored() time.Time {
	return clockAnchor.Add(time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute)
}

// ParseDate parses "2006-01-02" into midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return d, nil
}

// WithinWorkingHours applies the hour-granular bound: a request is inside
// working hours when open.Hour <= req.Hour <= close.Hour. Minutes within the
// boundary hours are not checked, so a doctor closing at 17:00 accepts a
// 17:59 request. Observed production behavior, kept as-is.
func WithinWorkingHours(open, close, req Clock) bool {
	return req.Hour >= open.Hour && req.Hour <= close.Hour
}

// Window returns the inclusive [from, to] conflict window around a requested
// time, in anchored form.
func (c Clock) Window() (from, to time.Time) {
	at := c.Anchored()
	return at.Add(-ConflictWindow), at.Add(ConflictWindow)
}

// ConflictFinder is the slice of the appointment store the checker reads.
type ConflictFinder interface {
	HasConfirmedInWindow(ctx context.Context, doctorID string, date, from, to time.Time) (bool, error)
}

type Result struct {
	Available bool
	Reason    string
}

const (
	ReasonOutsideHours = "outside working hours"
	ReasonSlotConflict = "slot conflicts with existing confirmed appointment"
)

// CheckAvailability decides whether (doctor, date, time) is bookable. It is
// advisory: callers use it as a pre-flight read and nothing stops two
// concurrent bookings from both passing it.
func CheckAvailability(ctx context.Context, q ConflictFinder, doc *model.Doctor, dateStr, timeStr string) (Result, error) {
	open, err := ParseClock(doc.OpenTime)
	if err != nil {
		return Result{}, err
	}
	close, err := ParseClock(doc.CloseTime)
	if err != nil {
		return Result{}, err
	}
	req, err := ParseClock(timeStr)
	if err != nil {
		return Result{}, err
	}
	date, err := ParseDate(dateStr)
	if err != nil {
		return Result{}, err
	}

	if !WithinWorkingHours(open, close, req) {
		return Result{Reason: ReasonOutsideHours}, nil
	}

	from, to := req.Window()
	busy, err := q.HasConfirmedInWindow(ctx, doc.ID, date, from, to)
	if err != nil {
		return Result{}, err
	}
	if busy {
		return Result{Reason: ReasonSlotConflict}, nil
	}
	return Result{Available: true}, nil
}
