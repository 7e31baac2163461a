package schedule_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"doctor-booking-api/internal/model"
	"doctor-booking-api/internal/schedule"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		hour    int
		minute  int
		wantErr bool
	}{
		{"09:00", 9, 0, false},
		{"17:30", 17, 30, false},
		{"00:00", 0, 0, false},
		{"23:59", 23, 59, false},
		{"9:05", 9, 5, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"-1:00", 0, 0, true},
		{"12", 0, 0, true},
		{"12:00:00", 0, 0, true},
		{"noon", 0, 0, true},
		{"", 0, 0, true},
		{"12:3a", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := schedule.ParseClock(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				if !errors.Is(err, schedule.ErrMalformedClock) {
					t.Errorf("expected ErrMalformedClock, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse %q: %v", tt.in, err)
			}
			if c.Hour != tt.hour || c.Minute != tt.minute {
				t.Errorf("got %d:%d, want %d:%d", c.Hour, c.Minute, tt.hour, tt.minute)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := schedule.ParseDate("2024-01-10")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	if !d.Equal(want) {
		t.Errorf("got %v, want %v", d, want)
	}

	for _, in := range []string{"10-01-2024", "2024/01/10", "someday", ""} {
		if _, err := schedule.ParseDate(in); !errors.Is(err, schedule.ErrMalformedDate) {
			t.Errorf("%q: expected ErrMalformedDate, got %v", in, err)
		}
	}
}

// The working-hours bound is hour-granular: both boundary hours admit any
// minute inside them.
func TestWithinWorkingHours(t *testing.T) {
	open := schedule.Clock{Hour: 9}
	close := schedule.Clock{Hour: 17}

	tests := []struct {
		name string
		req  schedule.Clock
		want bool
	}{
		{"mid-day", schedule.Clock{Hour: 12, Minute: 30}, true},
		{"at opening hour", schedule.Clock{Hour: 9, Minute: 0}, true},
		{"at closing hour", schedule.Clock{Hour: 17, Minute: 0}, true},
		{"minutes past closing hour still pass", schedule.Clock{Hour: 17, Minute: 59}, true},
		{"hour before opening", schedule.Clock{Hour: 8, Minute: 59}, false},
		{"hour after closing", schedule.Clock{Hour: 18, Minute: 0}, false},
		{"early morning", schedule.Clock{Hour: 0, Minute: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := schedule.WithinWorkingHours(open, close, tt.req); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	c := schedule.Clock{Hour: 16, Minute: 0}
	from, to := c.Window()
	if got := c.Anchored().Sub(from); got != schedule.ConflictWindow {
		t.Errorf("lower bound off by %v", got)
	}
	if got := to.Sub(c.Anchored()); got != schedule.ConflictWindow {
		t.Errorf("upper bound off by %v", got)
	}
}

// fakeFinder answers conflict queries from an in-memory list of confirmed
// appointment times, bounds inclusive like the SQL BETWEEN it stands in for.
type fakeFinder struct {
	confirmed []time.Time
	calls     int
}

func (f *fakeFinder) HasConfirmedInWindow(_ context.Context, _ string, _, from, to time.Time) (bool, error) {
	f.calls++
	for _, at := range f.confirmed {
		if !at.Before(from) && !at.After(to) {
			return true, nil
		}
	}
	return false, nil
}

func anchored(t *testing.T, s string) time.Time {
	t.Helper()
	c, err := schedule.ParseClock(s)
	if err != nil {
		t.Fatal(err)
	}
	return c.Anchored()
}

func doc() *model.Doctor {
	return &model.Doctor{ID: "doc-1", OpenTime: "09:00", CloseTime: "17:00"}
}

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("free slot", func(t *testing.T) {
		res, err := schedule.CheckAvailability(ctx, &fakeFinder{}, doc(), "2024-01-10", "16:00")
		if err != nil {
			t.Fatal(err)
		}
		if !res.Available {
			t.Fatalf("expected available, got %q", res.Reason)
		}
	})

	t.Run("outside working hours", func(t *testing.T) {
		f := &fakeFinder{}
		res, err := schedule.CheckAvailability(ctx, f, doc(), "2024-01-10", "08:00")
		if err != nil {
			t.Fatal(err)
		}
		if res.Available || res.Reason != schedule.ReasonOutsideHours {
			t.Fatalf("got %+v", res)
		}
		if f.calls != 0 {
			t.Error("hours rule should short-circuit before the store query")
		}
	})

	t.Run("conflicts inside the window", func(t *testing.T) {
		f := &fakeFinder{confirmed: []time.Time{anchored(t, "16:00")}}
		for _, at := range []string{"16:30", "15:30", "15:00", "17:00"} {
			res, err := schedule.CheckAvailability(ctx, f, doc(), "2024-01-10", at)
			if err != nil {
				t.Fatal(err)
			}
			if res.Available || res.Reason != schedule.ReasonSlotConflict {
				t.Errorf("%s: got %+v, want conflict", at, res)
			}
		}
	})

	t.Run("free beyond sixty minutes", func(t *testing.T) {
		f := &fakeFinder{confirmed: []time.Time{anchored(t, "13:00")}}
		for _, at := range []string{"14:01", "11:59", "16:00"} {
			res, err := schedule.CheckAvailability(ctx, f, doc(), "2024-01-10", at)
			if err != nil {
				t.Fatal(err)
			}
			if !res.Available {
				t.Errorf("%s: got %+v, want available", at, res)
			}
		}
	})

	t.Run("malformed inputs", func(t *testing.T) {
		if _, err := schedule.CheckAvailability(ctx, &fakeFinder{}, doc(), "2024-01-10", "half past nine"); !errors.Is(err, schedule.ErrMalformedClock) {
			t.Errorf("time: got %v", err)
		}
		if _, err := schedule.CheckAvailability(ctx, &fakeFinder{}, doc(), "January 10", "10:00"); !errors.Is(err, schedule.ErrMalformedDate) {
			t.Errorf("date: got %v", err)
		}
		bad := doc()
		bad.OpenTime = "late"
		if _, err := schedule.CheckAvailability(ctx, &fakeFinder{}, bad, "2024-01-10", "10:00"); !errors.Is(err, schedule.ErrMalformedClock) {
			t.Errorf("doctor timings: got %v", err)
		}
	})
}
