package dates

import (
	"testing"
	"time"
)

func TestAddWeeksRoundTrip(t *testing.T) {
	d := New(2020, time.April, 30)
	for n := -10; n <= 10; n++ {
		if got := AddWeeks(AddWeeks(d, n), -n); !got.Equal(d) {
			t.Errorf("AddWeeks round trip n=%d: got %v, want %v", n, got, d)
		}
	}
}

func TestAddDays(t *testing.T) {
	d := New(2020, time.April, 30)
	if got := AddDays(d, -2); !got.Equal(New(2020, time.April, 28)) {
		t.Errorf("AddDays(-2) = %v", got)
	}
	if got := AddDays(d, 8); !got.Equal(New(2020, time.May, 8)) {
		t.Errorf("AddDays(8) = %v", got)
	}
}

func TestEarlier(t *testing.T) {
	a := New(2020, time.April, 28)
	b := New(2020, time.April, 30)
	if got := Earlier(a, b); !got.Equal(a) {
		t.Errorf("Earlier(a, b) = %v, want %v", got, a)
	}
	if got := Earlier(b, a); !got.Equal(a) {
		t.Errorf("Earlier(b, a) = %v, want %v", got, a)
	}
	if got := Earlier(a, a); !got.Equal(a) {
		t.Errorf("Earlier(a, a) = %v, want %v", got, a)
	}
}

func TestDayIndex(t *testing.T) {
	cases := []struct {
		date time.Time
		want int
	}{
		{New(2020, time.April, 27), 0}, // Monday
		{New(2020, time.April, 30), 3}, // Thursday
		{New(2020, time.May, 3), 6},    // Sunday
	}
	for _, tc := range cases {
		if got := DayIndex(tc.date); got != tc.want {
			t.Errorf("DayIndex(%v) = %d, want %d", tc.date, got, tc.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a := New(2020, time.April, 28)
	if got := DaysBetween(a, New(2020, time.May, 18)); got != 20 {
		t.Errorf("DaysBetween = %d, want 20", got)
	}
	if got := DaysBetween(a, New(2020, time.April, 20)); got != -8 {
		t.Errorf("DaysBetween = %d, want -8", got)
	}
}

func TestCivilDropsClock(t *testing.T) {
	ts := time.Date(2020, time.April, 30, 23, 15, 0, 0, time.FixedZone("X", 3600))
	if got := Civil(ts); !got.Equal(New(2020, time.April, 30)) {
		t.Errorf("Civil = %v", got)
	}
}
