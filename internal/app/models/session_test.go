package models

import (
	"testing"
	"time"

	"github.com/SeattleChris/hepcat-sub000/internal/pkg/dates"
)

var testTiming = Timing{
	MinWeeks:             3,
	MaxWeeks:             5,
	DefaultWeeks:         5,
	DefaultMaxDayShift:   6,
	LongExpireOffset:     7,
	ShortExpireOffset:    1,
	ResolveMaxIterations: 1000,
}

// Fixture block: Thursday 2020-04-30 anchor, Tuesday classes two days early.
func maySession() *Session {
	return &Session{
		ID:          1,
		Name:        "May_2020",
		KeyDayDate:  dates.New(2020, time.April, 30),
		MaxDayShift: -2,
		NumWeeks:    5,
	}
}

func TestSessionDerivedDates(t *testing.T) {
	s := maySession()

	if got, want := s.StartDate(), dates.New(2020, time.April, 28); !got.Equal(want) {
		t.Errorf("StartDate = %v, want %v", got, want)
	}
	if got, want := s.EndDate(), dates.New(2020, time.May, 28); !got.Equal(want) {
		t.Errorf("EndDate = %v, want %v", got, want)
	}
	if got, want := s.ComputedExpireDay(s.KeyDayDate, testTiming), dates.New(2020, time.May, 8); !got.Equal(want) {
		t.Errorf("ComputedExpireDay = %v, want %v", got, want)
	}
}

func TestSessionSkipWeekExtendsEnd(t *testing.T) {
	s := maySession()
	s.SkipWeeks = 1
	s.FlipLastDay = false

	if got, want := s.StartDate(), dates.New(2020, time.April, 28); !got.Equal(want) {
		t.Errorf("StartDate = %v, want %v", got, want)
	}
	// One skip week pushes the final anchor-day class a week out.
	if got, want := s.EndDate(), dates.New(2020, time.June, 4); !got.Equal(want) {
		t.Errorf("EndDate = %v, want %v", got, want)
	}
}

func TestSessionEndDateShiftFlipTable(t *testing.T) {
	key := dates.New(2020, time.April, 30)
	base := dates.AddWeeks(key, 5) // num_weeks=5, skip_weeks=1 -> key + 5 weeks

	cases := []struct {
		name  string
		shift int
		flip  bool
		want  time.Time
	}{
		{"negative shift, no flip", -2, false, base},
		{"negative shift, flip", -2, true, dates.AddDays(base, -2)},
		{"positive shift, no flip", 2, false, dates.AddDays(base, 2)},
		{"positive shift, flip", 2, true, base},
		{"no shift, no flip", 0, false, base},
		{"no shift, flip", 0, true, base},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &Session{KeyDayDate: key, MaxDayShift: tc.shift, NumWeeks: 5, SkipWeeks: 1, FlipLastDay: tc.flip}
			if got := s.EndDate(); !got.Equal(tc.want) {
				t.Errorf("EndDate = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSessionDateInvariants(t *testing.T) {
	key := dates.New(2021, time.September, 6)
	for shift := -6; shift <= 6; shift++ {
		for _, skip := range []int{0, 1, 2} {
			for _, flip := range []bool{false, true} {
				if skip == 0 && flip {
					continue // flip is normalized away without a skip
				}
				s := &Session{KeyDayDate: key, MaxDayShift: shift, NumWeeks: 4, SkipWeeks: skip, FlipLastDay: flip}
				if s.StartDate().After(s.KeyDayDate) {
					t.Errorf("shift=%d skip=%d flip=%v: start %v after key %v", shift, skip, flip, s.StartDate(), s.KeyDayDate)
				}
				if s.EndDate().Before(s.KeyDayDate) {
					t.Errorf("shift=%d skip=%d flip=%v: end %v before key %v", shift, skip, flip, s.EndDate(), s.KeyDayDate)
				}
				minSpan := dates.AddWeeks(s.StartDate(), s.NumWeeks-1)
				if s.EndDate().Before(minSpan) {
					t.Errorf("shift=%d skip=%d flip=%v: end %v before minimum span %v", shift, skip, flip, s.EndDate(), minSpan)
				}
			}
		}
	}
}

func TestComputedExpireDayIdempotent(t *testing.T) {
	s := maySession()
	first := s.ComputedExpireDay(s.KeyDayDate, testTiming)
	second := s.ComputedExpireDay(s.KeyDayDate, testTiming)
	if !first.Equal(second) {
		t.Errorf("ComputedExpireDay not stable: %v vs %v", first, second)
	}
}

func TestComputedExpireDayShortSession(t *testing.T) {
	s := maySession()
	s.NumWeeks = 2 // filler block, short offset applies
	if got, want := s.ComputedExpireDay(s.KeyDayDate, testTiming), dates.New(2020, time.May, 2); !got.Equal(want) {
		t.Errorf("ComputedExpireDay = %v, want %v", got, want)
	}
}

func TestComputedExpireDayPositiveShift(t *testing.T) {
	s := maySession()
	s.MaxDayShift = 3
	// shift 3 + 1 + long 7 past the key day
	if got, want := s.ComputedExpireDay(s.KeyDayDate, testTiming), dates.New(2020, time.May, 11); !got.Equal(want) {
		t.Errorf("ComputedExpireDay = %v, want %v", got, want)
	}
}

func TestNextDefaultKeyDay(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Session)
		want time.Time
	}{
		{"plain five weeks", func(s *Session) {}, dates.New(2020, time.June, 4)},
		{"break week", func(s *Session) { s.BreakWeeks = 1 }, dates.New(2020, time.June, 11)},
		{"skip on anchor track", func(s *Session) { s.SkipWeeks = 1 }, dates.New(2020, time.June, 11)},
		{"skip frees anchor week early", func(s *Session) { s.SkipWeeks = 1; s.FlipLastDay = true }, dates.New(2020, time.June, 4)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := maySession()
			tc.mod(s)
			if got := s.NextDefaultKeyDay(); !got.Equal(tc.want) {
				t.Errorf("NextDefaultKeyDay = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSessionOverlaps(t *testing.T) {
	a := maySession()
	b := &Session{KeyDayDate: dates.New(2020, time.June, 4), MaxDayShift: -2, NumWeeks: 5}
	if a.Overlaps(b) {
		t.Error("adjacent sessions should not overlap")
	}
	c := &Session{KeyDayDate: dates.New(2020, time.May, 28), MaxDayShift: -2, NumWeeks: 5}
	if !a.Overlaps(c) {
		t.Error("sessions sharing class days should overlap")
	}
	if a.Overlaps(nil) {
		t.Error("nil session never overlaps")
	}
}

func TestClassOfferWindow(t *testing.T) {
	s := maySession() // Thursday anchor, Tuesdays shifted -2

	thursday := &ClassOffer{ClassDay: Thursday}
	if got, want := thursday.StartDate(s), dates.New(2020, time.April, 30); !got.Equal(want) {
		t.Errorf("thursday StartDate = %v, want %v", got, want)
	}
	if got, want := thursday.EndDate(s), dates.New(2020, time.May, 28); !got.Equal(want) {
		t.Errorf("thursday EndDate = %v, want %v", got, want)
	}

	tuesday := &ClassOffer{ClassDay: Tuesday}
	if got, want := tuesday.StartDate(s), dates.New(2020, time.April, 28); !got.Equal(want) {
		t.Errorf("tuesday StartDate = %v, want %v", got, want)
	}

	// The offer's own skip weeks stretch the window, not the session's.
	skipped := &ClassOffer{ClassDay: Thursday, SkipWeeks: 1}
	if got, want := skipped.EndDate(s), dates.New(2020, time.June, 4); !got.Equal(want) {
		t.Errorf("skipped EndDate = %v, want %v", got, want)
	}
}

func TestRoleFromOrdinal(t *testing.T) {
	cases := []struct {
		in   int
		want UserRole
	}{
		{-1, RolePublic},
		{0, RolePublic},
		{1, RoleStudent},
		{2, RoleTeacher},
		{3, RoleAdmin},
		{4, RoleAdmin},
		{99, RoleAdmin},
	}
	for _, tc := range cases {
		if got := RoleFromOrdinal(tc.in); got != tc.want {
			t.Errorf("RoleFromOrdinal(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
