package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models"
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/apperrors"
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/dates"
)

func newTestResourceService() *ResourceService {
	svc := NewResourceService(nil, nil, nil, testTiming, zerolog.Nop())
	svc.now = func() time.Time { return dates.New(2020, time.May, 15) }
	return svc
}

// Thursday classes on the anchor day: offer start 2020-04-30, end 2020-05-28.
func thursdayOffer() *models.ClassOffer {
	return &models.ClassOffer{
		ID:        1,
		SubjectID: 1,
		ClassDay:  models.Thursday,
		Session: &models.Session{
			ID:         1,
			KeyDayDate: dates.New(2020, time.April, 30),
			NumWeeks:   5,
		},
	}
}

func TestClassifyPublishDate(t *testing.T) {
	svc := newTestResourceService()
	offer := thursdayOffer()
	start := dates.New(2020, time.April, 30)
	asOf := dates.New(2020, time.May, 10)

	cases := []struct {
		name  string
		avail int
		want  time.Time
	}{
		{"on signup before start caps at start", models.AvailOnSignup, start},
		{"week one", 1, dates.AddWeeks(start, 1)},
		{"week four", 4, dates.AddWeeks(start, 4)},
		{"at max weeks publishes at end", 5, dates.New(2020, time.May, 28)},
		{"after completion publishes at end", models.AvailAfterCompletion, dates.New(2020, time.May, 28)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view, err := svc.classify(&models.Resource{ID: 1, Avail: tc.avail, Expire: 1}, offer, asOf)
			if err != nil {
				t.Fatalf("classify error: %v", err)
			}
			if !view.PublishDate.Equal(tc.want) {
				t.Errorf("publish = %v, want %v", view.PublishDate, tc.want)
			}
		})
	}
}

func TestClassifyOnSignupPublishesEarly(t *testing.T) {
	svc := newTestResourceService()
	offer := thursdayOffer()
	// Before the offer starts, an on-signup resource is already published.
	asOf := dates.New(2020, time.April, 20)

	view, err := svc.classify(&models.Resource{ID: 1, Avail: models.AvailOnSignup}, offer, asOf)
	if err != nil {
		t.Fatalf("classify error: %v", err)
	}
	if !view.PublishDate.Equal(asOf) {
		t.Errorf("publish = %v, want capped at asOf %v", view.PublishDate, asOf)
	}
	if !view.Live {
		t.Error("on-signup never-expiring resource should be live before start")
	}
}

func TestClassifyNeverExpires(t *testing.T) {
	svc := newTestResourceService()
	offer := thursdayOffer()
	// Ten days into the offer, and again far past its end.
	for _, asOf := range []time.Time{
		dates.New(2020, time.May, 10),
		dates.New(2021, time.May, 10),
	} {
		view, err := svc.classify(&models.Resource{ID: 1, Avail: models.AvailOnSignup, Expire: models.NeverExpires}, offer, asOf)
		if err != nil {
			t.Fatalf("classify error: %v", err)
		}
		if view.ExpireDate != nil {
			t.Errorf("expire date = %v, want none", *view.ExpireDate)
		}
		if !view.Live {
			t.Errorf("never-expiring resource not live at %v", asOf)
		}
	}
}

func TestClassifyPublishGatingWinsOverNeverExpires(t *testing.T) {
	svc := newTestResourceService()
	offer := thursdayOffer()
	// Week-two resource three days into the offer: not yet published, so not
	// live even though it never expires.
	asOf := dates.New(2020, time.May, 3)

	view, err := svc.classify(&models.Resource{ID: 1, Avail: 2, Expire: models.NeverExpires}, offer, asOf)
	if err != nil {
		t.Fatalf("classify error: %v", err)
	}
	if view.Live {
		t.Error("unpublished resource classified live")
	}
}

func TestClassifyExpiredAfterWindow(t *testing.T) {
	svc := newTestResourceService()
	offer := thursdayOffer()
	// avail=1, expire=1, no skips, 20 days since start: window is
	// 7*(1+1+0-1) = 7 days, long past.
	asOf := dates.AddDays(dates.New(2020, time.April, 30), 20)

	view, err := svc.classify(&models.Resource{ID: 1, Avail: 1, Expire: 1}, offer, asOf)
	if err != nil {
		t.Fatalf("classify error: %v", err)
	}
	if view.Live {
		t.Error("resource live 20 days in, want expired after 7")
	}
	if view.ExpireDate == nil {
		t.Fatal("expire date missing")
	}
	if want := dates.New(2020, time.May, 14); !view.ExpireDate.Equal(want) {
		t.Errorf("expire date = %v, want %v", *view.ExpireDate, want)
	}
}

func TestClassifyLiveWindows(t *testing.T) {
	svc := newTestResourceService()
	start := dates.New(2020, time.April, 30)

	cases := []struct {
		name      string
		avail     int
		expire    int
		skipWeeks int
		daysSince int
		want      bool
	}{
		{"on signup inside window", models.AvailOnSignup, 2, 0, 14, true},
		{"on signup past window", models.AvailOnSignup, 2, 0, 15, false},
		{"on signup skip week extends window", models.AvailOnSignup, 2, 1, 21, true},
		{"week two inside window", 2, 1, 0, 14, true},
		{"week two past window", 2, 1, 0, 15, false},
		{"after completion inside window", models.AvailAfterCompletion, 1, 0, 35, true},
		{"after completion past window", models.AvailAfterCompletion, 1, 0, 42, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			offer := thursdayOffer()
			offer.SkipWeeks = tc.skipWeeks
			asOf := dates.AddDays(start, tc.daysSince)
			view, err := svc.classify(&models.Resource{ID: 1, Avail: tc.avail, Expire: tc.expire}, offer, asOf)
			if err != nil {
				t.Fatalf("classify error: %v", err)
			}
			if view.Live != tc.want {
				t.Errorf("live = %v at day %d, want %v", view.Live, tc.daysSince, tc.want)
			}
		})
	}
}

func TestClassifyRejectsUndatedOffer(t *testing.T) {
	svc := newTestResourceService()
	offer := &models.ClassOffer{ID: 9}

	_, err := svc.classify(&models.Resource{ID: 1}, offer, dates.New(2020, time.May, 10))
	if !errors.Is(err, apperrors.ErrTypeMismatch) {
		t.Errorf("error = %v, want ErrTypeMismatch", err)
	}
}

func TestLiveByDate(t *testing.T) {
	publish := dates.New(2020, time.May, 7)
	expire := dates.New(2020, time.May, 21)

	cases := []struct {
		name string
		view models.ResourceView
		asOf time.Time
		want bool
	}{
		{"before publish", models.ResourceView{PublishDate: publish}, dates.New(2020, time.May, 1), false},
		{"published, no expiry", models.ResourceView{PublishDate: publish}, dates.New(2021, time.May, 1), true},
		{"inside window", models.ResourceView{PublishDate: publish, ExpireDate: &expire}, dates.New(2020, time.May, 14), true},
		{"on expire day", models.ResourceView{PublishDate: publish, ExpireDate: &expire}, expire, true},
		{"past expire", models.ResourceView{PublishDate: publish, ExpireDate: &expire}, dates.New(2020, time.May, 22), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := liveByDate(&tc.view, tc.asOf); got != tc.want {
				t.Errorf("liveByDate = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestUnsupportedAggregations(t *testing.T) {
	svc := newTestResourceService()

	if _, err := svc.MostRecentResource(context.Background(), 1); !errors.Is(err, apperrors.ErrNotSupported) {
		t.Errorf("MostRecentResource error = %v, want ErrNotSupported", err)
	}
	if _, err := svc.ResourcesForLevels(context.Background(), uuid.New(), []int{1, 2}, []string{"A"}); !errors.Is(err, apperrors.ErrNotSupported) {
		t.Errorf("ResourcesForLevels error = %v, want ErrNotSupported", err)
	}
}
