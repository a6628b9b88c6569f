package microsoft_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"unified-calendar/internal/model"
	"unified-calendar/internal/provider"
	"unified-calendar/internal/provider/microsoft"
	"unified-calendar/pkg/log"
	"unified-calendar/pkg/msgraph"
)

type fakeGraph struct {
	mu      sync.Mutex
	events  map[string]*msgraph.Event
	actions []string
	status  int
}

var graphResponse = map[string]string{
	"accept":            "accepted",
	"decline":           "declined",
	"tentativelyAccept": "tentativelyAccepted",
}

func (f *fakeGraph) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != 0 {
		w.WriteHeader(f.status)
		fmt.Fprintf(w, `{"error":{"code":"Err%d","message":"failure"}}`, f.status)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/me/calendarView":
		list := []msgraph.Event{}
		for _, id := range []string{"review", "holiday"} {
			if ev, ok := f.events[id]; ok {
				list = append(list, *ev)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"value": list})
	case strings.HasPrefix(r.URL.Path, "/me/events/"):
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/me/events/"), "/")
		ev, ok := f.events[parts[0]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"code":"ErrorItemNotFound","message":"missing"}}`)
			return
		}
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(ev)
			return
		}
		if r.Method == http.MethodPost && len(parts) == 2 {
			if m := r.Header.Get("If-Match"); m != "" && m != ev.ETag {
				w.WriteHeader(http.StatusPreconditionFailed)
				return
			}
			f.actions = append(f.actions, parts[1])
			ev.ResponseStatus = &msgraph.ResponseStatus{Response: graphResponse[parts[1]]}
			ev.ETag = fmt.Sprintf(`W/"ck%d"`, len(f.actions)+1)
			w.WriteHeader(http.StatusAccepted)
			return
		}
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newFake() *fakeGraph {
	return &fakeGraph{events: map[string]*msgraph.Event{
		"review": {
			ID:                    "review",
			ETag:                  `W/"ck1"`,
			Subject:               "Design review",
			Start:                 msgraph.DateTimeTimeZone{DateTime: "2024-05-01T09:30:00.0000000", TimeZone: "UTC"},
			End:                   msgraph.DateTimeTimeZone{DateTime: "2024-05-01T10:30:00.0000000", TimeZone: "UTC"},
			OriginalStartTimeZone: "Pacific Standard Time",
			Organizer:             &msgraph.Recipient{EmailAddress: msgraph.EmailAddress{Address: "lead@contoso.com"}},
			Attendees: []msgraph.Attendee{
				{Status: msgraph.ResponseStatus{Response: "none"}, EmailAddress: msgraph.EmailAddress{Address: "Me@Contoso.com"}},
			},
			ResponseStatus: &msgraph.ResponseStatus{Response: "notResponded"},
			OnlineMeeting:  &msgraph.OnlineMeeting{JoinURL: "https://teams.microsoft.com/l/abc"},
			WebLink:        "https://outlook.office365.com/owa/?itemid=review",
		},
		"holiday": {
			ID:                    "holiday",
			ETag:                  `W/"h1"`,
			Subject:               "Holiday",
			IsAllDay:              true,
			IsOrganizer:           true,
			ShowAs:                "free",
			Start:                 msgraph.DateTimeTimeZone{DateTime: "2024-05-02T00:00:00.0000000", TimeZone: "UTC"},
			End:                   msgraph.DateTimeTimeZone{DateTime: "2024-05-03T00:00:00.0000000", TimeZone: "UTC"},
			OriginalStartTimeZone: "W. Europe Standard Time",
		},
	}}
}

var (
	account = model.ConnectedAccount{ID: "acc-m", Provider: model.ProviderMicrosoft, AccountEmail: "me@contoso.com", Status: model.AccountStatusActive}
	token   = model.AccessToken{AccountID: "acc-m", Value: "tok"}
	window  = model.Window{
		Start: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC),
	}
)

func newAdapter(t *testing.T, h http.Handler) provider.Adapter {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return microsoft.New(log.NewNop(), msgraph.NewClient(msgraph.WithBaseURL(ts.URL)), time.UTC)
}

func TestFetchEvents(t *testing.T) {
	a := newAdapter(t, newFake())

	events, err := a.FetchEvents(context.Background(), account, token, window)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	review := events[0]
	if !review.Start.Equal(time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("unexpected start %v", review.Start)
	}
	if review.TimeZone != "America/Los_Angeles" {
		t.Errorf("expected mapped IANA zone, got %q", review.TimeZone)
	}
	if review.MyResponse != model.ResponseNeedsAction {
		t.Errorf("expected needs_action, got %s", review.MyResponse)
	}
	if len(review.Attendees) != 1 || !review.Attendees[0].IsSelf {
		t.Errorf("expected self attendee matched by email, got %+v", review.Attendees)
	}
	if review.MeetingLink == "" || review.Version != `W/"ck1"` {
		t.Errorf("unexpected link/version %q %q", review.MeetingLink, review.Version)
	}

	holiday := events[1]
	if !holiday.IsAllDay || !holiday.Transparent || holiday.MyResponse != model.ResponseAccepted {
		t.Errorf("unexpected all-day event: %+v", holiday)
	}
	berlin, _ := time.LoadLocation("Europe/Berlin")
	if !holiday.Start.Equal(time.Date(2024, 5, 2, 0, 0, 0, 0, berlin)) {
		t.Errorf("expected Berlin midnight, got %v", holiday.Start)
	}
}

func TestFetchEventsErrors(t *testing.T) {
	tests := []struct {
		status int
		want   provider.Kind
	}{
		{http.StatusUnauthorized, provider.KindAuthExpired},
		{http.StatusForbidden, provider.KindForbidden},
		{http.StatusTooManyRequests, provider.KindRateLimited},
		{http.StatusServiceUnavailable, provider.KindUnavailable},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			fake := newFake()
			fake.status = tt.status
			a := newAdapter(t, fake)

			_, err := a.FetchEvents(context.Background(), account, token, window)
			if got := provider.KindOf(err); got != tt.want {
				t.Errorf("expected %s, got %s (%v)", tt.want, got, err)
			}
		})
	}
}

func TestUpdateResponse(t *testing.T) {
	t.Run("tentative maps to tentativelyAccept", func(t *testing.T) {
		fake := newFake()
		a := newAdapter(t, fake)

		updated, err := a.UpdateResponse(context.Background(), account, token, "review", model.ResponseTentative, `W/"ck1"`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(fake.actions) != 1 || fake.actions[0] != "tentativelyAccept" {
			t.Errorf("unexpected actions %v", fake.actions)
		}
		if updated.MyResponse != model.ResponseTentative {
			t.Errorf("expected tentative, got %s", updated.MyResponse)
		}
		if updated.Version == `W/"ck1"` {
			t.Errorf("expected version to advance")
		}
	})

	t.Run("stale version is rejected without mutation", func(t *testing.T) {
		fake := newFake()
		a := newAdapter(t, fake)

		_, err := a.UpdateResponse(context.Background(), account, token, "review", model.ResponseAccepted, `W/"old"`)
		var ce *provider.ConflictError
		if !errors.As(err, &ce) {
			t.Fatalf("expected ConflictError, got %v", err)
		}
		if len(fake.actions) != 0 {
			t.Errorf("expected no action posted, got %v", fake.actions)
		}
	})

	t.Run("organizer cannot respond", func(t *testing.T) {
		a := newAdapter(t, newFake())

		_, err := a.UpdateResponse(context.Background(), account, token, "holiday", model.ResponseDeclined, "")
		if !errors.Is(err, provider.ErrNotInvited) {
			t.Errorf("expected ErrNotInvited, got %v", err)
		}
	})

	t.Run("missing event", func(t *testing.T) {
		a := newAdapter(t, newFake())

		_, err := a.UpdateResponse(context.Background(), account, token, "gone", model.ResponseDeclined, "")
		if !errors.Is(err, provider.ErrEventNotFound) {
			t.Errorf("expected ErrEventNotFound, got %v", err)
		}
	})

	t.Run("needs_action rejected", func(t *testing.T) {
		a := newAdapter(t, newFake())

		_, err := a.UpdateResponse(context.Background(), account, token, "review", model.ResponseNeedsAction, "")
		if !errors.Is(err, provider.ErrInvalidResponse) {
			t.Errorf("expected ErrInvalidResponse, got %v", err)
		}
	})
}
