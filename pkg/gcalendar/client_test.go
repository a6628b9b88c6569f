package gcalendar_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"unified-calendar/pkg/gcalendar"
)

type rewriteTransport struct {
	Transport http.RoundTripper
	Host      string
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	req.URL.Host = t.Host
	return t.Transport.RoundTrip(req)
}

func newTestClient(t *testing.T, ts *httptest.Server) *gcalendar.Client {
	t.Helper()
	c, err := gcalendar.NewClient(context.Background(), gcalendar.WithBaseTransport(&rewriteTransport{
		Transport: http.DefaultTransport,
		Host:      strings.TrimPrefix(ts.URL, "http://"),
	}))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

func TestCalendarClient(t *testing.T) {
	windowStart := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := windowStart.Add(24 * time.Hour)

	t.Run("List Events follows pages and sends bearer", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if r.URL.Path != "/calendar/v3/calendars/primary/events" || r.Method != http.MethodGet {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			if r.URL.Query().Get("singleEvents") != "true" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if r.URL.Query().Get("pageToken") == "" {
				w.Write([]byte(`{"items":[{"id":"e1","summary":"First"}],"nextPageToken":"p2"}`))
				return
			}
			w.Write([]byte(`{"items":[{"id":"e2","summary":"Second"}]}`))
		}))
		defer ts.Close()

		events, err := newTestClient(t, ts).ListEvents(context.Background(), "tok-1", gcalendar.ListEventsRequest{
			TimeMin: windowStart,
			TimeMax: windowEnd,
		})
		if err != nil {
			t.Fatalf("failed to list events: %v", err)
		}
		if len(events) != 2 || events[1].Id != "e2" {
			t.Fatalf("expected 2 events across pages, got %d", len(events))
		}
	})

	t.Run("List Events surfaces API status", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"code":403,"message":"denied","errors":[{"reason":"forbidden"}]}}`))
		}))
		defer ts.Close()

		_, err := newTestClient(t, ts).ListEvents(context.Background(), "tok", gcalendar.ListEventsRequest{
			TimeMin: windowStart,
			TimeMax: windowEnd,
		})
		var apiErr *googleapi.Error
		if !errors.As(err, &apiErr) || apiErr.Code != http.StatusForbidden {
			t.Fatalf("expected googleapi 403, got %v", err)
		}
	})

	t.Run("Patch attendees is conditional", func(t *testing.T) {
		var gotIfMatch string
		var gotBody calendar.Event
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPatch || r.URL.Path != "/calendar/v3/calendars/primary/events/e1" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			gotIfMatch = r.Header.Get("If-Match")
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			w.Write([]byte(`{"id":"e1","etag":"\"v2\""}`))
		}))
		defer ts.Close()

		ev, err := newTestClient(t, ts).PatchAttendees(context.Background(), "tok", "", "e1",
			[]*calendar.EventAttendee{{Email: "me@example.com", ResponseStatus: "accepted", Self: true}}, `"v1"`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotIfMatch != `"v1"` {
			t.Errorf("expected If-Match \"v1\", got %q", gotIfMatch)
		}
		if len(gotBody.Attendees) != 1 || gotBody.Attendees[0].ResponseStatus != "accepted" {
			t.Errorf("unexpected patch body: %+v", gotBody.Attendees)
		}
		if ev.Etag != `"v2"` {
			t.Errorf("unexpected etag %q", ev.Etag)
		}
	})

	t.Run("Create Event", func(t *testing.T) {
		var got calendar.Event
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/calendar/v3/calendars/primary/events" && r.Method == http.MethodPost {
				_ = json.NewDecoder(r.Body).Decode(&got)
				w.Write([]byte(`{"id":"event-123","htmlLink":"https://calendar.google.com/event-uri","status":"confirmed"}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		event, err := newTestClient(t, ts).CreateEvent(context.Background(), "tok", gcalendar.CreateEventRequest{
			Summary:   "Title",
			StartTime: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
			AllDay:    true,
		})
		if err != nil {
			t.Fatalf("failed to create event: %v", err)
		}
		if event.HtmlLink != "https://calendar.google.com/event-uri" {
			t.Errorf("unexpected link: %s", event.HtmlLink)
		}
		if got.Start == nil || got.Start.Date != "2024-05-02" || got.End.Date != "2024-05-03" {
			t.Errorf("expected all-day dates, got %+v %+v", got.Start, got.End)
		}
	})

	t.Run("Create Event Error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer ts.Close()

		_, err := newTestClient(t, ts).CreateEvent(context.Background(), "tok", gcalendar.CreateEventRequest{})
		if err == nil {
			t.Fatalf("expected create event error")
		}
	})

	t.Run("Primary email", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/calendar/v3/users/me/calendarList/primary" {
				w.Write([]byte(`{"id":"me@example.com"}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		email, err := newTestClient(t, ts).PrimaryEmail(context.Background(), "tok")
		if err != nil || email != "me@example.com" {
			t.Fatalf("expected me@example.com, got %q, %v", email, err)
		}
	})
}

func TestCalendarClient_OneServiceManyTokens(t *testing.T) {
	var seen []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"e1","etag":"\"v1\""}`))
	}))
	defer ts.Close()

	client := newTestClient(t, ts)
	for _, tok := range []string{"tok-a", "tok-b", "tok-a"} {
		if _, err := client.GetEvent(context.Background(), tok, "", "e1"); err != nil {
			t.Fatalf("failed to get event with %s: %v", tok, err)
		}
	}

	want := []string{"Bearer tok-a", "Bearer tok-b", "Bearer tok-a"}
	if len(seen) != len(want) {
		t.Fatalf("expected %d requests, got %d", len(want), len(seen))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("request %d: expected %q, got %q", i, want[i], seen[i])
		}
	}
}
