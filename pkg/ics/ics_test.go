package ics_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"

	"unified-calendar/pkg/ics"
)

func TestEncode(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	hcm := time.FixedZone("ICT", 7*3600)
	events := []ics.Event{
		{
			UID:            "google:abc",
			Summary:        "Standup",
			Start:          time.Date(2024, 5, 1, 9, 0, 0, 0, hcm),
			End:            time.Date(2024, 5, 1, 9, 15, 0, 0, hcm),
			Status:         "CONFIRMED",
			OrganizerEmail: "lead@example.com",
			OrganizerName:  "Lead",
			Attendees:      []ics.Attendee{{Email: "me@example.com", PartStat: "ACCEPTED"}},
		},
		{
			UID:     "microsoft:xyz",
			Summary: "Offsite",
			Start:   time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
			End:     time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC),
			AllDay:  true,
		},
	}

	var buf bytes.Buffer
	if err := ics.Encode(&buf, events, now); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"PRODID:" + ics.ProductID,
		"DTSTART:20240501T020000Z",
		"DTSTART;VALUE=DATE:20240502",
		"PARTSTAT=ACCEPTED",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	cal, err := ical.NewDecoder(strings.NewReader(out)).Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := cal.Events()
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	uid, _ := got[0].Props.Text(ical.PropUID)
	if uid != "google:abc" {
		t.Errorf("unexpected UID %q", uid)
	}
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := ics.Encode(&buf, nil, time.Now()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "BEGIN:VCALENDAR") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
