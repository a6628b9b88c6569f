package gcalendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const defaultPageSize = 250

// Client talks to the Google Calendar API on behalf of many users. The
// service is built once; every call carries the caller's bearer token.
type Client struct {
	base     http.RoundTripper
	endpoint string
	svc      *calendar.Service
}

// NewClient creates a Calendar client.
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	c := &Client{base: http.DefaultTransport}
	for _, opt := range opts {
		opt(c)
	}

	clientOpts := []option.ClientOption{option.WithHTTPClient(&http.Client{Transport: c.base})}
	if c.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(c.endpoint))
	}
	svc, err := calendar.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	c.svc = svc
	return c, nil
}

type headerCall interface {
	Header() http.Header
}

func withBearer(call headerCall, accessToken string) {
	call.Header().Set("Authorization", "Bearer "+accessToken)
}

func calendarIDOrPrimary(id string) string {
	if id == "" {
		return PrimaryCalendarID
	}
	return id
}

// ListEvents returns every event instance intersecting [TimeMin, TimeMax),
// following page tokens until exhausted. Recurring events are expanded.
func (c *Client) ListEvents(ctx context.Context, accessToken string, req ListEventsRequest) ([]*calendar.Event, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var events []*calendar.Event
	pageToken := ""
	for {
		call := c.svc.Events.List(calendarIDOrPrimary(req.CalendarID)).
			TimeMin(req.TimeMin.Format(time.RFC3339)).
			TimeMax(req.TimeMax.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(pageSize).
			Context(ctx)
		withBearer(call, accessToken)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list calendar events: %w", err)
		}
		events = append(events, page.Items...)

		if page.NextPageToken == "" {
			return events, nil
		}
		pageToken = page.NextPageToken
	}
}

// GetEvent fetches one event.
func (c *Client) GetEvent(ctx context.Context, accessToken, calendarID, eventID string) (*calendar.Event, error) {
	call := c.svc.Events.Get(calendarIDOrPrimary(calendarID), eventID).Context(ctx)
	withBearer(call, accessToken)
	ev, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar event: %w", err)
	}
	return ev, nil
}

// PatchAttendees replaces the attendee list of an event. When etag is set
// the write is conditional and the API answers 412 if it moved on.
func (c *Client) PatchAttendees(ctx context.Context, accessToken, calendarID, eventID string, attendees []*calendar.EventAttendee, etag string) (*calendar.Event, error) {
	call := c.svc.Events.Patch(calendarIDOrPrimary(calendarID), eventID, &calendar.Event{Attendees: attendees}).
		SendUpdates("all").
		Context(ctx)
	withBearer(call, accessToken)
	if etag != "" {
		call.Header().Set("If-Match", etag)
	}

	ev, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to patch calendar event: %w", err)
	}
	return ev, nil
}

// CreateEvent creates a new Google Calendar event.
func (c *Client) CreateEvent(ctx context.Context, accessToken string, req CreateEventRequest) (*calendar.Event, error) {
	event := &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Location:    req.Location,
	}
	if req.AllDay {
		event.Start = &calendar.EventDateTime{Date: req.StartTime.Format("2006-01-02"), TimeZone: req.Timezone}
		event.End = &calendar.EventDateTime{Date: req.EndTime.Format("2006-01-02"), TimeZone: req.Timezone}
	} else {
		event.Start = &calendar.EventDateTime{DateTime: req.StartTime.Format(time.RFC3339), TimeZone: req.Timezone}
		event.End = &calendar.EventDateTime{DateTime: req.EndTime.Format(time.RFC3339), TimeZone: req.Timezone}
	}
	for _, email := range req.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}

	call := c.svc.Events.Insert(calendarIDOrPrimary(req.CalendarID), event).Context(ctx)
	withBearer(call, accessToken)
	if len(req.Attendees) > 0 {
		call = call.SendUpdates("all")
	}

	created, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}
	return created, nil
}

// DeleteEvent deletes an event, conditionally on etag when set.
func (c *Client) DeleteEvent(ctx context.Context, accessToken, calendarID, eventID, etag string) error {
	call := c.svc.Events.Delete(calendarIDOrPrimary(calendarID), eventID).SendUpdates("all").Context(ctx)
	withBearer(call, accessToken)
	if etag != "" {
		call.Header().Set("If-Match", etag)
	}
	if err := call.Do(); err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	return nil
}

// PrimaryEmail returns the address owning the primary calendar.
func (c *Client) PrimaryEmail(ctx context.Context, accessToken string) (string, error) {
	call := c.svc.CalendarList.Get(PrimaryCalendarID).Context(ctx)
	withBearer(call, accessToken)
	cal, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("failed to get primary calendar: %w", err)
	}
	return cal.Id, nil
}
