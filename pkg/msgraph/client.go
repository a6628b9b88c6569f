package msgraph

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Client is a thin Microsoft Graph calendar client. Tokens are passed per
// call so one client serves every connected account.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a Graph client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	return c
}

// ListCalendarView returns every occurrence intersecting [start, end),
// following @odata.nextLink until exhausted. Times come back in UTC.
func (c *Client) ListCalendarView(ctx context.Context, accessToken string, start, end time.Time) ([]Event, error) {
	params := url.Values{}
	params.Set("startDateTime", start.UTC().Format(time.RFC3339))
	params.Set("endDateTime", end.UTC().Format(time.RFC3339))
	params.Set("$orderby", "start/dateTime")
	params.Set("$top", "100")

	next := c.baseURL + "/me/calendarView?" + params.Encode()
	var events []Event
	for next != "" {
		var page struct {
			Value    []Event `json:"value"`
			NextLink string  `json:"@odata.nextLink"`
		}
		if err := c.do(ctx, accessToken, http.MethodGet, next, nil, "", &page); err != nil {
			return nil, fmt.Errorf("failed to list calendar view: %w", err)
		}
		events = append(events, page.Value...)
		next = page.NextLink
	}
	return events, nil
}

// GetEvent fetches one event.
func (c *Client) GetEvent(ctx context.Context, accessToken, eventID string) (*Event, error) {
	var ev Event
	if err := c.do(ctx, accessToken, http.MethodGet, c.eventURL(eventID), nil, "", &ev); err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &ev, nil
}

// Respond posts an RSVP action. When etag is set the write is conditional.
func (c *Client) Respond(ctx context.Context, accessToken, eventID string, action Action, etag string) error {
	body := map[string]any{"sendResponse": true}
	if err := c.do(ctx, accessToken, http.MethodPost, c.eventURL(eventID)+"/"+string(action), body, etag, nil); err != nil {
		return fmt.Errorf("failed to %s event: %w", action, err)
	}
	return nil
}

// CreateEvent creates an event on the default calendar.
func (c *Client) CreateEvent(ctx context.Context, accessToken string, ev NewEvent) (*Event, error) {
	var created Event
	if err := c.do(ctx, accessToken, http.MethodPost, c.baseURL+"/me/events", ev, "", &created); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return &created, nil
}

// DeleteEvent deletes an event, conditionally on etag when set.
func (c *Client) DeleteEvent(ctx context.Context, accessToken, eventID, etag string) error {
	if err := c.do(ctx, accessToken, http.MethodDelete, c.eventURL(eventID), nil, etag, nil); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context, accessToken string) (*User, error) {
	var u User
	if err := c.do(ctx, accessToken, http.MethodGet, c.baseURL+"/me", nil, "", &u); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (c *Client) eventURL(eventID string) string {
	return c.baseURL + "/me/events/" + url.PathEscape(eventID)
}

func (c *Client) do(ctx context.Context, accessToken, method, endpoint string, in any, ifMatch string, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Prefer", `outlook.timezone="UTC"`)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ifMatch != "" {
		req.Header.Set("If-Match", ifMatch)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func parseError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if s := resp.Header.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		apiErr.Code = payload.Error.Code
		apiErr.Message = payload.Error.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// ParseDateTime reads a dateTimeTimeZone value. Unknown zone names fall
// back to UTC, which is what the Prefer header asks Graph to use.
func ParseDateTime(v DateTimeTimeZone) (time.Time, error) {
	loc := time.UTC
	if v.TimeZone != "" && !strings.EqualFold(v.TimeZone, "UTC") {
		if l, err := LoadLocation(v.TimeZone); err == nil {
			loc = l
		}
	}
	t, err := time.ParseInLocation(DateTimeLayout, v.DateTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse dateTime %q: %w", v.DateTime, err)
	}
	return t, nil
}

// FormatDateTime renders t for a request body.
func FormatDateTime(t time.Time) DateTimeTimeZone {
	return DateTimeTimeZone{DateTime: t.UTC().Format("2006-01-02T15:04:05"), TimeZone: "UTC"}
}
