package msgraph

import (
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the Microsoft Graph v1.0 root.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// DateTimeLayout is Graph's dateTimeTimeZone.dateTime layout.
const DateTimeLayout = "2006-01-02T15:04:05.9999999"

// EmailAddress is Graph's emailAddress resource.
type EmailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

// Recipient wraps an email address.
type Recipient struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

// DateTimeTimeZone is a wall-clock time plus the zone it is expressed in.
type DateTimeTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// ResponseStatus is an attendee's or the owner's reply.
type ResponseStatus struct {
	Response string `json:"response"`
	Time     string `json:"time,omitempty"`
}

// Attendee is one event participant.
type Attendee struct {
	Type         string         `json:"type,omitempty"`
	Status       ResponseStatus `json:"status"`
	EmailAddress EmailAddress   `json:"emailAddress"`
}

// ItemBody is rich text content.
type ItemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Location is where the event takes place.
type Location struct {
	DisplayName string `json:"displayName"`
}

// OnlineMeeting holds conferencing details.
type OnlineMeeting struct {
	JoinURL string `json:"joinUrl"`
}

// Event is the subset of Graph's event resource the service reads.
type Event struct {
	ID                    string           `json:"id"`
	ETag                  string           `json:"@odata.etag,omitempty"`
	ChangeKey             string           `json:"changeKey,omitempty"`
	Subject               string           `json:"subject"`
	BodyPreview           string           `json:"bodyPreview,omitempty"`
	Body                  *ItemBody        `json:"body,omitempty"`
	Start                 DateTimeTimeZone `json:"start"`
	End                   DateTimeTimeZone `json:"end"`
	OriginalStartTimeZone string           `json:"originalStartTimeZone,omitempty"`
	Location              *Location        `json:"location,omitempty"`
	IsAllDay              bool             `json:"isAllDay"`
	IsCancelled           bool             `json:"isCancelled"`
	IsOrganizer           bool             `json:"isOrganizer"`
	ShowAs                string           `json:"showAs,omitempty"`
	Organizer             *Recipient       `json:"organizer,omitempty"`
	Attendees             []Attendee       `json:"attendees,omitempty"`
	ResponseStatus        *ResponseStatus  `json:"responseStatus,omitempty"`
	OnlineMeeting         *OnlineMeeting   `json:"onlineMeeting,omitempty"`
	WebLink               string           `json:"webLink,omitempty"`
}

// NewEvent is the body of an event creation.
type NewEvent struct {
	Subject   string           `json:"subject"`
	Body      *ItemBody        `json:"body,omitempty"`
	Start     DateTimeTimeZone `json:"start"`
	End       DateTimeTimeZone `json:"end"`
	Location  *Location        `json:"location,omitempty"`
	IsAllDay  bool             `json:"isAllDay"`
	Attendees []Attendee       `json:"attendees,omitempty"`
}

// User is the signed-in user.
type User struct {
	ID                string `json:"id"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// Action is an RSVP verb of the events API.
type Action string

const (
	ActionAccept            Action = "accept"
	ActionDecline           Action = "decline"
	ActionTentativelyAccept Action = "tentativelyAccept"
)

// APIError is a non-2xx answer from Graph.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another Graph root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}
