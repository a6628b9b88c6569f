package http

import (
	"strings"
	"time"

	"unified-calendar/internal/calendar"
	"unified-calendar/internal/conflict"
	"unified-calendar/internal/model"
	"unified-calendar/internal/provider"
	pkgErrors "unified-calendar/pkg/errors"
	"unified-calendar/pkg/response"
)

const defaultMinFreeMinutes = 30

// --- Request DTOs ---

// windowReq is the shared start/end query. Values are RFC 3339 instants,
// plain dates or relative expressions such as "today" or "next monday".
type windowReq struct {
	Start string `form:"start"`
	End   string `form:"end"`
}

type listReq struct {
	windowReq
	Provider string `form:"provider"`
}

func (r listReq) validate() error {
	if r.Provider == "" {
		return nil
	}
	if _, err := model.ParseProvider(r.Provider); err != nil {
		v := pkgErrors.NewValidationError()
		v.Add("provider", "must be google or microsoft")
		return v
	}
	return nil
}

type policyReq struct {
	IncludeDeclined  bool `form:"include_declined"`
	IncludeCancelled bool `form:"include_cancelled"`
	IncludeFree      bool `form:"include_free"`
}

func (r policyReq) toPolicy() conflict.Policy {
	return conflict.Policy{
		IncludeDeclined:  r.IncludeDeclined,
		IncludeCancelled: r.IncludeCancelled,
		IncludeFree:      r.IncludeFree,
	}
}

type conflictsReq struct {
	windowReq
	policyReq
}

type freeBusyReq struct {
	windowReq
	policyReq
	MinMinutes int `form:"min_minutes"`
}

func (r freeBusyReq) validate() error {
	if r.MinMinutes < 0 {
		v := pkgErrors.NewValidationError()
		v.Add("min_minutes", "must not be negative")
		return v
	}
	return nil
}

func (r freeBusyReq) minDuration() time.Duration {
	if r.MinMinutes == 0 {
		return defaultMinFreeMinutes * time.Minute
	}
	return time.Duration(r.MinMinutes) * time.Minute
}

type respondReq struct {
	Response        string `json:"response"         binding:"required"`
	ExpectedVersion string `json:"expected_version" binding:"required"`
}

func (r respondReq) validate() error {
	if !model.ResponseNeedsAction.CanTransitionTo(model.ResponseStatus(r.Response)) {
		v := pkgErrors.NewValidationError()
		v.Add("response", "must be accepted, declined or tentative")
		return v
	}
	return nil
}

type createReq struct {
	Title       string   `json:"title"      binding:"required,max=1024"`
	Start       string   `json:"start"      binding:"required"`
	End         string   `json:"end"        binding:"required"`
	TimeZone    string   `json:"time_zone"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Attendees   []string `json:"attendees"  binding:"omitempty,dive,email"`
	IsAllDay    bool     `json:"is_all_day"`
}

func (r createReq) validate() error {
	if r.TimeZone == "" {
		return nil
	}
	if _, err := time.LoadLocation(r.TimeZone); err != nil {
		v := pkgErrors.NewValidationError()
		v.Add("time_zone", "must be an IANA time zone")
		return v
	}
	return nil
}

func (r createReq) toInput(p model.Provider, start, end time.Time) calendar.CreateEventInput {
	return calendar.CreateEventInput{
		Provider: p,
		Event: provider.CreateEventInput{
			Title:       r.Title,
			Description: r.Description,
			Location:    r.Location,
			Start:       start,
			End:         end,
			IsAllDay:    r.IsAllDay,
			TimeZone:    r.TimeZone,
			Attendees:   r.Attendees,
		},
	}
}

// --- Response DTOs ---

type organizerResp struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	IsSelf bool   `json:"is_self"`
}

type attendeeResp struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Response string `json:"response"`
	IsSelf   bool   `json:"is_self"`
}

type eventResp struct {
	Provider    string    `json:"provider"`
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	TimeZone    string    `json:"time_zone,omitempty"`
	IsAllDay    bool      `json:"is_all_day"`
	// StartDate and EndDate are set for all-day events; EndDate is exclusive.
	StartDate   *response.Date `json:"start_date,omitempty"`
	EndDate     *response.Date `json:"end_date,omitempty"`
	Status      string         `json:"status"`
	Transparent bool           `json:"transparent"`
	Organizer   organizerResp  `json:"organizer"`
	Attendees   []attendeeResp `json:"attendees"`
	MyResponse  string         `json:"my_response"`
	MeetingLink string         `json:"meeting_link,omitempty"`
	DeepLink    string         `json:"deep_link,omitempty"`
	Version     string         `json:"version"`
}

func newEventResp(ev model.CanonicalEvent) eventResp {
	attendees := make([]attendeeResp, len(ev.Attendees))
	for i, a := range ev.Attendees {
		attendees[i] = attendeeResp{Email: a.Email, Name: a.Name, Response: string(a.Response), IsSelf: a.IsSelf}
	}
	resp := eventResp{
		Provider:    string(ev.Provider),
		ID:          ev.ExternalID,
		AccountID:   ev.AccountID,
		Title:       ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       ev.Start,
		End:         ev.End,
		TimeZone:    ev.TimeZone,
		IsAllDay:    ev.IsAllDay,
		Status:      string(ev.Status),
		Transparent: ev.Transparent,
		Organizer:   organizerResp{Name: ev.Organizer.Name, Email: ev.Organizer.Email, IsSelf: ev.Organizer.IsSelf},
		Attendees:   attendees,
		MyResponse:  string(ev.MyResponse),
		MeetingLink: ev.MeetingLink,
		DeepLink:    ev.DeepLink,
		Version:     ev.Version,
	}
	if ev.IsAllDay {
		resp.StartDate = response.NewDate(ev.Start, ev.Loc())
		resp.EndDate = response.NewDate(ev.End, ev.Loc())
	}
	return resp
}

func newEventResps(events []model.CanonicalEvent) []eventResp {
	out := make([]eventResp, len(events))
	for i, ev := range events {
		out[i] = newEventResp(ev)
	}
	return out
}

type providerErrorResp struct {
	Provider  string `json:"provider"`
	AccountID string `json:"account_id,omitempty"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
}

func newProviderErrorResps(errs []*provider.Error) []providerErrorResp {
	out := make([]providerErrorResp, len(errs))
	for i, e := range errs {
		out[i] = providerErrorResp{
			Provider:  string(e.Provider),
			AccountID: e.AccountID,
			Kind:      string(e.Kind),
			Message:   e.Message,
		}
	}
	return out
}

type intervalResp struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func newIntervalResps(list []conflict.Interval) []intervalResp {
	out := make([]intervalResp, len(list))
	for i, iv := range list {
		out[i] = intervalResp{Start: iv.Start, End: iv.End}
	}
	return out
}

type listEventsResp struct {
	Events             []eventResp         `json:"events"`
	Total              int                 `json:"total"`
	Start              time.Time           `json:"start"`
	End                time.Time           `json:"end"`
	ProvidersConnected []string            `json:"providers_connected"`
	Errors             []providerErrorResp `json:"errors"`
}

func (h *handler) newListEventsResp(out calendar.ListEventsOutput) listEventsResp {
	providers := make([]string, len(out.ProvidersConnected))
	for i, p := range out.ProvidersConnected {
		providers[i] = string(p)
	}
	return listEventsResp{
		Events:             newEventResps(out.Events),
		Total:              len(out.Events),
		Start:              out.Window.Start,
		End:                out.Window.End,
		ProvidersConnected: providers,
		Errors:             newProviderErrorResps(out.Errors),
	}
}

type groupResp struct {
	Events  []eventResp  `json:"events"`
	Overlap intervalResp `json:"overlap"`
}

type conflictsResp struct {
	Groups []groupResp         `json:"groups"`
	Total  int                 `json:"total"`
	Start  time.Time           `json:"start"`
	End    time.Time           `json:"end"`
	Errors []providerErrorResp `json:"errors"`
}

func (h *handler) newConflictsResp(out calendar.FindConflictsOutput) conflictsResp {
	groups := make([]groupResp, len(out.Groups))
	for i, g := range out.Groups {
		groups[i] = groupResp{
			Events:  newEventResps(g.Events),
			Overlap: intervalResp{Start: g.Overlap.Start, End: g.Overlap.End},
		}
	}
	return conflictsResp{
		Groups: groups,
		Total:  len(groups),
		Start:  out.Window.Start,
		End:    out.Window.End,
		Errors: newProviderErrorResps(out.Errors),
	}
}

type freeBusyResp struct {
	Start  time.Time           `json:"start"`
	End    time.Time           `json:"end"`
	Busy   []intervalResp      `json:"busy"`
	Free   []intervalResp      `json:"free"`
	Errors []providerErrorResp `json:"errors"`
}

func (h *handler) newFreeBusyResp(out calendar.FreeBusyOutput) freeBusyResp {
	return freeBusyResp{
		Start:  out.Window.Start,
		End:    out.Window.End,
		Busy:   newIntervalResps(out.Busy),
		Free:   newIntervalResps(out.Free),
		Errors: newProviderErrorResps(out.Errors),
	}
}

type eventDetailResp struct {
	Event eventResp `json:"event"`
}

func (h *handler) newEventDetailResp(ev model.CanonicalEvent) eventDetailResp {
	return eventDetailResp{Event: newEventResp(ev)}
}

// providerErrorsHeader flattens provider errors for responses without a
// JSON body, e.g. "microsoft:forbidden,google:unavailable".
func providerErrorsHeader(errs []*provider.Error) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = string(e.Provider) + ":" + string(e.Kind)
	}
	return strings.Join(parts, ",")
}
