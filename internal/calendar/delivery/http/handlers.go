package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"unified-calendar/internal/calendar"
	"unified-calendar/internal/model"
	"unified-calendar/pkg/response"
)

const headerProviderErrors = "X-Provider-Errors"

// ListEvents godoc
// @Summary     List unified events
// @Description Merges events of every connected provider in the window. Providers that fail are listed in errors; their events are absent.
// @Tags        Calendar
// @Produce     json
// @Param       X-User-ID header string true  "User ID"
// @Param       start     query  string false "Window start: RFC 3339, date or relative (today, next monday). Default: this week"
// @Param       end       query  string false "Window end. Default: start + 7 days"
// @Param       provider  query  string false "google or microsoft"
// @Success     200 {object} listEventsResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     401 {object} response.Resp "Unauthorized"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/calendar/events [GET]
func (h *handler) ListEvents(c *gin.Context) {
	ctx := c.Request.Context()

	sc, err := h.processScope(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req, window, err := h.processListReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.uc.ListEvents(ctx, sc, calendar.ListEventsInput{Window: window, Provider: model.Provider(req.Provider)})
	if err != nil {
		h.l.Errorf(ctx, "uc.ListEvents: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newListEventsResp(out))
}

// FindConflicts godoc
// @Summary     Find scheduling conflicts
// @Description Groups events whose intervals transitively overlap. Declined, cancelled and free events are ignored unless included.
// @Tags        Calendar
// @Produce     json
// @Param       X-User-ID         header string true  "User ID"
// @Param       start             query  string false "Window start"
// @Param       end               query  string false "Window end"
// @Param       include_declined  query  bool   false "Count declined events"
// @Param       include_cancelled query  bool   false "Count cancelled events"
// @Param       include_free      query  bool   false "Count events marked free"
// @Success     200 {object} conflictsResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/calendar/conflicts [GET]
func (h *handler) FindConflicts(c *gin.Context) {
	ctx := c.Request.Context()

	sc, err := h.processScope(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req, window, err := h.processConflictsReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.uc.FindConflicts(ctx, sc, calendar.FindConflictsInput{Window: window, Policy: req.toPolicy()})
	if err != nil {
		h.l.Errorf(ctx, "uc.FindConflicts: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newConflictsResp(out))
}

// FreeBusy godoc
// @Summary     Free/busy intervals
// @Description Busy intervals and free slots of at least min_minutes inside the window.
// @Tags        Calendar
// @Produce     json
// @Param       X-User-ID   header string true  "User ID"
// @Param       start       query  string false "Window start"
// @Param       end         query  string false "Window end"
// @Param       min_minutes query  int    false "Shortest free slot (default: 30)"
// @Success     200 {object} freeBusyResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/calendar/freebusy [GET]
func (h *handler) FreeBusy(c *gin.Context) {
	ctx := c.Request.Context()

	sc, err := h.processScope(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req, window, err := h.processFreeBusyReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.uc.FreeBusy(ctx, sc, calendar.FreeBusyInput{
		Window:      window,
		MinDuration: req.minDuration(),
		Policy:      req.toPolicy(),
	})
	if err != nil {
		h.l.Errorf(ctx, "uc.FreeBusy: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newFreeBusyResp(out))
}

// ExportICS godoc
// @Summary     Export as iCalendar
// @Description The merged window as a text/calendar feed. Failed providers are named in the X-Provider-Errors header.
// @Tags        Calendar
// @Produce     plain
// @Param       X-User-ID header string true  "User ID"
// @Param       start     query  string false "Window start"
// @Param       end       query  string false "Window end"
// @Param       provider  query  string false "google or microsoft"
// @Success     200 {string} string "iCalendar feed"
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/calendar/events.ics [GET]
func (h *handler) ExportICS(c *gin.Context) {
	ctx := c.Request.Context()

	sc, err := h.processScope(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req, window, err := h.processListReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.uc.ExportICS(ctx, sc, calendar.ListEventsInput{Window: window, Provider: model.Provider(req.Provider)})
	if err != nil {
		h.l.Errorf(ctx, "uc.ExportICS: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	if len(out.Errors) > 0 {
		c.Header(headerProviderErrors, providerErrorsHeader(out.Errors))
	}
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", out.Data)
}

// GetEvent godoc
// @Summary     Get one event
// @Description Reads the event from its provider.
// @Tags        Calendar
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       provider  path   string true "google or microsoft"
// @Param       id        path   string true "Provider event ID"
// @Success     200 {object} eventDetailResp
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/calendar/events/{provider}/{id} [GET]
func (h *handler) GetEvent(c *gin.Context) {
	ctx := c.Request.Context()

	sc, err := h.processScope(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	p, id, err := h.processEventParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	ev, err := h.uc.GetEvent(ctx, sc, calendar.GetEventInput{Provider: p, EventID: id})
	if err != nil {
		h.l.Warnf(ctx, "uc.GetEvent: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newEventDetailResp(ev))
}

// Respond godoc
// @Summary     Respond to a meeting
// @Description Sets the caller's RSVP. expected_version must be the version last seen; a stale version fails with 409 and changes nothing.
// @Tags        Calendar
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string     true "User ID"
// @Param       provider  path   string     true "google or microsoft"
// @Param       id        path   string     true "Provider event ID"
// @Param       body      body   respondReq true "accepted, declined or tentative"
// @Success     200 {object} eventDetailResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     401 {object} response.Resp "Account needs to be reconnected"
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     409 {object} response.Resp "Stale version"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/calendar/events/{provider}/{id}/respond [POST]
func (h *handler) Respond(c *gin.Context) {
	ctx := c.Request.Context()

	sc, err := h.processScope(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	p, id, err := h.processEventParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req, err := h.processRespondReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	ev, err := h.uc.Respond(ctx, sc, calendar.RespondInput{
		Provider:        p,
		EventID:         id,
		Response:        model.ResponseStatus(req.Response),
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		h.l.Warnf(ctx, "uc.Respond: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newEventDetailResp(ev))
}

// CreateEvent godoc
// @Summary     Create an event
// @Description Creates an event on the given provider.
// @Tags        Calendar
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string    true "User ID"
// @Param       provider  path   string    true "google or microsoft"
// @Param       body      body   createReq true "Event"
// @Success     200 {object} eventDetailResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Provider not connected"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/calendar/events/{provider} [POST]
func (h *handler) CreateEvent(c *gin.Context) {
	ctx := c.Request.Context()

	sc, err := h.processScope(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	p, err := h.processProviderParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req, span, err := h.processCreateReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	ev, err := h.uc.CreateEvent(ctx, sc, req.toInput(p, span.Start, span.End))
	if err != nil {
		h.l.Errorf(ctx, "uc.CreateEvent: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newEventDetailResp(ev))
}

// DeleteEvent godoc
// @Summary     Delete an event
// @Description Deletes the event on its provider. With expected_version a stale version fails with 409.
// @Tags        Calendar
// @Produce     json
// @Param       X-User-ID        header string true  "User ID"
// @Param       provider         path   string true  "google or microsoft"
// @Param       id               path   string true  "Provider event ID"
// @Param       expected_version query  string false "Last seen version"
// @Success     200 {object} response.Resp "OK"
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     409 {object} response.Resp "Stale version"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/calendar/events/{provider}/{id} [DELETE]
func (h *handler) DeleteEvent(c *gin.Context) {
	ctx := c.Request.Context()

	sc, err := h.processScope(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	p, id, err := h.processEventParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	err = h.uc.DeleteEvent(ctx, sc, calendar.DeleteEventInput{
		Provider:        p,
		EventID:         id,
		ExpectedVersion: c.Query("expected_version"),
	})
	if err != nil {
		h.l.Warnf(ctx, "uc.DeleteEvent: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, nil)
}
