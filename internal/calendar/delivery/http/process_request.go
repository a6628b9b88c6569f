package http

import (
	"github.com/gin-gonic/gin"

	"unified-calendar/internal/middleware"
	"unified-calendar/internal/model"
	"unified-calendar/pkg/datemath"
	pkgErrors "unified-calendar/pkg/errors"
)

const defaultWindowDays = 7

func (h *handler) processScope(c *gin.Context) (model.Scope, error) {
	sc, ok := middleware.GetScope(c)
	if !ok {
		return sc, pkgErrors.ErrUnauthorized
	}
	return sc, nil
}

// processWindow resolves the start/end expressions. Both empty leaves the
// window zero so the use case applies the current week; a start without an
// end spans one week.
func (h *handler) processWindow(req windowReq) (model.Window, error) {
	if req.Start == "" && req.End == "" {
		return model.Window{}, nil
	}

	v := pkgErrors.NewValidationError()
	if req.Start == "" {
		v.Add("start", "is required when end is set")
		return model.Window{}, v
	}

	now := h.now()
	start, err := h.dates.Parse(req.Start, now)
	if err != nil {
		v.Add("start", err.Error())
		return model.Window{}, v
	}
	end := start.AddDate(0, 0, defaultWindowDays)
	if req.End != "" {
		if end, err = h.dates.Parse(req.End, now); err != nil {
			v.Add("end", err.Error())
			return model.Window{}, v
		}
	}

	w := model.Window{Start: start, End: end}
	if err := w.Validate(); err != nil {
		v.Add("end", "must be after start")
		return model.Window{}, v
	}
	return w, nil
}

func (h *handler) processProviderParam(c *gin.Context) (model.Provider, error) {
	p, err := model.ParseProvider(c.Param("provider"))
	if err != nil {
		v := pkgErrors.NewValidationError()
		v.Add("provider", "must be google or microsoft")
		return "", v
	}
	return p, nil
}

func (h *handler) processEventParams(c *gin.Context) (model.Provider, string, error) {
	p, err := h.processProviderParam(c)
	if err != nil {
		return "", "", err
	}
	id := c.Param("id")
	if id == "" {
		v := pkgErrors.NewValidationError()
		v.Add("id", "is required")
		return "", "", v
	}
	return p, id, nil
}

func (h *handler) processListReq(c *gin.Context) (listReq, model.Window, error) {
	var req listReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, model.Window{}, err
	}
	if err := req.validate(); err != nil {
		return req, model.Window{}, err
	}
	w, err := h.processWindow(req.windowReq)
	return req, w, err
}

func (h *handler) processConflictsReq(c *gin.Context) (conflictsReq, model.Window, error) {
	var req conflictsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, model.Window{}, err
	}
	w, err := h.processWindow(req.windowReq)
	return req, w, err
}

func (h *handler) processFreeBusyReq(c *gin.Context) (freeBusyReq, model.Window, error) {
	var req freeBusyReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, model.Window{}, err
	}
	if err := req.validate(); err != nil {
		return req, model.Window{}, err
	}
	w, err := h.processWindow(req.windowReq)
	return req, w, err
}

func (h *handler) processRespondReq(c *gin.Context) (respondReq, error) {
	var req respondReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}

// processCreateReq binds the body and resolves start/end. Plain dates are
// read in the event's own time zone when one is given.
func (h *handler) processCreateReq(c *gin.Context) (createReq, model.Window, error) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, model.Window{}, err
	}
	if err := req.validate(); err != nil {
		return req, model.Window{}, err
	}

	dates := h.dates
	if req.TimeZone != "" {
		if p, err := datemath.NewParser(req.TimeZone); err == nil {
			dates = p
		}
	}

	v := pkgErrors.NewValidationError()
	now := h.now()
	start, err := dates.Parse(req.Start, now)
	if err != nil {
		v.Add("start", err.Error())
	}
	end, err := dates.Parse(req.End, now)
	if err != nil {
		v.Add("end", err.Error())
	}
	if err := v.Err(); err != nil {
		return req, model.Window{}, err
	}
	return req, model.Window{Start: start, End: end}, nil
}
