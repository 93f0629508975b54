package handler

import (
	"context"
	"net/http"

	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/hotel-offers/internal/domain"
)

// StartRun handles POST /runs.
// It prices every guest synchronously and returns the run summary. The
// optional ?today=YYYY-MM-DD query parameter overrides the current date.
func (s *Server) StartRun(w http.ResponseWriter, r *http.Request) {
	var today *openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, false, "today", r.URL.Query(), &today); err != nil {
		paramError(w, err)
		return
	}

	day := s.now().In(s.loc)
	if today != nil {
		day = today.Time
	}

	// A client that hangs up must not abort a run half way through the guests.
	ctx := context.WithoutCancel(r.Context())
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	summary, err := s.runs.Run(ctx, day)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, toRunSummary(summary))
}

// ListRunEvents handles GET /runs/events.
// It returns a page of the event log, newest first.
func (s *Server) ListRunEvents(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		paramError(w, err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		paramError(w, err)
		return
	}

	p := domain.NewPaginationParams(page, limit)
	events, total, err := s.events.List(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, EventList{
		Data:       toEvents(events),
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: total},
	})
}
