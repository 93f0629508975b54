package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// guestID binds the {guestID} path parameter.
func guestID(r *http.Request) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "guestID", chi.URLParam(r, "guestID"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	return id, err
}

// ListGuestPrices handles GET /guests/{guestID}/prices.
// The optional ?category= parameter restricts the rows to one category.
func (s *Server) ListGuestPrices(w http.ResponseWriter, r *http.Request) {
	id, err := guestID(r)
	if err != nil {
		paramError(w, err)
		return
	}
	var category *string
	if err := runtime.BindQueryParameter("form", true, false, "category", r.URL.Query(), &category); err != nil {
		paramError(w, err)
		return
	}
	var filter string
	if category != nil {
		filter = *category
	}

	prices, err := s.prices.List(r.Context(), id, filter)
	if err != nil {
		s.writeError(w, r, err, fmt.Sprintf("guest %d not found", id))
		return
	}
	writeJSON(w, http.StatusOK, GuestPriceList{Data: toGuestPrices(prices)})
}

// ListGuestOffers handles GET /guests/{guestID}/offers.
// It returns the guest's prices grouped by category.
func (s *Server) ListGuestOffers(w http.ResponseWriter, r *http.Request) {
	id, err := guestID(r)
	if err != nil {
		paramError(w, err)
		return
	}

	groups, err := s.prices.Offers(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, fmt.Sprintf("guest %d not found", id))
		return
	}
	writeJSON(w, http.StatusOK, GuestOffersList{Data: toCategoryOffers(groups)})
}
