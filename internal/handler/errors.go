package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/hotel-offers/internal/domain"
)

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// paramError answers 400 for a path or query parameter that failed to bind.
func paramError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorBody("invalid_parameter", err.Error()))
}

// writeError maps a service error to its HTTP response. notFound is the
// message used for domain.ErrNotFound, since the handler knows what was
// being looked up.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if notFound == "" {
			notFound = domain.ErrNotFound.Error()
		}
		writeJSON(w, http.StatusNotFound, errorBody("not_found", notFound))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", unwrapMessage(err, domain.ErrValidation)))
	case errors.Is(err, domain.ErrRunInProgress):
		writeJSON(w, http.StatusConflict, errorBody("run_in_progress", domain.ErrRunInProgress.Error()))
	default:
		s.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

// unwrapMessage extracts the human-readable part after a wrapped sentinel,
// e.g. "service.X.Y: validation error: bad period" → "bad period".
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}
