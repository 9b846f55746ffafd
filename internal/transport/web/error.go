package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avstrong/stayhub/internal/reservation"
	"github.com/avstrong/stayhub/internal/session"
	"github.com/avstrong/stayhub/internal/stayhub"
	"github.com/avstrong/stayhub/internal/validation"
)

var (
	ErrPanic    = errors.New("panic recovered")
	ErrHostOnly = errors.New("only hosts can manage accommodations")
)

type errorResponse struct {
	Message string            `json:"message"`
	Fields  validation.Errors `json:"fields,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.l.LogErrorf("Could not encode response: %v", err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	if inputErr := validation.IsInputError(err); inputErr != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid form", Fields: inputErr.Fields()})

		return
	}

	if apiErr := stayhub.IsAPIError(err); apiErr != nil {
		s.writeJSON(w, apiErr.Status, errorResponse{Message: apiErr.Message})

		return
	}

	switch {
	case errors.Is(err, reservation.ErrSessionRequired),
		errors.Is(err, reservation.ErrSessionExpired),
		errors.Is(err, session.ErrMalformedToken),
		errors.Is(err, session.ErrNoUserID):
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Message: err.Error()})
	case errors.Is(err, ErrHostOnly):
		s.writeJSON(w, http.StatusForbidden, errorResponse{Message: err.Error()})
	case errors.Is(err, reservation.ErrIdempotencyKey),
		errors.Is(err, reservation.ErrMalformedTimestamp):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	default:
		s.l.LogErrorf("Request failed: %v", err.Error())
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Message: http.StatusText(http.StatusInternalServerError)})
	}
}
