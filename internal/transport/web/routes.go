package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avstrong/stayhub/internal/account"
	"github.com/avstrong/stayhub/internal/listing"
	"github.com/avstrong/stayhub/internal/reservation"
	"github.com/avstrong/stayhub/internal/session"
	"github.com/avstrong/stayhub/internal/stayhub"
	"github.com/avstrong/stayhub/internal/validation"
)

const resetRequestedMessage = "if the email is registered you will receive a reset code"

type reservationRequest struct {
	AccommodationID int64 `json:"accommodationId"`
	reservation.Form
}

type statusRequest struct {
	Status reservation.Status `json:"status"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Name      string    `json:"name,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Message: http.StatusText(http.StatusBadRequest)})

		return false
	}

	return true
}

func (s *Server) quoteHandler(w http.ResponseWriter, r *http.Request) {
	var in reservationRequest

	if !s.decode(w, r, &in) {
		return
	}

	quote, err := s.rManager.Quote(r.Context(), in.AccommodationID, in.Form)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, quote)
}

func (s *Server) boundsHandler(w http.ResponseWriter, r *http.Request) {
	bounds, err := s.rManager.Bounds(r.URL.Query().Get("checkInDate"))
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, bounds)
}

func (s *Server) createReservationHandler(w http.ResponseWriter, r *http.Request) {
	idempotencyKey := r.Header.Get("Idempotency-Key")
	if idempotencyKey == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Idempotency-Key header is missing"})

		return
	}

	var in reservationRequest

	if !s.decode(w, r, &in) {
		return
	}

	ctx := reservation.NewContextWithIdempotencyKey(r.Context(), idempotencyKey)

	res, err := s.rManager.Book(ctx, in.AccommodationID, in.Form)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, res)
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var form account.LoginForm

	if !s.decode(w, r, &form) {
		return
	}

	if err := form.Validate().Err(); err != nil {
		s.writeError(w, err)

		return
	}

	out, err := s.accounts.Login(r.Context(), form)
	if err != nil {
		s.writeError(w, err)

		return
	}

	sess, err := session.Parse(out.Token)
	if err != nil {
		s.writeError(w, fmt.Errorf("backend issued token: %w", err))

		return
	}

	s.writeJSON(w, http.StatusOK, loginResponse{
		Token:     sess.Token,
		UserID:    sess.UserID,
		Email:     sess.Email,
		Role:      sess.Role,
		Name:      sess.Name,
		ExpiresAt: sess.ExpiresAt,
	})
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var form account.RegisterForm

	if !s.decode(w, r, &form) {
		return
	}

	if err := form.Validate(s.conf.Now()).Err(); err != nil {
		s.writeError(w, err)

		return
	}

	user, err := s.accounts.Register(r.Context(), form.Registration())
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, user)
}

func (s *Server) forgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var form account.ForgotPasswordForm

	if !s.decode(w, r, &form) {
		return
	}

	if err := form.Validate().Err(); err != nil {
		s.writeError(w, err)

		return
	}

	if err := s.accounts.RequestPasswordReset(r.Context(), form); err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusAccepted, stayhub.MessageResponse{Message: resetRequestedMessage})
}

func (s *Server) resetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var form account.ResetPasswordForm

	if !s.decode(w, r, &form) {
		return
	}

	if err := form.Validate().Err(); err != nil {
		s.writeError(w, err)

		return
	}

	out, err := s.accounts.ResetPassword(r.Context(), form.PasswordReset())
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, out)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		errs := validation.New()
		errs.Add("id", "id must be a positive number")

		return 0, errs.Err()
	}

	return id, nil
}

func queryInt(errs validation.Errors, r *http.Request, field string) int {
	raw := r.URL.Query().Get(field)
	if raw == "" {
		return 0
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(field, field+" must be a number")
	}

	return v
}

func (s *Server) listReservationsHandler(w http.ResponseWriter, r *http.Request) {
	errs := validation.New()

	q := reservation.ListQuery{
		Status: reservation.Status(strings.ToUpper(r.URL.Query().Get("status"))),
		Page:   queryInt(errs, r, reservation.FieldPage),
		Size:   queryInt(errs, r, reservation.FieldSize),
	}

	if err := errs.Err(); err != nil {
		s.writeError(w, err)

		return
	}

	page, err := s.rManager.MyReservations(r.Context(), q)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, page)
}

func (s *Server) updateReservationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)

		return
	}

	var in statusRequest

	if !s.decode(w, r, &in) {
		return
	}

	res, err := s.rManager.UpdateStatus(r.Context(), id, in.Status)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, res)
}

// host returns the session of a HOST user. Backends built on Spring prefix
// roles with ROLE_.
func host(ctx context.Context) (*session.Session, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, reservation.ErrSessionRequired
	}

	if account.Role(strings.TrimPrefix(sess.Role, "ROLE_")) != account.RoleHost {
		return nil, ErrHostOnly
	}

	return sess, nil
}

// decodeListing reads and validates the accommodation form of a host.
func (s *Server) decodeListing(w http.ResponseWriter, r *http.Request) (*session.Session, *listing.Form, bool) {
	sess, err := host(r.Context())
	if err != nil {
		s.writeError(w, err)

		return nil, nil, false
	}

	var form listing.Form

	if !s.decode(w, r, &form) {
		return nil, nil, false
	}

	if err = form.Validate().Err(); err != nil {
		s.writeError(w, err)

		return nil, nil, false
	}

	return sess, &form, true
}

func (s *Server) createAccommodationHandler(w http.ResponseWriter, r *http.Request) {
	sess, form, ok := s.decodeListing(w, r)
	if !ok {
		return
	}

	acc, err := s.listings.CreateAccommodation(r.Context(), form, sess.Email)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, acc)
}

func (s *Server) updateAccommodationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)

		return
	}

	sess, form, ok := s.decodeListing(w, r)
	if !ok {
		return
	}

	acc, err := s.listings.UpdateAccommodation(r.Context(), id, form, sess.Email)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, acc)
}

func (s *Server) livenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addRoutes(r *http.ServeMux) {
	common := func(h http.HandlerFunc, extra ...func(http.Handler) http.Handler) http.Handler {
		middlewares := make([]func(http.Handler) http.Handler, 0, len(extra)+2) //nolint:gomnd
		middlewares = append(middlewares, extra...)
		middlewares = append(middlewares, s.loggerMiddleware(), s.recoverMiddleware())

		return s.applyMiddlewares(h, middlewares...)
	}

	r.Handle("POST /api/reservations/v1/quote", common(s.quoteHandler, s.rateLimitMiddleware()))
	r.Handle("GET /api/reservations/v1/window", common(s.boundsHandler))
	r.Handle("POST /api/reservations/v1", common(s.createReservationHandler, s.authMiddleware(), s.rateLimitMiddleware()))
	r.Handle("GET /api/reservations/v1", common(s.listReservationsHandler, s.authMiddleware()))
	r.Handle("PUT /api/reservations/v1/{id}", common(s.updateReservationHandler, s.authMiddleware()))
	r.Handle("POST /api/accommodations/v1", common(s.createAccommodationHandler, s.authMiddleware(), s.rateLimitMiddleware()))
	r.Handle("PUT /api/accommodations/v1/{id}", common(s.updateAccommodationHandler, s.authMiddleware(), s.rateLimitMiddleware()))
	r.Handle("POST /api/auth/v1/login", common(s.loginHandler, s.rateLimitMiddleware()))
	r.Handle("POST /api/auth/v1/password-reset/request", common(s.forgotPasswordHandler, s.rateLimitMiddleware()))
	r.Handle("POST /api/auth/v1/password-reset", common(s.resetPasswordHandler, s.rateLimitMiddleware()))
	r.Handle("POST /api/users/v1", common(s.registerHandler, s.rateLimitMiddleware()))
	r.Handle(fmt.Sprintf("GET %s", s.conf.LivenessEndpoint), common(s.livenessHandler))
}
