package reservation

import (
	"context"
	"fmt"

	"github.com/avstrong/stayhub/internal/validation"
)

const (
	FieldStatus = "status"
	FieldPage   = "page"
	FieldSize   = "size"

	DefaultPageSize = 10
	MaxPageSize     = 100
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

// ListQuery filters the reservations of the session's user. An empty
// Status lists every reservation.
type ListQuery struct {
	Status Status
	Page   int
	Size   int
}

func (q ListQuery) Validate() validation.Errors {
	errs := validation.New()

	if q.Status != "" && !q.Status.Valid() {
		errs.Add(FieldStatus, "status must be PENDING, CONFIRMED or CANCELLED")
	}

	if q.Page < 0 {
		errs.Add(FieldPage, "page must not be negative")
	}

	if q.Size < 1 || q.Size > MaxPageSize {
		errs.Add(FieldSize, fmt.Sprintf("size must be between 1 and %d", MaxPageSize))
	}

	return errs
}

type Page struct {
	Content       []Reservation `json:"content"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	TotalElements int64         `json:"totalElements"`
}

// StatusUpdate is the payload of the backend's update endpoint.
type StatusUpdate struct {
	Status Status `json:"status"`
}

// MyReservations pages through the reservations of the session in ctx. A zero
// size asks for DefaultPageSize.
func (m *Manager) MyReservations(ctx context.Context, q ListQuery) (*Page, error) {
	sess, err := m.currentSession(ctx)
	if err != nil {
		return nil, err
	}

	if q.Size == 0 {
		q.Size = DefaultPageSize
	}

	if err = q.Validate().Err(); err != nil {
		return nil, err
	}

	page, err := m.backend.ListReservations(ctx, q, sess.Email)
	if err != nil {
		return nil, fmt.Errorf("list reservations in backend: %w", err)
	}

	if page.Content == nil {
		page.Content = []Reservation{}
	}

	return page, nil
}

// UpdateStatus moves a reservation of the session's user to status. The
// backend decides which transitions the user may make.
func (m *Manager) UpdateStatus(ctx context.Context, id int64, status Status) (*Reservation, error) {
	sess, err := m.currentSession(ctx)
	if err != nil {
		return nil, err
	}

	if !status.Valid() {
		errs := validation.New()
		errs.Add(FieldStatus, "status must be PENDING, CONFIRMED or CANCELLED")

		return nil, errs.Err()
	}

	res, err := m.backend.UpdateReservation(ctx, id, &StatusUpdate{Status: status}, sess.Email)
	if err != nil {
		return nil, fmt.Errorf("update reservation %d in backend: %w", id, err)
	}

	m.l.LogInfo("Reservation %d moved to %s by %s", res.ID, res.Status, sess.Email)

	return res, nil
}
