package reservation

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/currency"

	"github.com/avstrong/stayhub/internal/logger"
	"github.com/avstrong/stayhub/internal/pricing"
	"github.com/avstrong/stayhub/internal/session"
)

type backend interface {
	GetAccommodation(ctx context.Context, id int64) (*Accommodation, error)
	CreateReservation(ctx context.Context, req *Request, email string) (*Reservation, error)
	ListReservations(ctx context.Context, q ListQuery, email string) (*Page, error)
	UpdateReservation(ctx context.Context, id int64, upd *StatusUpdate, email string) (*Reservation, error)
}

type storageReader interface {
	GetAccommodation(ctx context.Context, id int64) (*Accommodation, error)
	GetReservationByIdempotencyKey(ctx context.Context) (*Reservation, error)
}

type storageWriter interface {
	SaveAccommodation(ctx context.Context, acc *Accommodation) error
	SaveReservation(ctx context.Context, res *Reservation) error
}

type storage interface {
	storageReader
	storageWriter
}

type Config struct {
	Currency  currency.Unit
	Formatter *pricing.Formatter
	Clock     Clock
}

type Manager struct {
	l         *logger.Logger
	backend   backend
	storage   storage
	currency  currency.Unit
	formatter *pricing.Formatter
	clock     Clock
	// inflight joins concurrent bookings that carry the same idempotency key.
	inflight singleflight.Group
}

func New(l *logger.Logger, backend backend, storage storage, conf Config) *Manager {
	clock := conf.Clock
	if clock == nil {
		clock = RealClock{}
	}

	//nolint:exhaustruct
	return &Manager{
		l:         l,
		backend:   backend,
		storage:   storage,
		currency:  conf.Currency,
		formatter: conf.Formatter,
		clock:     clock,
	}
}

type Bounds struct {
	MinCheckInDate  string `json:"minCheckInDate"`
	MinCheckOutDate string `json:"minCheckOutDate"`
}

// Bounds gives the earliest dates the form accepts.
func (m *Manager) Bounds(checkInDate string) (*Bounds, error) {
	minCheckOut, err := MinCheckOutDate(m.clock, checkInDate)
	if err != nil {
		return nil, err
	}

	return &Bounds{
		MinCheckInDate:  MinCheckInDate(m.clock),
		MinCheckOutDate: minCheckOut,
	}, nil
}

func (m *Manager) accommodation(ctx context.Context, id int64) (*Accommodation, error) {
	acc, err := m.storage.GetAccommodation(ctx, id)
	if err == nil {
		return acc, nil
	}

	if !errors.Is(err, ErrRecordNotFound) {
		m.l.LogWarnf("Could not read accommodation %d from cache: %v", id, err.Error())
	}

	acc, err = m.backend.GetAccommodation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get accommodation from backend: %w", err)
	}

	if err = m.storage.SaveAccommodation(ctx, acc); err != nil {
		m.l.LogWarnf("Could not cache accommodation %d: %v", id, err.Error())
	}

	return acc, nil
}

func (m *Manager) validate(form Form, acc *Accommodation) (Window, error) {
	errs := form.Validate(acc.Capacity)

	if !errs.Has(FieldCheckInDate) && form.CheckInDate < MinCheckInDate(m.clock) {
		errs.Add(FieldCheckInDate, "check-in date must not be in the past")
	}

	if err := errs.Err(); err != nil {
		return Window{}, err
	}

	window, err := NewWindow(form)
	if err != nil {
		return Window{}, fmt.Errorf("build window: %w", err)
	}

	return window, nil
}

func (m *Manager) Quote(ctx context.Context, accommodationID int64, form Form) (*Quote, error) {
	acc, err := m.accommodation(ctx, accommodationID)
	if err != nil {
		return nil, err
	}

	window, err := m.validate(form, acc)
	if err != nil {
		return nil, err
	}

	nights, err := window.Nights()
	if err != nil {
		return nil, fmt.Errorf("count nights: %w", err)
	}

	rate := pricing.FromFloat(acc.PricePerNight, m.currency)
	total := pricing.TotalPrice(rate, nights)

	quote := &Quote{
		AccommodationID: acc.ID,
		CheckInDate:     window.CheckInTimestamp(),
		CheckOutDate:    window.CheckOutTimestamp(),
		NumberOfGuests:  form.NumberOfGuests,
		Nights:          nights,
		NightlyRate:     rate,
		Total:           total,
	}

	if m.formatter != nil {
		quote.TotalDisplay = m.formatter.Format(total)
	}

	return quote, nil
}

func (m *Manager) currentSession(ctx context.Context) (*session.Session, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, ErrSessionRequired
	}

	if sess.Expired(m.clock.Now()) {
		return nil, ErrSessionExpired
	}

	return sess, nil
}

// Book submits the reservation on behalf of the session in ctx. A repeated
// idempotency key returns the reservation created the first time, and
// concurrent calls with the same key share a single backend request.
func (m *Manager) Book(ctx context.Context, accommodationID int64, form Form) (*Reservation, error) {
	sess, err := m.currentSession(ctx)
	if err != nil {
		return nil, err
	}

	key, ok := IdempotencyKeyFromContext(ctx)
	if !ok {
		return nil, ErrIdempotencyKey
	}

	v, err, shared := m.inflight.Do(key, func() (any, error) {
		return m.book(ctx, sess, accommodationID, form)
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if shared {
		m.l.LogInfo("Booking with idempotency key %s joined an in-flight request", key)
	}

	return v.(*Reservation), nil //nolint:forcetypeassert
}

func (m *Manager) book(
	ctx context.Context,
	sess *session.Session,
	accommodationID int64,
	form Form,
) (*Reservation, error) {
	res, err := m.storage.GetReservationByIdempotencyKey(ctx)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return nil, fmt.Errorf("get reservation by idempotency key: %w", err)
	}

	if err == nil {
		return res, nil
	}

	guestID, err := sess.GuestID()
	if err != nil {
		return nil, fmt.Errorf("guest id from session: %w", err)
	}

	acc, err := m.accommodation(ctx, accommodationID)
	if err != nil {
		return nil, err
	}

	window, err := m.validate(form, acc)
	if err != nil {
		return nil, err
	}

	req := &Request{
		GuestID:         guestID,
		AccommodationID: acc.ID,
		CheckInDate:     window.CheckInTimestamp(),
		CheckOutDate:    window.CheckOutTimestamp(),
		NumberOfGuests:  form.NumberOfGuests,
	}

	res, err = m.backend.CreateReservation(ctx, req, sess.Email)
	if err != nil {
		return nil, fmt.Errorf("create reservation in backend: %w", err)
	}

	if err = m.storage.SaveReservation(ctx, res); err != nil {
		m.l.LogErrorf("Could not remember reservation %d for its idempotency key: %v", res.ID, err.Error())
	}

	m.l.LogInfo("Reservation %d created for guest %d in accommodation %d", res.ID, guestID, acc.ID)

	return res, nil
}
