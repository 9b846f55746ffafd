package reservation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/avstrong/stayhub/internal/logger"
	"github.com/avstrong/stayhub/internal/pricing"
	"github.com/avstrong/stayhub/internal/reservation"
	"github.com/avstrong/stayhub/internal/session"
	"github.com/avstrong/stayhub/internal/storage/memory"
	"github.com/avstrong/stayhub/internal/validation"
)

var today = time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)

type clock struct{}

func (clock) Now() time.Time { return today }

type fakeBackend struct {
	mu             sync.Mutex
	createDelay    time.Duration
	accommodations map[int64]*reservation.Accommodation
	lookups        int
	created        []*reservation.Request
	emails         []string
	createErr      error
	listed         []reservation.ListQuery
	updates        map[int64]reservation.Status
}

func (b *fakeBackend) GetAccommodation(_ context.Context, id int64) (*reservation.Accommodation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lookups++

	acc, ok := b.accommodations[id]
	if !ok {
		return nil, errors.New("404 resource not found")
	}

	return acc, nil
}

func (b *fakeBackend) CreateReservation(
	_ context.Context,
	req *reservation.Request,
	email string,
) (*reservation.Reservation, error) {
	time.Sleep(b.createDelay)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.createErr != nil {
		return nil, b.createErr
	}

	b.created = append(b.created, req)
	b.emails = append(b.emails, email)

	return &reservation.Reservation{
		ID:              int64(len(b.created)),
		GuestID:         req.GuestID,
		AccommodationID: req.AccommodationID,
		CheckInDate:     req.CheckInDate,
		CheckOutDate:    req.CheckOutDate,
		NumberOfGuests:  req.NumberOfGuests,
		Status:          reservation.StatusPending,
	}, nil
}

func (b *fakeBackend) ListReservations(
	_ context.Context,
	q reservation.ListQuery,
	email string,
) (*reservation.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listed = append(b.listed, q)
	b.emails = append(b.emails, email)

	if q.Status == reservation.StatusCancelled {
		return &reservation.Page{Page: q.Page, Size: q.Size}, nil
	}

	return &reservation.Page{
		Content:       []reservation.Reservation{{ID: 3, Status: reservation.StatusPending}},
		Page:          q.Page,
		Size:          q.Size,
		TotalElements: 1,
	}, nil
}

func (b *fakeBackend) UpdateReservation(
	_ context.Context,
	id int64,
	upd *reservation.StatusUpdate,
	email string,
) (*reservation.Reservation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.updates == nil {
		b.updates = make(map[int64]reservation.Status)
	}

	b.updates[id] = upd.Status
	b.emails = append(b.emails, email)

	return &reservation.Reservation{ID: id, Status: upd.Status}, nil
}

func newManager(t *testing.T) (*reservation.Manager, *fakeBackend) {
	t.Helper()

	b := &fakeBackend{accommodations: map[int64]*reservation.Accommodation{
		12: {ID: 12, Title: "Cabaña en Guatapé", Capacity: 4, PricePerNight: 150000},
	}}

	l := logger.Discard()
	storage := memory.New(memory.Config{L: l, TTL: time.Hour})

	m := reservation.New(l, b, storage, reservation.Config{
		Currency:  currency.MustParseISO("COP"),
		Formatter: pricing.NewFormatter(language.MustParse("es-CO")),
		Clock:     clock{},
	})

	return m, b
}

func validForm() reservation.Form {
	return reservation.Form{
		CheckInDate:    "2025-11-20",
		CheckInTime:    "15:00",
		CheckOutDate:   "2025-11-23",
		CheckOutTime:   "15:00",
		NumberOfGuests: 2,
	}
}

func withSession(t *testing.T, ctx context.Context, claims jwt.MapClaims) context.Context {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	sess, err := session.Parse(token)
	require.NoError(t, err)

	return session.NewContext(ctx, sess)
}

func TestQuote(t *testing.T) {
	m, b := newManager(t)

	quote, err := m.Quote(context.Background(), 12, validForm())
	require.NoError(t, err)

	assert.Equal(t, 3, quote.Nights)
	assert.Equal(t, int64(150000), quote.NightlyRate.Amount)
	assert.Equal(t, int64(450000), quote.Total.Amount)
	assert.Equal(t, currency.MustParseISO("COP"), quote.Total.Currency)
	assert.Equal(t, "2025-11-20T15:00:00", quote.CheckInDate)
	assert.Equal(t, "2025-11-23T15:00:00", quote.CheckOutDate)
	assert.Contains(t, quote.TotalDisplay, "450")

	_, err = m.Quote(context.Background(), 12, validForm())
	require.NoError(t, err)
	assert.Equal(t, 1, b.lookups, "second quote must be served from cache")
}

func TestQuoteValidation(t *testing.T) {
	m, _ := newManager(t)

	form := validForm()
	form.NumberOfGuests = 5

	_, err := m.Quote(context.Background(), 12, form)

	inputErr := validation.IsInputError(err)
	require.NotNil(t, inputErr)
	assert.Equal(t, validation.Errors{
		reservation.FieldNumberOfGuests: "guests exceed accommodation capacity of 4",
	}, inputErr.Fields())
}

func TestQuoteRejectsPastCheckIn(t *testing.T) {
	m, _ := newManager(t)

	form := validForm()
	form.CheckInDate = "2025-10-31"

	_, err := m.Quote(context.Background(), 12, form)

	inputErr := validation.IsInputError(err)
	require.NotNil(t, inputErr)
	assert.Equal(t, "check-in date must not be in the past", inputErr.Fields()[reservation.FieldCheckInDate])
}

func TestQuoteUnknownAccommodation(t *testing.T) {
	m, _ := newManager(t)

	_, err := m.Quote(context.Background(), 99, validForm())
	require.Error(t, err)
	assert.Nil(t, validation.IsInputError(err))
}

func TestBounds(t *testing.T) {
	m, _ := newManager(t)

	bounds, err := m.Bounds("")
	require.NoError(t, err)
	assert.Equal(t, &reservation.Bounds{MinCheckInDate: "2025-11-01", MinCheckOutDate: "2025-11-02"}, bounds)

	bounds, err = m.Bounds("2025-11-20")
	require.NoError(t, err)
	assert.Equal(t, "2025-11-21", bounds.MinCheckOutDate)
}

func TestBook(t *testing.T) {
	m, b := newManager(t)

	ctx := reservation.NewContextWithIdempotencyKey(context.Background(), "booking-1")
	ctx = withSession(t, ctx, jwt.MapClaims{"sub": "42", "email": "ana@stayhub.co", "exp": today.Add(time.Hour).Unix()})

	res, err := m.Book(ctx, 12, validForm())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ID)

	require.Len(t, b.created, 1)
	assert.Equal(t, &reservation.Request{
		GuestID:         42,
		AccommodationID: 12,
		CheckInDate:     "2025-11-20T15:00:00",
		CheckOutDate:    "2025-11-23T15:00:00",
		NumberOfGuests:  2,
	}, b.created[0])
	assert.Equal(t, []string{"ana@stayhub.co"}, b.emails)

	again, err := m.Book(ctx, 12, validForm())
	require.NoError(t, err)
	assert.Equal(t, res.ID, again.ID)
	assert.Len(t, b.created, 1, "repeated idempotency key must not create a second reservation")
}

func TestBookConcurrentRetriesCreateOneReservation(t *testing.T) {
	m, b := newManager(t)
	b.createDelay = 50 * time.Millisecond

	ctx := reservation.NewContextWithIdempotencyKey(context.Background(), "booking-retry")
	ctx = withSession(t, ctx, jwt.MapClaims{"sub": "42", "email": "ana@stayhub.co", "exp": today.Add(time.Hour).Unix()})

	const retries = 5

	var (
		wg   sync.WaitGroup
		ids  = make([]int64, retries)
		errs = make([]error, retries)
	)

	for i := 0; i < retries; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			res, err := m.Book(ctx, 12, validForm())
			if err != nil {
				errs[i] = err

				return
			}

			ids[i] = res.ID
		}(i)
	}

	wg.Wait()

	for i := 0; i < retries; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, int64(1), ids[i])
	}

	assert.Len(t, b.created, 1)

	res, err := m.Book(ctx, 12, validForm())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ID)
	assert.Len(t, b.created, 1)
}

func TestBookErrors(t *testing.T) {
	m, b := newManager(t)

	valid := jwt.MapClaims{"sub": "42", "email": "ana@stayhub.co", "exp": today.Add(time.Hour).Unix()}
	keyed := reservation.NewContextWithIdempotencyKey(context.Background(), "booking-2")

	_, err := m.Book(keyed, 12, validForm())
	assert.ErrorIs(t, err, reservation.ErrSessionRequired)

	expired := jwt.MapClaims{"sub": "42", "exp": today.Add(-time.Hour).Unix()}
	_, err = m.Book(withSession(t, keyed, expired), 12, validForm())
	assert.ErrorIs(t, err, reservation.ErrSessionExpired)

	_, err = m.Book(withSession(t, context.Background(), valid), 12, validForm())
	assert.ErrorIs(t, err, reservation.ErrIdempotencyKey)

	form := validForm()
	form.CheckOutDate = form.CheckInDate
	_, err = m.Book(withSession(t, keyed, valid), 12, form)
	assert.NotNil(t, validation.IsInputError(err))

	b.createErr = errors.New("409 the selected dates are not available")
	_, err = m.Book(withSession(t, keyed, valid), 12, validForm())
	assert.ErrorIs(t, err, b.createErr)

	assert.Empty(t, b.created)
}

func TestMyReservations(t *testing.T) {
	m, b := newManager(t)

	ctx := withSession(t, context.Background(), jwt.MapClaims{"sub": "42", "email": "ana@stayhub.co", "exp": today.Add(time.Hour).Unix()})

	page, err := m.MyReservations(ctx, reservation.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Content, 1)
	assert.Equal(t, reservation.ListQuery{Size: reservation.DefaultPageSize}, b.listed[0])
	assert.Equal(t, []string{"ana@stayhub.co"}, b.emails)

	page, err = m.MyReservations(ctx, reservation.ListQuery{Status: reservation.StatusCancelled, Page: 2, Size: 5})
	require.NoError(t, err)
	assert.NotNil(t, page.Content)
	assert.Empty(t, page.Content)

	_, err = m.MyReservations(ctx, reservation.ListQuery{Status: "LOST", Page: -1, Size: 500})
	inputErr := validation.IsInputError(err)
	require.NotNil(t, inputErr)
	assert.Equal(t, validation.Errors{
		reservation.FieldStatus: "status must be PENDING, CONFIRMED or CANCELLED",
		reservation.FieldPage:   "page must not be negative",
		reservation.FieldSize:   "size must be between 1 and 100",
	}, inputErr.Fields())

	_, err = m.MyReservations(context.Background(), reservation.ListQuery{})
	assert.ErrorIs(t, err, reservation.ErrSessionRequired)
	assert.Len(t, b.listed, 2)
}

func TestUpdateStatus(t *testing.T) {
	m, b := newManager(t)

	ctx := withSession(t, context.Background(), jwt.MapClaims{"sub": "42", "email": "ana@stayhub.co", "exp": today.Add(time.Hour).Unix()})

	res, err := m.UpdateStatus(ctx, 3, reservation.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusCancelled, res.Status)
	assert.Equal(t, reservation.StatusCancelled, b.updates[3])

	_, err = m.UpdateStatus(ctx, 3, "cancelled")
	assert.NotNil(t, validation.IsInputError(err))

	_, err = m.UpdateStatus(context.Background(), 3, reservation.StatusConfirmed)
	assert.ErrorIs(t, err, reservation.ErrSessionRequired)
	assert.Len(t, b.updates, 1)
}
