package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avstrong/stayhub/internal/logger"
	"github.com/avstrong/stayhub/internal/reservation"
)

type Config struct {
	L   *logger.Logger
	TTL time.Duration
	Now func() time.Time
}

type cachedAccommodation struct {
	accommodation reservation.Accommodation
	expiresAt     time.Time
}

// DB keeps accommodation lookups for TTL and the reservations created per
// idempotency key for the life of the process.
type DB struct {
	mu                         sync.Mutex
	l                          *logger.Logger
	ttl                        time.Duration
	now                        func() time.Time
	accommodations             map[int64]cachedAccommodation
	reservationIdempotencyKeys map[string]reservation.Reservation
}

func New(conf Config) *DB {
	now := conf.Now
	if now == nil {
		now = time.Now
	}

	//nolint:exhaustruct
	return &DB{
		l:                          conf.L,
		ttl:                        conf.TTL,
		now:                        now,
		accommodations:             make(map[int64]cachedAccommodation),
		reservationIdempotencyKeys: make(map[string]reservation.Reservation),
	}
}

func (db *DB) GetAccommodation(_ context.Context, id int64) (*reservation.Accommodation, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	cached, ok := db.accommodations[id]
	if !ok {
		return nil, reservation.ErrRecordNotFound
	}

	if db.ttl > 0 && !db.now().Before(cached.expiresAt) {
		delete(db.accommodations, id)

		return nil, reservation.ErrRecordNotFound
	}

	acc := cached.accommodation

	return &acc, nil
}

func (db *DB) SaveAccommodation(_ context.Context, acc *reservation.Accommodation) error {
	if acc == nil {
		return fmt.Errorf("save accommodation: %w", ErrNilRecord)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	db.accommodations[acc.ID] = cachedAccommodation{
		accommodation: *acc,
		expiresAt:     db.now().Add(db.ttl),
	}

	return nil
}

func (db *DB) GetReservationByIdempotencyKey(ctx context.Context) (*reservation.Reservation, error) {
	key, ok := reservation.IdempotencyKeyFromContext(ctx)
	if !ok {
		return nil, reservation.ErrIdempotencyKey
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	res, exists := db.reservationIdempotencyKeys[key]
	if !exists {
		return nil, reservation.ErrRecordNotFound
	}

	return &res, nil
}

func (db *DB) SaveReservation(ctx context.Context, res *reservation.Reservation) error {
	if res == nil {
		return fmt.Errorf("save reservation: %w", ErrNilRecord)
	}

	key, ok := reservation.IdempotencyKeyFromContext(ctx)
	if !ok {
		return reservation.ErrIdempotencyKey
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.reservationIdempotencyKeys[key]; exists {
		db.l.LogWarnf("Reservation for idempotency key %s already stored, keeping the first one", key)

		return nil
	}

	db.reservationIdempotencyKeys[key] = *res

	return nil
}
