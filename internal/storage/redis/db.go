package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/avstrong/stayhub/internal/logger"
	"github.com/avstrong/stayhub/internal/reservation"
)

const (
	accommodationPrefix = "stayhub:accommodation:"
	idempotencyPrefix   = "stayhub:reservation:idempotency:"
)

type Config struct {
	L        *logger.Logger
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	// IdempotencyTTL bounds how long a created reservation is replayed.
	IdempotencyTTL time.Duration
}

type DB struct {
	l              *logger.Logger
	client         goredis.UniversalClient
	ttl            time.Duration
	idempotencyTTL time.Duration
}

func New(ctx context.Context, conf Config) (*DB, error) {
	//nolint:exhaustruct
	client := goredis.NewClient(&goredis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis at %s: %w", conf.Addr, err)
	}

	return NewWithClient(conf, client), nil
}

func NewWithClient(conf Config, client goredis.UniversalClient) *DB {
	idempotencyTTL := conf.IdempotencyTTL
	if idempotencyTTL == 0 {
		idempotencyTTL = 24 * time.Hour //nolint:gomnd
	}

	return &DB{
		l:              conf.L,
		client:         client,
		ttl:            conf.TTL,
		idempotencyTTL: idempotencyTTL,
	}
}

func (db *DB) Close() error {
	//nolint:wrapcheck
	return db.client.Close()
}

func accommodationKey(id int64) string {
	return accommodationPrefix + strconv.FormatInt(id, 10)
}

func (db *DB) GetAccommodation(ctx context.Context, id int64) (*reservation.Accommodation, error) {
	var acc reservation.Accommodation

	if err := db.get(ctx, accommodationKey(id), &acc); err != nil {
		return nil, err
	}

	return &acc, nil
}

func (db *DB) SaveAccommodation(ctx context.Context, acc *reservation.Accommodation) error {
	return db.set(ctx, accommodationKey(acc.ID), acc, db.ttl, false)
}

func (db *DB) GetReservationByIdempotencyKey(ctx context.Context) (*reservation.Reservation, error) {
	key, ok := reservation.IdempotencyKeyFromContext(ctx)
	if !ok {
		return nil, reservation.ErrIdempotencyKey
	}

	var res reservation.Reservation

	if err := db.get(ctx, idempotencyPrefix+key, &res); err != nil {
		return nil, err
	}

	return &res, nil
}

func (db *DB) SaveReservation(ctx context.Context, res *reservation.Reservation) error {
	key, ok := reservation.IdempotencyKeyFromContext(ctx)
	if !ok {
		return reservation.ErrIdempotencyKey
	}

	return db.set(ctx, idempotencyPrefix+key, res, db.idempotencyTTL, true)
}

func (db *DB) get(ctx context.Context, key string, dst any) error {
	raw, err := db.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return reservation.ErrRecordNotFound
	}

	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}

	if err = json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}

	return nil
}

func (db *DB) set(ctx context.Context, key string, v any, ttl time.Duration, onlyIfAbsent bool) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if onlyIfAbsent {
		stored, err := db.client.SetNX(ctx, key, raw, ttl).Result()
		if err != nil {
			return fmt.Errorf("setnx %s: %w", key, err)
		}

		if !stored {
			db.l.LogWarnf("Key %s already stored, keeping the first value", key)
		}

		return nil
	}

	if err = db.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	return nil
}
