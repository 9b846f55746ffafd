package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/avstrong/stayhub/internal/config"
	"github.com/avstrong/stayhub/internal/idgen/uuidgen"
	"github.com/avstrong/stayhub/internal/logger"
	"github.com/avstrong/stayhub/internal/pricing"
	"github.com/avstrong/stayhub/internal/reservation"
	"github.com/avstrong/stayhub/internal/stayhub"
	"github.com/avstrong/stayhub/internal/storage/memory"
	"github.com/avstrong/stayhub/internal/storage/redis"
	"github.com/avstrong/stayhub/internal/transport/web"
)

type storage interface {
	GetAccommodation(ctx context.Context, id int64) (*reservation.Accommodation, error)
	SaveAccommodation(ctx context.Context, acc *reservation.Accommodation) error
	GetReservationByIdempotencyKey(ctx context.Context) (*reservation.Reservation, error)
	SaveReservation(ctx context.Context, res *reservation.Reservation) error
}

func newStorage(ctx context.Context, l *logger.Logger, conf *config.Config) (storage, func(), error) {
	if conf.RedisAddr == "" {
		l.LogInfo("REDIS_ADDR not set, using in-memory storage")

		return memory.New(memory.Config{L: l, TTL: conf.CacheTTL, Now: time.Now}), func() {}, nil
	}

	//nolint:exhaustruct
	db, err := redis.New(ctx, redis.Config{
		L:        l,
		Addr:     conf.RedisAddr,
		Password: conf.RedisPassword,
		DB:       conf.RedisDB,
		TTL:      conf.CacheTTL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}

	l.LogInfo("Using redis storage at %v", conf.RedisAddr)

	return db, func() {
		if err := db.Close(); err != nil {
			l.LogErrorf("Failed to close redis: %v", err.Error())
		}
	}, nil
}

func Run(conf *config.Config, l *logger.Logger) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	defer cancel()

	store, closeStore, err := newStorage(ctx, l, conf)
	if err != nil {
		return err
	}
	defer closeStore()

	backend := stayhub.New(stayhub.Config{L: l, BaseURL: conf.BackendURL, Timeout: conf.BackendTimeout}, nil)

	reservationManager := reservation.New(l, backend, store, reservation.Config{
		Currency:  conf.Currency,
		Formatter: pricing.NewFormatter(conf.Locale),
		Clock:     reservation.RealClock{},
	})

	serverLogWriter := l.Writer()
	defer func() {
		if err := serverLogWriter.Close(); err != nil {
			l.LogErrorf("Failed to close server log writer: %v", err.Error())
		}
	}()

	webConf := web.Conf{
		L:                 l,
		ServerLogger:      log.New(serverLogWriter, "", 0),
		Host:              conf.Host,
		Port:              conf.Port,
		ReadHeaderTimeout: conf.ReadHeaderTimeout,
		LivenessEndpoint:  conf.LivenessEndpoint,
		RateLimit:         conf.RateLimit,
		Now:               time.Now,
	}

	srv, err := web.New(ctx, webConf, reservationManager, backend, backend, uuidgen.New())
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	//nolint:contextcheck
	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*4) //nolint:gomnd
		defer cancel()

		if err := srv.Srv().Shutdown(ctx); err != nil {
			l.LogErrorf("Failed to stop http server: %v", err.Error())
		}
	}()

	l.LogInfo("Application is running on %v:%v, backend %v", webConf.Host, webConf.Port, conf.BackendURL)

	if err := srv.Srv().ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		l.LogErrorf("Failed to run http server: %v", err.Error())

		cancel()
	}

	l.LogInfo("Application stopped gracefully")

	return nil
}
