package web

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/ulule/limiter/v3"
	"go.opentelemetry.io/otel/propagation"
	mstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/avstrong/stayhub/internal/account"
	"github.com/avstrong/stayhub/internal/listing"
	"github.com/avstrong/stayhub/internal/logger"
	"github.com/avstrong/stayhub/internal/reservation"
	"github.com/avstrong/stayhub/internal/stayhub"
)

type accountBackend interface {
	Login(ctx context.Context, form account.LoginForm) (*stayhub.LoginResponse, error)
	Register(ctx context.Context, reg *account.Registration) (*account.User, error)
	RequestPasswordReset(ctx context.Context, form account.ForgotPasswordForm) error
	ResetPassword(ctx context.Context, reset *account.PasswordReset) (*stayhub.MessageResponse, error)
}

type listingBackend interface {
	CreateAccommodation(ctx context.Context, form *listing.Form, username string) (*reservation.Accommodation, error)
	UpdateAccommodation(
		ctx context.Context,
		id int64,
		form *listing.Form,
		username string,
	) (*reservation.Accommodation, error)
}

type idGenerator interface {
	NewID() string
}

type Server struct {
	srv        *http.Server
	router     *http.ServeMux
	l          *logger.Logger
	conf       Conf
	rManager   *reservation.Manager
	accounts   accountBackend
	listings   listingBackend
	ids        idGenerator
	rateLimit  *mstdlib.Middleware
	propagator propagation.TextMapPropagator
}

type Conf struct {
	L                 *logger.Logger
	ServerLogger      *log.Logger
	Host              string
	Port              string
	ReadHeaderTimeout time.Duration
	LivenessEndpoint  string
	// RateLimit is applied per client IP to the form endpoints, e.g. "60-M".
	RateLimit string
	Now       func() time.Time
}

func New(
	ctx context.Context,
	conf Conf,
	reservationManager *reservation.Manager,
	accounts accountBackend,
	listings listingBackend,
	ids idGenerator,
) (*Server, error) {
	rate, err := limiter.NewRateFromFormatted(conf.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("parse rate limit %q: %w", conf.RateLimit, err)
	}

	if conf.Now == nil {
		conf.Now = time.Now
	}

	mux := http.NewServeMux()

	//nolint:exhaustruct
	srv := &http.Server{
		Addr:              net.JoinHostPort(conf.Host, conf.Port),
		ReadHeaderTimeout: conf.ReadHeaderTimeout,
		ErrorLog:          conf.ServerLogger,
		Handler:           mux,
		BaseContext: func(listener net.Listener) context.Context {
			return ctx
		},
	}

	server := &Server{
		srv:        srv,
		router:     mux,
		l:          conf.L,
		conf:       conf,
		rManager:   reservationManager,
		accounts:   accounts,
		listings:   listings,
		ids:        ids,
		rateLimit:  mstdlib.NewMiddleware(limiter.New(limitermemory.NewStore(), rate)),
		propagator: propagation.TraceContext{},
	}

	server.addRoutes(mux)

	return server, nil
}

func (s *Server) Srv() *http.Server {
	return s.srv
}
