package stayhub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/propagation"

	"github.com/avstrong/stayhub/internal/account"
	"github.com/avstrong/stayhub/internal/listing"
	"github.com/avstrong/stayhub/internal/logger"
	"github.com/avstrong/stayhub/internal/reservation"
)

const (
	userEmailHeader = "X-User-Email"
	usernameHeader  = "X-Username"
	maxErrorBody    = 4 << 10
)

type Config struct {
	L       *logger.Logger
	BaseURL string
	Timeout time.Duration
}

// Client talks to the StayHub REST backend.
type Client struct {
	l       *logger.Logger
	baseURL string
	http    *http.Client
}

func New(conf Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		//nolint:exhaustruct
		httpClient = &http.Client{Timeout: conf.Timeout}
	}

	return &Client{
		l:       conf.L,
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		http:    httpClient,
	}
}

type LoginResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type call struct {
	method string
	path   string
	query  url.Values
	header http.Header
	in     any
	out    any
}

// asGuest and asHost name the caller to the backend: reservation endpoints
// read the guest's email, accommodation endpoints read the host's username.
func asGuest(email string) http.Header {
	return http.Header{userEmailHeader: []string{email}}
}

func asHost(username string) http.Header {
	return http.Header{usernameHeader: []string{username}}
}

func (c *Client) GetAccommodation(ctx context.Context, id int64) (*reservation.Accommodation, error) {
	var acc reservation.Accommodation

	if err := c.do(ctx, call{method: http.MethodGet, path: "/accommodations/" + strconv.FormatInt(id, 10), out: &acc}); err != nil {
		return nil, fmt.Errorf("get accommodation %d: %w", id, err)
	}

	return &acc, nil
}

func (c *Client) CreateAccommodation(
	ctx context.Context,
	form *listing.Form,
	username string,
) (*reservation.Accommodation, error) {
	var acc reservation.Accommodation

	if err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/accommodations",
		header: asHost(username),
		in:     form,
		out:    &acc,
	}); err != nil {
		return nil, fmt.Errorf("create accommodation %q: %w", form.Title, err)
	}

	return &acc, nil
}

func (c *Client) UpdateAccommodation(
	ctx context.Context,
	id int64,
	form *listing.Form,
	username string,
) (*reservation.Accommodation, error) {
	var acc reservation.Accommodation

	if err := c.do(ctx, call{
		method: http.MethodPut,
		path:   "/accommodations/" + strconv.FormatInt(id, 10),
		header: asHost(username),
		in:     form,
		out:    &acc,
	}); err != nil {
		return nil, fmt.Errorf("update accommodation %d: %w", id, err)
	}

	return &acc, nil
}

func (c *Client) CreateReservation(
	ctx context.Context,
	req *reservation.Request,
	email string,
) (*reservation.Reservation, error) {
	var res reservation.Reservation

	if err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/reservations",
		header: asGuest(email),
		in:     req,
		out:    &res,
	}); err != nil {
		return nil, fmt.Errorf("create reservation for accommodation %d: %w", req.AccommodationID, err)
	}

	return &res, nil
}

func (c *Client) GetReservation(ctx context.Context, id int64, email string) (*reservation.Reservation, error) {
	var res reservation.Reservation

	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/reservations/" + strconv.FormatInt(id, 10),
		header: asGuest(email),
		out:    &res,
	}); err != nil {
		return nil, fmt.Errorf("get reservation %d: %w", id, err)
	}

	return &res, nil
}

// ListReservations pages through the guest's reservations. The backend
// answers 204 when there are none.
func (c *Client) ListReservations(
	ctx context.Context,
	q reservation.ListQuery,
	email string,
) (*reservation.Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("size", strconv.Itoa(q.Size))

	if q.Status != "" {
		query.Set("status", string(q.Status))
	}

	page := reservation.Page{Page: q.Page, Size: q.Size}

	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/reservations",
		query:  query,
		header: asGuest(email),
		out:    &page,
	}); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	return &page, nil
}

func (c *Client) UpdateReservation(
	ctx context.Context,
	id int64,
	upd *reservation.StatusUpdate,
	email string,
) (*reservation.Reservation, error) {
	var res reservation.Reservation

	if err := c.do(ctx, call{
		method: http.MethodPut,
		path:   "/reservations/" + strconv.FormatInt(id, 10),
		header: asGuest(email),
		in:     upd,
		out:    &res,
	}); err != nil {
		return nil, fmt.Errorf("update reservation %d: %w", id, err)
	}

	return &res, nil
}

func (c *Client) CancelReservation(ctx context.Context, id int64, email string) error {
	if err := c.do(ctx, call{
		method: http.MethodDelete,
		path:   "/reservations/" + strconv.FormatInt(id, 10),
		header: asGuest(email),
	}); err != nil {
		return fmt.Errorf("cancel reservation %d: %w", id, err)
	}

	return nil
}

func (c *Client) Login(ctx context.Context, form account.LoginForm) (*LoginResponse, error) {
	var out LoginResponse

	if err := c.do(ctx, call{method: http.MethodPost, path: "/users/login", in: form, out: &out}); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return &out, nil
}

func (c *Client) Register(ctx context.Context, reg *account.Registration) (*account.User, error) {
	var user account.User

	if err := c.do(ctx, call{method: http.MethodPost, path: "/users/register", in: reg, out: &user}); err != nil {
		return nil, fmt.Errorf("register %s: %w", reg.Email, err)
	}

	return &user, nil
}

// RequestPasswordReset asks the backend to mail a reset code.
func (c *Client) RequestPasswordReset(ctx context.Context, form account.ForgotPasswordForm) error {
	if err := c.do(ctx, call{method: http.MethodPost, path: "/users/request-password-reset", in: form}); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}

	return nil
}

func (c *Client) ResetPassword(ctx context.Context, reset *account.PasswordReset) (*MessageResponse, error) {
	var out MessageResponse

	if err := c.do(ctx, call{method: http.MethodPost, path: "/users/reset-password", in: reset, out: &out}); err != nil {
		return nil, fmt.Errorf("reset password: %w", err)
	}

	return &out, nil
}

func (c *Client) do(ctx context.Context, cl call) error {
	var body io.Reader

	if cl.in != nil {
		raw, err := json.Marshal(cl.in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}

		body = bytes.NewReader(raw)
	}

	endpoint, err := url.JoinPath(c.baseURL, cl.path)
	if err != nil {
		return fmt.Errorf("build url: %w", err)
	}

	if len(cl.query) > 0 {
		endpoint += "?" + cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	for k, v := range cl.header {
		if len(v) > 0 && v[0] != "" {
			req.Header.Set(k, v[0])
		}
	}

	req.Header.Set("Accept", "application/json")

	if cl.in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	propagation.TraceContext{}.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", cl.method, cl.path, err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.l.LogErrorf("Could not close response body of %s %s: %v", cl.method, cl.path, err.Error())
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var eb errorBody

		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &eb)
		}

		return newAPIError(resp.StatusCode, eb.Message)
	}

	if cl.out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", cl.method, cl.path, err)
	}

	return nil
}
