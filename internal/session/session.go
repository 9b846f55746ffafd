package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken = errors.New("malformed session token")
	ErrNoUserID       = errors.New("token carries no numeric user id")
)

// Session is the authenticated user as seen through the bearer token the
// backend issued at login. Signatures are checked by the backend, so the
// token is only decoded here.
type Session struct {
	Token     string
	UserID    string
	Email     string
	Role      string
	Name      string
	ExpiresAt time.Time
}

var parser = jwt.NewParser()

func Parse(token string) (*Session, error) {
	claims := jwt.MapClaims{}

	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	s := &Session{
		Token:  token,
		UserID: firstString(claims, "userId", "sub", "id", "user_id"),
		Email:  firstString(claims, "email", "username"),
		Role:   firstString(claims, "role", "authorities"),
		Name:   firstString(claims, "name"),
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time
	}

	return s, nil
}

// Expired treats a token without an expiry as already expired.
func (s *Session) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return true
	}

	return !now.Before(s.ExpiresAt)
}

// GuestID is the numeric user id reservation requests carry.
func (s *Session) GuestID() (int64, error) {
	if s.UserID == "" {
		return 0, ErrNoUserID
	}

	id, err := strconv.ParseInt(s.UserID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: user id %q is not numeric", ErrNoUserID, s.UserID)
	}

	return id, nil
}

func firstString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case []any:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok {
					return s
				}
			}
		}
	}

	return ""
}
