// Package session keeps per-browser state in redis, addressed by the sessionid cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	CookieName = "sessionid"
	contextKey = "session_id"

	OrderIDKey = "order_id"
)

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func (s *Store) Set(ctx context.Context, sessionID, field, value string) error {
	k := s.key(sessionID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, k, field, value)
	pipe.Expire(ctx, k, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Get returns "" when the field is not set.
func (s *Store) Get(ctx context.Context, sessionID, field string) (string, error) {
	v, err := s.client.HGet(ctx, s.key(sessionID), field).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (s *Store) SetOrderID(ctx context.Context, sessionID string, orderID uint) error {
	return s.Set(ctx, sessionID, OrderIDKey, strconv.FormatUint(uint64(orderID), 10))
}

func (s *Store) OrderID(ctx context.Context, sessionID string) (uint, bool, error) {
	v, err := s.Get(ctx, sessionID, OrderIDKey)
	if err != nil || v == "" {
		return 0, false, err
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("session %s: bad %s %q: %w", sessionID, OrderIDKey, v, err)
	}
	return uint(id), true, nil
}

// Middleware makes sure every request carries a session id, issuing a new cookie when needed.
func Middleware(ttl time.Duration, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(CookieName); err == nil {
				if _, perr := uuid.Parse(ck.Value); perr == nil {
					sid = ck.Value
				}
			}
			if sid == "" {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     CookieName,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(ttl.Seconds()),
				})
			}
			c.Set(contextKey, sid)
			return next(c)
		}
	}
}

func ID(c echo.Context) string {
	sid, _ := c.Get(contextKey).(string)
	return sid
}
