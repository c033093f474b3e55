package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/session"
)

const sessionLocal = "session"

// SessionConfig configures the session middleware.
type SessionConfig struct {
	Store        session.Store
	Locker       *session.Locker
	CookieName   string
	TTL          time.Duration
	DefaultLimit int
	Logger       *zap.Logger
}

// NewSessionMiddleware loads the browser's state before the handler runs and
// saves it afterwards. Requests of one session run one at a time.
func NewSessionMiddleware(cfg SessionConfig) fiber.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		id := c.Cookies(cfg.CookieName)
		if !session.ValidID(id) {
			id = ""
		}

		var unlock func()
		var st *session.State
		if id != "" {
			unlock = cfg.Locker.Lock(id)
			loaded, err := cfg.Store.Load(c.UserContext(), id)
			switch {
			case err == nil:
				st = loaded
			case errors.Is(err, session.ErrNotFound):
			default:
				logger.Warn("session load failed", zap.String("session_id", id), zap.Error(err))
			}
		}
		if st == nil {
			st = session.New(cfg.DefaultLimit)
			if id != "" {
				st.ID = id
			} else {
				unlock = cfg.Locker.Lock(st.ID)
			}
		}
		defer unlock()

		c.Locals(sessionLocal, st)
		err := c.Next()

		// The request context may already be past its deadline.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if saveErr := cfg.Store.Save(ctx, st); saveErr != nil {
			logger.Warn("session save failed", zap.String("session_id", st.ID), zap.Error(saveErr))
		}
		c.Cookie(&fiber.Cookie{
			Name:     cfg.CookieName,
			Value:    st.ID,
			Path:     "/",
			MaxAge:   int(cfg.TTL.Seconds()),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return err
	}
}

// SessionFrom returns the state loaded by the session middleware.
func SessionFrom(c *fiber.Ctx) *session.State {
	st, _ := c.Locals(sessionLocal).(*session.State)
	return st
}
