package session

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"

	"github.com/ManuelReschke/PayLedger/internal/pkg/cache"
	"github.com/ManuelReschke/PayLedger/internal/pkg/env"
)

const (
	sessionDatabase = 1
	limiterDatabase = 2
)

// NewStorage returns fiber storage on the cache server, in its own logical
// database so sessions and rate limiter counters never collide with cache keys.
func NewStorage(database int) *redis.Storage {
	// Get Redis client configuration from existing cache setup
	cacheClient := cache.GetClient()
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		// Prefer password from the underlying client if present
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: database,
		Reset:    false,
	})
}

// NewLimiterStorage is the shared store for API rate limiter counters.
func NewLimiterStorage() *redis.Storage {
	return NewStorage(limiterDatabase)
}

func NewSessionStore() *session.Store {
	// The login service writes sessions into the same store and cookie.
	return session.New(session.Config{
		Storage:        NewStorage(sessionDatabase),
		CookieHTTPOnly: true,
		CookieSecure:   !env.IsDev(),
		Expiration:     time.Hour * 1,
		KeyLookup:      "cookie:" + env.GetEnv("SESSION_COOKIE_NAME", "session_id"),
	})
}
