package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/ManuelReschke/PayLedger/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the buyer identity from the shared session
// store. Sessions are created by the login service; this service only reads
// them.
func UserContextMiddleware(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		anonymous := func() error {
			c.Locals(usercontext.LocalsKey, usercontext.UserContext{IsLoggedIn: false})
			c.Locals(usercontext.KeyFromProtected, false)
			return c.Next()
		}

		if store == nil {
			return anonymous()
		}
		sess, err := store.Get(c)
		if err != nil {
			log.Warnf("[UserContext] Failed to load session: %v", err)
			return anonymous()
		}

		ownerID := sessionString(sess.Get(usercontext.KeyOwnerID))
		if ownerID == "" {
			return anonymous()
		}

		userCtx := usercontext.UserContext{
			OwnerID:    ownerID,
			Username:   sessionString(sess.Get(usercontext.KeyUsername)),
			IsLoggedIn: true,
		}
		c.Locals(usercontext.LocalsKey, userCtx)
		c.Locals(usercontext.KeyFromProtected, true)
		c.Locals(usercontext.KeyOwnerID, ownerID)
		return c.Next()
	}
}

// sessionString accepts string identifiers as well as the numeric ones
// older login sessions stored.
func sessionString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case uint, uint64, int, int64:
		return fmt.Sprintf("%d", t)
	default:
		return ""
	}
}
