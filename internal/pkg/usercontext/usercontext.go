package usercontext

import "github.com/gofiber/fiber/v2"

// UserContext represents the buyer identity for a request
type UserContext struct {
	OwnerID    string `json:"user_id"`
	Username   string `json:"username"`
	IsLoggedIn bool   `json:"is_logged_in"`
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx, ok := c.Locals(LocalsKey).(UserContext); ok {
		return ctx
	}
	return UserContext{IsLoggedIn: false}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetOwnerID returns the current owner's identifier, or "" if not logged in
func GetOwnerID(c *fiber.Ctx) string {
	return GetUserContext(c).OwnerID
}
