package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	LocalsKey        = "USER_CONTEXT"
	KeyOwnerID       = "user_id"
	KeyUsername      = "username"
	KeyFromProtected = "from_protected"
)
