package middleware

// identity.go reads back what JWTAuth stored on the context.  Handlers use
// these instead of type-asserting c.Get themselves.

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/coursehub/internal/model"
    "github.com/iliyamo/coursehub/internal/utils"
)

// UserID returns the authenticated user's id.  ok is false on public routes.
func UserID(c echo.Context) (uint64, bool) {
    id, ok := c.Get(CtxUserID).(uint64)
    return id, ok && id != 0
}

// Role returns the authenticated user's role, or "" when unauthenticated.
func Role(c echo.Context) model.Role {
    s, _ := c.Get(CtxRole).(string)
    return model.Role(s)
}

// Claims returns the verified access-token claims, or nil.
func Claims(c echo.Context) *utils.Claims {
    cl, _ := c.Get(CtxClaims).(*utils.Claims)
    return cl
}

// subject is the rate-limit identity: the user id, or "anon".
func subject(c echo.Context) string {
    if id, ok := UserID(c); ok {
        return strconv.FormatUint(id, 10)
    }
    return "anon"
}
