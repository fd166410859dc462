package middleware // reusable HTTP middleware for the Echo router

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/coursehub/internal/utils"
)

// Context keys populated by JWTAuth.
const (
    CtxUserID = "user_id" // uint64
    CtxRole   = "role"    // string, USER or ADMIN
    CtxClaims = "claims"  // *utils.Claims
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the caller's id, role and claims into the request context.
// Refresh tokens are signed with a different secret and are rejected here.
func JWTAuth(issuer *utils.TokenIssuer) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

            claims, err := issuer.VerifyAccess(raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            c.Set(CtxUserID, claims.ID)
            c.Set(CtxRole, claims.Role)
            c.Set(CtxClaims, claims)
            return next(c)
        }
    }
}
