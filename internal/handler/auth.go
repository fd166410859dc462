package handler

import (
    "errors"
    "net/http"
    "strings"
    "time"

    validation "github.com/go-ozzo/ozzo-validation"
    "github.com/go-ozzo/ozzo-validation/is"
    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/coursehub/internal/apperr"
    "github.com/iliyamo/coursehub/internal/service"
    "github.com/iliyamo/coursehub/internal/utils"
)

// RefreshCookie is the name of the cookie carrying the refresh token.
const RefreshCookie = "refresh_token"

// CookieConfig controls the refresh cookie attributes.
type CookieConfig struct {
    Secure bool
    TTL    time.Duration
}

// AuthHandler serves /auth.  The access token travels in the body; the
// refresh token only ever travels in an HttpOnly cookie.
type AuthHandler struct {
    base
    Auth   *service.AuthService
    Cookie CookieConfig
}

func NewAuthHandler(auth *service.AuthService, cookie CookieConfig, log *zap.Logger) *AuthHandler {
    return &AuthHandler{base: newBase(log), Auth: auth, Cookie: cookie}
}

// ----- DTOs -----

type registerReq struct {
    FirstName string `json:"first_name"`
    LastName  string `json:"last_name"`
    Email     string `json:"email"`
    Password  string `json:"password"`
}

func (r registerReq) Validate() error {
    return validation.ValidateStruct(&r,
        validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
        validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
        validation.Field(&r.Email, validation.Required, validation.Length(3, 255), is.Email),
        validation.Field(&r.Password, validation.Required, validation.Length(4, 72), validation.By(passwordBytes)),
    )
}

// passwordBytes rejects passwords longer than bcrypt's byte limit, which
// Length alone misses because it counts runes.
func passwordBytes(v interface{}) error {
    if s, ok := v.(string); ok && len(s) > utils.MaxPasswordBytes {
        return errors.New("must be at most 72 bytes")
    }
    return nil
}

type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

func (r loginReq) Validate() error {
    return validation.ValidateStruct(&r,
        validation.Field(&r.Email, validation.Required),
        validation.Field(&r.Password, validation.Required),
    )
}

type tokenResp struct {
    AccessToken string `json:"access_token"`
}

// ----- cookie helpers -----

func (h *AuthHandler) setRefreshCookie(c echo.Context, pair utils.TokenPair) {
    c.SetCookie(&http.Cookie{
        Name:     RefreshCookie,
        Value:    pair.RefreshToken,
        Path:     "/",
        MaxAge:   int(h.Cookie.TTL / time.Second),
        Expires:  pair.RefreshExpiresAt,
        HttpOnly: true,
        Secure:   h.Cookie.Secure,
        SameSite: http.SameSiteStrictMode,
    })
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
    c.SetCookie(&http.Cookie{
        Name:     RefreshCookie,
        Value:    "",
        Path:     "/",
        MaxAge:   -1,
        Expires:  time.Unix(0, 0),
        HttpOnly: true,
        Secure:   h.Cookie.Secure,
        SameSite: http.SameSiteStrictMode,
    })
}

// Register: create the user and log them in.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := bind(c, &req); err != nil {
        return h.fail(c, err)
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    pair, _, err := h.Auth.Register(ctx, service.RegisterInput{
        Email:     strings.ToLower(strings.TrimSpace(req.Email)),
        Password:  req.Password,
        FirstName: strings.TrimSpace(req.FirstName),
        LastName:  strings.TrimSpace(req.LastName),
    })
    if err != nil {
        return h.fail(c, err)
    }
    h.setRefreshCookie(c, pair)
    return c.JSON(http.StatusCreated, tokenResp{AccessToken: pair.AccessToken})
}

// Login: verify credentials and return a new pair.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := bind(c, &req); err != nil {
        return h.fail(c, err)
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    pair, err := h.Auth.Login(ctx, strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
    if err != nil {
        return h.fail(c, err)
    }
    h.setRefreshCookie(c, pair)
    return c.JSON(http.StatusOK, tokenResp{AccessToken: pair.AccessToken})
}

// Refresh: exchange the refresh cookie for a new pair and rotate the cookie.
func (h *AuthHandler) Refresh(c echo.Context) error {
    ck, err := c.Cookie(RefreshCookie)
    if err != nil || ck.Value == "" {
        return h.fail(c, apperr.E(apperr.Unauthorized, "missing refresh token"))
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    pair, err := h.Auth.Refresh(ctx, ck.Value)
    if err != nil {
        h.clearRefreshCookie(c)
        return h.fail(c, err)
    }
    h.setRefreshCookie(c, pair)
    return c.JSON(http.StatusOK, tokenResp{AccessToken: pair.AccessToken})
}

// Me returns the caller's identity projection.
func (h *AuthHandler) Me(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return h.fail(c, err)
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    u, err := h.Auth.GetMe(ctx, uid)
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, u.View())
}

// Check reports whether an account exists for ?email=.
func (h *AuthHandler) Check(c echo.Context) error {
    email := strings.ToLower(strings.TrimSpace(c.QueryParam("email")))
    if email == "" {
        return c.JSON(http.StatusOK, echo.Map{"result": false})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    ok, err := h.Auth.Check(ctx, email)
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"result": ok})
}

// Logout clears the refresh cookie.  It always succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
    h.Auth.Logout(c.Request().Context())
    h.clearRefreshCookie(c)
    return c.JSON(http.StatusOK, tokenResp{AccessToken: ""})
}
