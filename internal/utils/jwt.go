package utils // package utils provides helper functions for token creation and hashing

import (
    "errors"  // sentinel for rejected tokens
    "strconv" // subject claim is the decimal user id
    "time"    // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is returned for any token that fails verification:
// malformed, signed with another key or algorithm, or expired.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity carried by both access and refresh tokens.  The
// registered claims add sub, iat and exp.
type Claims struct {
    ID    uint64 `json:"id"`
    Email string `json:"email"`
    Role  string `json:"role"`
    jwt.RegisteredClaims
}

// TokenPair is what a successful register, login or refresh hands back.
// The refresh half travels in a cookie, the access half in the body.
type TokenPair struct {
    AccessToken      string
    AccessExpiresAt  time.Time
    RefreshToken     string
    RefreshExpiresAt time.Time
}

// TokenIssuer signs and verifies HS256 tokens.  Access and refresh tokens
// use different secrets so one can never be replayed as the other.
type TokenIssuer struct {
    AccessSecret  string
    RefreshSecret string
    AccessTTL     time.Duration
    RefreshTTL    time.Duration
    now           func() time.Time
}

// NewTokenIssuer builds an issuer with the "short" (access) and "long"
// (refresh) presets.
func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
    return &TokenIssuer{
        AccessSecret:  accessSecret,
        RefreshSecret: refreshSecret,
        AccessTTL:     accessTTL,
        RefreshTTL:    refreshTTL,
        now:           func() time.Time { return time.Now().UTC() },
    }
}

// Create signs claims with secret and returns the token with its expiry.
// Only the identity fields of claims are used; iat, exp and sub are set here.
func (i *TokenIssuer) Create(claims Claims, secret string, ttl time.Duration) (string, time.Time, error) {
    now := i.now()
    exp := now.Add(ttl)
    c := Claims{
        ID:    claims.ID,
        Email: claims.Email,
        Role:  claims.Role,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(claims.ID, 10),
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
    if err != nil {
        return "", time.Time{}, err
    }
    return signed, exp, nil
}

// Verify parses token, checks the HMAC signature against secret and the
// expiry, and returns the identity claims.
func (i *TokenIssuer) Verify(token, secret string) (*Claims, error) {
    var c Claims
    tok, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
        // Reject anything that is not HMAC, e.g. "none" or RS256 confusion.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    }, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
    if err != nil || !tok.Valid {
        return nil, ErrInvalidToken
    }
    return &c, nil
}

// IssuePair creates an access and a refresh token for the same identity.
func (i *TokenIssuer) IssuePair(claims Claims) (TokenPair, error) {
    access, accessExp, err := i.Create(claims, i.AccessSecret, i.AccessTTL)
    if err != nil {
        return TokenPair{}, err
    }
    refresh, refreshExp, err := i.Create(claims, i.RefreshSecret, i.RefreshTTL)
    if err != nil {
        return TokenPair{}, err
    }
    return TokenPair{
        AccessToken:      access,
        AccessExpiresAt:  accessExp,
        RefreshToken:     refresh,
        RefreshExpiresAt: refreshExp,
    }, nil
}

// VerifyAccess checks a token presented in the Authorization header.
func (i *TokenIssuer) VerifyAccess(token string) (*Claims, error) {
    return i.Verify(token, i.AccessSecret)
}

// VerifyRefresh checks a token presented in the refresh cookie.
func (i *TokenIssuer) VerifyRefresh(token string) (*Claims, error) {
    return i.Verify(token, i.RefreshSecret)
}
