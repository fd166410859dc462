package config // package config loads application configuration from environment variables

import (
    "fmt"     // fmt formats validation errors
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time expresses token lifetimes

    "github.com/joho/godotenv" // godotenv loads .env files into the process environment
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
    Env              string // application environment (e.g. "dev", "prod")
    Port             string // HTTP port to listen on
    LogLevel         string // zap level: debug, info, warn, error
    DBUser           string // database username
    DBPass           string // database password (optional)
    DBHost           string // database host address
    DBPort           string // database port number
    DBName           string // database name
    JWTAccessSecret  string // secret used to sign access tokens
    JWTRefreshSecret string // secret used to sign refresh tokens
    AccessTTLMin     int    // access token time‑to‑live in minutes
    RefreshTTLDays   int    // refresh token time‑to‑live in days
    BcryptCost       int    // bcrypt cost for password hashing
    CookieSecure     bool   // whether the refresh cookie carries the Secure flag
    RabbitURL        string // AMQP broker URL for payment events
    PaymentLogPath   string // audit file written by the payment consumer
}

// AccessTTL returns the access token lifetime as a duration.
func (c Config) AccessTTL() time.Duration { return time.Duration(c.AccessTTLMin) * time.Minute }

// RefreshTTL returns the refresh token lifetime as a duration.
func (c Config) RefreshTTL() time.Duration {
    return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
}

// Load reads a .env file when one is present and then builds a Config from
// the environment.  Required variables that are missing or malformed are
// reported as an error so the caller decides how to exit.
func Load() (Config, error) {
    _ = godotenv.Load() // a missing .env file is not an error; real env vars win

    l := loader{}
    cfg := Config{
        Env:              l.must("APP_ENV"),                          // environment (dev/test/prod)
        Port:             getenv("APP_PORT", "3000"),                 // port to bind the HTTP server
        LogLevel:         getenv("LOG_LEVEL", "info"),                // logger verbosity
        DBUser:           l.must("DB_USER"),                          // database user
        DBPass:           os.Getenv("DB_PASS"),                       // database password (empty allowed)
        DBHost:           l.must("DB_HOST"),                          // database host
        DBPort:           getenv("DB_PORT", "3306"),                  // database port
        DBName:           l.must("DB_NAME"),                          // database name
        JWTAccessSecret:  l.must("JWT_ACCESS_SECRET"),                // secret for access tokens
        JWTRefreshSecret: l.must("JWT_REFRESH_SECRET"),               // secret for refresh tokens
        AccessTTLMin:     l.intIn("ACCESS_TOKEN_TTL_MIN", 24*60, 1, 365*24*60), // TTL for access tokens in minutes
        RefreshTTLDays:   l.intIn("REFRESH_TOKEN_TTL_DAYS", 180, 1, 3650),     // TTL for refresh tokens in days
        BcryptCost:       l.intIn("BCRYPT_COST", 10, 4, 31),                   // bcrypt cost factor
        CookieSecure:     envBool("COOKIE_SECURE", true),             // Secure flag on refresh cookie
        RabbitURL:        getenv("RABBITMQ_URL", getenv("AMQP_URL", "")), // broker URL, empty disables publishing
        PaymentLogPath:   getenv("PAYMENT_LOG_PATH", "logs/payments.log"),    // consumer audit file
    }
    if l.err != nil {
        return Config{}, l.err
    }
    if cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
        return Config{}, fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
    }
    return cfg, nil
}

// DSN builds the MySQL data source name.  parseTime=true maps DATETIME to
// time.Time and loc=UTC keeps times consistent.
func (c Config) DSN() string {
    auth := c.DBUser
    if c.DBPass != "" {
        auth = fmt.Sprintf("%s:%s", c.DBUser, c.DBPass)
    }
    return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
        auth, c.DBHost, c.DBPort, c.DBName)
}

// loader remembers the first configuration error so Load can report it
// after reading every key.
type loader struct{ err error }

// must retrieves the value of a required environment variable.
func (l *loader) must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        if l.err == nil {
            l.err = fmt.Errorf("missing required env var: %s", key)
        }
        return ""
    }
    return v
}

// intOr is like getenv but converts the value into an integer.  A value
// that does not parse is recorded as an error instead of silently falling back.
func (l *loader) intOr(key string, def int) int {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        if l.err == nil {
            l.err = fmt.Errorf("invalid int for %s: %q", key, s)
        }
        return def
    }
    return n
}

// intIn is intOr restricted to [lo, hi].  Out-of-range values are
// recorded as an error.
func (l *loader) intIn(key string, def, lo, hi int) int {
    n := l.intOr(key, def)
    if n < lo || n > hi {
        if l.err == nil {
            l.err = fmt.Errorf("%s must be between %d and %d, got %d", key, lo, hi, n)
        }
        return def
    }
    return n
}
