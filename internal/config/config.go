package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string
	DBPass         string // optional
	DBHost         string
	DBPort         string
	DBName         string
	JWTSecret      string // secret used to sign access tokens
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int

	CORSAllowedOrigins []string
	// RequireOwnerRole restricts court creation to users holding the OWNER
	// role.  When false any authenticated user may list a court.
	RequireOwnerRole bool
	// BookingPendingEnabled makes new bookings start as pending.
	BookingPendingEnabled bool
	// SeedDemo inserts demo users and courts on startup when the
	// database is empty.
	SeedDemo bool

	Events EventsConfig
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is loaded first when
// present.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   positiveInt("ACCESS_TOKEN_TTL_MIN", 30),
		RefreshTTLDays: positiveInt("REFRESH_TOKEN_TTL_DAYS", 7),
		BcryptCost:     envInt("BCRYPT_COST", 0),

		CORSAllowedOrigins:    envList("CORS_ALLOWED_ORIGINS"),
		RequireOwnerRole:      envBool("REQUIRE_OWNER_ROLE", true),
		BookingPendingEnabled: envBool("BOOKING_PENDING_ENABLED", false),
		SeedDemo:              envBool("SEED_DEMO", false),

		Events: LoadEventsConfig(),
	}
}

// IsProduction reports whether Env names a production deployment.
func (c Config) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// positiveInt is envInt that also rejects zero and negative values with a
// fatal error, since a zero TTL would issue already-expired tokens.
func positiveInt(key string, d int) int {
	s := os.Getenv(key)
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		log.Fatalf("invalid positive int for %s: %q", key, s)
	}
	return n
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

// envList splits a comma separated variable, dropping blanks.
func envList(k string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(k), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
