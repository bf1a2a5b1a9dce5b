package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strings" // strings splits list-valued variables
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Token TTLs are plain ints in the unit the
// variable name states (minutes or days) and carry defaults, matching
// how they are used by the auth and invitation flows.
type Config struct {
	Env            string   // application environment (e.g. "dev", "prod")
	Port           string   // HTTP port to listen on
	DBUser         string   // database username
	DBPass         string   // database password (optional)
	DBHost         string   // database host address
	DBPort         string   // database port number
	DBName         string   // database name
	AppBaseURL     string   // absolute base URL used in emailed links
	AllowedOrigins []string // origins trusted for browser requests

	MagicLinkTTLMin      int // magic-link lifetime in minutes
	MagicLinkMaxPerWin   int // max magic links per identity per rolling window
	SessionTTLDays       int // session cookie lifetime in days
	InviteTokenTTLDays   int // pilot invitation token lifetime in days
	BacklinkTokenTTLDays int // backlink confirmation token lifetime in days
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing
// values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),      // environment (dev/test/prod)
		Port:           must("APP_PORT"),     // port to bind the HTTP server
		DBUser:         must("DB_USER"),      // database user
		DBPass:         os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:         must("DB_HOST"),      // database host
		DBPort:         must("DB_PORT"),      // database port
		DBName:         must("DB_NAME"),      // database name
		AppBaseURL:     must("APP_BASE_URL"), // used to build magic-link and invite URLs
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),

		MagicLinkTTLMin:      envInt("MAGIC_LINK_TTL_MIN", 15),
		MagicLinkMaxPerWin:   envInt("MAGIC_LINK_MAX_PER_WINDOW", 5),
		SessionTTLDays:       envInt("SESSION_TTL_DAYS", 7),
		InviteTokenTTLDays:   envInt("PILOT_INVITE_TOKEN_TTL_DAYS", 30),
		BacklinkTokenTTLDays: envInt("BACKLINK_TOKEN_TTL_DAYS", 30),
	}
}

// IsDev reports whether the app runs in the dev environment.  Dev mode
// relaxes the Secure cookie flag and echoes magic-link URLs in API
// responses for local testing.
func (c Config) IsDev() bool { return c.Env == "dev" }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// splitList turns a comma-separated variable into a trimmed slice,
// dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
