package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	VersionsFile   string        // path to the versions.yaml seed file
	DefaultVersion string        // version used when a reference carries no override
	ReloadInterval time.Duration // interval to rebuild the book-name index (default: 24h)
	SweepInterval  time.Duration // interval to sweep expired cached responses (default: 1h)

	CacheExpiry     time.Duration // cached upstream responses older than this are refetched
	CacheStaleAfter time.Duration // cached responses older than this are served but marked stale

	DryRun bool // true => no Redis, in-memory cache only

	// Upstream sources
	BibleGatewayURL string // base URL of the BibleGateway site
	APIBibleURL     string // base URL of the API.Bible service
	APIBibleKey     string // API.Bible key; empty disables the "ab" source

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedCIDRS []string // optional, restrict /api/reload to specific IPs (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("BACKEND_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("BACKEND_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("BACKEND_LOG_LEVEL", "info"),
		PrettyLog: mustBool("BACKEND_PRETTY_LOG", true),

		// Versions and reloads
		VersionsFile:   getenv("BACKEND_VERSIONS_FILE", "/app/config/versions.yaml"),
		DefaultVersion: getenv("BACKEND_DEFAULT_VERSION", "RSV"),
		ReloadInterval: mustDuration("BACKEND_RELOAD_INTERVAL", 24*time.Hour),
		SweepInterval:  mustDuration("BACKEND_SWEEP_INTERVAL", time.Hour),

		// Response cache windows
		CacheExpiry:     mustDuration("BACKEND_CACHE_EXPIRY", 120*time.Minute),
		CacheStaleAfter: mustDuration("BACKEND_CACHE_STALE_AFTER", 60*time.Minute),

		DryRun: mustBool("BACKEND_DRY_RUN", false),

		// Upstream sources
		BibleGatewayURL: getenv("BACKEND_BIBLEGATEWAY_URL", "https://www.biblegateway.com"),
		APIBibleURL:     getenv("BACKEND_APIBIBLE_URL", "https://api.scripture.api.bible"),
		APIBibleKey:     getenv("BACKEND_APIBIBLE_KEY", ""),

		// Redis settings
		RedisAddr:             getenv("BACKEND_REDIS_ADDR", ""),
		RedisUser:             getenv("BACKEND_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("BACKEND_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("BACKEND_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("BACKEND_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedCIDRS: parseAllowedIPs(getenv("BACKEND_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("BACKEND_TRUST_PROXY", true),
	}

	if !cfg.DryRun && cfg.RedisAddr == "" {
		panic("❌ FATAL: BACKEND_REDIS_ADDR is required unless BACKEND_DRY_RUN=true")
	}

	// Validate Redis password configuration
	if !cfg.DryRun && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: BACKEND_REDIS_PASSWORD is required when BACKEND_REDIS_PASSWORD_REQUIRED=true")
	}

	if cfg.CacheStaleAfter > cfg.CacheExpiry {
		panic(fmt.Sprintf("❌ FATAL: BACKEND_CACHE_STALE_AFTER (%v) must not exceed BACKEND_CACHE_EXPIRY (%v)",
			cfg.CacheStaleAfter, cfg.CacheExpiry))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.APIBibleKey = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
