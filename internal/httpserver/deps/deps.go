package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BibleBot/backend/internal/index"
	"github.com/BibleBot/backend/internal/logger"
	"github.com/BibleBot/backend/internal/metadata"
	"github.com/BibleBot/backend/internal/providers"
	"github.com/BibleBot/backend/internal/resolver"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time    // for testing, defaults to time.Now
	AllowedCIDRS   []string            // IPs allowed to hit the reload endpoint
	TrustProxy     bool                // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RedisClient    *redis.Client       // Redis client connection, nil in dry-run
	NameIndex      *index.NameIndex    // Book-name snapshot index
	Resolver       *resolver.Resolver  // Full text-to-verses pipeline
	Registry       *providers.Registry // Upstream source registry
	Metadata       *metadata.Service   // Merged book-name table and per-version book lists
	DefaultVersion string              // Version used when a request names none
	DryRun         bool                // true => no Redis, in-memory cache only
	ReloadTrigger  chan struct{}       // Channel to trigger a manual metadata reload
}
