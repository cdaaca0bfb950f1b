package config

import (
	"strings"
	"time"
)

// CacheConfig tunes the response cache in front of the menu and dining
// table endpoints.  Those lists change rarely (menu edits; the floor
// layout almost never), so a short TTL keeps them fresh without hitting
// MySQL on every page load.  KeyStrategy picks which request parts feed
// the cache key, Prefix namespaces the Redis keys, and MaxBodyBytes caps
// which responses are worth storing.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads the CACHE_* variables.  Unset values fall back
// to defaults sized for the reference-data lists: a 30s TTL and a 1 MiB
// body cap, far above any realistic menu payload.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
