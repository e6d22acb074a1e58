// Package cache provides the time-bounded cache that sits in front of the
// prayer times provider. Entries are opaque byte payloads; freshness is set
// per write so daily and monthly queries can use different windows.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Store is a key/value store whose entries expire after a TTL.
// A miss and an expired entry look the same to callers.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Options selects and configures a backend.
type Options struct {
	Backend       string
	Dir           string // file backend
	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int
}

// Open builds the Store described by opts. BackendNone returns a nil Store,
// which callers treat as "no caching".
func Open(opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return NewFile(opts.Dir)
	case BackendRedis:
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("redis cache backend requires an address")
		}
		return NewRedis(opts.RedisAddr, opts.RedisUsername, opts.RedisPassword, opts.RedisDB), nil
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// Key builds a deterministic hash from the parameters that identify a query.
// Different cities, methods and dates always land in different entries.
func Key(kind string, parts ...any) string {
	var sb strings.Builder
	sb.WriteString(kind)
	for _, p := range parts {
		fmt.Fprintf(&sb, "|%v", p)
	}
	h := sha256.Sum256([]byte(sb.String()))
	return fmt.Sprintf("%s_%x", kind, h[:8]) // 16 hex chars is plenty for uniqueness
}
