package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
)

const (
	userKey     = "coachUser"
	authTimeKey = "coachAuthTime"

	// Validity window of a cached session. A record aged exactly Validity
	// is already invalid.
	Validity = 24 * time.Hour
)

// ErrNoSession is returned by Load when no usable record is stored.
var ErrNoSession = errors.New("session: no cached session")

// Cache holds the last authenticated coach profile together with the time it
// was issued. It is the single source of truth for "is this session still
// usable" independent of the auth provider's own state. All operations are
// local reads/writes against the Store; none of them talk to the provider.
type Cache struct {
	store     Store
	namespace string
	now       func() time.Time
}

type Option func(*Cache)

// WithNamespace prefixes the storage keys, letting several sessions share one
// store. Without it the cache uses the plain coachUser/coachAuthTime keys.
func WithNamespace(namespace string) Option {
	return func(c *Cache) {
		c.namespace = namespace
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func NewCache(store Store, opts ...Option) *Cache {
	cache := &Cache{store: store, now: time.Now}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

func (c *Cache) key(base string) string {
	if c.namespace == "" {
		return base
	}
	return c.namespace + ":" + base
}

// Save stores the profile with the current timestamp, overwriting any prior
// record.
func (c *Cache) Save(ctx context.Context, profile *models.Profile) error {
	encoded, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, c.key(userKey), string(encoded)); err != nil {
		return err
	}
	issuedAt := strconv.FormatInt(c.now().UnixMilli(), 10)
	return c.store.Set(ctx, c.key(authTimeKey), issuedAt)
}

// Load returns the stored profile, or ErrNoSession when absent. It does not
// check expiry. A record that fails to parse is cleared and treated as
// absent.
func (c *Cache) Load(ctx context.Context) (*models.Profile, error) {
	raw, err := c.store.Get(ctx, c.key(userKey))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	var profile models.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		_ = c.Clear(ctx)
		return nil, ErrNoSession
	}
	return &profile, nil
}

// IsValid reports whether a record exists and is younger than the validity
// window.
func (c *Cache) IsValid(ctx context.Context) bool {
	issuedAt, ok := c.issuedAt(ctx)
	if !ok {
		return false
	}
	return c.now().Sub(issuedAt) < Validity
}

// IssuedAt returns the stored issue time, or false when no parsable record
// exists. A corrupt timestamp is cleared.
func (c *Cache) issuedAt(ctx context.Context) (time.Time, bool) {
	raw, err := c.store.Get(ctx, c.key(authTimeKey))
	if err != nil {
		return time.Time{}, false
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		_ = c.Clear(ctx)
		return time.Time{}, false
	}
	return time.UnixMilli(millis), true
}

// Clear removes the record unconditionally. Clearing an empty cache is a
// no-op.
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Delete(ctx, c.key(userKey), c.key(authTimeKey))
}
