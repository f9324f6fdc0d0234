package store

import (
	"context"
	"time"

	"github.com/hrygo/northstar/internal/profile"
	"github.com/hrygo/northstar/store/cache"
)

const (
	userCacheCapacity = 1000
	userCacheTTL      = 10 * time.Minute
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// userCache is nil inside a transaction.
	userCache *cache.Cache[*User]
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:    driver,
		profile:   profile,
		userCache: cache.New[*User](userCacheCapacity, userCacheTTL),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// RunInTx runs fn as one unit of work. Every write made through the Store
// passed to fn commits together or not at all.
func (s *Store) RunInTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.driver.WithTx(ctx, func(d Driver) error {
		return fn(&Store{profile: s.profile, driver: d})
	})
}
