package test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hrygo/northstar/internal/profile"
	"github.com/hrygo/northstar/internal/version"
	"github.com/hrygo/northstar/store"
	"github.com/hrygo/northstar/store/db"
)

// getDriverFromEnv returns DRIVER, defaulting to sqlite.
func getDriverFromEnv() string {
	if driver := os.Getenv("DRIVER"); driver != "" {
		return driver
	}
	return "sqlite"
}

func getTestingProfile(t *testing.T) *profile.Profile {
	t.Helper()
	driver := getDriverFromEnv()
	p := &profile.Profile{
		Mode:    "dev",
		Driver:  driver,
		Version: version.GetCurrentVersion("dev"),
	}
	switch driver {
	case "postgres":
		p.DSN = GetPostgresDSN(t)
	default:
		// A file keeps one database across pooled connections.
		p.DSN = filepath.Join(t.TempDir(), "northstar_test.db")
	}
	return p
}

// NewTestingStore opens a migrated store that is closed when the test ends.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()
	p := getTestingProfile(t)
	dbDriver, err := db.NewDBDriver(p)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	s := store.New(dbDriver, p)
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func createTestingUser(ctx context.Context, ts *store.Store, email string) (*store.User, error) {
	return ts.CreateUser(ctx, &store.User{Email: email, Name: "Tester"})
}
