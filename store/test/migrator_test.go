package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/northstar/internal/profile"
	"github.com/hrygo/northstar/store"
	"github.com/hrygo/northstar/store/db"
)

func TestMigrateIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	initialized, err := ts.GetDriver().IsInitialized(ctx)
	require.NoError(t, err)
	require.True(t, initialized)

	require.NoError(t, ts.Migrate(ctx))
}

func TestMigrateSeedsDemo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := &profile.Profile{
		Mode:   "demo",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "northstar_demo.db"),
	}
	driver, err := db.NewDBDriver(p)
	require.NoError(t, err)
	ts := store.New(driver, p)
	t.Cleanup(func() { ts.Close() })

	require.NoError(t, ts.Migrate(ctx))
	// A second start must not seed twice.
	require.NoError(t, ts.Migrate(ctx))

	demoID := int32(1)
	user, err := ts.GetUser(ctx, &store.FindUser{ID: &demoID})
	require.NoError(t, err)
	require.NotNil(t, user)

	count, err := ts.CountPersonas(ctx, demoID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
