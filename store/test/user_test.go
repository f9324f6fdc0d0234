package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/northstar/store"
)

func TestUserStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	user, err := createTestingUser(ctx, ts, "ada@example.com")
	require.NoError(t, err)
	require.Greater(t, user.ID, int32(0))
	require.NotZero(t, user.CreatedTs)

	found, err := ts.GetUser(ctx, &store.FindUser{Email: &user.Email})
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, user.ID, found.ID)

	name := "Ada"
	updated, err := ts.UpdateUser(ctx, &store.UpdateUser{ID: user.ID, Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Ada", updated.Name)

	_, err = createTestingUser(ctx, ts, "ada@example.com")
	require.Error(t, err, "email must be unique")

	require.NoError(t, ts.DeleteUser(ctx, &store.DeleteUser{ID: user.ID}))
	missing, err := ts.GetUser(ctx, &store.FindUser{ID: &user.ID})
	require.NoError(t, err)
	require.Nil(t, missing)
	require.Error(t, ts.DeleteUser(ctx, &store.DeleteUser{ID: user.ID}))
}

func TestUserStore_CacheFollowsWrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	user, err := createTestingUser(ctx, ts, "grace@example.com")
	require.NoError(t, err)

	cached, err := ts.GetUser(ctx, &store.FindUser{ID: &user.ID})
	require.NoError(t, err)
	require.Equal(t, "Tester", cached.Name)

	name := "Grace"
	_, err = ts.UpdateUser(ctx, &store.UpdateUser{ID: user.ID, Name: &name})
	require.NoError(t, err)

	found, err := ts.GetUser(ctx, &store.FindUser{ID: &user.ID})
	require.NoError(t, err)
	require.Equal(t, "Grace", found.Name)

	// Lookups inside a transaction bypass the cache.
	require.NoError(t, ts.RunInTx(ctx, func(tx *store.Store) error {
		inTx, err := tx.GetUser(ctx, &store.FindUser{ID: &user.ID})
		require.NoError(t, err)
		require.Equal(t, "Grace", inTx.Name)
		return nil
	}))
}
