package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/northstar/store"
)

func TestPersonaStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	user, err := createTestingUser(ctx, ts, "persona@example.com")
	require.NoError(t, err)

	writer, err := ts.CreatePersona(ctx, &store.Persona{
		UserID:    user.ID,
		Name:      "Creative Writer",
		NorthStar: "To inspire through stories",
	})
	require.NoError(t, err)
	require.Equal(t, int32(store.DefaultPersonaImportance), writer.Importance)
	require.False(t, writer.IsCalling)

	_, err = ts.CreatePersona(ctx, &store.Persona{UserID: user.ID, Name: "Parent", Importance: 5, IsCalling: true})
	require.NoError(t, err)

	list, err := ts.ListPersonas(ctx, &store.FindPersona{UserID: &user.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Parent", list[0].Name, "higher importance first")
	require.True(t, list[0].IsCalling)

	northStar := "To make readers feel less alone"
	updated, err := ts.UpdatePersona(ctx, &store.UpdatePersona{ID: writer.ID, NorthStar: &northStar})
	require.NoError(t, err)
	require.Equal(t, northStar, updated.NorthStar)
	require.Equal(t, "Creative Writer", updated.Name)

	count, err := ts.CountPersonas(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	require.NoError(t, ts.DeletePersona(ctx, &store.DeletePersona{ID: writer.ID}))
	count, err = ts.CountPersonas(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
