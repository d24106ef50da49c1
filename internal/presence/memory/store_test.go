package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rpserver-go/internal/presence"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()

	require.NoError(t, s.MarkOnline(ctx, presence.Entry{CharacterID: 3, FullName: "John Doe", Since: now}))
	require.NoError(t, s.MarkOnline(ctx, presence.Entry{CharacterID: 1, FullName: "Jane Doe", Since: now}))

	entry, err := s.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", entry.FullName)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.EqualValues(t, 1, list[0].CharacterID)

	require.NoError(t, s.MarkOffline(ctx, 3))
	_, err = s.Get(ctx, 3)
	assert.ErrorIs(t, err, presence.ErrNotOnline)

	require.NoError(t, s.Clear(ctx))
	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
