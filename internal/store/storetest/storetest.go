// Package storetest holds the behaviour every store.Store must share.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// Run exercises a fresh store returned by open for each subtest.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	ctx := context.Background()

	t.Run("EmptyListIsNotNil", func(t *testing.T) {
		s := open(t)
		items, err := s.List(ctx, 1)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("CreateAssignsIncreasingIDs", func(t *testing.T) {
		s := open(t)
		a, err := s.Create(ctx, model.Draft{UserID: 1, Title: "a"})
		require.NoError(t, err)
		b, err := s.Create(ctx, model.Draft{UserID: 1, Title: "b", Completed: true})
		require.NoError(t, err)

		assert.Greater(t, a.ID, 0)
		assert.Greater(t, b.ID, a.ID)
		assert.True(t, b.Completed)
	})

	t.Run("ListScopesByOwnerInCreationOrder", func(t *testing.T) {
		s := open(t)
		for _, d := range []model.Draft{
			{UserID: 1, Title: "one"},
			{UserID: 2, Title: "other owner"},
			{UserID: 1, Title: "two"},
		} {
			_, err := s.Create(ctx, d)
			require.NoError(t, err)
		}

		items, err := s.List(ctx, 1)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "one", items[0].Title)
		assert.Equal(t, "two", items[1].Title)
	})

	t.Run("DeleteRemovesAndReportsMissing", func(t *testing.T) {
		s := open(t)
		a, err := s.Create(ctx, model.Draft{UserID: 1, Title: "a"})
		require.NoError(t, err)
		b, err := s.Create(ctx, model.Draft{UserID: 1, Title: "b"})
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, a.ID))
		assert.ErrorIs(t, s.Delete(ctx, a.ID), store.ErrNotFound)

		items, err := s.List(ctx, 1)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, b.ID, items[0].ID)

		c, err := s.Create(ctx, model.Draft{UserID: 1, Title: "c"})
		require.NoError(t, err)
		assert.Greater(t, c.ID, b.ID, "ids are not reused")
	})
}
