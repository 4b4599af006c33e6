package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexflow/backend/pkg/models"
)

func TestMemoryStore_Workflows(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	older := &models.Workflow{ID: "wf-1", OwnerID: "o1", Name: "first", CreatedAt: base}
	newer := &models.Workflow{ID: "wf-2", OwnerID: "o1", Name: "second", CreatedAt: base.Add(time.Hour)}
	other := &models.Workflow{ID: "wf-3", OwnerID: "o2", Name: "other", CreatedAt: base}
	for _, wf := range []*models.Workflow{older, newer, other} {
		require.NoError(t, store.SaveWorkflow(ctx, wf))
	}

	t.Run("Get returns a copy", func(t *testing.T) {
		got, err := store.GetWorkflow(ctx, "wf-1")
		require.NoError(t, err)
		got.Name = "mutated"

		again, err := store.GetWorkflow(ctx, "wf-1")
		require.NoError(t, err)
		assert.Equal(t, "first", again.Name)
	})

	t.Run("Get missing", func(t *testing.T) {
		_, err := store.GetWorkflow(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("List newest first per owner", func(t *testing.T) {
		list, err := store.ListWorkflows(ctx, "o1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "wf-2", list[0].ID)
		assert.Equal(t, "wf-1", list[1].ID)
	})

	t.Run("List empty owner", func(t *testing.T) {
		list, err := store.ListWorkflows(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestMemoryStore_Owners(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	owner := &models.Owner{Email: "Ada@Example.com", Name: "Ada"}
	require.NoError(t, store.CreateOwner(ctx, owner))
	assert.NotEmpty(t, owner.ID)
	assert.False(t, owner.CreatedAt.IsZero())

	got, err := store.GetOwnerByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.ID)

	_, err = store.GetOwnerByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.CreateOwner(ctx, &models.Owner{Email: "ADA@example.com"})
	assert.ErrorIs(t, err, ErrConflict)
}
