package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruthless-bot/ruthless/internal/domain/inventory"
)

const scope = snowflake.ID(777)

func TestBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	b, err := New(t.TempDir())
	require.NoError(t, err)

	names, err := b.List(ctx, scope)
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, b.Create(ctx, scope, "netflix"))
	assert.ErrorIs(t, b.Create(ctx, scope, "netflix"), inventory.ErrModuleExists)

	ok, err := b.Exists(ctx, scope, "netflix")
	require.NoError(t, err)
	assert.True(t, ok)

	items, err := b.Read(ctx, scope, "netflix")
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, b.Write(ctx, scope, "netflix", []string{"a1", "a2", "a1"}))
	items, err = b.Read(ctx, scope, "netflix")
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2", "a1"}, items)

	names, err = b.List(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, []string{"netflix"}, names)

	require.NoError(t, b.Delete(ctx, scope, "netflix"))
	assert.ErrorIs(t, b.Delete(ctx, scope, "netflix"), inventory.ErrModuleNotFound)

	ok, err = b.Exists(ctx, scope, "netflix")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBackend_ReadSkipsBlankLines(t *testing.T) {
	root := t.TempDir()
	b, err := New(root)
	require.NoError(t, err)

	dir := filepath.Join(root, scope.String())
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hulu.txt"), []byte("  x1 \n\n\r\nx2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0o644))

	items, err := b.Read(context.Background(), scope, "hulu")
	require.NoError(t, err)
	assert.Equal(t, []string{"x1", "x2"}, items)

	names, err := b.List(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, []string{"hulu"}, names)
}

func TestBackend_RejectsPathTraversal(t *testing.T) {
	b, err := New(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../escape", "a/b", ".hidden", ""} {
		assert.ErrorIs(t, b.Create(context.Background(), scope, name), inventory.ErrInvalidModuleName, name)
	}
}

func TestBackend_WithStore(t *testing.T) {
	ctx := context.Background()
	b, err := New(t.TempDir())
	require.NoError(t, err)
	s := inventory.NewStore(b)

	require.NoError(t, s.CreateModule(ctx, scope, "netflix"))
	require.NoError(t, s.AddItems(ctx, scope, "netflix", []string{"a1", "a2"}))

	removed, err := s.RemoveOne(ctx, scope, "netflix", "a1")
	require.NoError(t, err)
	assert.True(t, removed)

	items, err := s.ListItems(ctx, scope, "netflix")
	require.NoError(t, err)
	assert.Equal(t, []string{"a2"}, items)
}
