package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubObjectStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("upload then exists then delete", func(t *testing.T) {
		stub := NewStubObjectStorage()

		url, expiresAt, err := stub.GenerateUploadURL(ctx, "businesses/b1/documents/a.pdf", "application/pdf", time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "/upload/businesses/b1/documents/a.pdf")
		assert.True(t, expiresAt.After(time.Now()))

		exists, err := stub.ObjectExists(ctx, "businesses/b1/documents/a.pdf")
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, stub.DeleteObject(ctx, "businesses/b1/documents/a.pdf"))

		exists, err = stub.ObjectExists(ctx, "businesses/b1/documents/a.pdf")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("direct upload marks object present", func(t *testing.T) {
		stub := NewStubObjectStorage()

		require.NoError(t, stub.Upload(ctx, "businesses/b1/documents/b.pdf", []byte("%PDF"), "application/pdf"))

		exists, err := stub.ObjectExists(ctx, "businesses/b1/documents/b.pdf")
		require.NoError(t, err)
		assert.True(t, exists)

		assert.Equal(t, stub.BaseURL+"/businesses/b1/documents/b.pdf",
			stub.PublicURL("businesses/b1/documents/b.pdf"))
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		stub := NewStubObjectStorage()

		_, _, err := stub.GenerateUploadURL(ctx, "", "application/pdf", time.Minute)
		assert.Error(t, err)

		_, _, err = stub.GenerateDownloadURL(ctx, "", time.Minute)
		assert.Error(t, err)

		assert.Error(t, stub.DeleteObject(ctx, ""))
	})

	t.Run("download URL for unknown key still issues", func(t *testing.T) {
		stub := NewStubObjectStorage()

		url, _, err := stub.GenerateDownloadURL(ctx, "businesses/b1/documents/missing.pdf", time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "/download/")
	})
}
