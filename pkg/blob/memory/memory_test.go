package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexvault/pkg/blob"
)

func seed(t *testing.T, c *Client, paths ...string) {
	t.Helper()
	ctx := context.Background()
	for _, p := range paths {
		_, err := c.Put(ctx, p, strings.NewReader("content of "+p), "text/plain", nil)
		require.NoError(t, err)
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New()

	md := map[string]string{"documenttype": "constitution"}
	rec, err := c.Put(ctx, "a/x.txt", strings.NewReader("hello"), "text/plain", md)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ETag)

	body, got, err := c.Get(ctx, "a/x.txt")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "text/plain", got.ContentType)
	assert.Equal(t, "constitution", got.Metadata["documenttype"])
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	_, _, err := New().Get(context.Background(), "no/such.txt")
	var notFound blob.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestHierarchicalListReturnsImmediateChildren(t *testing.T) {
	ctx := context.Background()
	c := New()
	seed(t, c, "a/x.txt", "a/y.txt", "a/sub/z.txt", "a/sub/deep/w.txt", "b/other.txt")

	page, err := c.List(ctx, "a/", true, "", 0)
	require.NoError(t, err)

	var names []string
	for _, r := range page.Records {
		names = append(names, r.Path)
	}
	assert.ElementsMatch(t, []string{"a/x.txt", "a/y.txt"}, names)
	assert.Equal(t, []string{"a/sub"}, page.Prefixes)
}

func TestFlatListPaginates(t *testing.T) {
	ctx := context.Background()
	c := New()
	seed(t, c, "a/1.txt", "a/2.txt", "a/3.txt", "a/4.txt", "a/5.txt")

	var collected []string
	token := ""
	pages := 0
	for {
		page, err := c.List(ctx, "a/", false, token, 2)
		require.NoError(t, err)
		pages++
		for _, r := range page.Records {
			collected = append(collected, r.Path)
		}
		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}
	assert.Len(t, collected, 5)
	assert.Equal(t, 3, pages)
}

func TestPutIfConditions(t *testing.T) {
	ctx := context.Background()
	c := New()

	rec, err := c.PutIf(ctx, "doc.json", []byte("{}"), "application/json", nil, blob.WriteCondition{MustNotExist: true})
	require.NoError(t, err)

	// Create-again must conflict.
	_, err = c.PutIf(ctx, "doc.json", []byte("{}"), "application/json", nil, blob.WriteCondition{MustNotExist: true})
	var conflict blob.ConflictError
	require.ErrorAs(t, err, &conflict)

	// Matching tag succeeds and rotates the tag.
	rec2, err := c.PutIf(ctx, "doc.json", []byte(`{"v":2}`), "application/json", nil, blob.WriteCondition{ETag: rec.ETag})
	require.NoError(t, err)
	assert.NotEqual(t, rec.ETag, rec2.ETag)

	// Stale tag conflicts.
	_, err = c.PutIf(ctx, "doc.json", []byte(`{"v":3}`), "application/json", nil, blob.WriteCondition{ETag: rec.ETag})
	require.ErrorAs(t, err, &conflict)
}

func TestCopyDropsMetadata(t *testing.T) {
	ctx := context.Background()
	c := New()

	_, err := c.Put(ctx, "src.txt", strings.NewReader("data"), "text/plain", map[string]string{"tags": "rights"})
	require.NoError(t, err)

	require.NoError(t, c.Copy(ctx, "src.txt", "dst.txt"))

	rec, err := c.Head(ctx, "dst.txt")
	require.NoError(t, err)
	assert.Empty(t, rec.Metadata, "server-side copy must not be relied on for metadata")
	assert.Equal(t, "text/plain", rec.ContentType)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := New()
	seed(t, c, "x.txt")

	require.NoError(t, c.Delete(ctx, "x.txt"))
	require.NoError(t, c.Delete(ctx, "x.txt"))
}

func TestPresignGet(t *testing.T) {
	ctx := context.Background()
	c := New()
	seed(t, c, "x.txt")

	url, err := c.PresignGet(ctx, "x.txt", 60)
	require.NoError(t, err)
	assert.Contains(t, url, "memory://x.txt")

	_, err = c.PresignGet(ctx, "missing.txt", 60)
	var notFound blob.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
