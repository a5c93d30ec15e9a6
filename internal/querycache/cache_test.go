package querycache

import (
	"context"
	"errors"
	"testing"

	"github.com/avolkov/pawshare/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Info(context.Context, string, ...any)  {}
func (noopLogger) Warn(context.Context, string, ...any)  {}
func (noopLogger) Error(context.Context, string, ...any) {}
func (l noopLogger) With(...any) logging.Logger          { return l }

func countingFetch(values ...any) (*int, FetchFunc) {
	calls := 0
	return &calls, func(ctx context.Context) (any, error) {
		v := values[calls%len(values)]
		calls++
		if err, ok := v.(error); ok {
			return nil, err
		}
		return v, nil
	}
}

func TestReadOrFetch_FetchesOnceWhileFresh(t *testing.T) {
	c := New(noopLogger{})
	calls, fetch := countingFetch("v1")

	got, err := c.ReadOrFetch(context.Background(), "posts", fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	got, err = c.ReadOrFetch(context.Background(), "posts", fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	assert.Equal(t, 1, *calls)
}

func TestReadOrFetch_ErrorIsReturnedNotCached(t *testing.T) {
	c := New(noopLogger{})
	calls, fetch := countingFetch(errors.New("boom"), "v2")

	_, err := c.ReadOrFetch(context.Background(), "posts", fetch)
	require.Error(t, err)

	got, err := c.ReadOrFetch(context.Background(), "posts", fetch)
	require.NoError(t, err)
	assert.Equal(t, "v2", got)
	assert.Equal(t, 2, *calls)
}

func TestInvalidate_UnsubscribedKeyStaysStale(t *testing.T) {
	c := New(noopLogger{})
	calls, fetch := countingFetch("v1", "v2")

	_, err := c.ReadOrFetch(context.Background(), "posts", fetch)
	require.NoError(t, err)

	c.Invalidate(context.Background(), "posts")
	assert.Equal(t, 1, *calls, "no subscribers, no refetch")

	got, err := c.ReadOrFetch(context.Background(), "posts", fetch)
	require.NoError(t, err)
	assert.Equal(t, "v2", got)
	assert.Equal(t, 2, *calls)
}

func TestInvalidate_SubscribedKeyRefetchesAndNotifies(t *testing.T) {
	c := New(noopLogger{})
	calls, fetch := countingFetch("v1", "v2")

	_, err := c.ReadOrFetch(context.Background(), "posts", fetch)
	require.NoError(t, err)

	var got []any
	unsub := c.Subscribe("posts", func(v any) { got = append(got, v) })
	defer unsub()

	c.Invalidate(context.Background(), "posts")

	require.Len(t, got, 1)
	assert.Equal(t, "v2", got[0])
	assert.Equal(t, 2, *calls)

	// refreshed value is fresh again
	v, err := c.ReadOrFetch(context.Background(), "posts", fetch)
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
	assert.Equal(t, 2, *calls)
}

func TestInvalidate_UnknownKeyIsNoop(t *testing.T) {
	c := New(noopLogger{})
	c.Invalidate(context.Background(), "never-read")
}

func TestInvalidate_FailedRefreshStaysStale(t *testing.T) {
	c := New(noopLogger{})
	calls, fetch := countingFetch("v1", errors.New("boom"), "v3")

	_, err := c.ReadOrFetch(context.Background(), "posts", fetch)
	require.NoError(t, err)

	var got []any
	unsub := c.Subscribe("posts", func(v any) { got = append(got, v) })
	defer unsub()

	c.Invalidate(context.Background(), "posts")
	assert.Empty(t, got, "failed refresh must not notify")
	assert.Equal(t, 2, *calls)

	// next read refetches because the entry is still stale
	v, err := c.ReadOrFetch(context.Background(), "posts", fetch)
	require.NoError(t, err)
	assert.Equal(t, "v3", v)
	assert.Equal(t, 3, *calls)
}

func TestSubscribe_UnsubscribeStopsNotifications(t *testing.T) {
	c := New(noopLogger{})
	_, fetch := countingFetch("v1", "v2", "v3")

	_, err := c.ReadOrFetch(context.Background(), "posts", fetch)
	require.NoError(t, err)

	var got []any
	unsub := c.Subscribe("posts", func(v any) { got = append(got, v) })

	c.Invalidate(context.Background(), "posts")
	require.Len(t, got, 1)

	unsub()
	c.Invalidate(context.Background(), "posts")
	assert.Len(t, got, 1)
}

func TestInvalidate_IsIdempotent(t *testing.T) {
	c := New(noopLogger{})
	calls, fetch := countingFetch("v1", "v2", "v3")

	_, err := c.ReadOrFetch(context.Background(), "posts", fetch)
	require.NoError(t, err)

	c.Invalidate(context.Background(), "posts")
	c.Invalidate(context.Background(), "posts")
	assert.Equal(t, 1, *calls, "stale key with no subscribers never refetches")
}

func TestInvalidate_KeysAreIndependent(t *testing.T) {
	c := New(noopLogger{})
	postCalls, postFetch := countingFetch("p1", "p2")
	commentCalls, commentFetch := countingFetch("c1", "c2")

	_, err := c.ReadOrFetch(context.Background(), "posts", postFetch)
	require.NoError(t, err)
	_, err = c.ReadOrFetch(context.Background(), "post-comments", commentFetch)
	require.NoError(t, err)

	var got []any
	unsub := c.Subscribe("post-comments", func(v any) { got = append(got, v) })
	defer unsub()

	c.Invalidate(context.Background(), "post-comments")

	assert.Equal(t, 1, *postCalls, "invalidating one key never touches another")
	assert.Equal(t, 2, *commentCalls)
	require.Len(t, got, 1)
	assert.Equal(t, "c2", got[0])
}

func TestRead_TypedWrapper(t *testing.T) {
	c := New(noopLogger{})

	list, err := Read(context.Background(), c, "posts", func(ctx context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, list)

	_, err = Read(context.Background(), c, "missing", func(ctx context.Context) ([]string, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)
}
