package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testQuery struct {
	Subject string
	Fail    bool
}

func (q testQuery) Validate() error {
	if q.Fail {
		return errors.New("invalid query")
	}
	return nil
}

type fakeCache struct {
	values map[string]interface{}
	hits   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]interface{})}
}

func (c *fakeCache) Get(_ context.Context, key string) (interface{}, bool) {
	v, ok := c.values[key]
	if ok {
		c.hits++
	}
	return v, ok
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ int) {
	c.values[key] = value
}

func (c *fakeCache) Delete(_ context.Context, key string) {
	delete(c.values, key)
}

func TestQueryBus_AskDispatchesByType(t *testing.T) {
	b := NewQueryBus()
	require.NoError(t, b.Register(testQuery{}, QueryHandlerFunc(func(_ context.Context, q Query) (interface{}, error) {
		return "result for " + q.(testQuery).Subject, nil
	})))

	result, err := b.Ask(context.Background(), testQuery{Subject: "s1"})

	require.NoError(t, err)
	assert.Equal(t, "result for s1", result)
}

func TestQueryBus_AskValidatesFirst(t *testing.T) {
	b := NewQueryBus()
	require.NoError(t, b.Register(testQuery{}, QueryHandlerFunc(func(context.Context, Query) (interface{}, error) {
		t.Fatal("handler must not run for an invalid query")
		return nil, nil
	})))

	_, err := b.Ask(context.Background(), testQuery{Fail: true})

	assert.Error(t, err)
}

func TestQueryBus_UnregisteredQuery(t *testing.T) {
	b := NewQueryBus()

	_, err := b.Ask(context.Background(), testQuery{})

	assert.Error(t, err)
}

func TestCachingMiddleware_ServesFromCache(t *testing.T) {
	cache := newFakeCache()
	calls := 0
	handler := NewCachingMiddleware(cache, 30).Wrap(QueryHandlerFunc(func(context.Context, Query) (interface{}, error) {
		calls++
		return "computed", nil
	}))

	ctx := context.Background()
	first, err := handler.Handle(ctx, testQuery{Subject: "s1"})
	require.NoError(t, err)
	second, err := handler.Handle(ctx, testQuery{Subject: "s1"})
	require.NoError(t, err)

	assert.Equal(t, "computed", first)
	assert.Equal(t, "computed", second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.hits)
}

func TestCachingMiddleware_DistinctQueriesDistinctKeys(t *testing.T) {
	cache := newFakeCache()
	calls := 0
	handler := NewCachingMiddleware(cache, 30).Wrap(QueryHandlerFunc(func(_ context.Context, q Query) (interface{}, error) {
		calls++
		return q.(testQuery).Subject, nil
	}))

	ctx := context.Background()
	a, err := handler.Handle(ctx, testQuery{Subject: "s1"})
	require.NoError(t, err)
	b, err := handler.Handle(ctx, testQuery{Subject: "s2"})
	require.NoError(t, err)

	assert.Equal(t, "s1", a)
	assert.Equal(t, "s2", b)
	assert.Equal(t, 2, calls)
}

func TestCachingMiddleware_ErrorsAreNotCached(t *testing.T) {
	cache := newFakeCache()
	calls := 0
	handler := NewCachingMiddleware(cache, 30).Wrap(QueryHandlerFunc(func(context.Context, Query) (interface{}, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("transient")
		}
		return "recovered", nil
	}))

	ctx := context.Background()
	_, err := handler.Handle(ctx, testQuery{Subject: "s1"})
	require.Error(t, err)

	result, err := handler.Handle(ctx, testQuery{Subject: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", result)
}
