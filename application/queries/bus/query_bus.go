package bus

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"promptline/application/ports"
	pkgerrors "promptline/pkg/errors"
)

// Query represents a read-only request
type Query interface {
	Validate() error
}

// QueryHandler handles a specific query type
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// QueryHandlerFunc adapts a function to the QueryHandler interface
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

// Handle implements QueryHandler
func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// QueryBus dispatches queries to their registered handlers by type.
type QueryBus struct {
	handlers map[reflect.Type]QueryHandler
	mu       sync.RWMutex
}

// NewQueryBus creates a new query bus
func NewQueryBus() *QueryBus {
	return &QueryBus{
		handlers: make(map[reflect.Type]QueryHandler),
	}
}

// Register registers a handler for a query type
func (b *QueryBus) Register(queryType Query, handler QueryHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(queryType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for query type %s", t.String())
	}
	b.handlers[t] = handler
	return nil
}

// Ask validates the query, dispatches it, and returns the result
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()

	if !exists {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("no handler registered for query type %T", query), nil)
	}
	return handler.Handle(ctx, query)
}

// CachingMiddleware wraps query handlers with a read-through cache.
type CachingMiddleware struct {
	cache ports.Cache
	ttl   int // seconds
}

// NewCachingMiddleware creates a caching middleware
func NewCachingMiddleware(cache ports.Cache, ttlSeconds int) *CachingMiddleware {
	return &CachingMiddleware{cache: cache, ttl: ttlSeconds}
}

// Wrap adds caching to a query handler. The key is derived from the
// query's type and field values, so queries must be plain structs.
func (m *CachingMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		key := fmt.Sprintf("%T:%+v", query, query)
		if cached, found := m.cache.Get(ctx, key); found {
			return cached, nil
		}
		result, err := next.Handle(ctx, query)
		if err != nil {
			return nil, err
		}
		m.cache.Set(ctx, key, result, m.ttl)
		return result, nil
	})
}
