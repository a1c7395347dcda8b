// Package eventbus provides a minimal in-process pub/sub bus used to
// observe execution without coupling the engine to any telemetry backend.
package eventbus

import (
	"context"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
)

// Handler consumes events of type T.
type Handler[T any] func(context.Context, T)

// Bus dispatches events to handlers registered for their dynamic type.
// Handlers run synchronously on the publishing goroutine.
type Bus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type][]func(context.Context, any)
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{handlers: make(map[reflect.Type][]func(context.Context, any))}
}

func (b *Bus) subscribe(t reflect.Type, h func(context.Context, any)) (unsubscribe func()) {
	b.mu.Lock()
	b.handlers[t] = append(b.handlers[t], h)
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		hs := b.handlers[t]
		for i, fn := range hs {
			if reflect.ValueOf(fn).Pointer() == reflect.ValueOf(h).Pointer() {
				hs = append(hs[:i], hs[i+1:]...)
				break
			}
		}
		if len(hs) == 0 {
			delete(b.handlers, t)
		} else {
			b.handlers[t] = hs
		}
	}
}

func (b *Bus) emit(ctx context.Context, e any) {
	t := reflect.TypeOf(e)
	b.mu.RLock()
	hs := b.handlers[t]
	if len(hs) == 0 {
		b.mu.RUnlock()
		return
	}
	copied := slices.Clone(hs)
	b.mu.RUnlock()
	for _, fn := range copied {
		fn(ctx, e)
	}
}

var global atomic.Pointer[Bus]

// Use installs b as the process-wide bus. Passing nil disables publishing.
func Use(b *Bus) { global.Store(b) }

// Subscribe registers h with the process-wide bus for events of type T.
// The returned function removes the registration.
func Subscribe[T any](h Handler[T]) (unsubscribe func()) {
	b := global.Load()
	if b == nil {
		return func() {}
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	return b.subscribe(t, func(ctx context.Context, v any) { h(ctx, v.(T)) })
}

// Publish sends e through the process-wide bus, if one is installed.
func Publish[T any](ctx context.Context, e T) {
	if b := global.Load(); b != nil {
		b.emit(ctx, e)
	}
}
