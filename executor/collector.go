package executor

import (
	"reflect"
	"sync"
)

// collector accumulates field errors for one operation. Sibling resolutions
// may append concurrently; the final errors list preserves detection order,
// which is deterministic for a deterministic resolver schedule.
type collector struct {
	mu   sync.Mutex
	errs []*GraphQLError
}

func (c *collector) add(err *GraphQLError) {
	c.mu.Lock()
	c.errs = append(c.errs, err)
	c.mu.Unlock()
}

// hasAtPath reports whether an error was already recorded at path. Non-null
// propagation records its error once, at the originating path, no matter how
// far the null bubbles.
func (c *collector) hasAtPath(path []any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, err := range c.errs {
		if reflect.DeepEqual(err.Path, path) {
			return true
		}
	}
	return false
}

func (c *collector) all() []*GraphQLError {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*GraphQLError, len(c.errs))
	copy(out, c.errs)
	return out
}
