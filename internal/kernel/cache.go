package kernel

import (
	"fmt"
	"sync"

	"github.com/truenodb/trueno/internal/kernel/backend"
)

// Cache is the kernel cache of spec.md §4.5: GetOrCompile compiles a
// (backend, TemplateParams) kernel at most once, with concurrent callers
// for the same key blocking on the same compilation rather than racing
// duplicate work (single-flight). A failed compilation is evicted rather
// than cached, so it never poisons later lookups under the same key.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	once   sync.Once
	kernel *CompiledKernel
	err    error
}

// NewCache returns an empty kernel cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// GetOrCompile returns the cached kernel for (b, params), compiling it on
// first use.
func (c *Cache) GetOrCompile(b backend.Backend, params TemplateParams) (*CompiledKernel, error) {
	key := fmt.Sprintf("%s/%s", b, params.cacheKey())

	c.mu.Lock()
	entry, ok := c.entries[key]
	if !ok {
		entry = &cacheEntry{}
		c.entries[key] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.kernel, entry.err = Compile(b, params)
	})

	if entry.err != nil {
		c.mu.Lock()
		if c.entries[key] == entry {
			delete(c.entries, key)
		}
		c.mu.Unlock()
	}
	return entry.kernel, entry.err
}

// Len reports how many kernels are currently cached, used by tests to
// assert compile-once behavior.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
