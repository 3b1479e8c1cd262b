package cache

import (
	"fmt"
	"time"

	"github.com/ppiankov/liarlens/internal/model"
)

// Cache memoizes menu listings. Listings are derived from the immutable
// corpus, so entries never go stale within a session; the TTL only bounds
// memory held for menus nobody asks for anymore.
type Cache interface {
	Get(key string) ([]model.Choice, bool)
	Set(key string, value []model.Choice, ttl time.Duration)
	Delete(key string)
	Clear()
}

// MenuKey generates the cache key of a top-k listing
func MenuKey(d model.Dimension, k int, alphabetical bool) string {
	return fmt.Sprintf("liarlens:v1:topk:%s:%d:%t", d, k, alphabetical)
}

// Nop is a cache that never stores anything
type Nop struct{}

func (Nop) Get(string) ([]model.Choice, bool)         { return nil, false }
func (Nop) Set(string, []model.Choice, time.Duration) {}
func (Nop) Delete(string)                             {}
func (Nop) Clear()                                    {}
