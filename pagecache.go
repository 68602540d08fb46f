package docview

import "github.com/gogpu/docview/internal/cache"

// CacheStats reports page cache usage.
type CacheStats = cache.Stats

// pageCache holds rasterized pages for one scale. A nil *pageCache is a
// disabled cache; every method is a no-op on it.
type pageCache struct {
	lru   *cache.LRU[int, *PixelBuffer]
	scale float64
}

func newPageCache(capacity int, scale float64) *pageCache {
	if capacity <= 0 {
		return nil
	}
	pc := &pageCache{lru: cache.NewLRU[int, *PixelBuffer](capacity), scale: scale}
	pc.lru.OnEvict(func(page int, _ *PixelBuffer) {
		Logger().Debug("docview: page evicted from cache", "page", page)
	})
	return pc
}

func (c *pageCache) get(page int, scale float64) (*PixelBuffer, bool) {
	if c == nil || scale != c.scale {
		return nil, false
	}
	return c.lru.Get(page)
}

func (c *pageCache) put(page int, scale float64, buf *PixelBuffer) {
	if c == nil {
		return
	}
	if scale != c.scale {
		c.lru.Purge()
		c.scale = scale
	}
	c.lru.Put(page, buf)
}

// reset drops every entry and rebinds the cache to scale.
func (c *pageCache) reset(scale float64) {
	if c == nil {
		return
	}
	c.lru.Purge()
	c.scale = scale
}

func (c *pageCache) stats() CacheStats {
	if c == nil {
		return CacheStats{}
	}
	return c.lru.Stats()
}
