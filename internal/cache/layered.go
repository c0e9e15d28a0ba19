package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/billhist/internal/model"
	"github.com/ppiankov/billhist/internal/util"
)

// LayeredCache reads through a fast layer to a slow one and writes to both
type LayeredCache struct {
	fast Cache
	slow Cache
}

// NewLayeredCache combines a memory layer with a disk layer under dir
func NewLayeredCache(memoryTTL time.Duration, dir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		fast: NewMemoryCache(memoryTTL, 10*time.Minute),
		slow: NewDiskCache(dir, diskTTL),
	}
}

// Open builds the layered page cache described by cfg
func Open(cfg model.CacheConfig) (*LayeredCache, error) {
	dir, err := util.ExpandHome(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	return NewLayeredCache(cfg.MemoryTTL, dir, cfg.DiskTTL), nil
}

func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if v, ok := c.fast.Get(key); ok {
		return v, true
	}
	v, ok := c.slow.Get(key)
	if !ok {
		return nil, false
	}
	_ = c.fast.Set(key, v, 0)
	return v, true
}

func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.fast.Set(key, value, ttl); err != nil {
		return err
	}
	return c.slow.Set(key, value, ttl)
}

func (c *LayeredCache) Delete(key string) error {
	return errors.Join(c.fast.Delete(key), c.slow.Delete(key))
}

func (c *LayeredCache) Clear() error {
	return errors.Join(c.fast.Clear(), c.slow.Clear())
}
