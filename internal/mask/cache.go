package mask

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultCacheSize = 256

// Cache memoizes compiled masks by Key so each pattern set is parsed once.
type Cache struct {
	lru *lru.Cache[string, *Compiled]
}

func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, *Compiled](size)
	if err != nil {
		// lru.New only fails on a non-positive size
		panic(err)
	}
	return &Cache{lru: c}
}

// Get returns the compiled form of m, compiling it on first use.
func (c *Cache) Get(m Mask) (*Compiled, error) {
	key := m.Key()
	if cm, ok := c.lru.Get(key); ok {
		return cm, nil
	}
	cm, err := Compile(m)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, cm)
	return cm, nil
}

func (c *Cache) Len() int { return c.lru.Len() }
