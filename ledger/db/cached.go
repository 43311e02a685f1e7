package db

import (
	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"
)

// Cached keeps recently read values in an LRU in front of a slower Store.
// Writes go through to the backend first and then update the cache.
type Cached struct {
	Store
	cache *lru.Cache
}

func NewCached(backend Store, size int) (*Cached, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cached{backend, cache}, nil
}

func (self *Cached) Has(key []byte) (bool, error) {
	if self.cache.Contains(string(key)) {
		return true, nil
	}
	return self.Store.Has(key)
}

func (self *Cached) Get(key []byte) ([]byte, error) {
	if val, present := self.cache.Get(string(key)); present {
		return common.CopyBytes(val.([]byte)), nil
	}
	val, err := self.Store.Get(key)
	if err != nil {
		return nil, err
	}
	self.cache.Add(string(key), common.CopyBytes(val))
	return val, nil
}

func (self *Cached) Put(key []byte, value []byte) error {
	if err := self.Store.Put(key, value); err != nil {
		self.cache.Remove(string(key))
		return err
	}
	self.cache.Add(string(key), common.CopyBytes(value))
	return nil
}

func (self *Cached) Delete(key []byte) error {
	self.cache.Remove(string(key))
	return self.Store.Delete(key)
}

func (self *Cached) NewBatch() Batch {
	return &cachedBatch{owner: self, Batch: self.Store.NewBatch()}
}

type cachedBatch struct {
	Batch
	owner   *Cached
	touched []string
}

func (self *cachedBatch) Put(key []byte, value []byte) error {
	self.touched = append(self.touched, string(key))
	return self.Batch.Put(key, value)
}

func (self *cachedBatch) Delete(key []byte) error {
	self.touched = append(self.touched, string(key))
	return self.Batch.Delete(key)
}

// Write evicts every touched key, so the next read observes the backend's result.
func (self *cachedBatch) Write() error {
	defer func() {
		for _, k := range self.touched {
			self.owner.cache.Remove(k)
		}
	}()
	return self.Batch.Write()
}
