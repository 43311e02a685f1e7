package db

import (
	"errors"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/ethereum/go-ethereum/common"
)

// Overlay is the view a single call has of a Store. Reads fall through to the backend
// unless the call already wrote the key; writes stay in memory until Commit applies them
// as one batch. Discard drops them, which is how a failed call leaves no trace.
type Overlay struct {
	backend Reader
	batcher interface{ NewBatch() Batch }
	writes  map[string][]byte
}

func NewOverlay(backend Store) *Overlay {
	return &Overlay{backend: backend, batcher: backend}
}

// NewReadOnlyOverlay cannot be committed.
func NewReadOnlyOverlay(backend Reader) *Overlay {
	return &Overlay{backend: backend}
}

// Get calls cb only when the key holds a value.
func (self *Overlay) Get(k []byte, cb func([]byte)) error {
	if val, present := self.writes[string(k)]; present {
		if val != nil {
			cb(val)
		}
		return nil
	}
	val, err := self.backend.Get(k)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	cb(val)
	return nil
}

func (self *Overlay) Put(k []byte, v []byte) error {
	if v == nil {
		v = []byte{}
	}
	self.write(k, common.CopyBytes(v))
	return nil
}

func (self *Overlay) Delete(k []byte) error {
	self.write(k, nil)
	return nil
}

func (self *Overlay) write(k []byte, v []byte) {
	if self.writes == nil {
		self.writes = make(map[string][]byte)
	}
	self.writes[string(k)] = v
}

func (self *Overlay) Dirty() int {
	return len(self.writes)
}

func (self *Overlay) Commit() error {
	if len(self.writes) == 0 {
		return nil
	}
	if self.batcher == nil {
		return ErrReadOnly
	}
	// deterministic write order
	keys := treeset.NewWith(utils.StringComparator)
	for k := range self.writes {
		keys.Add(k)
	}
	batch := self.batcher.NewBatch()
	for _, key := range keys.Values() {
		k := key.(string)
		var err error
		if v := self.writes[k]; v == nil {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), v)
		}
		if err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	self.writes = nil
	return nil
}

func (self *Overlay) Discard() {
	self.writes = nil
}
