//go:build rocksdb
// +build rocksdb

package db

import (
	"github.com/tecbot/gorocksdb"
)

type RocksDB struct {
	db *gorocksdb.DB
	ro *gorocksdb.ReadOptions
	wo *gorocksdb.WriteOptions
}

func (this *RocksDBConfig) Open() (Store, error) {
	table_opts := gorocksdb.NewDefaultBlockBasedTableOptions()
	bloom_bits := this.BloomFilterCapacity
	if bloom_bits < 10 {
		bloom_bits = 10
	}
	table_opts.SetFilterPolicy(gorocksdb.NewBloomFilter(bloom_bits))
	if this.BlockCacheSize != 0 {
		table_opts.SetBlockCache(gorocksdb.NewLRUCache(this.BlockCacheSize))
	}
	opts := gorocksdb.NewDefaultOptions()
	opts.SetCreateIfMissing(true)
	opts.SetBlockBasedTableFactory(table_opts)
	if this.MaxOpenFiles > 0 {
		opts.SetMaxOpenFiles(this.MaxOpenFiles)
	}
	db, err := gorocksdb.OpenDb(opts, this.File)
	if err != nil {
		return nil, err
	}
	wo := gorocksdb.NewDefaultWriteOptions()
	wo.SetSync(true)
	return &RocksDB{db, gorocksdb.NewDefaultReadOptions(), wo}, nil
}

func (self *RocksDB) Has(key []byte) (bool, error) {
	slice, err := self.db.Get(self.ro, key)
	if err != nil {
		return false, err
	}
	defer slice.Free()
	return slice.Exists(), nil
}

func (self *RocksDB) Get(key []byte) ([]byte, error) {
	slice, err := self.db.Get(self.ro, key)
	if err != nil {
		return nil, err
	}
	defer slice.Free()
	if !slice.Exists() {
		return nil, ErrNotFound
	}
	ret := make([]byte, slice.Size())
	copy(ret, slice.Data())
	return ret, nil
}

func (self *RocksDB) Put(key []byte, value []byte) error {
	return self.db.Put(self.wo, key, value)
}

func (self *RocksDB) Delete(key []byte) error {
	return self.db.Delete(self.wo, key)
}

func (self *RocksDB) NewBatch() Batch {
	return &rocksBatch{self, gorocksdb.NewWriteBatch()}
}

func (self *RocksDB) Close() error {
	self.db.Close()
	self.ro.Destroy()
	self.wo.Destroy()
	return nil
}

type rocksBatch struct {
	db    *RocksDB
	batch *gorocksdb.WriteBatch
}

func (self *rocksBatch) Put(key []byte, value []byte) error {
	self.batch.Put(key, value)
	return nil
}

func (self *rocksBatch) Delete(key []byte) error {
	self.batch.Delete(key)
	return nil
}

func (self *rocksBatch) Write() error {
	defer self.batch.Destroy()
	return self.db.db.Write(self.db.wo, self.batch)
}
