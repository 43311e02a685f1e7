package db

import (
	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	ldb_errors "github.com/syndtr/goleveldb/leveldb/errors"
)

type LevelDBConfig struct {
	File    string `json:"file"`
	Cache   int    `json:"cache"`
	Handles int    `json:"handles"`
}

func (this *LevelDBConfig) Open() (Store, error) {
	ldb, err := leveldb.New(this.File, this.Cache, this.Handles, "ledger/db/")
	if err != nil {
		return nil, err
	}
	return &LevelDB{ldb}, nil
}

type LevelDB struct {
	db *leveldb.Database
}

func (self *LevelDB) Has(key []byte) (bool, error) {
	return self.db.Has(key)
}

func (self *LevelDB) Get(key []byte) ([]byte, error) {
	ret, err := self.db.Get(key)
	if err == ldb_errors.ErrNotFound {
		return nil, ErrNotFound
	}
	return ret, err
}

func (self *LevelDB) Put(key []byte, value []byte) error {
	return self.db.Put(key, value)
}

func (self *LevelDB) Delete(key []byte) error {
	return self.db.Delete(key)
}

func (self *LevelDB) NewBatch() Batch {
	return self.db.NewBatch()
}

func (self *LevelDB) Close() error {
	return self.db.Close()
}
