package db

import (
	"context"
	"fmt"
	"io"

	"github.com/Taraxa-project/networth-ledger/ledger/util"
)

var ErrNotFound = util.ErrorString("not found")
var ErrReadOnly = util.ErrorString("read-only overlay cannot be committed")

type Reader interface {
	Has(key []byte) (bool, error)
	// Get returns ErrNotFound for absent keys.
	Get(key []byte) ([]byte, error)
}

type Writer interface {
	Put(key []byte, value []byte) error
	Delete(key []byte) error
}

// Batch buffers writes until Write applies all of them atomically.
type Batch interface {
	Writer
	Write() error
}

type Store interface {
	Reader
	Writer
	NewBatch() Batch
	io.Closer
}

const (
	BackendMemory  = "memory"
	BackendLevelDB = "leveldb"
	BackendRocksDB = "rocksdb"
	BackendMongo   = "mongo"
)

type Config struct {
	Backend   string
	LevelDB   LevelDBConfig
	RocksDB   RocksDBConfig
	Mongo     MongoConfig
	CacheSize int
}

func Open(ctx context.Context, cfg Config) (ret Store, err error) {
	switch cfg.Backend {
	case BackendMemory, "":
		ret = NewMemDatabase()
	case BackendLevelDB:
		ret, err = cfg.LevelDB.Open()
	case BackendRocksDB:
		ret, err = cfg.RocksDB.Open()
	case BackendMongo:
		ret, err = cfg.Mongo.Open(ctx)
	default:
		return nil, fmt.Errorf("unknown db backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	if cfg.CacheSize > 0 {
		cached, err := NewCached(ret, cfg.CacheSize)
		if err != nil {
			ret.Close()
			return nil, err
		}
		return cached, nil
	}
	return
}
