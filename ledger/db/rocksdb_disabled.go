//go:build !rocksdb
// +build !rocksdb

package db

import "github.com/Taraxa-project/networth-ledger/ledger/util"

var ErrRocksDBDisabled = util.ErrorString("binary built without the rocksdb tag")

func (this *RocksDBConfig) Open() (Store, error) {
	return nil, ErrRocksDBDisabled
}
