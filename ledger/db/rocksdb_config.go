package db

type RocksDBConfig struct {
	File                string `json:"file"`
	MaxOpenFiles        int    `json:"maxOpenFiles"`
	BloomFilterCapacity int    `json:"bloomFilterCapacity"`
	BlockCacheSize      uint64 `json:"blockCacheSize"`
}
