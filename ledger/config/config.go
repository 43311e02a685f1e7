// Package config loads node settings from an optional YAML file and LEDGER_* environment
// variables.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/Taraxa-project/networth-ledger/ledger/db"
	"github.com/Taraxa-project/networth-ledger/ledger/state/contract"
	"github.com/Taraxa-project/networth-ledger/ledger/types"
)

const EnvPrefix = "LEDGER"

type Config struct {
	Contract contract.Config
	DB       db.Config
	Listen   string
	LogLevel logrus.Level
	LogJSON  bool
}

// SetDefaults registers every key with its default so env overrides work without a file.
func SetDefaults(v *viper.Viper) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	v.SetDefault("contract.label", "networth-ledger")
	v.SetDefault("contract.address", "")
	v.SetDefault("contract.address_prefix", types.DefaultAddressPrefix)
	v.SetDefault("contract.resubmission", contract.Overwrite.String())
	v.SetDefault("db.backend", db.BackendMemory)
	v.SetDefault("db.path", filepath.Join(home, ".networth-ledger", "data"))
	v.SetDefault("db.cache_size", 1024)
	v.SetDefault("db.leveldb.cache", 16)
	v.SetDefault("db.leveldb.handles", 16)
	v.SetDefault("db.rocksdb.max_open_files", 256)
	v.SetDefault("db.rocksdb.block_cache_size", 32<<20)
	v.SetDefault("db.rocksdb.bloom_filter_bits", 10)
	v.SetDefault("db.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("db.mongo.database", "ledger")
	v.SetDefault("db.mongo.collection", "kv")
	v.SetDefault("db.mongo.timeout", 10*time.Second)
	v.SetDefault("rpc.listen", "127.0.0.1:1317")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads path if it is not empty and decodes the settings.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return Decode(v)
}

func Decode(v *viper.Viper) (ret *Config, err error) {
	ret = new(Config)

	codec := types.NewAddressCodec(v.GetString("contract.address_prefix"))
	ret.Contract.Codec = codec
	if addr := v.GetString("contract.address"); addr != "" {
		if ret.Contract.ContractAddress, err = codec.Validate(addr); err != nil {
			return nil, fmt.Errorf("contract.address: %w", err)
		}
	} else {
		ret.Contract.ContractAddress = codec.FromLabel(v.GetString("contract.label"))
	}
	if ret.Contract.Resubmission, err = contract.ParseResubmissionPolicy(v.GetString("contract.resubmission")); err != nil {
		return nil, fmt.Errorf("contract.resubmission: %w", err)
	}

	path := v.GetString("db.path")
	ret.DB = db.Config{
		Backend:   v.GetString("db.backend"),
		CacheSize: v.GetInt("db.cache_size"),
		LevelDB: db.LevelDBConfig{
			File:    path,
			Cache:   v.GetInt("db.leveldb.cache"),
			Handles: v.GetInt("db.leveldb.handles"),
		},
		RocksDB: db.RocksDBConfig{
			File:                path,
			MaxOpenFiles:        v.GetInt("db.rocksdb.max_open_files"),
			BlockCacheSize:      v.GetUint64("db.rocksdb.block_cache_size"),
			BloomFilterCapacity: v.GetInt("db.rocksdb.bloom_filter_bits"),
		},
		Mongo: db.MongoConfig{
			URI:        v.GetString("db.mongo.uri"),
			Database:   v.GetString("db.mongo.database"),
			Collection: v.GetString("db.mongo.collection"),
			Timeout:    v.GetDuration("db.mongo.timeout"),
		},
	}
	switch ret.DB.Backend {
	case db.BackendMemory, db.BackendLevelDB, db.BackendRocksDB, db.BackendMongo:
	default:
		return nil, fmt.Errorf("db.backend: unknown backend %q", ret.DB.Backend)
	}

	ret.Listen = v.GetString("rpc.listen")
	if ret.LogLevel, err = logrus.ParseLevel(v.GetString("log.level")); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	switch format := v.GetString("log.format"); format {
	case "text":
	case "json":
		ret.LogJSON = true
	default:
		return nil, fmt.Errorf("log.format: unknown format %q", format)
	}
	return ret, nil
}

func (self *Config) NewLogger() *logrus.Logger {
	ret := logrus.New()
	ret.SetLevel(self.LogLevel)
	if self.LogJSON {
		ret.SetFormatter(&logrus.JSONFormatter{})
	}
	return ret
}

func (self *Config) OpenStore(ctx context.Context) (db.Store, error) {
	return db.Open(ctx, self.DB)
}
