package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taraxa-project/networth-ledger/ledger/db"
	"github.com/Taraxa-project/networth-ledger/ledger/state/contract"
	"github.com/Taraxa-project/networth-ledger/ledger/types"
	"github.com/Taraxa-project/networth-ledger/ledger/util/tests"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	codec := types.NewAddressCodec(types.DefaultAddressPrefix)
	assert.Equal(t, codec.FromLabel("networth-ledger"), cfg.Contract.ContractAddress)
	assert.Equal(t, contract.Overwrite, cfg.Contract.Resubmission)
	assert.Equal(t, db.BackendMemory, cfg.DB.Backend)
	assert.Equal(t, 1024, cfg.DB.CacheSize)
	assert.Equal(t, 16, cfg.DB.LevelDB.Handles)
	assert.Equal(t, "127.0.0.1:1317", cfg.Listen)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.False(t, cfg.LogJSON)
}

func TestFileAndEnv(t *testing.T) {
	tc := tests.NewTestCtx(t)
	defer tc.Close()

	path := filepath.Join(tc.DataDir(), "ledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
contract:
  resubmission: reject
  label: staging
db:
  backend: leveldb
  path: /var/lib/ledger
  cache_size: 0
log:
  format: json
`), 0644))
	t.Setenv("LEDGER_RPC_LISTEN", "0.0.0.0:9000")
	t.Setenv("LEDGER_LOG_LEVEL", "debug")

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	tc.Assert.Equal(contract.Reject, cfg.Contract.Resubmission)
	tc.Assert.Equal(tests.Codec.FromLabel("staging"), cfg.Contract.ContractAddress)
	tc.Assert.Equal(db.BackendLevelDB, cfg.DB.Backend)
	tc.Assert.Equal("/var/lib/ledger", cfg.DB.LevelDB.File)
	tc.Assert.Equal(0, cfg.DB.CacheSize)
	tc.Assert.True(cfg.LogJSON)
	tc.Assert.Equal(logrus.DebugLevel, cfg.LogLevel)
	tc.Assert.Equal("0.0.0.0:9000", cfg.Listen)
}

func TestExplicitContractAddress(t *testing.T) {
	v := New()
	addr := tests.Addr(7)
	v.Set("contract.address", addr.String())
	cfg, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, addr, cfg.Contract.ContractAddress)

	v.Set("contract.address_prefix", "cosmos")
	_, err = Decode(v)
	assert.ErrorIs(t, err, types.ErrInvalidAddress)
}

func TestInvalidSettings(t *testing.T) {
	for key, value := range map[string]string{
		"contract.resubmission": "sometimes",
		"db.backend":            "postgres",
		"log.level":             "loud",
		"log.format":            "xml",
	} {
		v := New()
		v.Set(key, value)
		_, err := Decode(v)
		assert.Error(t, err, key)
	}
}
