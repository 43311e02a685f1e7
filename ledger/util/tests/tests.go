package tests

import (
	"crypto/sha256"
	"encoding/binary"
	"os"
	"runtime"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"

	"github.com/Taraxa-project/networth-ledger/ledger/types"
	"github.com/Taraxa-project/networth-ledger/ledger/util"
	"github.com/Taraxa-project/networth-ledger/ledger/util/asserts"
	"github.com/Taraxa-project/networth-ledger/ledger/util/files"
	"github.com/Taraxa-project/networth-ledger/ledger/util/keccak256"
)

type TestCtx struct {
	*testing.T
	Assert   assert.Assertions
	data_dir string
}

func NewTestCtx(t *testing.T) (ret TestCtx) {
	ret.T = t
	ret.Assert = *assert.New(t)
	return
}

func (self *TestCtx) Close() {
	if len(self.data_dir) != 0 {
		files.RemoveAll(self.data_dir)
	}
}

func (self *TestCtx) DataDir() string {
	if len(self.data_dir) != 0 {
		return self.data_dir
	}
	_, test_file_path, _, _ := runtime.Caller(1)
	h := keccak256.Hash([]byte(test_file_path), []byte(self.Name()))
	self.data_dir = files.CreateDirectoriesClean(os.TempDir(), hexutil.Encode(h))
	return self.data_dir
}

var Codec = types.NewAddressCodec(types.DefaultAddressPrefix)

type Account struct {
	Key      *btcec.PrivateKey
	Identity types.Identity
}

// NewAccount derives a deterministic key pair from i, so test failures are reproducible.
func NewAccount(i uint64) (ret Account) {
	asserts.Holds(i > 0)
	var seed [8]byte
	binary.BigEndian.PutUint64(seed[:], i)
	sum := sha256.Sum256(seed[:])
	ret.Key, _ = btcec.PrivKeyFromBytes(sum[:])
	var err error
	ret.Identity, err = Codec.FromPubKey(ret.Key.PubKey().SerializeCompressed())
	util.PanicIfNotNil(err)
	return
}

func Addr(i uint64) types.Identity {
	return NewAccount(i).Identity
}
