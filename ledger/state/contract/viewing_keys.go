package contract

import (
	"crypto/subtle"

	"github.com/Taraxa-project/networth-ledger/ledger/types"
	"github.com/Taraxa-project/networth-ledger/ledger/util/bin"
	"github.com/Taraxa-project/networth-ledger/ledger/util/keccak256"
)

// Only the keccak256 digest of a viewing key is stored.
type ViewingKeys struct {
	storage Storage
	field   []byte
}

func (self *ViewingKeys) Init(stor Storage, field []byte) *ViewingKeys {
	self.storage = stor
	self.field = field
	return self
}

func (self *ViewingKeys) key(id types.Identity) []byte {
	return bin.LengthPrefixed([]byte(id), self.field)
}

func (self *ViewingKeys) Set(id types.Identity, key string) error {
	return self.storage.Put(self.key(id), keccak256.Hash([]byte(key)))
}

// Check fails with ErrWrongViewingKey both when no key is set and when key does not match.
func (self *ViewingKeys) Check(id types.Identity, key string) error {
	stored := make([]byte, keccak256.Size)
	present := false
	if err := self.storage.Get(self.key(id), func(bytes []byte) {
		present = true
		copy(stored, bytes)
	}); err != nil {
		return err
	}
	matches := subtle.ConstantTimeCompare(stored, keccak256.Hash([]byte(key))) == 1
	if !present || !matches {
		return ErrWrongViewingKey
	}
	return nil
}
