package contract

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/Taraxa-project/networth-ledger/ledger/types"
	"github.com/Taraxa-project/networth-ledger/ledger/util/bin"
)

// Networths holds the latest submission of every identity under <balances, identity>.
type Networths struct {
	storage Storage
	field   []byte
}

func (self *Networths) Init(stor Storage, field []byte) *Networths {
	self.storage = stor
	self.field = field
	return self
}

func (self *Networths) key(id types.Identity) []byte {
	return bin.LengthPrefixed([]byte(id), self.field)
}

// Lookup reports whether id ever submitted and its latest amount.
func (self *Networths) Lookup(id types.Identity) (ret types.Amount, present bool, err error) {
	var dec_err error
	if err = self.storage.Get(self.key(id), func(bytes []byte) {
		present = true
		dec_err = rlp.DecodeBytes(bytes, &ret)
	}); err == nil {
		err = dec_err
	}
	return
}

// Get returns zero for identities that never submitted.
func (self *Networths) Get(id types.Identity) (types.Amount, error) {
	ret, _, err := self.Lookup(id)
	return ret, err
}

// Submit stores amount as the latest submission of id and returns the one it replaced, if any.
func (self *Networths) Submit(id types.Identity, amount types.Amount) (old types.Amount, had_old bool, err error) {
	if old, had_old, err = self.Lookup(id); err != nil {
		return
	}
	enc, err := rlp.EncodeToBytes(amount)
	if err != nil {
		return
	}
	err = self.storage.Put(self.key(id), enc)
	return
}
