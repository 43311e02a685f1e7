package contract

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/Taraxa-project/networth-ledger/ledger/types"
	"github.com/Taraxa-project/networth-ledger/ledger/util/bin"
)

// Outcome is the largest networth ever submitted and the first identity that submitted it.
type Outcome struct {
	Richest  types.Identity
	Networth types.Amount
}

func InitialOutcome() Outcome {
	return Outcome{Richest: types.Unset}
}

func (self *Outcome) IsRichest(id types.Identity) bool {
	return !self.Richest.IsUnset() && self.Richest == id
}

type OutcomeTracker struct {
	storage Storage
	key     []byte
}

func (self *OutcomeTracker) Init(stor Storage, field []byte) *OutcomeTracker {
	self.storage = stor
	self.key = bin.LengthPrefixed(nil, field)
	return self
}

func (self *OutcomeTracker) Exists() (ret bool, err error) {
	err = self.storage.Get(self.key, func([]byte) {
		ret = true
	})
	return
}

func (self *OutcomeTracker) Current() (ret Outcome, err error) {
	var present bool
	var dec_err error
	if err = self.storage.Get(self.key, func(bytes []byte) {
		present = true
		dec_err = rlp.DecodeBytes(bytes, &ret)
	}); err != nil {
		return
	}
	if !present {
		return ret, ErrNotInstantiated
	}
	return ret, dec_err
}

func (self *OutcomeTracker) save(outcome Outcome) error {
	enc, err := rlp.EncodeToBytes(&outcome)
	if err != nil {
		return err
	}
	return self.storage.Put(self.key, enc)
}

func (self *OutcomeTracker) Reset() error {
	return self.save(InitialOutcome())
}

// UpdateIfGreater replaces the outcome only when amount is strictly greater than the current
// maximum, so on ties the earlier identity keeps its place.
func (self *OutcomeTracker) UpdateIfGreater(id types.Identity, amount types.Amount) (updated bool, err error) {
	current, err := self.Current()
	if err != nil || !amount.Gt(current.Networth) {
		return
	}
	return true, self.save(Outcome{id, amount})
}
