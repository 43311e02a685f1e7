package contract

import (
	"fmt"

	"github.com/Taraxa-project/networth-ledger/ledger/types"
	"github.com/Taraxa-project/networth-ledger/ledger/util"
	"github.com/Taraxa-project/networth-ledger/ledger/util/asserts"
)

// Storage is the key-value view a contract works against for the duration of one call.
// Get calls cb only when the key holds a value.
type Storage interface {
	Get(k []byte, cb func([]byte)) error
	Put(k []byte, v []byte) error
}

type ResubmissionPolicy int

const (
	// Overwrite keeps only the latest submission of every identity
	Overwrite ResubmissionPolicy = iota
	// Reject refuses every submission after the first one
	Reject
)

func (self ResubmissionPolicy) String() string {
	if self == Reject {
		return "reject"
	}
	return "overwrite"
}

func ParseResubmissionPolicy(s string) (ResubmissionPolicy, error) {
	switch s {
	case "", "overwrite":
		return Overwrite, nil
	case "reject":
		return Reject, nil
	}
	return Overwrite, fmt.Errorf("unknown resubmission policy %q", s)
}

type Config struct {
	// Permits must list this address among their allowed tokens
	ContractAddress types.Identity
	Codec           types.AddressCodec
	Resubmission    ResubmissionPolicy
}

type API struct {
	cfg Config
}

func (self *API) Init(cfg Config) *API {
	addr, err := cfg.Codec.Validate(cfg.ContractAddress.String())
	util.PanicIfNotNil(err)
	asserts.Holds(cfg.Resubmission == Overwrite || cfg.Resubmission == Reject)
	cfg.ContractAddress = addr
	self.cfg = cfg
	return self
}

func (self *API) Config() Config {
	return self.cfg
}

func (self *API) NewContract(storage Storage) *Contract {
	return new(Contract).Init(self.cfg, storage)
}
