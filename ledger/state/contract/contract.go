package contract

import (
	"fmt"

	"github.com/Taraxa-project/networth-ledger/ledger/types"
)

// Contract storage fields keys
var (
	field_state           = []byte("state")
	field_networths       = []byte("balances")
	field_viewing_keys    = []byte("viewing_keys")
	field_revoked_permits = []byte("revoked_permits")
)

// Contract answers one call against the storage it was created with. It keeps no state of
// its own between calls.
type Contract struct {
	cfg Config

	networths    Networths
	outcome      OutcomeTracker
	viewing_keys ViewingKeys
	permits      Permits
}

func (self *Contract) Init(cfg Config, storage Storage) *Contract {
	self.cfg = cfg
	self.networths.Init(storage, field_networths)
	self.outcome.Init(storage, field_state)
	self.viewing_keys.Init(storage, field_viewing_keys)
	self.permits.Init(storage, field_revoked_permits, cfg.ContractAddress, cfg.Codec)
	return self
}

func (self *Contract) Instantiated() (bool, error) {
	return self.outcome.Exists()
}

// Instantiate writes the initial outcome. It fails if the contract was instantiated before.
func (self *Contract) Instantiate() error {
	exists, err := self.outcome.Exists()
	if err != nil {
		return err
	}
	if exists {
		return &Error{Policy, ErrAlreadyInstantiated}
	}
	return self.outcome.Reset()
}

func (self *Contract) Outcome() (Outcome, error) {
	return self.outcome.Current()
}

func (self *Contract) Execute(sender types.Identity, msg ExecuteMsg) error {
	if sender.IsUnset() {
		return &Error{Validation, types.ErrInvalidAddress}
	}
	if msg == nil {
		return &Error{Validation, ErrMalformedMessage}
	}
	return msg.dispatch(self, sender)
}

// ExecuteRaw validates the sender address and decodes msg before executing it.
func (self *Contract) ExecuteRaw(sender string, raw []byte) error {
	id, err := self.cfg.Codec.Validate(sender)
	if err != nil {
		return &Error{Validation, err}
	}
	msg, err := ParseExecuteMsg(raw)
	if err != nil {
		return err
	}
	return self.Execute(id, msg)
}

func (self *Contract) Query(msg QueryMsg) (QueryAnswer, error) {
	if msg == nil {
		return nil, &Error{Validation, ErrMalformedMessage}
	}
	return msg.dispatch(self)
}

func (self *Contract) QueryRaw(raw []byte) ([]byte, error) {
	msg, err := ParseQueryMsg(raw)
	if err != nil {
		return nil, err
	}
	answer, err := self.Query(msg)
	if err != nil {
		return nil, err
	}
	return EncodeQueryAnswer(answer)
}

////////////////////////////////////////////////////////////////////////////
// Mutations

func (self *Contract) submitNetWorth(sender types.Identity, msg *SubmitNetWorth) error {
	if self.cfg.Resubmission == Reject {
		old, submitted, err := self.networths.Lookup(sender)
		if err != nil {
			return err
		}
		if submitted {
			return &Error{Policy, &AlreadySubmittedError{old}}
		}
	}
	if _, _, err := self.networths.Submit(sender, msg.Networth); err != nil {
		return err
	}
	_, err := self.outcome.UpdateIfGreater(sender, msg.Networth)
	return err
}

func (self *Contract) setViewingKey(sender types.Identity, msg *SetViewingKey) error {
	return self.viewing_keys.Set(sender, msg.Key)
}

func (self *Contract) revokePermit(sender types.Identity, msg *RevokePermit) error {
	return self.permits.Revoke(sender, msg.PermitName)
}

////////////////////////////////////////////////////////////////////////////
// Queries

func (self *Contract) authenticateViewingKey(addr, key string) (types.Identity, error) {
	id, err := self.cfg.Codec.Validate(addr)
	if err != nil {
		return types.Unset, &Error{Validation, err}
	}
	switch err := self.viewing_keys.Check(id, key); err {
	case nil:
	case ErrWrongViewingKey:
		return types.Unset, &Error{Authentication, err}
	default:
		return types.Unset, err
	}
	return id, nil
}

func (self *Contract) allInfo(msg *AllInfo) (QueryAnswer, error) {
	id, err := self.authenticateViewingKey(msg.Addr, msg.Key)
	if err != nil {
		return nil, err
	}
	return self.permitAllInfo(id)
}

func (self *Contract) amIRichest(msg *AmIRichest) (QueryAnswer, error) {
	id, err := self.authenticateViewingKey(msg.Addr, msg.Key)
	if err != nil {
		return nil, err
	}
	return self.permitAmIRichest(id)
}

func (self *Contract) withPermit(msg *WithPermit) (QueryAnswer, error) {
	if msg.Query == nil {
		return nil, &Error{Validation, fmt.Errorf("%w: permit query is missing", ErrMalformedMessage)}
	}
	account, err := self.permits.Authenticate(&msg.Permit, msg.Query.Permission())
	if err != nil {
		return nil, err
	}
	return msg.Query.dispatch(self, account)
}

func (self *Contract) permitAllInfo(account types.Identity) (QueryAnswer, error) {
	outcome, err := self.outcome.Current()
	if err != nil {
		return nil, err
	}
	networth, err := self.networths.Get(account)
	if err != nil {
		return nil, err
	}
	return &AllInfoAnswer{Richest: outcome.IsRichest(account), Networth: networth}, nil
}

func (self *Contract) permitAmIRichest(account types.Identity) (QueryAnswer, error) {
	outcome, err := self.outcome.Current()
	if err != nil {
		return nil, err
	}
	return &AmIRichestAnswer{Richest: outcome.IsRichest(account)}, nil
}
