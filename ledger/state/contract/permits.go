package contract

import (
	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/Taraxa-project/networth-ledger/ledger/state/permit"
	"github.com/Taraxa-project/networth-ledger/ledger/types"
	"github.com/Taraxa-project/networth-ledger/ledger/util/bin"
)

// Permits validates query permits and keeps the per-account revocation list
// under <revoked_permits, account, permit name>.
type Permits struct {
	storage  Storage
	field    []byte
	audience types.Identity
	codec    types.AddressCodec
}

func (self *Permits) Init(stor Storage, field []byte, audience types.Identity, codec types.AddressCodec) *Permits {
	self.storage = stor
	self.field = field
	self.audience = audience
	self.codec = codec
	return self
}

func (self *Permits) key(account types.Identity, permit_name string) []byte {
	return bin.LengthPrefixed([]byte(permit_name), self.field, []byte(account))
}

func (self *Permits) Revoke(account types.Identity, permit_name string) error {
	return self.storage.Put(self.key(account, permit_name), []byte{1})
}

func (self *Permits) IsRevoked(account types.Identity, permit_name string) (ret bool, err error) {
	err = self.storage.Get(self.key(account, permit_name), func([]byte) {
		ret = true
	})
	return
}

// Authenticate runs the permit through signature and audience verification, the revocation
// list and the permission check, in that order, and returns the account that signed it.
func (self *Permits) Authenticate(p *permit.Permit, required Permission) (types.Identity, error) {
	account, err := permit.Verify(p, self.audience, self.codec)
	if err != nil {
		return types.Unset, &Error{Authentication, err}
	}
	revoked, err := self.IsRevoked(account, p.Params.PermitName)
	if err != nil {
		return types.Unset, err
	}
	if revoked {
		return types.Unset, &Error{Authentication, &RevokedPermitError{account, p.Params.PermitName}}
	}
	granted, err := grantedPermissions(p)
	if err != nil {
		return types.Unset, err
	}
	if !granted.Contains(required) {
		ret := &PermissionError{Required: required}
		for _, v := range granted.Values() {
			ret.Granted = append(ret.Granted, v.(Permission))
		}
		return types.Unset, &Error{Authorization, ret}
	}
	return account, nil
}

func grantedPermissions(p *permit.Permit) (*linkedhashset.Set, error) {
	ret := linkedhashset.New()
	for _, name := range p.Params.Permissions {
		permission, err := ParsePermission(name)
		if err != nil {
			return nil, &Error{Validation, err}
		}
		ret.Add(permission)
	}
	return ret, nil
}
