package types

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/ripemd160"

	"github.com/Taraxa-project/networth-ledger/ledger/util"
)

// Identity is a validated bech32 account address.
type Identity string

// Unset is the owner of an Outcome nobody has claimed yet. AddressCodec.Validate never returns it.
const Unset Identity = ""

const AddressLength = 20

const DefaultAddressPrefix = "secret"

var ErrInvalidAddress = util.ErrorString("Invalid input: address not normalized or malformed")

func (self Identity) String() string {
	return string(self)
}

func (self Identity) IsUnset() bool {
	return self == Unset
}

type AddressCodec struct {
	Prefix string
}

func NewAddressCodec(prefix string) AddressCodec {
	if prefix == "" {
		prefix = DefaultAddressPrefix
	}
	return AddressCodec{Prefix: prefix}
}

// Validate accepts only canonical lowercase addresses carrying this codec's prefix
// and exactly AddressLength bytes of payload.
func (self AddressCodec) Validate(addr string) (Identity, error) {
	if addr == "" || strings.ToLower(addr) != addr {
		return Unset, ErrInvalidAddress
	}
	hrp, data, err := bech32.Decode(addr)
	if err != nil {
		return Unset, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	if hrp != self.Prefix {
		return Unset, fmt.Errorf("%w: prefix %q, expected %q", ErrInvalidAddress, hrp, self.Prefix)
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Unset, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	if len(payload) != AddressLength {
		return Unset, fmt.Errorf("%w: payload is %d bytes", ErrInvalidAddress, len(payload))
	}
	return Identity(addr), nil
}

// Encode turns a raw AddressLength-byte payload into an address.
func (self AddressCodec) Encode(payload []byte) (Identity, error) {
	if len(payload) != AddressLength {
		return Unset, fmt.Errorf("%w: payload is %d bytes", ErrInvalidAddress, len(payload))
	}
	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return Unset, err
	}
	addr, err := bech32.Encode(self.Prefix, data)
	if err != nil {
		return Unset, err
	}
	return Identity(addr), nil
}

// FromPubKey derives the account of a compressed secp256k1 public key: ripemd160(sha256(key)).
func (self AddressCodec) FromPubKey(compressed []byte) (Identity, error) {
	sha := sha256.Sum256(compressed)
	hasher := ripemd160.New()
	hasher.Write(sha[:])
	return self.Encode(hasher.Sum(nil))
}

// FromLabel derives a stable address that has no key behind it, used for contract addresses.
func (self AddressCodec) FromLabel(label string) Identity {
	sum := sha256.Sum256([]byte("contract/" + label))
	ret, err := self.Encode(sum[:AddressLength])
	util.PanicIfNotNil(err)
	return ret
}
