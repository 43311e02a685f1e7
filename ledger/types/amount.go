package types

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/Taraxa-project/networth-ledger/ledger/util"
)

const AmountBits = 128

var ErrAmountOverflow = util.ErrorString("amount does not fit into 128 bits")
var ErrAmountFormat = util.ErrorString("amount must be an unsigned decimal string")

// Amount is an unsigned 128-bit integer. The zero value is 0.
type Amount struct {
	v uint256.Int
}

func NewAmount(x uint64) (ret Amount) {
	ret.v.SetUint64(x)
	return
}

func ParseAmount(s string) (ret Amount, err error) {
	if len(s) == 0 || s[0] < '0' || s[0] > '9' {
		return ret, ErrAmountFormat
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return ret, ErrAmountFormat
	}
	if b.BitLen() > AmountBits {
		return ret, ErrAmountOverflow
	}
	v, _ := uint256.FromBig(b)
	ret.v = *v
	return
}

func MustParseAmount(s string) Amount {
	ret, err := ParseAmount(s)
	util.PanicIfNotNil(err)
	return ret
}

// AmountFromBytes decodes the big-endian form produced by Bytes.
func AmountFromBytes(b []byte) (ret Amount, err error) {
	if len(b) > AmountBits/8 {
		return ret, ErrAmountOverflow
	}
	ret.v.SetBytes(b)
	return
}

// Bytes is the minimal big-endian encoding; zero encodes to an empty slice.
func (self Amount) Bytes() []byte {
	if self.v.IsZero() {
		return []byte{}
	}
	return self.v.Bytes()
}

func (self Amount) Cmp(other Amount) int {
	return self.v.Cmp(&other.v)
}

func (self Amount) Gt(other Amount) bool {
	return self.v.Gt(&other.v)
}

func (self Amount) IsZero() bool {
	return self.v.IsZero()
}

func (self Amount) ToBig() *big.Int {
	return self.v.ToBig()
}

func (self Amount) String() string {
	return self.v.ToBig().String()
}

func (self Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}

func (self *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrAmountFormat, string(data))
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*self = parsed
	return nil
}

// EncodeRLP writes the amount as an RLP string holding Bytes, the same encoding rlp uses for big.Int.
func (self Amount) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, self.Bytes())
}

func (self *Amount) DecodeRLP(s *rlp.Stream) error {
	b, err := s.Bytes()
	if err != nil {
		return err
	}
	if len(b) != 0 && b[0] == 0 {
		return rlp.ErrCanonInt
	}
	parsed, err := AmountFromBytes(b)
	if err != nil {
		return err
	}
	*self = parsed
	return nil
}
