package types

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maxUint128 = "340282366920938463463374607431768211455"

func TestParseAmount(t *testing.T) {
	a, err := ParseAmount("0")
	require.NoError(t, err)
	assert.True(t, a.IsZero())

	a, err = ParseAmount(maxUint128)
	require.NoError(t, err)
	assert.Equal(t, maxUint128, a.String())

	_, err = ParseAmount("340282366920938463463374607431768211456")
	assert.ErrorIs(t, err, ErrAmountOverflow)

	for _, bad := range []string{"", "-1", "+1", "1.5", "0x10", "abc", " 1"} {
		_, err = ParseAmount(bad)
		assert.ErrorIs(t, err, ErrAmountFormat, bad)
	}
}

func TestAmountOrdering(t *testing.T) {
	one, two := NewAmount(1), NewAmount(2)
	assert.True(t, two.Gt(one))
	assert.False(t, one.Gt(two))
	assert.False(t, one.Gt(NewAmount(1)))
	assert.Equal(t, 0, one.Cmp(NewAmount(1)))
	assert.Equal(t, -1, one.Cmp(two))
}

func TestAmountBytes(t *testing.T) {
	assert.Equal(t, []byte{}, NewAmount(0).Bytes())
	assert.Equal(t, []byte{1, 0}, NewAmount(256).Bytes())

	max := MustParseAmount(maxUint128)
	decoded, err := AmountFromBytes(max.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 0, max.Cmp(decoded))

	_, err = AmountFromBytes(make([]byte, 17))
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestAmountJSON(t *testing.T) {
	var v struct {
		Networth Amount `json:"networth"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"networth":"42"}`), &v))
	assert.Equal(t, "42", v.Networth.String())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"networth":"42"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"networth":42}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"networth":"-42"}`), &v))
}

func TestAmountRLP(t *testing.T) {
	zero, err := rlp.EncodeToBytes(NewAmount(0))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80}, zero)

	for _, s := range []string{"0", "1", "1000000", maxUint128} {
		enc, err := rlp.EncodeToBytes(MustParseAmount(s))
		require.NoError(t, err)
		var dec Amount
		require.NoError(t, rlp.DecodeBytes(enc, &dec))
		assert.Equal(t, s, dec.String())
	}

	var dec Amount
	assert.Error(t, rlp.DecodeBytes([]byte{0x82, 0x00, 0x01}, &dec))
	too_long, err := rlp.EncodeToBytes(bytes.Repeat([]byte{1}, 17))
	require.NoError(t, err)
	assert.ErrorIs(t, rlp.DecodeBytes(too_long, &dec), ErrAmountOverflow)
}
