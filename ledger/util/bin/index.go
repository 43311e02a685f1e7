package bin

import (
	"math"

	"github.com/Taraxa-project/networth-ledger/ledger/util/asserts"
)

func ENC_b_endian_16(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}

func DEC_b_endian_16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

// LengthPrefixed encodes each namespace as a 2 byte big endian length followed by its bytes,
// then appends the key unprefixed. Distinct (namespaces, key) tuples never produce the same bytes.
func LengthPrefixed(key []byte, namespaces ...[]byte) []byte {
	size := len(key)
	for _, ns := range namespaces {
		asserts.Holds(len(ns) <= math.MaxUint16, "namespace too long")
		size += 2 + len(ns)
	}
	ret := make([]byte, 0, size)
	for _, ns := range namespaces {
		ret = append(ret, ENC_b_endian_16(uint16(len(ns)))...)
		ret = append(ret, ns...)
	}
	return append(ret, key...)
}
