package keccak256

import (
	"hash"

	"golang.org/x/crypto/sha3"
)

const Size = 32

var hashers = func() chan hash.Hash {
	ret := make(chan hash.Hash, 64)
	for i := 0; i < cap(ret); i++ {
		ret <- sha3.NewLegacyKeccak256()
	}
	return ret
}()

// Hash returns the keccak256 digest of the concatenation of bs.
func Hash(bs ...[]byte) []byte {
	h := <-hashers
	for _, b := range bs {
		h.Write(b)
	}
	ret := h.Sum(make([]byte, 0, Size))
	h.Reset()
	hashers <- h
	return ret
}
