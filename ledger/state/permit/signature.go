package permit

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/Taraxa-project/networth-ledger/ledger/types"
	"github.com/Taraxa-project/networth-ledger/ledger/util"
)

var ErrSignature = util.ErrorString("Failed to verify signatures for the given permit")
var ErrPubKeyType = util.ErrorString("Unsupported permit public key type")

const signatureLength = 64

func Sign(key *btcec.PrivateKey, params Params) (ret Permit, err error) {
	hash := sha256.Sum256(SignBytes(params))
	// compact form is [recovery byte | r | s]
	compact, err := ecdsa.SignCompact(key, hash[:], true)
	if err != nil {
		return
	}
	ret.Params = params
	ret.Signature = Signature{
		PubKey: PubKey{
			Type:  PubKeySecp256k1Type,
			Value: key.PubKey().SerializeCompressed(),
		},
		Signature: compact[1:],
	}
	return
}

// Verify checks that the permit may be shown to audience and that its signature was made
// by the key it carries. It returns the account of that key.
func Verify(p *Permit, audience types.Identity, codec types.AddressCodec) (types.Identity, error) {
	if !p.Params.AllowsToken(audience.String()) {
		return types.Unset, &AudienceError{audience.String(), p.Params.AllowedTokens}
	}
	if p.Signature.PubKey.Type != PubKeySecp256k1Type {
		return types.Unset, ErrPubKeyType
	}
	if len(p.Signature.PubKey.Value) != btcec.PubKeyBytesLenCompressed {
		return types.Unset, ErrSignature
	}
	pub, err := btcec.ParsePubKey(p.Signature.PubKey.Value)
	if err != nil {
		return types.Unset, ErrSignature
	}
	sig := p.Signature.Signature
	if len(sig) != signatureLength {
		return types.Unset, ErrSignature
	}
	var r, s btcec.ModNScalar
	if r.SetByteSlice(sig[:32]) || s.SetByteSlice(sig[32:]) || r.IsZero() || s.IsZero() {
		return types.Unset, ErrSignature
	}
	hash := sha256.Sum256(SignBytes(p.Params))
	if !ecdsa.NewSignature(&r, &s).Verify(hash[:], pub) {
		return types.Unset, ErrSignature
	}
	return codec.FromPubKey(pub.SerializeCompressed())
}
