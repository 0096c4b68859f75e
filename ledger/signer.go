package ledger

import (
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// SchnorrSigBytes is the fixed wire length of a BIP340-style Schnorr
// signature: this core's Pubkey destinations carry exactly one of these
// as the input's entire Witness.
const SchnorrSigBytes = 64

// verifySchnorr checks that sig is a valid Schnorr signature by pubkey
// over digest. pubkey is the 32-byte x-only public key carried in the
// Destination; sig must be exactly SchnorrSigBytes long.
func verifySchnorr(pubkey [32]byte, sig []byte, digest H256) (bool, error) {
	if len(sig) != SchnorrSigBytes {
		return false, rejectf(KindAuthorization, "bad signature format")
	}
	pk, err := schnorr.ParsePubKey(pubkey[:])
	if err != nil {
		return false, rejectf(KindAuthorization, "bad signature format")
	}
	parsed, err := schnorr.ParseSignature(sig)
	if err != nil {
		return false, rejectf(KindAuthorization, "bad signature format")
	}
	return parsed.Verify(digest[:], pk), nil
}
