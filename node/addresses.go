package node

import (
	"fmt"

	"github.com/decred/dcrd/bech32"

	"ledgerchain.dev/node/ledger"
)

// addressHRP is the bech32 human-readable prefix this chain's addresses
// use. send_to_address and every CLI/RPC surface that prints or parses an
// address goes through EncodeAddress/DecodeAddress so the prefix only
// needs to change in one place.
const addressHRP = "ledger"

// EncodeAddress renders d as a bech32 address: the canonical destination
// encoding, repacked into 5-bit groups and wrapped with the chain's HRP
// and checksum.
func EncodeAddress(d ledger.Destination) (string, error) {
	payload := ledger.EncodeDestinationForAddress(d)
	converted, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("address: convert bits: %w", err)
	}
	addr, err := bech32.Encode(addressHRP, converted)
	if err != nil {
		return "", fmt.Errorf("address: encode: %w", err)
	}
	return addr, nil
}

// DecodeAddress parses a bech32 address produced by EncodeAddress back
// into a Destination.
func DecodeAddress(addr string) (ledger.Destination, error) {
	hrp, data, err := bech32.Decode(addr)
	if err != nil {
		return ledger.Destination{}, fmt.Errorf("address: decode: %w", err)
	}
	if hrp != addressHRP {
		return ledger.Destination{}, fmt.Errorf("address: unexpected hrp %q", hrp)
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return ledger.Destination{}, fmt.Errorf("address: convert bits: %w", err)
	}
	return ledger.DecodeDestinationFromAddress(payload)
}
