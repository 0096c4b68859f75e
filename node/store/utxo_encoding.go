package store

import (
	"encoding/binary"
	"fmt"

	"ledgerchain.dev/node/ledger"
)

func encodeOutpointKey(o ledger.Outpoint) []byte {
	return append([]byte(nil), o[:]...)
}

func decodeOutpointKey(b []byte) (ledger.Outpoint, error) {
	if len(b) != 32 {
		return ledger.Outpoint{}, fmt.Errorf("outpoint: expected 32 bytes, got %d", len(b))
	}
	var o ledger.Outpoint
	copy(o[:], b)
	return o, nil
}

// encodeUtxoEntry is the canonical KV encoding of a TransactionOutput:
// value u64le | destination (kind-tagged) | output data (kind-tagged,
// presence byte first). It reuses the ledger package's own wire codec so
// the on-disk form and the hashing form never drift apart.
func encodeUtxoEntry(o ledger.TransactionOutput) []byte {
	return ledger.EncodeOutput(o)
}

func decodeUtxoEntry(b []byte) (ledger.TransactionOutput, error) {
	return ledger.DecodeOutput(b)
}

// encodeTokenIssuanceRecord lays out a TokenIssuanceRecord as
// kind(1) | outpoint(32) | data hash(32) | metadata uri (rest), since the
// URI is the only variable-length field and so must come last.
func encodeTokenIssuanceRecord(rec ledger.TokenIssuanceRecord) []byte {
	buf := make([]byte, 0, 65+len(rec.MetadataURI))
	buf = append(buf, byte(rec.Kind))
	buf = append(buf, rec.Outpoint[:]...)
	buf = append(buf, rec.DataHash[:]...)
	buf = append(buf, []byte(rec.MetadataURI)...)
	return buf
}

func decodeTokenIssuanceRecord(b []byte) (ledger.TokenIssuanceRecord, error) {
	if len(b) < 65 {
		return ledger.TokenIssuanceRecord{}, fmt.Errorf("token issuance record: truncated")
	}
	var rec ledger.TokenIssuanceRecord
	rec.Kind = ledger.OutputDataKind(b[0])
	copy(rec.Outpoint[:], b[1:33])
	copy(rec.DataHash[:], b[33:65])
	rec.MetadataURI = string(b[65:])
	return rec, nil
}

func encodeU64(v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return buf[:]
}

func decodeU64(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("u64: expected 8 bytes, got %d", len(b))
	}
	return binary.LittleEndian.Uint64(b), nil
}
