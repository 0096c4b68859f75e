package ledger

// Canonical, deterministic binary encoding. Two honest implementations of
// this ledger must produce byte-identical output for the same logical
// transaction: fixed field order, little-endian integers, length-prefixed
// byte strings (CompactSize) — never a language's default serialization.

func encodeDestination(d Destination) []byte {
	out := make([]byte, 0, 34)
	out = append(out, byte(d.Kind))
	switch d.Kind {
	case DestPubkey:
		out = append(out, d.Pubkey[:]...)
	case DestScriptHash:
		out = append(out, d.ScriptHash[:]...)
	case DestCreatePP:
		out = append(out, CompactSize(len(d.Code)).Encode()...)
		out = append(out, d.Code...)
		out = append(out, CompactSize(len(d.Data)).Encode()...)
		out = append(out, d.Data...)
	case DestCallPP:
		out = append(out, d.Account[:]...)
		if d.Fund {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
		out = append(out, CompactSize(len(d.Data)).Encode()...)
		out = append(out, d.Data...)
	}
	return out
}

func encodeOutputData(d *OutputData) []byte {
	if d == nil {
		return []byte{0}
	}
	out := make([]byte, 0, 64)
	out = append(out, 1, byte(d.Kind))
	switch d.Kind {
	case DataTokenIssuanceV1:
		out = append(out, d.TokenID[:]...)
		out = append(out, CompactSize(len(d.TokenTicker)).Encode()...)
		out = append(out, d.TokenTicker...)
		out = appendU64le(out, d.AmountToIssue)
		out = append(out, d.NumberOfDecimals)
		out = append(out, CompactSize(len(d.MetadataURI)).Encode()...)
		out = append(out, d.MetadataURI...)
	case DataTokenTransferV1:
		out = append(out, d.TokenID[:]...)
		out = appendU64le(out, d.Amount)
	case DataTokenBurnV1:
		out = append(out, d.TokenID[:]...)
		out = appendU64le(out, d.AmountToBurn)
	case DataNftMintV1:
		out = append(out, d.TokenID[:]...)
		out = append(out, d.DataHash[:]...)
		out = append(out, CompactSize(len(d.MetadataURI)).Encode()...)
		out = append(out, d.MetadataURI...)
	}
	return out
}

// EncodeDestinationForAddress serializes d using the same per-kind layout
// EncodeOutput uses, for embedding in a bech32 address payload.
func EncodeDestinationForAddress(d Destination) []byte {
	return encodeDestination(d)
}

// EncodeOutput serializes a TransactionOutput into its canonical bytes.
func EncodeOutput(o TransactionOutput) []byte {
	out := make([]byte, 0, 64)
	out = appendU64le(out, o.Value)
	out = append(out, encodeDestination(o.Destination)...)
	out = append(out, encodeOutputData(o.Data)...)
	return out
}

func encodeInput(in TransactionInput, zeroWitness bool) []byte {
	out := make([]byte, 0, 32+len(in.Lock)+len(in.Witness)+10)
	out = append(out, in.Outpoint[:]...)
	out = append(out, CompactSize(len(in.Lock)).Encode()...)
	out = append(out, in.Lock...)
	if zeroWitness {
		out = append(out, CompactSize(0).Encode()...)
	} else {
		out = append(out, CompactSize(len(in.Witness)).Encode()...)
		out = append(out, in.Witness...)
	}
	return out
}

func encodeTimeLock(t TimeLock) []byte {
	out := make([]byte, 0, 9)
	out = append(out, byte(t.Mode))
	out = appendU64le(out, t.Value)
	return out
}

// EncodeTxNoWitness serializes tx with every input's Witness field zeroed,
// per the canonical codec: used for outpoint derivation and as the body
// bound by TransactionSigMsg. Outpoints are stable against signature
// malleation because this is exactly what gets hashed.
func EncodeTxNoWitness(tx *Transaction) []byte {
	out := make([]byte, 0, 256)
	out = append(out, CompactSize(len(tx.Inputs)).Encode()...)
	for _, in := range tx.Inputs {
		out = append(out, encodeInput(in, true)...)
	}
	out = append(out, CompactSize(len(tx.Outputs)).Encode()...)
	for _, o := range tx.Outputs {
		out = append(out, EncodeOutput(o)...)
	}
	out = append(out, encodeTimeLock(tx.TimeLock)...)
	return out
}
