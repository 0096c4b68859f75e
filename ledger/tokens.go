package ledger

// Per-variant structural checks and token-amount accounting for the
// asset layer: token issuance, transfer, burn, and NFT mint payloads.

// DeriveTokenID computes the TokenID an issuing or minting output claims:
// the outpoint of that output, computed over a copy of tx in which the
// TokenID of every TokenIssuanceV1 and NftMintV1 output is zeroed (a token
// id cannot be part of the bytes it is the hash of). Token ids are
// content-addressed from the transaction, including the inputs it spends,
// so two issuances that can both be applied never share one.
func DeriveTokenID(tx *Transaction, outputIndex uint64) TokenID {
	stripped := *tx
	stripped.Outputs = make([]TransactionOutput, len(tx.Outputs))
	for i, o := range tx.Outputs {
		if o.Data != nil && (o.Data.Kind == DataTokenIssuanceV1 || o.Data.Kind == DataNftMintV1) {
			d := *o.Data
			d.TokenID = TokenID{}
			o.Data = &d
		}
		stripped.Outputs[i] = o
	}
	return TxOutpoint(&stripped, outputIndex)
}

// ValidateOutputDataFields checks the structural constraints on an
// output's asset-layer payload that do not require chain state: ticker
// and metadata URI charset/length, decimal precision, and that issued,
// transferred, burned, or minted amounts are nonzero. d may be nil,
// meaning "no payload", which is always valid.
func ValidateOutputDataFields(d *OutputData) error {
	if d == nil {
		return nil
	}
	switch d.Kind {
	case DataTokenIssuanceV1:
		if err := validateTicker(d.TokenTicker); err != nil {
			return err
		}
		if d.AmountToIssue == 0 {
			return rejectf(KindAssetRule, "token issuance amount must be nonzero")
		}
		if d.NumberOfDecimals > MaxTokenDecimals {
			return rejectf(KindAssetRule, "token decimals exceed maximum")
		}
		if err := validateMetadataURI(d.MetadataURI); err != nil {
			return err
		}
	case DataTokenTransferV1:
		if d.Amount == 0 {
			return rejectf(KindAssetRule, "token transfer amount must be nonzero")
		}
	case DataTokenBurnV1:
		if d.AmountToBurn == 0 {
			return rejectf(KindAssetRule, "token burn amount must be nonzero")
		}
	case DataNftMintV1:
		if d.DataHash == (H256{}) {
			return rejectf(KindAssetRule, "nft data hash must not be empty")
		}
		if err := validateMetadataURI(d.MetadataURI); err != nil {
			return err
		}
	default:
		return rejectf(KindAssetRule, "unknown output data kind")
	}
	return nil
}

func validateTicker(ticker string) error {
	n := len(ticker)
	if n < 1 || n > MaxTokenTickerBytes {
		return rejectf(KindAssetRule, "token ticker length out of range")
	}
	if !isASCII(ticker) {
		return rejectf(KindAssetRule, "token ticker must be ASCII")
	}
	return nil
}

func validateMetadataURI(uri string) error {
	if len(uri) > MaxMetadataURIBytes {
		return rejectf(KindAssetRule, "metadata uri too long")
	}
	if !isASCII(uri) {
		return rejectf(KindAssetRule, "metadata uri must be ASCII")
	}
	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return true
}

// TallyTokenValue sums, per TokenID, the asset-layer value each output in
// outs contributes: AmountToIssue for a fresh issuance, Amount for a
// transfer, DataHash-keyed mints counting as a single unit of their own
// token id, and nothing for MLT (native value travels through Value, not
// here) or for burns (consumed, not produced). Each accumulation is
// checked_add-style: a token total that would wrap a uint64 is rejected
// rather than silently truncated, matching the original's
// "input/output value overflow" guards.
func TallyTokenValue(outs []TransactionOutput) (map[TokenID]uint64, error) {
	totals := make(map[TokenID]uint64)
	for _, o := range outs {
		if o.Data == nil {
			continue
		}
		var add uint64
		switch o.Data.Kind {
		case DataTokenIssuanceV1:
			add = o.Data.AmountToIssue
		case DataTokenTransferV1:
			add = o.Data.Amount
		case DataNftMintV1:
			add = 1
		default:
			continue
		}
		sum, ok := checkedAddU64(totals[o.Data.TokenID], add)
		if !ok {
			return nil, rejectf(KindConservation, "token value overflow")
		}
		totals[o.Data.TokenID] = sum
	}
	return totals, nil
}

// TallyTokenBurns sums, per TokenID, the amount each output in outs
// removes from circulation via TokenBurnV1, checked_add-style like
// TallyTokenValue.
func TallyTokenBurns(outs []TransactionOutput) (map[TokenID]uint64, error) {
	totals := make(map[TokenID]uint64)
	for _, o := range outs {
		if o.Data == nil || o.Data.Kind != DataTokenBurnV1 {
			continue
		}
		sum, ok := checkedAddU64(totals[o.Data.TokenID], o.Data.AmountToBurn)
		if !ok {
			return nil, rejectf(KindConservation, "token burn overflow")
		}
		totals[o.Data.TokenID] = sum
	}
	return totals, nil
}
