package ledger

// Validate checks a transaction against a Store snapshot and the current
// chain height/time, in the fixed order the rules below are numbered.
// On success it returns a ValidityCertificate recording everything Apply
// needs so Apply never has to re-derive it: the resolved inputs, the fee,
// and the new asset identifiers this transaction introduces.
//
// The rule order mirrors the reference pallet's validate_transaction: an
// earlier structural rule always shadows a later semantic one, so error
// messages stay stable across callers.
type ValidityCertificate struct {
	Tx           *Transaction
	SpentUTXOs   []TransactionOutput
	Fee          uint64
	NewTokenIDs  []TokenID
	NewNftHashes []H256

	// Conditional mirrors the reference pallet's
	// ValidTransaction{requires, provides, priority, longevity,
	// propagate}: it is set when one or more inputs reference outpoints
	// the store does not (yet) hold. A conditional certificate carries
	// no Fee/NewTokenIDs/NewNftHashes and must never be passed to
	// Apply — the caller should hold the transaction pending and
	// re-run Validate once every outpoint in Requires exists, exactly
	// as a transaction pool defers on missing inputs rather than
	// rejecting outright.
	Conditional bool
	Requires    []Outpoint
	Provides    []Outpoint
	Priority    uint64
	Longevity   uint64
	Propagate   bool
}

// maxLongevity is TransactionLongevity::MAX from the reference pallet: a
// certificate never expires on its own.
const maxLongevity = ^uint64(0)

func Validate(store Store, tx *Transaction, height, unixTime uint64) (*ValidityCertificate, error) {
	// R1: at least one input.
	if len(tx.Inputs) == 0 {
		return nil, rejectf(KindStructural, "no inputs")
	}
	// R2: bounded input/output counts.
	if uint64(len(tx.Inputs)) > MaxInputsOrOutputs || uint64(len(tx.Outputs)) > MaxInputsOrOutputs {
		return nil, rejectf(KindStructural, "too many inputs")
	}
	// R3: no outpoint spent twice within the same transaction.
	seen := make(map[Outpoint]struct{}, len(tx.Inputs))
	for _, in := range tx.Inputs {
		if _, dup := seen[in.Outpoint]; dup {
			return nil, rejectf(KindStructural, "each input should be used only once")
		}
		seen[in.Outpoint] = struct{}{}
	}
	// R4: temporal admissibility.
	if !tx.TimeLock.Satisfied(height, unixTime) {
		return nil, rejectf(KindTemporal, "Time lock restrictions not satisfied")
	}

	// R5: resolve every input's spent output, and R6: the revealed Lock
	// bytes must hash to the commitment the destination expects. An
	// outpoint the store doesn't currently hold is not a hard failure —
	// it is collected into `missing` and the transaction is admitted
	// conditionally further down, exactly as the reference pallet's
	// `input_utxos` Ok(resolved)/Err(missing) split defers rather than
	// rejects on an unresolved input.
	spentUTXOs := make([]TransactionOutput, len(tx.Inputs))
	var missing []Outpoint
	for i, in := range tx.Inputs {
		out, ok, err := store.GetUTXO(in.Outpoint)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, in.Outpoint)
			continue
		}
		if LockHash(in) != out.Destination.LockCommitment() {
			return nil, rejectf(KindAuthorization, "Lock hash does not match")
		}
		spentUTXOs[i] = out
	}

	// R7: every non-freshly-minted TokenID an output references must
	// already have been issued.
	freshTokenIDs := make(map[TokenID]struct{})
	var newTokenIDs []TokenID
	var newNftHashes []H256
	for i, o := range tx.Outputs {
		if o.Data == nil {
			continue
		}
		switch o.Data.Kind {
		case DataTokenIssuanceV1:
			id := DeriveTokenID(tx, uint64(i))
			if o.Data.TokenID != id {
				return nil, rejectf(KindAssetRule, "token id must match issuing outpoint")
			}
			freshTokenIDs[id] = struct{}{}
			newTokenIDs = append(newTokenIDs, id)
		case DataNftMintV1:
			id := DeriveTokenID(tx, uint64(i))
			if o.Data.TokenID != id {
				return nil, rejectf(KindAssetRule, "token id must match issuing outpoint")
			}
			used, err := store.NftDataHashUsed(o.Data.DataHash)
			if err != nil {
				return nil, err
			}
			if used {
				return nil, rejectf(KindCollision, "nft data hash already used")
			}
			freshTokenIDs[id] = struct{}{}
			newTokenIDs = append(newTokenIDs, id)
			newNftHashes = append(newNftHashes, o.Data.DataHash)
		}
	}
	for _, o := range tx.Outputs {
		if o.Data == nil {
			continue
		}
		var id TokenID
		switch o.Data.Kind {
		case DataTokenTransferV1, DataTokenBurnV1:
			id = o.Data.TokenID
		default:
			continue
		}
		if _, fresh := freshTokenIDs[id]; fresh {
			continue
		}
		_, issued, err := store.TokenIssuance(id)
		if err != nil {
			return nil, err
		}
		if !issued {
			return nil, rejectf(KindAssetRule, "token has never been issued")
		}
	}

	// R8: structural field validation per output data kind.
	for _, o := range tx.Outputs {
		if err := ValidateOutputDataFields(o.Data); err != nil {
			return nil, err
		}
	}

	// R9 (collision, §4.2 I1/P2): a transaction may never claim an
	// outpoint the store already has live, whether or not it is among
	// the inputs this transaction itself spends — otherwise Apply's
	// unconditional PutUTXO would silently clobber an existing UTXO.
	// This runs unconditionally, like the reference pallet's
	// `ensure!(!<UtxoStore<T>>::contains_key(hash), ...)`, which is
	// checked before the all-inputs-resolved branch below. `provides`
	// doubles as the certificate's Substrate-style provides tag set.
	provides := make([]Outpoint, len(tx.Outputs))
	for i := range tx.Outputs {
		outpoint := TxOutpoint(tx, uint64(i))
		_, exists, err := store.GetUTXO(outpoint)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, rejectf(KindCollision, "output already exists")
		}
		provides[i] = outpoint
	}

	// R10: if any input is still unresolved, defer admission rather than
	// computing conservation/fee/authorization against a partial input
	// set — those all require every spent output to be known.
	if len(missing) > 0 {
		return &ValidityCertificate{
			Tx:          tx,
			Conditional: true,
			Requires:    missing,
			Provides:    provides,
			Longevity:   maxLongevity,
			Propagate:   true,
		}, nil
	}

	// R11: conservation, per token id and for native MLT value.
	inputTokenTotals, err := TallyTokenValue(spentUTXOs)
	if err != nil {
		return nil, err
	}
	outputTokenTotals, err := TallyTokenValue(tx.Outputs)
	if err != nil {
		return nil, err
	}
	burnTotals, err := TallyTokenBurns(tx.Outputs)
	if err != nil {
		return nil, err
	}
	for id, outAmt := range outputTokenTotals {
		if _, fresh := freshTokenIDs[id]; fresh {
			continue
		}
		combined, ok := checkedAddU64(outAmt, burnTotals[id])
		if !ok {
			return nil, rejectf(KindConservation, "output value overflow")
		}
		if combined > inputTokenTotals[id] {
			return nil, rejectf(KindConservation, "output value must not exceed input value")
		}
	}
	for id, burnAmt := range burnTotals {
		if _, fresh := freshTokenIDs[id]; fresh {
			continue
		}
		if burnAmt > inputTokenTotals[id] {
			return nil, rejectf(KindConservation, "output value must not exceed input value")
		}
	}

	var inputValue, outputValue uint64
	for _, u := range spentUTXOs {
		var ok bool
		inputValue, ok = checkedAddU64(inputValue, u.Value)
		if !ok {
			return nil, rejectf(KindConservation, "input value overflow")
		}
	}
	for _, o := range tx.Outputs {
		var ok bool
		outputValue, ok = checkedAddU64(outputValue, o.Value)
		if !ok {
			return nil, rejectf(KindConservation, "output value overflow")
		}
	}
	if outputValue > inputValue {
		return nil, rejectf(KindConservation, "output value must not exceed input value")
	}
	fee := inputValue - outputValue

	// R12: the per-asset creation fee.
	var newAssets uint64
	for _, o := range tx.Outputs {
		if o.Data != nil && (o.Data.Kind == DataTokenIssuanceV1 || o.Data.Kind == DataNftMintV1) {
			newAssets++
		}
	}
	if fee < newAssets*CreationFeeBaseUnits {
		return nil, rejectf(KindConservation, "insufficient fee")
	}

	// R13/R14: per-input authorization, dispatched on the spent output's
	// destination kind.
	for i, in := range tx.Inputs {
		dest := spentUTXOs[i].Destination
		switch dest.Kind {
		case DestPubkey:
			digest, err := TransactionSigHash(SigHashAll, tx, spentUTXOs, uint32(i), NoCodeSeparator)
			if err != nil {
				return nil, err
			}
			ok, err := verifySchnorr(dest.Pubkey, in.Witness, digest)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, rejectf(KindAuthorization, "signature must be valid")
			}
		case DestScriptHash:
			ok, err := VerifyScript(ScriptContext{Tx: tx, SpentUTXOs: spentUTXOs, InputIndex: uint32(i)}, in.Lock, in.Witness)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, rejectf(KindAuthorization, "script verification failed")
			}
		case DestCallPP:
			if len(in.Witness) < 3 {
				return nil, rejectf(KindAuthorization, "OP_SPEND not found")
			}
			sentinel := uint16(in.Witness[1]) | uint16(in.Witness[2])<<8
			if sentinel != CallPPOpSpendValue {
				return nil, rejectf(KindAuthorization, "OP_SPEND not found")
			}
		case DestCreatePP:
			// A spent CreatePP output is accepted without any witness
			// check. Apply does not consult the engine about it either:
			// it only deletes the spent UTXO.
		}
	}

	return &ValidityCertificate{
		Tx:           tx,
		SpentUTXOs:   spentUTXOs,
		Fee:          fee,
		NewTokenIDs:  newTokenIDs,
		NewNftHashes: newNftHashes,
		Provides:     provides,
		Priority:     fee,
		Longevity:    maxLongevity,
		Propagate:    true,
	}, nil
}
