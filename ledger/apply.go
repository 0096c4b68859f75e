package ledger

import "log/slog"

// ProgrammablePoolEngine is the collaborator Apply calls into for
// CreatePP and CallPP destinations: creating or invoking a programmable
// pool is outside this package's concern, so Apply only arranges the
// call and, per the reference design, does not roll the transaction back
// if the engine reports failure — the failure is logged, and the UTXO
// for that output has already been written by the time the engine runs.
type ProgrammablePoolEngine interface {
	Create(account [32]byte, code, data []byte, funded bool, value uint64) error
	Call(account [32]byte, data []byte, funded bool, value uint64) error
}

// Apply commits a ValidityCertificate produced by Validate against the
// same Store: it deletes the spent UTXOs, inserts the new ones, registers
// any freshly issued token ids and NFT data hashes, dispatches
// CreatePP/CallPP destinations to engine, and adds the transaction's fee
// to the running reward total. engine may be nil if tx carries no
// CreatePP or CallPP outputs.
func Apply(store Store, engine ProgrammablePoolEngine, cert *ValidityCertificate) error {
	tx := cert.Tx

	for _, in := range tx.Inputs {
		if err := store.DeleteUTXO(in.Outpoint); err != nil {
			return err
		}
	}

	for i, o := range tx.Outputs {
		outpoint := TxOutpoint(tx, uint64(i))
		if err := store.PutUTXO(outpoint, o); err != nil {
			return err
		}

		if o.Data != nil {
			switch o.Data.Kind {
			case DataTokenIssuanceV1:
				rec := TokenIssuanceRecord{Outpoint: outpoint, Kind: o.Data.Kind, MetadataURI: o.Data.MetadataURI}
				if err := store.MarkTokenIssued(o.Data.TokenID, rec); err != nil {
					return err
				}
			case DataNftMintV1:
				rec := TokenIssuanceRecord{Outpoint: outpoint, Kind: o.Data.Kind, MetadataURI: o.Data.MetadataURI, DataHash: o.Data.DataHash}
				if err := store.MarkTokenIssued(o.Data.TokenID, rec); err != nil {
					return err
				}
				if err := store.MarkNftDataHashUsed(o.Data.DataHash); err != nil {
					return err
				}
			}
		}

		switch o.Destination.Kind {
		case DestCreatePP:
			if engine != nil {
				if err := engine.Create(o.Destination.Account, o.Destination.Code, o.Destination.Data, o.Destination.Fund, o.Value); err != nil {
					slog.Warn("apply: programmable-pool create failed", slog.Any("err", err))
				}
			}
		case DestCallPP:
			if engine != nil {
				if err := engine.Call(o.Destination.Account, o.Destination.Data, o.Destination.Fund, o.Value); err != nil {
					slog.Warn("apply: programmable-pool call failed", slog.Any("err", err))
				}
			}
		}
	}

	total, err := store.RewardTotal()
	if err != nil {
		return err
	}
	newTotal, ok := checkedAddU64(total, cert.Fee)
	if !ok {
		return rejectf(KindConservation, "reward overflow")
	}
	return store.SetRewardTotal(newTotal)
}

// DisperseReward splits the accumulated reward total evenly across
// authorities, crediting each an equal share as a new Pubkey-destined
// UTXO at the given block number, and carries the integer-division
// remainder forward to the next block's reward total rather than
// dropping it. An authority whose derived outpoint already exists (a
// hash collision, or a rerun of the same block) is left untouched rather
// than overwritten.
func DisperseReward(store Store, blockNumber uint64, authorities [][32]byte) error {
	if len(authorities) == 0 {
		return nil
	}
	reward, err := store.RewardTotal()
	if err != nil {
		return err
	}
	if reward == 0 {
		return nil
	}

	n := uint64(len(authorities))
	share := reward / n
	remainder := reward % n

	if share > 0 {
		for _, authority := range authorities {
			outpoint := rewardOutpoint(authority, blockNumber)
			_, exists, err := store.GetUTXO(outpoint)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			out := TransactionOutput{
				Value:       share,
				Destination: Destination{Kind: DestPubkey, Pubkey: authority},
			}
			if err := store.PutUTXO(outpoint, out); err != nil {
				return err
			}
		}
	}

	return store.SetRewardTotal(remainder)
}

func rewardOutpoint(authority [32]byte, blockNumber uint64) H256 {
	b := make([]byte, 0, 40)
	b = append(b, authority[:]...)
	b = appendU64le(b, blockNumber)
	return Hash256(b)
}
