package node

import "ledgerchain.dev/node/ledger"

// GenesisAllocation credits Pubkey a fixed amount of native coin at
// chain creation.
type GenesisAllocation struct {
	Pubkey [32]byte
	Value  uint64
}

// InitGenesis seeds store with one UTXO per allocation, keyed by the
// BLAKE2-256 hash of the output's canonical encoding, with no binding to
// any transaction, so two nodes given the same genesis config always
// derive the same outpoints. chainIDHex does not enter the key. An
// allocation whose outpoint the store already holds is skipped, so calling
// this twice credits each allocation once; two allocations with the same
// pubkey and value share one outpoint and are credited once.
func InitGenesis(store ledger.Store, chainIDHex string, allocations []GenesisAllocation) error {
	for _, alloc := range allocations {
		out := ledger.TransactionOutput{
			Value:       alloc.Value,
			Destination: ledger.Destination{Kind: ledger.DestPubkey, Pubkey: alloc.Pubkey},
		}
		outpoint := genesisOutpoint(out)
		if _, exists, err := store.GetUTXO(outpoint); err != nil {
			return err
		} else if exists {
			continue
		}
		if err := store.PutUTXO(outpoint, out); err != nil {
			return err
		}
	}
	return nil
}

func genesisOutpoint(out ledger.TransactionOutput) ledger.H256 {
	return ledger.Hash256(ledger.EncodeOutput(out))
}
