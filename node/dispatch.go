package node

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"ledgerchain.dev/node/ledger"
)

// TimeSource supplies the chain height and Unix time a Spend call
// validates a transaction's TimeLock against.
type TimeSource interface {
	Height() uint64
	UnixTime() uint64
}

// AuthoritySet names the reward recipients DisperseReward credits at the
// end of a block.
type AuthoritySet interface {
	Authorities() [][32]byte
}

// Host binds a Store to the collaborators Spend and SendToAddress need:
// a clock, a logger, and (optionally) a programmable-pool engine for
// CreatePP/CallPP outputs. The authority set for reward dispersal is not
// held here; FinalizeBlock takes it per call.
type Host struct {
	Store  ledger.Store
	Engine ledger.ProgrammablePoolEngine
	Clock  TimeSource
	Log    *slog.Logger
}

func (h *Host) logger() *slog.Logger {
	if h.Log != nil {
		return h.Log
	}
	return slog.Default()
}

// Spend validates tx against the host's Store and current clock, commits
// it on success, and logs a TransactionSuccess event.
func (h *Host) Spend(tx *ledger.Transaction) (*ledger.ValidityCertificate, error) {
	cert, err := ledger.Validate(h.Store, tx, h.Clock.Height(), h.Clock.UnixTime())
	if err != nil {
		return nil, err
	}
	if cert.Conditional {
		return nil, &ledger.ValidationError{Kind: ledger.KindResolution, Msg: "missing inputs"}
	}
	if err := ledger.Apply(h.Store, h.Engine, cert); err != nil {
		return nil, err
	}
	emitTransactionSuccess(h.logger(), cert)
	return cert, nil
}

// FinalizeBlock runs DisperseReward against the host's authority set for
// the given block number; call it once per block after all of that
// block's transactions have been applied.
func (h *Host) FinalizeBlock(blockNumber uint64, authorities AuthoritySet) error {
	return ledger.DisperseReward(h.Store, blockNumber, authorities.Authorities())
}

// Signer produces a signature over digest for use as a Pubkey
// destination's witness.
type Signer interface {
	Sign(digest ledger.H256) ([]byte, error)
	PublicKey() [32]byte
}

// KeySigner is a Signer backed by a single secp256k1 private key, signing
// with BIP340-style Schnorr signatures.
type KeySigner struct {
	Priv *btcec.PrivateKey
}

func (s KeySigner) PublicKey() [32]byte {
	var pub [32]byte
	copy(pub[:], schnorr.SerializePubKey(s.Priv.PubKey()))
	return pub
}

func (s KeySigner) Sign(digest ledger.H256) ([]byte, error) {
	sig, err := schnorr.Sign(s.Priv, digest[:])
	if err != nil {
		return nil, err
	}
	return sig.Serialize(), nil
}

// pickUTXO greedily selects plain native-coin Pubkey UTXOs owned by
// signer, in ascending outpoint order, until their combined value is at
// least amount. The ascending sort is consensus-relevant only in the
// sense that it must be deterministic: two callers presented with the
// same UTXO set must build the same input set.
func pickUTXO(store ledger.Store, owner [32]byte, amount uint64) ([]ledger.Outpoint, []ledger.TransactionOutput, error) {
	var outpoints []ledger.Outpoint
	var outs []ledger.TransactionOutput

	err := store.IterateUTXOs(func(o ledger.Outpoint, out ledger.TransactionOutput) (bool, error) {
		if out.Destination.Kind == ledger.DestPubkey && out.Destination.Pubkey == owner && out.Data == nil {
			outpoints = append(outpoints, o)
			outs = append(outs, out)
		}
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}

	byOutpoint := make(map[ledger.Outpoint]ledger.TransactionOutput, len(outpoints))
	for i, o := range outpoints {
		byOutpoint[o] = outs[i]
	}
	sort.Slice(outpoints, func(i, j int) bool {
		return bytes.Compare(outpoints[i][:], outpoints[j][:]) < 0
	})
	sortedOuts := make([]ledger.TransactionOutput, len(outpoints))
	var total uint64
	var picked []ledger.Outpoint
	for i, o := range outpoints {
		sortedOuts[i] = byOutpoint[o]
		if total >= amount {
			continue
		}
		picked = append(picked, o)
		total += byOutpoint[o].Value
	}
	if total < amount {
		return nil, nil, fmt.Errorf("dispatch: insufficient funds: have %d, need %d", total, amount)
	}

	pickedOuts := make([]ledger.TransactionOutput, len(picked))
	for i, o := range picked {
		pickedOuts[i] = byOutpoint[o]
	}
	return picked, pickedOuts, nil
}

// SendToAddress builds, signs, and submits a two-output transaction: one
// output paying amount to destAddr, and (if the picked inputs overshoot
// amount) a change output returning the remainder to signer.
func (h *Host) SendToAddress(signer Signer, destAddr string, amount uint64) (*ledger.ValidityCertificate, error) {
	dest, err := DecodeAddress(destAddr)
	if err != nil {
		return nil, err
	}

	owner := signer.PublicKey()
	outpoints, spentOuts, err := pickUTXO(h.Store, owner, amount)
	if err != nil {
		return nil, err
	}

	var total uint64
	for _, o := range spentOuts {
		total += o.Value
	}

	tx := &ledger.Transaction{
		Inputs:  make([]ledger.TransactionInput, len(outpoints)),
		Outputs: []ledger.TransactionOutput{{Value: amount, Destination: dest}},
	}
	for i, o := range outpoints {
		tx.Inputs[i] = ledger.TransactionInput{Outpoint: o}
	}
	if change := total - amount; change > 0 {
		tx.Outputs = append(tx.Outputs, ledger.TransactionOutput{
			Value:       change,
			Destination: ledger.Destination{Kind: ledger.DestPubkey, Pubkey: owner},
		})
	}

	for i := range tx.Inputs {
		digest, err := ledger.TransactionSigHash(ledger.SigHashAll, tx, spentOuts, uint32(i), ledger.NoCodeSeparator)
		if err != nil {
			return nil, err
		}
		sig, err := signer.Sign(digest)
		if err != nil {
			return nil, err
		}
		tx.Inputs[i].Witness = sig
	}

	return h.Spend(tx)
}

// SpendSingle submits a single-input, single-output native transfer: the
// typed UtxoApi::spend entrypoint (caller, value, address, outpoint, sig),
// spending outpoint's UTXO via a pre-computed signature rather than an
// in-process Signer.
func (h *Host) SpendSingle(value uint64, address [32]byte, outpoint ledger.Outpoint, sig []byte) (*ledger.ValidityCertificate, error) {
	tx := &ledger.Transaction{
		Inputs:  []ledger.TransactionInput{{Outpoint: outpoint, Witness: sig}},
		Outputs: []ledger.TransactionOutput{{Value: value, Destination: ledger.Destination{Kind: ledger.DestPubkey, Pubkey: address}}},
	}
	return h.Spend(tx)
}

// coinPicker sorts outpoints ascending order (consensus-critical: two
// callers given the same outpoint set must build the same input list) and
// builds one CallPP-spending input per outpoint, rejecting any outpoint
// whose UTXO is missing or not CallPP-destined.
func coinPicker(store ledger.Store, outpoints []ledger.Outpoint) ([]ledger.TransactionInput, error) {
	sorted := append([]ledger.Outpoint(nil), outpoints...)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})

	inputs := make([]ledger.TransactionInput, 0, len(sorted))
	for _, o := range sorted {
		out, ok, err := store.GetUTXO(o)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("dispatch: utxo %x doesn't exist", o)
		}
		if out.Destination.Kind != ledger.DestCallPP {
			return nil, fmt.Errorf("dispatch: only CallPP vouts can be spent this way")
		}
		inputs = append(inputs, ledger.TransactionInput{Outpoint: o, Witness: ledger.BuildOpSpendWitness()})
	}
	return inputs, nil
}

// SendConscritP2PK spends a caller-supplied set of CallPP-owned outpoints
// into a single Pubkey-destined output.
func (h *Host) SendConscritP2PK(dest [32]byte, value uint64, outpoints []ledger.Outpoint) (*ledger.ValidityCertificate, error) {
	inputs, err := coinPicker(h.Store, outpoints)
	if err != nil {
		return nil, err
	}
	tx := &ledger.Transaction{
		Inputs:  inputs,
		Outputs: []ledger.TransactionOutput{{Value: value, Destination: ledger.Destination{Kind: ledger.DestPubkey, Pubkey: dest}}},
	}
	return h.Spend(tx)
}

// SendConscritC2C spends a caller-supplied set of CallPP-owned outpoints
// into a new funded CallPP output at dest, carrying data as the call's
// constructor-equivalent payload.
func (h *Host) SendConscritC2C(dest [32]byte, value uint64, data []byte, outpoints []ledger.Outpoint) (*ledger.ValidityCertificate, error) {
	inputs, err := coinPicker(h.Store, outpoints)
	if err != nil {
		return nil, err
	}
	tx := &ledger.Transaction{
		Inputs:  inputs,
		Outputs: []ledger.TransactionOutput{{Value: value, Destination: ledger.Destination{Kind: ledger.DestCallPP, Account: dest, Fund: true, Data: data}}},
	}
	return h.Spend(tx)
}

// NftRead resolves the immutable metadata an NFT mint recorded via the
// token-issuance index, regardless of whether the minting UTXO has since
// been spent or transferred to a new owner.
func (h *Host) NftRead(id ledger.TokenID) (*ledger.TokenIssuanceRecord, error) {
	rec, ok, err := h.Store.TokenIssuance(id)
	if err != nil {
		return nil, err
	}
	if !ok || rec.Kind != ledger.DataNftMintV1 {
		return nil, fmt.Errorf("nft_read: token %x was never minted", id)
	}
	return &rec, nil
}
