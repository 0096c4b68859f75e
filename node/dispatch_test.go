package node

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"ledgerchain.dev/node/ledger"
)

type staticClock struct{ height, unixTime uint64 }

func (c staticClock) Height() uint64   { return c.height }
func (c staticClock) UnixTime() uint64 { return c.unixTime }

func TestHostSendToAddress(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	var pub [32]byte
	copy(pub[:], schnorr.SerializePubKey(priv.PubKey()))

	recvPriv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	var recvPub [32]byte
	copy(recvPub[:], schnorr.SerializePubKey(recvPriv.PubKey()))

	store := ledger.NewMemStore()
	if err := InitGenesis(store, "00", []GenesisAllocation{{Pubkey: pub, Value: 1000}}); err != nil {
		t.Fatalf("init genesis: %v", err)
	}

	destAddr, err := EncodeAddress(ledger.Destination{Kind: ledger.DestPubkey, Pubkey: recvPub})
	if err != nil {
		t.Fatalf("encode address: %v", err)
	}

	h := &Host{Store: store, Clock: staticClock{height: 1, unixTime: 1}}
	cert, err := h.SendToAddress(KeySigner{Priv: priv}, destAddr, 400)
	if err != nil {
		t.Fatalf("send to address: %v", err)
	}
	if cert.Fee != 0 {
		t.Errorf("fee = %d, want 0 (change output returns the remainder)", cert.Fee)
	}

	var recvTotal uint64
	err = store.IterateUTXOs(func(_ ledger.Outpoint, out ledger.TransactionOutput) (bool, error) {
		if out.Destination.Kind == ledger.DestPubkey && out.Destination.Pubkey == recvPub {
			recvTotal += out.Value
		}
		return true, nil
	})
	if err != nil {
		t.Fatalf("iterate: %v", err)
	}
	if recvTotal != 400 {
		t.Errorf("receiver total = %d, want 400", recvTotal)
	}
}

func TestAddressRoundTrip(t *testing.T) {
	d := ledger.Destination{Kind: ledger.DestScriptHash, ScriptHash: ledger.Hash256([]byte("lock"))}
	addr, err := EncodeAddress(d)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeAddress(addr)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Kind != d.Kind || got.ScriptHash != d.ScriptHash {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, d)
	}
}

func TestHostSpendSingle(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	var pub [32]byte
	copy(pub[:], schnorr.SerializePubKey(priv.PubKey()))

	store := ledger.NewMemStore()
	if err := InitGenesis(store, "00", []GenesisAllocation{{Pubkey: pub, Value: 500}}); err != nil {
		t.Fatalf("init genesis: %v", err)
	}

	var outpoint ledger.Outpoint
	var spent ledger.TransactionOutput
	if err := store.IterateUTXOs(func(o ledger.Outpoint, out ledger.TransactionOutput) (bool, error) {
		outpoint, spent = o, out
		return false, nil
	}); err != nil {
		t.Fatalf("iterate: %v", err)
	}

	var recvPub [32]byte
	recvPub[0] = 0xee

	tx := &ledger.Transaction{
		Inputs:  []ledger.TransactionInput{{Outpoint: outpoint}},
		Outputs: []ledger.TransactionOutput{{Value: 500, Destination: ledger.Destination{Kind: ledger.DestPubkey, Pubkey: recvPub}}},
	}
	digest, err := ledger.TransactionSigHash(ledger.SigHashAll, tx, []ledger.TransactionOutput{spent}, 0, ledger.NoCodeSeparator)
	if err != nil {
		t.Fatalf("sighash: %v", err)
	}
	sig, err := schnorr.Sign(priv, digest[:])
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	h := &Host{Store: store, Clock: staticClock{height: 1, unixTime: 1}}
	cert, err := h.SpendSingle(500, recvPub, outpoint, sig.Serialize())
	if err != nil {
		t.Fatalf("spend single: %v", err)
	}
	if cert.Fee != 0 {
		t.Errorf("fee = %d, want 0", cert.Fee)
	}
}

func TestHostSendConscritP2PKAndC2C(t *testing.T) {
	store := ledger.NewMemStore()
	var pool [32]byte
	pool[0] = 0x11

	o1 := ledger.Hash256([]byte("pool-coin-1"))
	o2 := ledger.Hash256([]byte("pool-coin-2"))
	if err := store.PutUTXO(o1, ledger.TransactionOutput{Value: 30, Destination: ledger.Destination{Kind: ledger.DestCallPP, Account: pool}}); err != nil {
		t.Fatalf("put utxo: %v", err)
	}
	if err := store.PutUTXO(o2, ledger.TransactionOutput{Value: 20, Destination: ledger.Destination{Kind: ledger.DestCallPP, Account: pool}}); err != nil {
		t.Fatalf("put utxo: %v", err)
	}

	h := &Host{Store: store, Clock: staticClock{height: 1, unixTime: 1}}

	var recvPub [32]byte
	recvPub[1] = 0x22
	cert, err := h.SendConscritP2PK(recvPub, 50, []ledger.Outpoint{o1, o2})
	if err != nil {
		t.Fatalf("send conscrit p2pk: %v", err)
	}
	if cert.Fee != 0 {
		t.Errorf("fee = %d, want 0", cert.Fee)
	}

	o3 := ledger.Hash256([]byte("pool-coin-3"))
	if err := store.PutUTXO(o3, ledger.TransactionOutput{Value: 40, Destination: ledger.Destination{Kind: ledger.DestCallPP, Account: pool}}); err != nil {
		t.Fatalf("put utxo: %v", err)
	}
	var dest [32]byte
	dest[2] = 0x33
	if _, err := h.SendConscritC2C(dest, 40, []byte("call-data"), []ledger.Outpoint{o3}); err != nil {
		t.Fatalf("send conscrit c2c: %v", err)
	}
}

func TestHostNftRead(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	var pub [32]byte
	copy(pub[:], schnorr.SerializePubKey(priv.PubKey()))

	store := ledger.NewMemStore()
	srcOutpoint := ledger.Hash256([]byte("mint-funding"))
	var fundedValue uint64 = ledger.CreationFeeBaseUnits
	if err := store.PutUTXO(srcOutpoint, ledger.TransactionOutput{Value: fundedValue, Destination: ledger.Destination{Kind: ledger.DestPubkey, Pubkey: pub}}); err != nil {
		t.Fatalf("put utxo: %v", err)
	}

	tx := &ledger.Transaction{
		Inputs: []ledger.TransactionInput{{Outpoint: srcOutpoint}},
		Outputs: []ledger.TransactionOutput{{
			Value: 0,
			Data: &ledger.OutputData{
				Kind:        ledger.DataNftMintV1,
				DataHash:    ledger.Hash256([]byte("artwork-bytes")),
				MetadataURI: "ipfs://nft-metadata",
			},
		}},
	}
	nftID := ledger.DeriveTokenID(tx, 0)
	tx.Outputs[0].Data.TokenID = nftID

	digest, err := ledger.TransactionSigHash(ledger.SigHashAll, tx, []ledger.TransactionOutput{{Value: fundedValue, Destination: ledger.Destination{Kind: ledger.DestPubkey, Pubkey: pub}}}, 0, ledger.NoCodeSeparator)
	if err != nil {
		t.Fatalf("sighash: %v", err)
	}
	sig, err := schnorr.Sign(priv, digest[:])
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	tx.Inputs[0].Witness = sig.Serialize()

	h := &Host{Store: store, Clock: staticClock{height: 1, unixTime: 1}}
	if _, err := h.Spend(tx); err != nil {
		t.Fatalf("spend (mint nft): %v", err)
	}

	rec, err := h.NftRead(nftID)
	if err != nil {
		t.Fatalf("nft read: %v", err)
	}
	if rec.MetadataURI != "ipfs://nft-metadata" || rec.DataHash != ledger.Hash256([]byte("artwork-bytes")) {
		t.Errorf("unexpected nft record: %+v", rec)
	}

	if _, err := h.NftRead(ledger.Hash256([]byte("never-minted"))); err == nil {
		t.Error("expected error reading an unminted token id")
	}
}

func TestInitGenesisIsIdempotent(t *testing.T) {
	store := ledger.NewMemStore()
	allocs := []GenesisAllocation{{Pubkey: [32]byte{1}, Value: 50}}
	if err := InitGenesis(store, "00", allocs); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if err := InitGenesis(store, "00", allocs); err != nil {
		t.Fatalf("second init: %v", err)
	}
	var total uint64
	_ = store.IterateUTXOs(func(_ ledger.Outpoint, out ledger.TransactionOutput) (bool, error) {
		total += out.Value
		return true, nil
	})
	if total != 50 {
		t.Fatalf("total = %d, want 50 (no duplicate credit)", total)
	}
}
