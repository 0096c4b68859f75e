package store

import (
	"testing"

	"ledgerchain.dev/node/ledger"
)

func TestDBPutGetDeleteUTXO(t *testing.T) {
	datadir := t.TempDir()
	chainIDHex := "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"
	if len(chainIDHex) != 64 {
		t.Fatalf("bad chainIDHex length: %d", len(chainIDHex))
	}

	db, err := Open(datadir, chainIDHex)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	_ = db.ChainDir()
	_ = db.Manifest()

	outpoint := ledger.Hash256([]byte("db-test-outpoint"))
	out := ledger.TransactionOutput{
		Value:       42,
		Destination: ledger.Destination{Kind: ledger.DestPubkey, Pubkey: [32]byte{9}},
	}
	if err := db.PutUTXO(outpoint, out); err != nil {
		t.Fatalf("PutUTXO: %v", err)
	}
	got, ok, err := db.GetUTXO(outpoint)
	if err != nil || !ok {
		t.Fatalf("GetUTXO: ok=%v err=%v", ok, err)
	}
	if got.Value != out.Value || got.Destination.Pubkey != out.Destination.Pubkey {
		t.Fatalf("got mismatch: %+v want %+v", got, out)
	}

	count := 0
	if err := db.IterateUTXOs(func(ledger.Outpoint, ledger.TransactionOutput) (bool, error) {
		count++
		return true, nil
	}); err != nil {
		t.Fatalf("IterateUTXOs: %v", err)
	}
	if count != 1 {
		t.Fatalf("iterate count = %d, want 1", count)
	}

	if err := db.DeleteUTXO(outpoint); err != nil {
		t.Fatalf("DeleteUTXO: %v", err)
	}
	if _, ok, err := db.GetUTXO(outpoint); err != nil || ok {
		t.Fatalf("expected utxo gone after delete: ok=%v err=%v", ok, err)
	}
}

func TestDBTokenIssuanceRoundTrip(t *testing.T) {
	datadir := t.TempDir()
	chainIDHex := "11223344556677889900aabbccddeeff11223344556677889900aabbccddee"
	db, err := Open(datadir, chainIDHex)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	id := ledger.Hash256([]byte("token-db-test"))
	if _, issued, err := db.TokenIssuance(id); err != nil || issued {
		t.Fatalf("expected token not yet issued, got issued=%v err=%v", issued, err)
	}

	rec := ledger.TokenIssuanceRecord{
		Outpoint:    ledger.Hash256([]byte("issuing-outpoint")),
		Kind:        ledger.DataNftMintV1,
		MetadataURI: "https://example.test/nft-meta",
		DataHash:    ledger.Hash256([]byte("nft-bytes")),
	}
	if err := db.MarkTokenIssued(id, rec); err != nil {
		t.Fatalf("MarkTokenIssued: %v", err)
	}

	got, ok, err := db.TokenIssuance(id)
	if err != nil || !ok {
		t.Fatalf("TokenIssuance: ok=%v err=%v", ok, err)
	}
	if got != rec {
		t.Fatalf("got %+v, want %+v", got, rec)
	}
}

func TestDBRewardTotalAndNftHash(t *testing.T) {
	datadir := t.TempDir()
	chainIDHex := "22334455667788990011aabbccddeeff22334455667788990011aabbccddee"
	db, err := Open(datadir, chainIDHex)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if v, err := db.RewardTotal(); err != nil || v != 0 {
		t.Fatalf("initial reward total = %d, err=%v, want 0", v, err)
	}
	if err := db.SetRewardTotal(123); err != nil {
		t.Fatalf("SetRewardTotal: %v", err)
	}
	if v, err := db.RewardTotal(); err != nil || v != 123 {
		t.Fatalf("reward total = %d, err=%v, want 123", v, err)
	}

	h := ledger.Hash256([]byte("nft-data"))
	if used, err := db.NftDataHashUsed(h); err != nil || used {
		t.Fatalf("expected hash unused, got used=%v err=%v", used, err)
	}
	if err := db.MarkNftDataHashUsed(h); err != nil {
		t.Fatalf("MarkNftDataHashUsed: %v", err)
	}
	if used, err := db.NftDataHashUsed(h); err != nil || !used {
		t.Fatalf("expected hash used, got used=%v err=%v", used, err)
	}
}
