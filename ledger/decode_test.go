package ledger

import "testing"

func TestEncodeDecodeOutputRoundTrip(t *testing.T) {
	cases := []TransactionOutput{
		{Value: 42, Destination: Destination{Kind: DestPubkey, Pubkey: [32]byte{1, 2, 3}}},
		{Value: 0, Destination: Destination{Kind: DestScriptHash, ScriptHash: Hash256([]byte("lock"))}},
		{
			Value:       0,
			Destination: Destination{Kind: DestPubkey},
			Data: &OutputData{
				Kind:             DataTokenIssuanceV1,
				TokenID:          Hash256([]byte("tok")),
				TokenTicker:      "FOO",
				AmountToIssue:    9001,
				NumberOfDecimals: 8,
				MetadataURI:      "https://example.test",
			},
		},
		{
			Value:       0,
			Destination: Destination{Kind: DestCallPP, Account: [32]byte{9}, Fund: true, Data: []byte("call-data")},
			Data:        &OutputData{Kind: DataTokenTransferV1, TokenID: Hash256([]byte("tok")), Amount: 5},
		},
		{
			Value:       0,
			Destination: Destination{Kind: DestCreatePP, Code: []byte("code"), Data: []byte("ctor")},
		},
		{
			Value: 0,
			Destination: Destination{Kind: DestPubkey},
			Data: &OutputData{
				Kind:        DataNftMintV1,
				TokenID:     Hash256([]byte("nft")),
				DataHash:    Hash256([]byte("content")),
				MetadataURI: "ipfs://x",
			},
		},
	}

	for i, want := range cases {
		enc := EncodeOutput(want)
		got, err := DecodeOutput(enc)
		if err != nil {
			t.Fatalf("case %d: decode: %v", i, err)
		}
		if got.Value != want.Value {
			t.Errorf("case %d: value = %d, want %d", i, got.Value, want.Value)
		}
		if string(EncodeOutput(got)) != string(enc) {
			t.Errorf("case %d: re-encode mismatch", i)
		}
	}
}

func TestBuildOpSpendWitnessMatchesSentinel(t *testing.T) {
	w := BuildOpSpendWitness()
	if len(w) != 3 {
		t.Fatalf("witness length = %d, want 3", len(w))
	}
	got := uint16(w[1]) | uint16(w[2])<<8
	if got != CallPPOpSpendValue {
		t.Errorf("sentinel = 0x%x, want 0x%x", got, CallPPOpSpendValue)
	}
}
