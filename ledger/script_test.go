package ledger

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

func TestVerifyScriptEqualityLockSucceeds(t *testing.T) {
	secret := []byte("secret")
	lock := append([]byte{byte(len(secret))}, secret...)
	lock = append(lock, opEqual)
	witness := append([]byte{byte(len(secret))}, secret...)

	ok, err := VerifyScript(ScriptContext{Tx: &Transaction{}}, lock, witness)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("expected script to succeed")
	}
}

func TestVerifyScriptEqualityLockFailsOnWrongWitness(t *testing.T) {
	secret := []byte("secret")
	lock := append([]byte{byte(len(secret))}, secret...)
	lock = append(lock, opEqual)
	wrong := []byte("nope!!")
	witness := append([]byte{byte(len(wrong))}, wrong...)

	ok, err := VerifyScript(ScriptContext{Tx: &Transaction{}}, lock, witness)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("expected script to fail")
	}
}

func TestVerifyScriptEqualVerifyRejectsMismatch(t *testing.T) {
	lock := []byte{3, 'f', 'o', 'o', opEqualVerify}
	witness := []byte{3, 'b', 'a', 'r'}

	_, err := VerifyScript(ScriptContext{Tx: &Transaction{}}, lock, witness)
	kind, ok := RejectionKindOf(err)
	if !ok || kind != KindAuthorization {
		t.Fatalf("want authorization rejection, got %v", err)
	}
}

func TestVerifyScriptCheckSig(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pub := schnorr.SerializePubKey(priv.PubKey())

	src := TransactionOutput{Value: 10, Destination: Destination{Kind: DestScriptHash}}
	tx := &Transaction{
		Inputs:  []TransactionInput{{Outpoint: Hash256([]byte("scripthash-src"))}},
		Outputs: []TransactionOutput{{Value: 9, Destination: Destination{Kind: DestPubkey}}},
	}
	ctx := ScriptContext{Tx: tx, SpentUTXOs: []TransactionOutput{src}, InputIndex: 0}

	digest, err := TransactionSigHash(SigHashAll, tx, ctx.SpentUTXOs, ctx.InputIndex, NoCodeSeparator)
	if err != nil {
		t.Fatalf("sighash: %v", err)
	}
	sig, err := schnorr.Sign(priv, digest[:])
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sigBytes := sig.Serialize()

	lock := []byte{opCheckSig}
	witness := append([]byte{byte(len(pub))}, pub...)
	witness = append(witness, byte(len(sigBytes)))
	witness = append(witness, sigBytes...)

	ok, err := VerifyScript(ctx, lock, witness)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("expected signature check to succeed")
	}

	// Flipping a byte in the signature must fail the check.
	witness[len(witness)-1] ^= 0xff
	ok, err = VerifyScript(ctx, lock, witness)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("expected tampered signature to fail")
	}
}

func TestValidateScriptHashSpend(t *testing.T) {
	store := NewMemStore()
	secret := []byte("unlock-me")
	lock := append([]byte{byte(len(secret))}, secret...)
	lock = append(lock, opEqual)
	scriptHash := Hash256(lock)

	srcOutpoint := Hash256([]byte("genesis-scripthash"))
	fundUTXO(t, store, srcOutpoint, TransactionOutput{
		Value:       100,
		Destination: Destination{Kind: DestScriptHash, ScriptHash: scriptHash},
	})

	tx := &Transaction{
		Inputs: []TransactionInput{{
			Outpoint: srcOutpoint,
			Lock:     lock,
			Witness:  append([]byte{byte(len(secret))}, secret...),
		}},
		Outputs: []TransactionOutput{{Value: 90, Destination: Destination{Kind: DestPubkey}}},
	}

	cert, err := Validate(store, tx, 1, 1)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cert.Fee != 10 {
		t.Errorf("fee = %d, want 10", cert.Fee)
	}
}

func TestValidateScriptHashRejectsWrongLock(t *testing.T) {
	store := NewMemStore()
	scriptHash := Hash256([]byte("expected-lock"))
	srcOutpoint := Hash256([]byte("genesis-scripthash-2"))
	fundUTXO(t, store, srcOutpoint, TransactionOutput{
		Value:       100,
		Destination: Destination{Kind: DestScriptHash, ScriptHash: scriptHash},
	})

	tx := &Transaction{
		Inputs: []TransactionInput{{
			Outpoint: srcOutpoint,
			Lock:     []byte("wrong-lock"),
		}},
		Outputs: []TransactionOutput{{Value: 90, Destination: Destination{Kind: DestPubkey}}},
	}

	_, err := Validate(store, tx, 1, 1)
	kind, ok := RejectionKindOf(err)
	if !ok || kind != KindAuthorization {
		t.Fatalf("want authorization rejection, got %v", err)
	}
}
