package main

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

func newTestKey(t *testing.T) (*btcec.PrivateKey, error) {
	t.Helper()
	return btcec.NewPrivateKey()
}

func TestRunNoArgs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("code = %d, want 2", code)
	}
}

func TestRunInitGenesisAndBalance(t *testing.T) {
	dir := t.TempDir()
	priv, err := newTestKey(t)
	if err != nil {
		t.Fatalf("new key: %v", err)
	}
	pubHex := hex.EncodeToString(schnorr.SerializePubKey(priv.PubKey()))

	var stdout, stderr bytes.Buffer
	code := run([]string{"init-genesis", "-datadir", dir, "-pubkey", pubHex, "-value", "1000"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("init-genesis failed: code=%d stderr=%s", code, stderr.String())
	}

	stdout.Reset()
	code = run([]string{"balance", "-datadir", dir, "-pubkey", pubHex}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("balance failed: code=%d stderr=%s", code, stderr.String())
	}
	if got := stdout.String(); got != "1000\n" {
		t.Fatalf("balance output = %q, want \"1000\\n\"", got)
	}
}

func TestRunUnknownSubcommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"bogus"}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("code = %d, want 2", code)
	}
}
