// Command ledger-node is a thin CLI over the ledger core: it opens a
// bbolt-backed store under -datadir, seeds a genesis allocation, reports
// balances, and submits a signed native-coin payment. It exists to
// exercise node.Host end to end, not as a production wallet.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/btcsuite/btcd/btcec/v2"

	"ledgerchain.dev/node/ledger"
	"ledgerchain.dev/node/node"
	"ledgerchain.dev/node/node/store"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: ledger-node <init-genesis|init-genesis-file|balance|send|utxo> [flags]")
		return 2
	}

	fs := flag.NewFlagSet("ledger-node "+args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	dataDir := fs.String("datadir", node.DefaultDataDir(), "on-disk data directory")
	chainID := fs.String("chain-id", "00", "hex-encoded chain id")
	logLevel := fs.String("log-level", "info", "debug|info|warn|error")

	switch args[0] {
	case "init-genesis":
		pubkeyHex := fs.String("pubkey", "", "hex x-only pubkey to credit")
		value := fs.Uint64("value", 0, "amount in base units")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		pubkey, err := decodePubkeyHex(*pubkeyHex)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		db, err := store.Open(*dataDir, *chainID)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		defer db.Close()
		if err := node.InitGenesis(db, *chainID, []node.GenesisAllocation{{Pubkey: pubkey, Value: *value}}); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		fmt.Fprintln(stdout, "genesis seeded")
		return 0

	case "init-genesis-file":
		allocPath := fs.String("allocations", "", "path to a JSON array of {pubkey,value} allocations")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		allocations, err := node.LoadGenesisAllocations(*allocPath)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		db, err := store.Open(*dataDir, *chainID)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		defer db.Close()
		if err := node.InitGenesis(db, *chainID, allocations); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		fmt.Fprintf(stdout, "genesis seeded: %d allocations\n", len(allocations))
		return 0

	case "balance":
		pubkeyHex := fs.String("pubkey", "", "hex x-only pubkey to sum")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		pubkey, err := decodePubkeyHex(*pubkeyHex)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		db, err := store.Open(*dataDir, *chainID)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		defer db.Close()
		var total uint64
		err = db.IterateUTXOs(func(_ ledger.Outpoint, out ledger.TransactionOutput) (bool, error) {
			if out.Destination.Kind == ledger.DestPubkey && out.Destination.Pubkey == pubkey && out.Data == nil {
				total += out.Value
			}
			return true, nil
		})
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		fmt.Fprintln(stdout, total)
		return 0

	case "send":
		privHex := fs.String("priv", "", "hex secp256k1 private key of the sender")
		destAddr := fs.String("to", "", "bech32 destination address")
		amountStr := fs.String("amount", "0", "amount in base units")
		height := fs.Uint64("height", 0, "current chain height, for time-lock checks")
		unixTime := fs.Uint64("unix-time", 0, "current unix time, for time-lock checks")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		amount, err := strconv.ParseUint(*amountStr, 10, 64)
		if err != nil {
			fmt.Fprintln(stderr, "error: invalid -amount:", err)
			return 1
		}
		privBytes, err := hex.DecodeString(*privHex)
		if err != nil || len(privBytes) != 32 {
			fmt.Fprintln(stderr, "error: -priv must be 32 hex bytes")
			return 1
		}
		priv, _ := btcec.PrivKeyFromBytes(privBytes)

		db, err := store.Open(*dataDir, *chainID)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		defer db.Close()

		logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: parseLogLevel(*logLevel)}))
		h := &node.Host{Store: db, Clock: fixedClock{height: *height, unixTime: *unixTime}, Log: logger}

		cert, err := h.SendToAddress(node.KeySigner{Priv: priv}, *destAddr, amount)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		fmt.Fprintf(stdout, "sent: fee=%d new_outputs=%d\n", cert.Fee, len(cert.Tx.Outputs))
		return 0

	case "utxo":
		outpointHex := fs.String("outpoint", "", "hex-encoded 32-byte outpoint")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		b, err := hex.DecodeString(*outpointHex)
		if err != nil || len(b) != 32 {
			fmt.Fprintln(stderr, "error: -outpoint must be 32 hex bytes")
			return 1
		}
		var outpoint ledger.Outpoint
		copy(outpoint[:], b)

		db, err := store.Open(*dataDir, *chainID)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		defer db.Close()

		out, ok, err := db.GetUTXO(outpoint)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		if !ok {
			fmt.Fprintln(stdout, "not found")
			return 0
		}
		fmt.Fprintf(stdout, "value=%d destination_kind=%s\n", out.Value, out.Destination.Kind)
		return 0

	default:
		fmt.Fprintf(stderr, "unknown subcommand %q\n", args[0])
		return 2
	}
}

func decodePubkeyHex(s string) ([32]byte, error) {
	var pk [32]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return pk, err
	}
	if len(b) != 32 {
		return pk, fmt.Errorf("expected 32 bytes, got %d", len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type fixedClock struct {
	height   uint64
	unixTime uint64
}

func (c fixedClock) Height() uint64   { return c.height }
func (c fixedClock) UnixTime() uint64 { return c.unixTime }
