package node

import (
	"encoding/hex"
	"log/slog"

	"ledgerchain.dev/node/ledger"
)

// emitTransactionSuccess logs the one event this core ever reports: a
// transaction cleared validation and its effects were applied. Callers
// build richer event buses (webhooks, a subscription feed) on top of
// this log line rather than inside the ledger package itself.
func emitTransactionSuccess(log *slog.Logger, cert *ledger.ValidityCertificate) {
	txid := ledger.TxOutpoint(cert.Tx, 0)
	log.Info("transaction_success",
		slog.String("txid_prefix", hex.EncodeToString(txid[:8])),
		slog.Uint64("fee_base_units", cert.Fee),
		slog.Int("new_token_count", len(cert.NewTokenIDs)),
		slog.Int("spent_input_count", len(cert.SpentUTXOs)),
	)
}
