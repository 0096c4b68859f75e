// Package ledger implements the UTXO entity model, canonical codec,
// transaction validator, script/signature engine, and state-transition
// logic of the ledger core.
package ledger

const (
	// MLTBaseUnits is the number of base units in one MLT, the native coin.
	MLTBaseUnits = 100_000_000_000

	// CreationFeeMLT is the minimum native-coin amount, in MLT, required
	// per token or NFT created within a single transaction.
	CreationFeeMLT = 100

	// CreationFeeBaseUnits is CreationFeeMLT expressed in base units.
	CreationFeeBaseUnits = CreationFeeMLT * MLTBaseUnits

	MaxTokenTickerBytes  = 5
	MaxMetadataURIBytes  = 100
	MaxTokenDecimals     = 18
	MaxInputsOrOutputs   = 1<<32 - 1
	CallPPOpSpendValue   = 0x1337
)

// H256 is a 256-bit content hash: an outpoint key, a lock hash, a token id,
// or an NFT content-data hash.
type H256 [32]byte

// Outpoint is an alias for H256 used where a value names a specific UTXO.
type Outpoint = H256

// TokenID names a fungible or non-fungible asset. It is content-addressed:
// derived from the outpoint of the output that issued or minted it.
// TokenIDMLT is the distinguished sentinel denoting the native coin; it is
// the zero value and never appears in an issuance or mint record.
type TokenID = H256

// TokenIDMLT is the zero-value TokenID reserved for the native coin.
var TokenIDMLT TokenID

// DestinationKind tags the spending predicate attached to an output.
type DestinationKind uint8

const (
	DestPubkey DestinationKind = iota
	DestScriptHash
	DestCreatePP
	DestCallPP
)

func (k DestinationKind) String() string {
	switch k {
	case DestPubkey:
		return "Pubkey"
	case DestScriptHash:
		return "ScriptHash"
	case DestCreatePP:
		return "CreatePP"
	case DestCallPP:
		return "CallPP"
	default:
		return "Unknown"
	}
}

// Destination is the tagged spending predicate of an output. Only the
// fields relevant to Kind are populated; others are left zero.
type Destination struct {
	Kind DestinationKind

	// Pubkey: x-only secp256k1 public key (32 bytes), Kind == DestPubkey.
	Pubkey [32]byte

	// ScriptHash: commitment to a chainscript lock, Kind == DestScriptHash.
	ScriptHash H256

	// CreatePP: contract code and constructor data, Kind == DestCreatePP.
	Code []byte
	// CallPP: destination account, whether the call funds the contract,
	// and call input data, Kind == DestCallPP. CreatePP reuses Data for its
	// constructor payload.
	Account [32]byte
	Fund    bool
	Data    []byte
}

// LockCommitment returns the expected lock_hash a spender's TransactionInput
// must produce to satisfy this destination. Every destination other than
// ScriptHash expects the hash of the empty byte string, matched by leaving
// the input's Lock field empty.
func (d Destination) LockCommitment() H256 {
	if d.Kind == DestScriptHash {
		return d.ScriptHash
	}
	return EmptyLockCommitment
}

// OutputDataKind tags the asset-layer payload of an output.
type OutputDataKind uint8

const (
	DataTokenIssuanceV1 OutputDataKind = iota + 1
	DataTokenTransferV1
	DataTokenBurnV1
	DataNftMintV1
)

// OutputData is the tagged asset-layer payload of an output. A nil
// *OutputData on a TransactionOutput means "absent" (pure native-coin
// output).
type OutputData struct {
	Kind OutputDataKind

	TokenID TokenID

	// TokenIssuanceV1
	TokenTicker      string
	AmountToIssue    uint64
	NumberOfDecimals uint8
	MetadataURI      string

	// TokenTransferV1
	Amount uint64

	// TokenBurnV1
	AmountToBurn uint64

	// NftMintV1 (MetadataURI shared with TokenIssuanceV1 above)
	DataHash H256
}

// ID returns the TokenID this payload refers to, for variants that carry
// one. TokenBurnV1 has no identifiable successor token id in the sense the
// validator cares about (it is absent from both the input and output token
// accounting), so ID's second return is false for it.
func (d *OutputData) ID() (TokenID, bool) {
	if d == nil {
		return TokenIDMLT, false
	}
	switch d.Kind {
	case DataTokenIssuanceV1, DataTokenTransferV1, DataNftMintV1:
		return d.TokenID, true
	default:
		return TokenIDMLT, false
	}
}

// TimeLockMode selects whether a Transaction's TimeLock threshold is a
// block height or a Unix timestamp.
type TimeLockMode uint8

const (
	TimeLockHeight    TimeLockMode = 0
	TimeLockTimestamp TimeLockMode = 1
)

// TimeLock is a transaction-level temporal admissibility threshold.
type TimeLock struct {
	Mode  TimeLockMode
	Value uint64
}

// Satisfied reports whether the TimeLock threshold is met given the
// current chain height and Unix timestamp.
func (t TimeLock) Satisfied(height, unixTime uint64) bool {
	switch t.Mode {
	case TimeLockTimestamp:
		return unixTime >= t.Value
	default:
		return height >= t.Value
	}
}

// TransactionInput spends a prior output identified by Outpoint. Lock
// carries the revealed script bytes (required only for ScriptHash
// destinations); Witness carries the signature or script input. Witness
// is excluded from the transaction hash (SegWit-style malleability
// resistance): see EncodeTxNoWitness.
type TransactionInput struct {
	Outpoint Outpoint
	Lock     []byte
	Witness  []byte
}

// TransactionOutput is a value paid to a Destination, optionally carrying
// an asset-layer payload.
type TransactionOutput struct {
	Value       uint64
	Destination Destination
	Data        *OutputData
}

// Transaction is an ordered list of inputs and outputs plus a temporal
// admissibility threshold.
type Transaction struct {
	Inputs   []TransactionInput
	Outputs  []TransactionOutput
	TimeLock TimeLock
}
