package ledger

// SigHashFlag selects which parts of a transaction a signature binds to.
// ALL is the only flag this core defines; others are reserved.
type SigHashFlag byte

const SigHashAll SigHashFlag = 0x01

// NoCodeSeparator is the codesep_position sentinel meaning "not
// applicable" — the literal u32::MAX the original passes when the script
// engine has no OP_CODESEPARATOR concept invoked.
const NoCodeSeparator uint32 = 0xffffffff

// TransactionSigMsg builds the deterministic message a Pubkey-destination
// signature is taken over: the witness-zeroed transaction body, the full
// set of spent UTXOs (in input order), the specific input being signed,
// and the codesep position, all bound together with the sighash flag.
func TransactionSigMsg(flags SigHashFlag, tx *Transaction, spentUTXOs []TransactionOutput, inputIndex uint32, codesepPosition uint32) ([]byte, error) {
	if int(inputIndex) >= len(tx.Inputs) {
		return nil, newParseError("sighash: input_index out of bounds")
	}
	if len(spentUTXOs) != len(tx.Inputs) {
		return nil, newParseError("sighash: spent_utxos length mismatch")
	}

	preimage := make([]byte, 0, 256)
	preimage = append(preimage, byte(flags))
	preimage = append(preimage, EncodeTxNoWitness(tx)...)

	spentBytes := make([]byte, 0, len(spentUTXOs)*48)
	for _, u := range spentUTXOs {
		spentBytes = append(spentBytes, EncodeOutput(u)...)
	}
	spentHash := Hash256(spentBytes)
	preimage = append(preimage, spentHash[:]...)

	preimage = appendU32le(preimage, inputIndex)
	preimage = appendU32le(preimage, codesepPosition)

	return preimage, nil
}

// TransactionSigHash returns BLAKE2-256 of TransactionSigMsg's output: the
// digest a Pubkey-destination Schnorr signature is actually taken over.
func TransactionSigHash(flags SigHashFlag, tx *Transaction, spentUTXOs []TransactionOutput, inputIndex uint32, codesepPosition uint32) (H256, error) {
	msg, err := TransactionSigMsg(flags, tx, spentUTXOs, inputIndex, codesepPosition)
	if err != nil {
		return H256{}, err
	}
	return Hash256(msg), nil
}
