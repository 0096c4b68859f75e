package ledger

import "golang.org/x/crypto/blake2b"

// Hash256 returns the BLAKE2-256 digest of b. Every consensus-critical hash
// in this package — outpoints, lock commitments, signature messages,
// genesis keys, authority-reward keys — goes through this one function.
func Hash256(b []byte) H256 {
	return blake2b.Sum256(b)
}

// EmptyLockCommitment is BLAKE2-256 of the empty byte string. It is the
// lock commitment every destination other than ScriptHash expects; a
// spender matches it by leaving TransactionInput.Lock empty.
var EmptyLockCommitment = H256{
	0x0e, 0x57, 0x51, 0xc0, 0x26, 0xe5, 0x43, 0xb2,
	0xe8, 0xab, 0x2e, 0xb0, 0x60, 0x99, 0xda, 0xa1,
	0xd1, 0xe5, 0xdf, 0x47, 0x77, 0x8f, 0x77, 0x87,
	0xfa, 0xab, 0x45, 0xcd, 0xf1, 0x2f, 0xe3, 0xa8,
}

// LockHash returns the commitment a TransactionInput's Lock bytes produce.
func LockHash(in TransactionInput) H256 {
	return Hash256(in.Lock)
}

// TxOutpoint derives the outpoint key of the i-th output of tx:
// BLAKE2-256(encode(tx) || encode(i as u64)).
func TxOutpoint(tx *Transaction, i uint64) H256 {
	b := EncodeTxNoWitness(tx)
	b = appendU64le(b, i)
	return Hash256(b)
}
