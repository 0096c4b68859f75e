// Package store is a bbolt-backed implementation of ledger.Store: one
// bucket per asset-accounting map the reference pallet keeps (UtxoStore,
// TokenIssuanceTransactions, NftUniqueDataHash, RewardTotal), persisted
// under a per-chain directory with a crash-safe JSON manifest alongside
// the KV file.
package store

import (
	"fmt"
	"path/filepath"
	"time"

	"ledgerchain.dev/node/ledger"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketUtxo        = []byte("utxo_by_outpoint")
	bucketTokenIssued = []byte("token_issuance_transactions")
	bucketNftHash     = []byte("nft_unique_data_hash")
	bucketMeta        = []byte("meta")
)

var metaKeyRewardTotal = []byte("reward_total")

// DB is a durable ledger.Store backed by a single bbolt file per chain.
type DB struct {
	chainDir string
	db       *bolt.DB
	manifest *Manifest
}

// Open opens (creating if absent) the bbolt store for chainIDHex under
// datadir, ensuring every bucket this package uses exists before
// returning.
func Open(datadir string, chainIDHex string) (*DB, error) {
	if datadir == "" {
		return nil, fmt.Errorf("datadir required")
	}
	if chainIDHex == "" {
		return nil, fmt.Errorf("chain_id_hex required")
	}

	chainDir := ChainDir(datadir, chainIDHex)
	if err := ensureDir(chainDir); err != nil {
		return nil, err
	}
	if err := ensureDir(filepath.Join(chainDir, "db")); err != nil {
		return nil, err
	}

	path := filepath.Join(chainDir, "db", "kv.db")
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt: %w", err)
	}

	d := &DB{chainDir: chainDir, db: bdb}

	if err := d.db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketUtxo, bucketTokenIssued, bucketNftHash, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", string(b), err)
			}
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, err
	}

	m, err := readManifest(chainDir)
	if err != nil {
		m = &Manifest{SchemaVersion: SchemaVersionV1, ChainIDHex: chainIDHex}
		if werr := writeManifestAtomic(chainDir, m); werr != nil {
			_ = bdb.Close()
			return nil, fmt.Errorf("write initial manifest: %w", werr)
		}
	}
	if m.SchemaVersion > SchemaVersionV1 {
		_ = bdb.Close()
		return nil, fmt.Errorf("manifest schema_version %d > supported %d", m.SchemaVersion, SchemaVersionV1)
	}
	d.manifest = m
	return d, nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) ChainDir() string { return d.chainDir }

func (d *DB) Manifest() *Manifest {
	if d == nil {
		return nil
	}
	return d.manifest
}

func (d *DB) SetManifest(m *Manifest) error {
	if d == nil {
		return fmt.Errorf("db: nil")
	}
	if err := writeManifestAtomic(d.chainDir, m); err != nil {
		return err
	}
	d.manifest = m
	return nil
}

func (d *DB) GetUTXO(o ledger.Outpoint) (ledger.TransactionOutput, bool, error) {
	var out ledger.TransactionOutput
	var ok bool
	key := encodeOutpointKey(o)
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketUtxo).Get(key)
		if v == nil {
			return nil
		}
		decoded, err := decodeUtxoEntry(v)
		if err != nil {
			return err
		}
		out, ok = decoded, true
		return nil
	})
	return out, ok, err
}

func (d *DB) PutUTXO(o ledger.Outpoint, out ledger.TransactionOutput) error {
	key := encodeOutpointKey(o)
	val := encodeUtxoEntry(out)
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketUtxo).Put(key, val)
	})
}

func (d *DB) DeleteUTXO(o ledger.Outpoint) error {
	key := encodeOutpointKey(o)
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketUtxo).Delete(key)
	})
}

func (d *DB) TokenIssuance(id ledger.TokenID) (ledger.TokenIssuanceRecord, bool, error) {
	var rec ledger.TokenIssuanceRecord
	var ok bool
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketTokenIssued).Get(id[:])
		if v == nil {
			return nil
		}
		decoded, err := decodeTokenIssuanceRecord(v)
		if err != nil {
			return err
		}
		rec, ok = decoded, true
		return nil
	})
	return rec, ok, err
}

func (d *DB) MarkTokenIssued(id ledger.TokenID, rec ledger.TokenIssuanceRecord) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTokenIssued).Put(id[:], encodeTokenIssuanceRecord(rec))
	})
}

func (d *DB) NftDataHashUsed(h ledger.H256) (bool, error) {
	var ok bool
	err := d.db.View(func(tx *bolt.Tx) error {
		ok = tx.Bucket(bucketNftHash).Get(h[:]) != nil
		return nil
	})
	return ok, err
}

func (d *DB) MarkNftDataHashUsed(h ledger.H256) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketNftHash).Put(h[:], []byte{1})
	})
}

func (d *DB) RewardTotal() (uint64, error) {
	var v uint64
	err := d.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMeta).Get(metaKeyRewardTotal)
		if b == nil {
			return nil
		}
		decoded, err := decodeU64(b)
		if err != nil {
			return err
		}
		v = decoded
		return nil
	})
	return v, err
}

func (d *DB) SetRewardTotal(v uint64) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(metaKeyRewardTotal, encodeU64(v))
	})
}

func (d *DB) IterateUTXOs(fn func(o ledger.Outpoint, out ledger.TransactionOutput) (bool, error)) error {
	return d.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketUtxo).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			o, err := decodeOutpointKey(k)
			if err != nil {
				return err
			}
			out, err := decodeUtxoEntry(v)
			if err != nil {
				return err
			}
			cont, err := fn(o, out)
			if err != nil {
				return err
			}
			if !cont {
				return nil
			}
		}
		return nil
	})
}

// compile-time assertion that *DB satisfies ledger.Store.
var _ ledger.Store = (*DB)(nil)
