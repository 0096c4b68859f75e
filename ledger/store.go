package ledger

import "sync"

// TokenIssuanceRecord is what the token-issuance secondary index keeps
// for a TokenID: the outpoint that first produced it (the
// TokenId => H256 mapping spec.md's storage layer names) plus the
// immutable metadata an issuance or NFT mint recorded there. It is kept
// even after that outpoint's UTXO is later spent or transferred, so a
// read-only query like NftRead can still resolve a token's origin and
// minted metadata once the coin representing current ownership has
// moved on to a different outpoint.
type TokenIssuanceRecord struct {
	Outpoint    Outpoint
	Kind        OutputDataKind
	MetadataURI string
	DataHash    H256
}

// Store is the persistence boundary a validator and state-transition
// function operate through: the live UTXO set, the record of which
// TokenIDs have ever been issued or minted, the record of which NFT
// content-data hashes have ever been minted, and the running total of
// native coin awaiting dispersal as block rewards. Callers outside this
// package supply a durable implementation (see node/store); MemStore
// below is an in-memory implementation for tests.
type Store interface {
	GetUTXO(o Outpoint) (TransactionOutput, bool, error)
	PutUTXO(o Outpoint, out TransactionOutput) error
	DeleteUTXO(o Outpoint) error

	TokenIssuance(id TokenID) (TokenIssuanceRecord, bool, error)
	MarkTokenIssued(id TokenID, rec TokenIssuanceRecord) error

	NftDataHashUsed(h H256) (bool, error)
	MarkNftDataHashUsed(h H256) error

	RewardTotal() (uint64, error)
	SetRewardTotal(v uint64) error

	// IterateUTXOs calls fn once per live UTXO, in unspecified order,
	// stopping early if fn returns cont=false or a non-nil error. It
	// backs the coin-picking helpers in node/dispatch.go, which sort the
	// candidates themselves rather than rely on iteration order.
	IterateUTXOs(fn func(o Outpoint, out TransactionOutput) (cont bool, err error)) error
}

// MemStore is a goroutine-safe, in-memory Store. It is the reference
// implementation used by this package's own tests and is suitable for
// any caller that does not need the state to survive a restart.
type MemStore struct {
	mu          sync.RWMutex
	utxos       map[Outpoint]TransactionOutput
	issuedToken map[TokenID]TokenIssuanceRecord
	nftHash     map[H256]struct{}
	rewardTotal uint64
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		utxos:       make(map[Outpoint]TransactionOutput),
		issuedToken: make(map[TokenID]TokenIssuanceRecord),
		nftHash:     make(map[H256]struct{}),
	}
}

func (s *MemStore) GetUTXO(o Outpoint) (TransactionOutput, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out, ok := s.utxos[o]
	return out, ok, nil
}

func (s *MemStore) PutUTXO(o Outpoint, out TransactionOutput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.utxos[o] = out
	return nil
}

func (s *MemStore) DeleteUTXO(o Outpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.utxos, o)
	return nil
}

func (s *MemStore) TokenIssuance(id TokenID) (TokenIssuanceRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.issuedToken[id]
	return rec, ok, nil
}

func (s *MemStore) MarkTokenIssued(id TokenID, rec TokenIssuanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issuedToken[id] = rec
	return nil
}

func (s *MemStore) NftDataHashUsed(h H256) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nftHash[h]
	return ok, nil
}

func (s *MemStore) MarkNftDataHashUsed(h H256) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nftHash[h] = struct{}{}
	return nil
}

func (s *MemStore) IterateUTXOs(fn func(o Outpoint, out TransactionOutput) (bool, error)) error {
	s.mu.RLock()
	snapshot := make(map[Outpoint]TransactionOutput, len(s.utxos))
	for k, v := range s.utxos {
		snapshot[k] = v
	}
	s.mu.RUnlock()

	for o, out := range snapshot {
		cont, err := fn(o, out)
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}
	return nil
}

func (s *MemStore) RewardTotal() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rewardTotal, nil
}

func (s *MemStore) SetRewardTotal(v uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rewardTotal = v
	return nil
}
