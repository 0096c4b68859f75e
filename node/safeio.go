package node

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

func readFileByPath(path string) ([]byte, error) {
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return readFileFromDir(dir, name)
}

func readFileFromDir(dir, name string) ([]byte, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return nil, fmt.Errorf("invalid file name: %q", name)
	}
	return fs.ReadFile(os.DirFS(dir), name)
}

type genesisAllocationFile struct {
	PubkeyHex string `json:"pubkey"`
	Value     uint64 `json:"value"`
}

// LoadGenesisAllocations reads a JSON array of {pubkey, value} objects
// from path, confined to a single path-traversal-safe file read, and
// decodes it into GenesisAllocations ready for InitGenesis.
func LoadGenesisAllocations(path string) ([]GenesisAllocation, error) {
	b, err := readFileByPath(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis allocations: %w", err)
	}
	var entries []genesisAllocationFile
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("parse genesis allocations: %w", err)
	}
	out := make([]GenesisAllocation, len(entries))
	for i, e := range entries {
		pub, err := decodePubkeyHex(e.PubkeyHex)
		if err != nil {
			return nil, fmt.Errorf("genesis allocation %d: %w", i, err)
		}
		out[i] = GenesisAllocation{Pubkey: pub, Value: e.Value}
	}
	return out, nil
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
