// Package node hosts the ledger core behind a concrete Store and wires
// its collaborators (the programmable-pool engine, the authority set
// used for reward dispersal, and an address codec) into the dispatch
// operations a client issues against a running chain: Spend,
// SendToAddress, and the read-only NFT lookup.
package node

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	ChainIDHex string `json:"chain_id_hex"`
	DataDir    string `json:"data_dir"`
	LogLevel   string `json:"log_level"`

	// CreationFeeBaseUnits is carried in the config but nothing in this
	// repository reads it: ledger.Validate always applies the
	// ledger.CreationFeeBaseUnits constant.
	CreationFeeBaseUnits uint64 `json:"creation_fee_base_units"`

	// GenesisAuthorities lists hex-encoded x-only pubkeys of the chain's
	// reward authorities. ValidateConfig requires at least one; nothing in
	// this package turns the list into the AuthoritySet that
	// Host.FinalizeBlock takes.
	GenesisAuthorities []string `json:"genesis_authorities"`
}

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".ledgerchain"
	}
	return filepath.Join(home, ".ledgerchain")
}

func DefaultConfig() Config {
	return Config{
		ChainIDHex: "00",
		DataDir:    DefaultDataDir(),
		LogLevel:   "info",
	}
}

// NormalizeAuthorities flattens and dedupes a set of comma-separated
// hex-pubkey tokens, preserving first-seen order.
func NormalizeAuthorities(raw ...string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, token := range raw {
		for _, p := range strings.Split(token, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.ChainIDHex) == "" {
		return errors.New("chain_id_hex is required")
	}
	if _, err := hex.DecodeString(cfg.ChainIDHex); err != nil {
		return fmt.Errorf("invalid chain_id_hex: %w", err)
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return errors.New("data_dir is required")
	}
	logLevel := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if _, ok := allowedLogLevels[logLevel]; !ok {
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	if len(cfg.GenesisAuthorities) == 0 {
		return errors.New("at least one genesis authority is required")
	}
	for _, a := range cfg.GenesisAuthorities {
		if err := validateAuthorityPubkeyHex(a); err != nil {
			return fmt.Errorf("invalid genesis authority %q: %w", a, err)
		}
	}
	return nil
}

func validateAuthorityPubkeyHex(s string) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) != 32 {
		return fmt.Errorf("expected 32 bytes, got %d", len(b))
	}
	return nil
}
