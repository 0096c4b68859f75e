package node

import "testing"

func TestNormalizeAuthorities(t *testing.T) {
	got := NormalizeAuthorities("aa, bb", "aa", " ", "cc")
	want := []string{"aa", "bb", "cc"}
	if len(got) != len(want) {
		t.Fatalf("len=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("at %d got=%q want=%q", i, got[i], want[i])
		}
	}
}

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.GenesisAuthorities = []string{
		"0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a",
	}
	return cfg
}

func TestValidateConfigOK(t *testing.T) {
	cfg := validConfig()
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateConfigRejectsBadChainID(t *testing.T) {
	cfg := validConfig()
	cfg.ChainIDHex = "zz"
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidateConfigRejectsNoAuthorities(t *testing.T) {
	cfg := DefaultConfig()
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidateConfigRejectsBadAuthority(t *testing.T) {
	cfg := validConfig()
	cfg.GenesisAuthorities = []string{"not-hex"}
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected error")
	}
}
