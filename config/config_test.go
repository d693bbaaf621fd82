package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainstd/contract"
	"chainstd/db"
	"chainstd/types"
)

const deployerHex = "0x00000000000000000000000000000000000000d0"
const alexHex = "0x00000000000000000000000000000000000000a1"

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func validManifest() *DeployConfig {
	return &DeployConfig{
		Deployer: deployerHex,
		Contracts: []ContractConfig{{
			Name:      "vault",
			Type:      ContractTypeFungible,
			TokenName: "Vault Token",
			Symbol:    "VLT",
			Decimals:  18,
		}},
	}
}

func TestLoadDeployConfig(t *testing.T) {
	path := writeTemp(t, "deploy.yml", `
config:
  deployer: "`+deployerHex+`"
  contracts:
    - name: vault
      type: fungible
      token_name: Vault Token
      symbol: VLT
      decimals: 18
      premine:
        - address: "`+alexHex+`"
          amount: "1_000"
    - name: deeds
      type: nonfungible
      token_name: Deed
      symbol: DD
      capabilities: [ownable, mintable]
`)

	cfg, err := LoadDeployConfig(path)
	require.NoError(t, err)
	assert.Equal(t, types.MustParseAddress(deployerHex), cfg.DeployerAddress())
	require.Len(t, cfg.Contracts, 2)

	vault, err := cfg.Contract("vault")
	require.NoError(t, err)
	assert.Equal(t, uint8(18), vault.Decimals)
	// No capabilities key on vault means the default set.
	assert.Equal(t, DefaultCapabilities, vault.EffectiveCapabilities())
	assert.True(t, vault.HasCapability(CapabilityMintable))
	require.Len(t, vault.Premine, 1)
	amount, err := ParseAmount(vault.Premine[0].Amount)
	require.NoError(t, err)
	assert.Equal(t, "1000", amount.Dec())

	deeds, err := cfg.Contract("deeds")
	require.NoError(t, err)
	assert.Equal(t, []string{CapabilityOwnable, CapabilityMintable}, deeds.EffectiveCapabilities())
	assert.False(t, deeds.HasCapability(CapabilityPausable))

	_, err = cfg.Contract("missing")
	assert.Error(t, err)
}

func TestLoadDeployConfigRejectsBadManifest(t *testing.T) {
	path := writeTemp(t, "deploy.yml", `
config:
  deployer: "not-an-address"
  contracts:
    - name: vault
      type: fungible
      token_name: Vault Token
      symbol: VLT
`)
	_, err := LoadDeployConfig(path)
	assert.ErrorContains(t, err, "deployer")

	_, err = LoadDeployConfig(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestDeployConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*DeployConfig)
		wantErr string
	}{
		{"no contracts", func(c *DeployConfig) { c.Contracts = nil }, "no contracts"},
		{"missing name", func(c *DeployConfig) { c.Contracts[0].Name = "" }, "name is required"},
		{"duplicate name", func(c *DeployConfig) {
			c.Contracts = append(c.Contracts, c.Contracts[0])
		}, "duplicate name"},
		{"unknown type", func(c *DeployConfig) { c.Contracts[0].Type = "soulbound" }, "unknown type"},
		{"missing symbol", func(c *DeployConfig) { c.Contracts[0].Symbol = "" }, "symbol are required"},
		{"unknown capability", func(c *DeployConfig) {
			c.Contracts[0].Capabilities = []string{"upgradable"}
		}, "unknown capability"},
		{"duplicate capability", func(c *DeployConfig) {
			c.Contracts[0].Capabilities = []string{CapabilityOwnable, CapabilityOwnable}
		}, "duplicate capability"},
		{"premine without mintable", func(c *DeployConfig) {
			c.Contracts[0].Capabilities = []string{CapabilityOwnable}
			c.Contracts[0].Premine = []PremineEntry{{Address: alexHex, Amount: "10"}}
		}, "premine requires"},
		{"premine bad address", func(c *DeployConfig) {
			c.Contracts[0].Premine = []PremineEntry{{Address: "0x12", Amount: "10"}}
		}, "premine address"},
		{"premine bad amount", func(c *DeployConfig) {
			c.Contracts[0].Premine = []PremineEntry{{Address: alexHex, Amount: "ten"}}
		}, "could not parse amount"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validManifest()
			tc.mutate(cfg)
			err := cfg.Validate()
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}

	require.NoError(t, validManifest().Validate())
}

func TestOptionsBuildComposition(t *testing.T) {
	cc := &ContractConfig{
		Name:         "deeds",
		Type:         ContractTypeNonFungible,
		TokenName:    "Deed",
		Symbol:       "DD",
		Capabilities: []string{CapabilityOwnable, CapabilityGuard, CapabilityMintable, CapabilityBurnable},
	}
	opts, err := cc.Options()
	require.NoError(t, err)

	ct, err := contract.New(types.AsCaller(types.MustParseAddress(deployerHex)), cc.Name, db.NewMemoryProvider(), opts...)
	require.NoError(t, err)
	assert.Equal(t, contract.KindNonFungible, ct.Kind())
	owner, err := ct.Owner()
	require.NoError(t, err)
	assert.Equal(t, types.MustParseAddress(deployerHex), owner)
}

func TestBareLedgerFromExplicitEmptyCapabilities(t *testing.T) {
	cc := &ContractConfig{
		Name:         "raw",
		Type:         ContractTypeFungible,
		TokenName:    "Raw",
		Symbol:       "RAW",
		Capabilities: []string{},
	}
	assert.Empty(t, cc.EffectiveCapabilities())

	opts, err := cc.Options()
	require.NoError(t, err)
	ct, err := contract.New(types.AsCaller(types.MustParseAddress(deployerHex)), cc.Name, db.NewMemoryProvider(), opts...)
	require.NoError(t, err)
	_, err = ct.Owner()
	assert.Error(t, err)
}

func TestLoadStoreConfig(t *testing.T) {
	path := writeTemp(t, "store.ini", `
[store]
type = bolt
path = /tmp/chainstd.db
`)
	cfg, err := LoadStoreConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "bolt", cfg.Type)
	assert.Equal(t, "/tmp/chainstd.db", cfg.Path)
}

func TestStoreConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultStoreConfig().Validate())
	assert.NoError(t, (&StoreConfig{Type: "redis", Address: "localhost:6379"}).Validate())
	assert.NoError(t, (&StoreConfig{Type: "postgres", DSN: "postgres://localhost/chainstd"}).Validate())

	assert.ErrorContains(t, (&StoreConfig{Type: "bolt"}).Validate(), "requires path")
	assert.ErrorContains(t, (&StoreConfig{Type: "leveldb"}).Validate(), "requires path")
	assert.ErrorContains(t, (&StoreConfig{Type: "redis"}).Validate(), "requires address")
	assert.ErrorContains(t, (&StoreConfig{Type: "postgres"}).Validate(), "requires dsn")
	assert.ErrorContains(t, (&StoreConfig{Type: "cassandra"}).Validate(), "unknown store type")
}

func TestDefaultStoreProviderIsMemory(t *testing.T) {
	provider, err := DefaultStoreConfig().Provider()
	require.NoError(t, err)
	defer provider.Close()
	_, ok := provider.(*db.MemoryProvider)
	assert.True(t, ok)
}
