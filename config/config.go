package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/holiman/uint256"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"chainstd/contract"
	"chainstd/db"
	"chainstd/logx"
	"chainstd/types"
)

// ParseAmount reads a decimal amount, tolerating underscore separators, so
// manifests and CLI flags can both write 1_000_000.
func ParseAmount(s string) (*uint256.Int, error) {
	amount, err := uint256.FromDecimal(strings.ReplaceAll(s, "_", ""))
	if err != nil {
		return nil, fmt.Errorf("could not parse amount %q: %v", s, err)
	}
	return amount, nil
}

// LoadDeployConfig reads and parses the deploy.yml manifest.
func LoadDeployConfig(path string) (*DeployConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		logx.Error("CONFIG", "Failed to open deploy manifest:", err)
		return nil, err
	}
	defer file.Close()

	var cfgFile ConfigFile
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfgFile); err != nil {
		logx.Error("CONFIG", "Failed to decode deploy manifest:", err)
		return nil, err
	}
	if err := cfgFile.Config.Validate(); err != nil {
		return nil, err
	}
	logx.Info("CONFIG", fmt.Sprintf("Loaded deploy manifest: deployer=%s contracts=%d", cfgFile.Config.Deployer, len(cfgFile.Config.Contracts)))
	return &cfgFile.Config, nil
}

// Validate checks the manifest before anything touches storage.
func (c *DeployConfig) Validate() error {
	if _, err := types.ParseAddress(c.Deployer); err != nil {
		return fmt.Errorf("deployer: %w", err)
	}
	if len(c.Contracts) == 0 {
		return fmt.Errorf("manifest declares no contracts")
	}
	seen := make(map[string]struct{}, len(c.Contracts))
	for i := range c.Contracts {
		cc := &c.Contracts[i]
		if cc.Name == "" {
			return fmt.Errorf("contract %d: name is required", i)
		}
		if _, dup := seen[cc.Name]; dup {
			return fmt.Errorf("contract %s: duplicate name", cc.Name)
		}
		seen[cc.Name] = struct{}{}
		if err := cc.validate(); err != nil {
			return fmt.Errorf("contract %s: %w", cc.Name, err)
		}
	}
	return nil
}

// DeployerAddress returns the parsed deployer. Call after Validate.
func (c *DeployConfig) DeployerAddress() types.Address {
	return types.MustParseAddress(c.Deployer)
}

// Contract returns the manifest entry with the given name.
func (c *DeployConfig) Contract(name string) (*ContractConfig, error) {
	for i := range c.Contracts {
		if c.Contracts[i].Name == name {
			return &c.Contracts[i], nil
		}
	}
	return nil, fmt.Errorf("contract %s not in manifest", name)
}

func (cc *ContractConfig) validate() error {
	switch cc.Type {
	case ContractTypeFungible, ContractTypeNonFungible:
	default:
		return fmt.Errorf("unknown type %q", cc.Type)
	}
	if cc.TokenName == "" || cc.Symbol == "" {
		return fmt.Errorf("token_name and symbol are required")
	}
	caps := make(map[string]struct{}, len(cc.Capabilities))
	for _, name := range cc.Capabilities {
		switch name {
		case CapabilityOwnable, CapabilityPausable, CapabilityGuard, CapabilityMintable, CapabilityBurnable:
		default:
			return fmt.Errorf("unknown capability %q", name)
		}
		if _, dup := caps[name]; dup {
			return fmt.Errorf("duplicate capability %q", name)
		}
		caps[name] = struct{}{}
	}
	if len(cc.Premine) > 0 && !cc.HasCapability(CapabilityMintable) {
		return fmt.Errorf("premine requires the mintable capability")
	}
	for _, p := range cc.Premine {
		if _, err := types.ParseAddress(p.Address); err != nil {
			return fmt.Errorf("premine address: %w", err)
		}
		if _, err := ParseAmount(p.Amount); err != nil {
			return fmt.Errorf("premine: %w", err)
		}
	}
	return nil
}

// HasCapability reports whether the entry attaches the named capability,
// after defaulting.
func (cc *ContractConfig) HasCapability(name string) bool {
	for _, c := range cc.EffectiveCapabilities() {
		if c == name {
			return true
		}
	}
	return false
}

// EffectiveCapabilities resolves the defaulting rule: a nil list (key
// omitted) means DefaultCapabilities, an explicit empty list means none.
func (cc *ContractConfig) EffectiveCapabilities() []string {
	if cc.Capabilities == nil {
		return DefaultCapabilities
	}
	return cc.Capabilities
}

// Options converts a validated manifest entry into composition options.
func (cc *ContractConfig) Options() ([]contract.Option, error) {
	var opts []contract.Option
	switch cc.Type {
	case ContractTypeFungible:
		opts = append(opts, contract.WithFungible(cc.TokenName, cc.Symbol, cc.Decimals))
	case ContractTypeNonFungible:
		opts = append(opts, contract.WithNFT(cc.TokenName, cc.Symbol))
	default:
		return nil, fmt.Errorf("unknown contract type %q", cc.Type)
	}
	for _, name := range cc.EffectiveCapabilities() {
		switch name {
		case CapabilityOwnable:
			opts = append(opts, contract.WithOwnable())
		case CapabilityPausable:
			opts = append(opts, contract.WithPausable())
		case CapabilityGuard:
			opts = append(opts, contract.WithReentrancyGuard())
		case CapabilityMintable:
			opts = append(opts, contract.WithMintable())
		case CapabilityBurnable:
			opts = append(opts, contract.WithBurnable())
		default:
			return nil, fmt.Errorf("unknown capability %q", name)
		}
	}
	return opts, nil
}

// StoreConfig selects the database backend from a store.ini file.
type StoreConfig struct {
	Type    string `ini:"type"`
	Path    string `ini:"path"`
	Address string `ini:"address"`
	DSN     string `ini:"dsn"`
}

// DefaultStoreConfig is the in-memory backend used when no store.ini is
// given.
func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{Type: string(db.MemoryProviderType)}
}

// LoadStoreConfig reads the store backend selection from an .ini file.
func LoadStoreConfig(path string) (*StoreConfig, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	storeSection := cfg.Section("store")
	storeCfg := &StoreConfig{}
	if err := storeSection.MapTo(storeCfg); err != nil {
		return nil, err
	}
	if err := storeCfg.Validate(); err != nil {
		return nil, err
	}
	return storeCfg, nil
}

// Validate checks that the backend selection names everything it needs.
func (s *StoreConfig) Validate() error {
	switch db.ProviderType(s.Type) {
	case db.MemoryProviderType:
	case db.BoltProviderType, db.LevelDBProviderType:
		if s.Path == "" {
			return fmt.Errorf("store type %s requires path", s.Type)
		}
	case db.RedisProviderType:
		if s.Address == "" {
			return fmt.Errorf("store type %s requires address", s.Type)
		}
	case db.PostgresProviderType:
		if s.DSN == "" {
			return fmt.Errorf("store type %s requires dsn", s.Type)
		}
	default:
		return fmt.Errorf("unknown store type %q", s.Type)
	}
	return nil
}

// Provider opens the configured backend.
func (s *StoreConfig) Provider() (db.DatabaseProvider, error) {
	target := s.Path
	switch db.ProviderType(s.Type) {
	case db.RedisProviderType:
		target = s.Address
	case db.PostgresProviderType:
		target = s.DSN
	}
	return db.NewProvider(db.ProviderType(s.Type), target)
}
