package config

// PremineEntry seeds a holding at deployment: a balance for fungible
// contracts, an explicit token id for non-fungible ones. Amounts are
// decimal strings so fungible values are not capped at 64 bits.
type PremineEntry struct {
	Address string `yaml:"address"`
	Amount  string `yaml:"amount"`
}

// ContractConfig declares one composition in the deployment manifest.
type ContractConfig struct {
	Name         string         `yaml:"name"`
	Type         string         `yaml:"type"`
	TokenName    string         `yaml:"token_name"`
	Symbol       string         `yaml:"symbol"`
	Decimals     uint8          `yaml:"decimals"`
	Capabilities []string       `yaml:"capabilities"`
	Premine      []PremineEntry `yaml:"premine"`
}

// DeployConfig holds the configuration from deploy.yml
type DeployConfig struct {
	Deployer  string           `yaml:"deployer"`
	Contracts []ContractConfig `yaml:"contracts"`
}

// ConfigFile is the top-level structure for deploy.yml
type ConfigFile struct {
	Config DeployConfig `yaml:"config"`
}
