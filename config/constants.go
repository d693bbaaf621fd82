package config

// Contract types accepted in the deployment manifest.
const (
	ContractTypeFungible    = "fungible"
	ContractTypeNonFungible = "nonfungible"
)

// Capability names accepted in the deployment manifest.
const (
	CapabilityOwnable  = "ownable"
	CapabilityPausable = "pausable"
	CapabilityGuard    = "reentrancy_guard"
	CapabilityMintable = "mintable"
	CapabilityBurnable = "burnable"
)

// DefaultCapabilities is the attachment set used when a manifest entry
// omits the capabilities key entirely. An explicit empty list declares a
// bare ledger.
var DefaultCapabilities = []string{CapabilityOwnable, CapabilityPausable, CapabilityMintable, CapabilityBurnable}
