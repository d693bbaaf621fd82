package cmd

import (
	"fmt"

	"github.com/holiman/uint256"

	"chainstd/config"
	"chainstd/contract"
	"chainstd/db"
	"chainstd/logx"
	"chainstd/types"
)

// openProvider opens the store backend named by the ini file. An empty path
// falls back to a fresh in-memory store, which only makes sense for
// single-invocation experiments.
func openProvider(storePath string) (db.DatabaseProvider, error) {
	if storePath == "" {
		logx.Warn("CMD", "No --store given, using in-memory store; state will not outlive this invocation")
		return config.DefaultStoreConfig().Provider()
	}
	storeCfg, err := config.LoadStoreConfig(storePath)
	if err != nil {
		return nil, fmt.Errorf("load store config: %w", err)
	}
	return storeCfg.Provider()
}

// openContract rebuilds the named composition from the manifest over the
// configured store. The caller owns closing the returned provider.
func openContract(manifestPath, storePath, name string) (*contract.Contract, db.DatabaseProvider, error) {
	manifest, err := config.LoadDeployConfig(manifestPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load manifest: %w", err)
	}
	cc, err := manifest.Contract(name)
	if err != nil {
		return nil, nil, err
	}
	opts, err := cc.Options()
	if err != nil {
		return nil, nil, err
	}

	provider, err := openProvider(storePath)
	if err != nil {
		return nil, nil, err
	}
	ct, err := contract.New(types.AsCaller(manifest.DeployerAddress()), cc.Name, provider, opts...)
	if err != nil {
		provider.Close()
		return nil, nil, err
	}
	return ct, provider, nil
}

// parseAmount reads a decimal amount, tolerating underscore separators.
func parseAmount(s string) (*uint256.Int, error) {
	return config.ParseAmount(s)
}

// parseCaller builds the call context for --caller.
func parseCaller(s string) (types.CallContext, error) {
	if s == "" {
		return types.CallContext{}, fmt.Errorf("--caller is required")
	}
	caller, err := types.ParseAddress(s)
	if err != nil {
		return types.CallContext{}, err
	}
	return types.AsCaller(caller), nil
}
