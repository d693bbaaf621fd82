package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chainstd/config"
	"chainstd/contract"
	"chainstd/logx"
	"chainstd/state"
	"chainstd/types"
)

type DeployCLIConfig struct {
	Manifest string
	Store    string
}

var deployCLIConfig DeployCLIConfig

// deployCmd represents the deploy command
var deployCmd = &cobra.Command{
	Use:   "deploy [flags]",
	Short: "Deploy every contract declared in the manifest",
	Long: `Composes each contract in the deploy manifest over the configured store
and seeds the declared premine balances. Contracts that already carry
state are re-attached untouched; their premine is not repeated.

Examples:
  # Deploy against a bolt-backed store
  chainstd deploy -m deploy.yml -s store.ini`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeploy(deployCLIConfig)
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)

	deployCmd.Flags().StringVarP(&deployCLIConfig.Manifest, "manifest", "m", "deploy.yml", "deploy manifest path")
	deployCmd.Flags().StringVarP(&deployCLIConfig.Store, "store", "s", "", "store config path (.ini)")
}

func runDeploy(cliCfg DeployCLIConfig) error {
	manifest, err := config.LoadDeployConfig(cliCfg.Manifest)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}
	provider, err := openProvider(cliCfg.Store)
	if err != nil {
		return err
	}
	defer provider.Close()

	deployer := types.AsCaller(manifest.DeployerAddress())
	for i := range manifest.Contracts {
		cc := &manifest.Contracts[i]

		// Anything already journaled marks the namespace as deployed.
		st, err := state.NewStore(provider, cc.Name)
		if err != nil {
			return err
		}
		lastSeq, err := st.LastSeq()
		if err != nil {
			return err
		}
		deployed := lastSeq > 0

		opts, err := cc.Options()
		if err != nil {
			return err
		}
		ct, err := contract.New(deployer, cc.Name, provider, opts...)
		if err != nil {
			return fmt.Errorf("compose %s: %w", cc.Name, err)
		}

		if deployed {
			logx.Info("DEPLOY CLI", fmt.Sprintf("Contract %s already deployed, skipping premine", cc.Name))
			continue
		}
		if err := seedPremine(ct, deployer, cc); err != nil {
			return fmt.Errorf("premine %s: %w", cc.Name, err)
		}
		logx.Info("DEPLOY CLI", fmt.Sprintf("Deployed %s (%s, premine entries: %d)", cc.Name, cc.Type, len(cc.Premine)))
	}
	fmt.Println("OK")
	return nil
}

func seedPremine(ct *contract.Contract, deployer types.CallContext, cc *config.ContractConfig) error {
	for _, p := range cc.Premine {
		to := types.MustParseAddress(p.Address)
		amount, err := parseAmount(p.Amount)
		if err != nil {
			return err
		}
		if err := ct.Mint(deployer, to, amount); err != nil {
			return err
		}
	}
	return nil
}
