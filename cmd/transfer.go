package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chainstd/contract"
	"chainstd/types"
)

type TransferCLIConfig struct {
	Manifest string
	Store    string
	Contract string
	Caller   string
	To       string
	Amount   string
	TokenID  uint64
}

var transferCLIConfig TransferCLIConfig

// transferCmd represents the transfer command
var transferCmd = &cobra.Command{
	Use:   "transfer [flags]",
	Short: "Transfer value or a token to another account",
	Long: `Moves a fungible amount out of the caller's balance, or a single token
the caller controls.

Examples:
  # Move 1_000 units of the vault token
  chainstd transfer -c vault --caller 0xd0... -t 0xa1... -a 1_000

  # Move token 7 of a collection
  chainstd transfer -c deeds --caller 0xd0... -t 0xa1... --token-id 7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransfer(transferCLIConfig)
	},
}

func init() {
	rootCmd.AddCommand(transferCmd)

	transferCmd.Flags().StringVarP(&transferCLIConfig.Manifest, "manifest", "m", "deploy.yml", "deploy manifest path")
	transferCmd.Flags().StringVarP(&transferCLIConfig.Store, "store", "s", "", "store config path (.ini)")
	transferCmd.Flags().StringVarP(&transferCLIConfig.Contract, "contract", "c", "", "contract name from the manifest")
	transferCmd.Flags().StringVar(&transferCLIConfig.Caller, "caller", "", "calling account address")
	transferCmd.Flags().StringVarP(&transferCLIConfig.To, "to", "t", "", "address of recipient")
	transferCmd.Flags().StringVarP(&transferCLIConfig.Amount, "amount", "a", "", "fungible amount")
	transferCmd.Flags().Uint64Var(&transferCLIConfig.TokenID, "token-id", 0, "token id (non-fungible)")
}

func runTransfer(cliCfg TransferCLIConfig) error {
	if cliCfg.Contract == "" {
		return fmt.Errorf("--contract is required")
	}
	caller, err := parseCaller(cliCfg.Caller)
	if err != nil {
		return err
	}
	to, err := types.ParseAddress(cliCfg.To)
	if err != nil {
		return err
	}
	ct, provider, err := openContract(cliCfg.Manifest, cliCfg.Store, cliCfg.Contract)
	if err != nil {
		return err
	}
	defer provider.Close()

	switch ct.Kind() {
	case contract.KindFungible:
		if cliCfg.Amount == "" {
			return fmt.Errorf("--amount is required for fungible contracts")
		}
		amount, err := parseAmount(cliCfg.Amount)
		if err != nil {
			return err
		}
		f, err := ct.Fungible()
		if err != nil {
			return err
		}
		if err := f.Transfer(caller, to, amount); err != nil {
			return err
		}
	case contract.KindNonFungible:
		if cliCfg.TokenID == 0 {
			return fmt.Errorf("--token-id is required for non-fungible contracts")
		}
		n, err := ct.NFT()
		if err != nil {
			return err
		}
		if err := n.TransferFrom(caller, caller.Caller, to, cliCfg.TokenID); err != nil {
			return err
		}
	}
	fmt.Println("OK")
	return nil
}
