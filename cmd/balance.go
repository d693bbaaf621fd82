package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chainstd/contract"
	"chainstd/types"
)

var (
	balanceManifest string
	balanceStore    string
	balanceName     string
	balanceAccount  string
)

// balanceCmd prints an account's holding: a fungible balance or a token
// count.
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show an account's balance in a contract",
	RunE: func(cmd *cobra.Command, args []string) error {
		if balanceName == "" {
			return fmt.Errorf("--contract is required")
		}
		if balanceAccount == "" {
			return fmt.Errorf("--account is required")
		}
		account, err := types.ParseAddress(balanceAccount)
		if err != nil {
			return err
		}
		ct, provider, err := openContract(balanceManifest, balanceStore, balanceName)
		if err != nil {
			return err
		}
		defer provider.Close()

		switch ct.Kind() {
		case contract.KindFungible:
			f, err := ct.Fungible()
			if err != nil {
				return err
			}
			bal, err := f.BalanceOf(account)
			if err != nil {
				return err
			}
			fmt.Println(bal.Dec())
		case contract.KindNonFungible:
			n, err := ct.NFT()
			if err != nil {
				return err
			}
			count, err := n.BalanceOf(account)
			if err != nil {
				return err
			}
			fmt.Println(count)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.Flags().StringVarP(&balanceManifest, "manifest", "m", "deploy.yml", "deploy manifest path")
	balanceCmd.Flags().StringVarP(&balanceStore, "store", "s", "", "store config path (.ini)")
	balanceCmd.Flags().StringVarP(&balanceName, "contract", "c", "", "contract name from the manifest")
	balanceCmd.Flags().StringVarP(&balanceAccount, "account", "a", "", "account address")
}
