package cmd

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"chainstd/contract"
	"chainstd/types"
)

var (
	burnManifest string
	burnStore    string
	burnName     string
	burnCaller   string
	burnAccount  string
	burnAmount   string
	burnTokenID  uint64
)

func burnValue(ct *contract.Contract) (*uint256.Int, error) {
	switch ct.Kind() {
	case contract.KindFungible:
		if burnAmount == "" {
			return nil, fmt.Errorf("--amount is required for fungible contracts")
		}
		return parseAmount(burnAmount)
	default:
		if burnTokenID == 0 {
			return nil, fmt.Errorf("--token-id is required for non-fungible contracts")
		}
		return uint256.NewInt(burnTokenID), nil
	}
}

// burnCmd destroys the caller's own holding.
var burnCmd = &cobra.Command{
	Use:   "burn",
	Short: "Burn the caller's own value or token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if burnName == "" {
			return fmt.Errorf("--contract is required")
		}
		caller, err := parseCaller(burnCaller)
		if err != nil {
			return err
		}
		ct, provider, err := openContract(burnManifest, burnStore, burnName)
		if err != nil {
			return err
		}
		defer provider.Close()

		value, err := burnValue(ct)
		if err != nil {
			return err
		}
		if err := ct.Burn(caller, value); err != nil {
			return err
		}
		fmt.Println("OK")
		return nil
	},
}

// burnFromCmd destroys another account's holding on the caller's allowance
// or approval standing.
var burnFromCmd = &cobra.Command{
	Use:   "burn-from",
	Short: "Burn another account's value or token on approval",
	RunE: func(cmd *cobra.Command, args []string) error {
		if burnName == "" {
			return fmt.Errorf("--contract is required")
		}
		caller, err := parseCaller(burnCaller)
		if err != nil {
			return err
		}
		account, err := types.ParseAddress(burnAccount)
		if err != nil {
			return err
		}
		ct, provider, err := openContract(burnManifest, burnStore, burnName)
		if err != nil {
			return err
		}
		defer provider.Close()

		value, err := burnValue(ct)
		if err != nil {
			return err
		}
		if err := ct.BurnFrom(caller, account, value); err != nil {
			return err
		}
		fmt.Println("OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(burnCmd)
	rootCmd.AddCommand(burnFromCmd)

	for _, c := range []*cobra.Command{burnCmd, burnFromCmd} {
		c.Flags().StringVarP(&burnManifest, "manifest", "m", "deploy.yml", "deploy manifest path")
		c.Flags().StringVarP(&burnStore, "store", "s", "", "store config path (.ini)")
		c.Flags().StringVarP(&burnName, "contract", "c", "", "contract name from the manifest")
		c.Flags().StringVar(&burnCaller, "caller", "", "calling account address")
		c.Flags().StringVarP(&burnAmount, "amount", "a", "", "fungible amount")
		c.Flags().Uint64Var(&burnTokenID, "token-id", 0, "token id (non-fungible)")
	}
	burnFromCmd.Flags().StringVarP(&burnAccount, "account", "f", "", "address holding the value or token")
}
