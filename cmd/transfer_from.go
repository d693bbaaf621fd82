package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chainstd/contract"
	"chainstd/types"
)

var (
	tfManifest string
	tfStore    string
	tfName     string
	tfCaller   string
	tfFrom     string
	tfTo       string
	tfAmount   string
	tfTokenID  uint64
)

// transferFromCmd spends the caller's allowance or approval standing to
// move someone else's holding.
var transferFromCmd = &cobra.Command{
	Use:   "transfer-from",
	Short: "Move another account's value or token on approval",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tfName == "" {
			return fmt.Errorf("--contract is required")
		}
		caller, err := parseCaller(tfCaller)
		if err != nil {
			return err
		}
		from, err := types.ParseAddress(tfFrom)
		if err != nil {
			return err
		}
		to, err := types.ParseAddress(tfTo)
		if err != nil {
			return err
		}
		ct, provider, err := openContract(tfManifest, tfStore, tfName)
		if err != nil {
			return err
		}
		defer provider.Close()

		switch ct.Kind() {
		case contract.KindFungible:
			if tfAmount == "" {
				return fmt.Errorf("--amount is required for fungible contracts")
			}
			amount, err := parseAmount(tfAmount)
			if err != nil {
				return err
			}
			f, err := ct.Fungible()
			if err != nil {
				return err
			}
			if err := f.TransferFrom(caller, from, to, amount); err != nil {
				return err
			}
		case contract.KindNonFungible:
			if tfTokenID == 0 {
				return fmt.Errorf("--token-id is required for non-fungible contracts")
			}
			n, err := ct.NFT()
			if err != nil {
				return err
			}
			if err := n.TransferFrom(caller, from, to, tfTokenID); err != nil {
				return err
			}
		}
		fmt.Println("OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transferFromCmd)

	transferFromCmd.Flags().StringVarP(&tfManifest, "manifest", "m", "deploy.yml", "deploy manifest path")
	transferFromCmd.Flags().StringVarP(&tfStore, "store", "s", "", "store config path (.ini)")
	transferFromCmd.Flags().StringVarP(&tfName, "contract", "c", "", "contract name from the manifest")
	transferFromCmd.Flags().StringVar(&tfCaller, "caller", "", "calling account address")
	transferFromCmd.Flags().StringVarP(&tfFrom, "from", "f", "", "address holding the value or token")
	transferFromCmd.Flags().StringVarP(&tfTo, "to", "t", "", "address of recipient")
	transferFromCmd.Flags().StringVarP(&tfAmount, "amount", "a", "", "fungible amount")
	transferFromCmd.Flags().Uint64Var(&tfTokenID, "token-id", 0, "token id (non-fungible)")
}
