package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chainstd/contract"
	"chainstd/types"
)

var (
	approveManifest string
	approveStore    string
	approveName     string
	approveCaller   string
	approveSpender  string
	approveAmount   string
	approveTokenID  uint64
	operatorFlag    string
	operatorApprove bool
)

// approveCmd grants an allowance (fungible) or names a token delegate
// (non-fungible). Approving the zero address clears a token delegate.
var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Grant an allowance or a per-token delegate",
	RunE: func(cmd *cobra.Command, args []string) error {
		if approveName == "" {
			return fmt.Errorf("--contract is required")
		}
		caller, err := parseCaller(approveCaller)
		if err != nil {
			return err
		}
		spender, err := types.ParseAddress(approveSpender)
		if err != nil {
			return err
		}
		ct, provider, err := openContract(approveManifest, approveStore, approveName)
		if err != nil {
			return err
		}
		defer provider.Close()

		switch ct.Kind() {
		case contract.KindFungible:
			if approveAmount == "" {
				return fmt.Errorf("--amount is required for fungible contracts")
			}
			amount, err := parseAmount(approveAmount)
			if err != nil {
				return err
			}
			f, err := ct.Fungible()
			if err != nil {
				return err
			}
			if err := f.Approve(caller, spender, amount); err != nil {
				return err
			}
		case contract.KindNonFungible:
			if approveTokenID == 0 {
				return fmt.Errorf("--token-id is required for non-fungible contracts")
			}
			n, err := ct.NFT()
			if err != nil {
				return err
			}
			if err := n.Approve(caller, spender, approveTokenID); err != nil {
				return err
			}
		}
		fmt.Println("OK")
		return nil
	},
}

// approveAllCmd grants or revokes an operator over the caller's whole
// holding in a collection.
var approveAllCmd = &cobra.Command{
	Use:   "approve-all",
	Short: "Grant or revoke a collection-wide operator",
	RunE: func(cmd *cobra.Command, args []string) error {
		if approveName == "" {
			return fmt.Errorf("--contract is required")
		}
		caller, err := parseCaller(approveCaller)
		if err != nil {
			return err
		}
		operator, err := types.ParseAddress(operatorFlag)
		if err != nil {
			return err
		}
		ct, provider, err := openContract(approveManifest, approveStore, approveName)
		if err != nil {
			return err
		}
		defer provider.Close()

		n, err := ct.NFT()
		if err != nil {
			return err
		}
		if err := n.SetApprovalForAll(caller, operator, operatorApprove); err != nil {
			return err
		}
		fmt.Println("OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(approveAllCmd)

	for _, c := range []*cobra.Command{approveCmd, approveAllCmd} {
		c.Flags().StringVarP(&approveManifest, "manifest", "m", "deploy.yml", "deploy manifest path")
		c.Flags().StringVarP(&approveStore, "store", "s", "", "store config path (.ini)")
		c.Flags().StringVarP(&approveName, "contract", "c", "", "contract name from the manifest")
		c.Flags().StringVar(&approveCaller, "caller", "", "calling account address")
	}
	approveCmd.Flags().StringVar(&approveSpender, "spender", "", "spender or delegate address")
	approveCmd.Flags().StringVarP(&approveAmount, "amount", "a", "", "fungible allowance")
	approveCmd.Flags().Uint64Var(&approveTokenID, "token-id", 0, "token id (non-fungible)")
	approveAllCmd.Flags().StringVar(&operatorFlag, "operator", "", "operator address")
	approveAllCmd.Flags().BoolVar(&operatorApprove, "approved", true, "grant (true) or revoke (false)")
}
