package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chainstd/types"
)

var (
	ownerManifest string
	ownerStore    string
	ownerName     string
	ownerCaller   string
	ownerNew      string
)

// ownerCmd prints the current owner of an ownable contract.
var ownerCmd = &cobra.Command{
	Use:   "owner",
	Short: "Show a contract's owner",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ownerName == "" {
			return fmt.Errorf("--contract is required")
		}
		ct, provider, err := openContract(ownerManifest, ownerStore, ownerName)
		if err != nil {
			return err
		}
		defer provider.Close()

		owner, err := ct.Owner()
		if err != nil {
			return err
		}
		fmt.Println(owner.Hex())
		return nil
	},
}

// transferOwnershipCmd hands a contract to a new owner.
var transferOwnershipCmd = &cobra.Command{
	Use:   "transfer-ownership",
	Short: "Hand a contract to a new owner",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ownerName == "" {
			return fmt.Errorf("--contract is required")
		}
		caller, err := parseCaller(ownerCaller)
		if err != nil {
			return err
		}
		newOwner, err := types.ParseAddress(ownerNew)
		if err != nil {
			return err
		}
		ct, provider, err := openContract(ownerManifest, ownerStore, ownerName)
		if err != nil {
			return err
		}
		defer provider.Close()

		if err := ct.TransferOwnership(caller, newOwner); err != nil {
			return err
		}
		fmt.Println("OK")
		return nil
	},
}

// renounceOwnershipCmd abandons the owner slot forever.
var renounceOwnershipCmd = &cobra.Command{
	Use:   "renounce-ownership",
	Short: "Permanently abandon a contract's owner slot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ownerName == "" {
			return fmt.Errorf("--contract is required")
		}
		caller, err := parseCaller(ownerCaller)
		if err != nil {
			return err
		}
		ct, provider, err := openContract(ownerManifest, ownerStore, ownerName)
		if err != nil {
			return err
		}
		defer provider.Close()

		if err := ct.RenounceOwnership(caller); err != nil {
			return err
		}
		fmt.Println("OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ownerCmd)
	rootCmd.AddCommand(transferOwnershipCmd)
	rootCmd.AddCommand(renounceOwnershipCmd)

	for _, c := range []*cobra.Command{ownerCmd, transferOwnershipCmd, renounceOwnershipCmd} {
		c.Flags().StringVarP(&ownerManifest, "manifest", "m", "deploy.yml", "deploy manifest path")
		c.Flags().StringVarP(&ownerStore, "store", "s", "", "store config path (.ini)")
		c.Flags().StringVarP(&ownerName, "contract", "c", "", "contract name from the manifest")
		c.Flags().StringVar(&ownerCaller, "caller", "", "calling account address")
	}
	transferOwnershipCmd.Flags().StringVarP(&ownerNew, "to", "t", "", "new owner address")
}
