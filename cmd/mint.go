package cmd

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"chainstd/contract"
	"chainstd/types"
)

var (
	mintManifest string
	mintStore    string
	mintName     string
	mintCaller   string
	mintTo       string
	mintAmount   string
	mintTokenID  uint64
	mintNext     bool
)

// mintCmd creates new supply through the mintable capability. On owned
// compositions only the owner may call it.
var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint new value or a new token",
	Long: `Creates supply in a contract carrying the mintable capability.

Examples:
  # Mint 1_000_000 units to the treasury
  chainstd mint -c vault --caller 0xd0... -t 0xaa... -a 1_000_000

  # Mint the next token id of a collection
  chainstd mint -c deeds --caller 0xd0... -t 0xaa... --next

  # Re-mint a previously burned token id
  chainstd mint -c deeds --caller 0xd0... -t 0xaa... --token-id 7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMint()
	},
}

func init() {
	rootCmd.AddCommand(mintCmd)

	mintCmd.Flags().StringVarP(&mintManifest, "manifest", "m", "deploy.yml", "deploy manifest path")
	mintCmd.Flags().StringVarP(&mintStore, "store", "s", "", "store config path (.ini)")
	mintCmd.Flags().StringVarP(&mintName, "contract", "c", "", "contract name from the manifest")
	mintCmd.Flags().StringVar(&mintCaller, "caller", "", "calling account address")
	mintCmd.Flags().StringVarP(&mintTo, "to", "t", "", "address of recipient")
	mintCmd.Flags().StringVarP(&mintAmount, "amount", "a", "", "fungible amount")
	mintCmd.Flags().Uint64Var(&mintTokenID, "token-id", 0, "explicit token id (non-fungible)")
	mintCmd.Flags().BoolVar(&mintNext, "next", false, "mint the next counter id (non-fungible)")
}

func runMint() error {
	if mintName == "" {
		return fmt.Errorf("--contract is required")
	}
	caller, err := parseCaller(mintCaller)
	if err != nil {
		return err
	}
	to, err := types.ParseAddress(mintTo)
	if err != nil {
		return err
	}
	ct, provider, err := openContract(mintManifest, mintStore, mintName)
	if err != nil {
		return err
	}
	defer provider.Close()

	switch ct.Kind() {
	case contract.KindFungible:
		if mintAmount == "" {
			return fmt.Errorf("--amount is required for fungible contracts")
		}
		amount, err := parseAmount(mintAmount)
		if err != nil {
			return err
		}
		if err := ct.Mint(caller, to, amount); err != nil {
			return err
		}
		fmt.Println("OK")
	case contract.KindNonFungible:
		if mintNext {
			id, err := ct.MintNext(caller, to)
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		}
		if mintTokenID == 0 {
			return fmt.Errorf("--token-id or --next is required for non-fungible contracts")
		}
		if err := ct.Mint(caller, to, uint256.NewInt(mintTokenID)); err != nil {
			return err
		}
		fmt.Println("OK")
	}
	return nil
}
