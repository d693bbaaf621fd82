package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chainstd/contract"
)

var (
	infoManifest string
	infoStore    string
	infoName     string
)

// infoCmd prints the composed shape and headline figures of one contract.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show a contract's composition and supply",
	RunE: func(cmd *cobra.Command, args []string) error {
		if infoName == "" {
			return fmt.Errorf("--contract is required")
		}
		ct, provider, err := openContract(infoManifest, infoStore, infoName)
		if err != nil {
			return err
		}
		defer provider.Close()

		fmt.Printf("name:      %s\n", ct.Name())
		fmt.Printf("kind:      %s\n", ct.Kind())
		switch ct.Kind() {
		case contract.KindFungible:
			f, err := ct.Fungible()
			if err != nil {
				return err
			}
			supply, err := f.TotalSupply()
			if err != nil {
				return err
			}
			fmt.Printf("token:     %s (%s), %d decimals\n", f.Name(), f.Symbol(), f.Decimals())
			fmt.Printf("supply:    %s\n", supply.Dec())
		case contract.KindNonFungible:
			n, err := ct.NFT()
			if err != nil {
				return err
			}
			fmt.Printf("token:     %s (%s)\n", n.Name(), n.Symbol())
		}
		if owner, err := ct.Owner(); err == nil {
			fmt.Printf("owner:     %s\n", owner.Hex())
		}
		paused, err := ct.Paused()
		if err != nil {
			return err
		}
		fmt.Printf("paused:    %t\n", paused)
		lastSeq, err := ct.Store().LastSeq()
		if err != nil {
			return err
		}
		fmt.Printf("events:    %d\n", lastSeq)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().StringVarP(&infoManifest, "manifest", "m", "deploy.yml", "deploy manifest path")
	infoCmd.Flags().StringVarP(&infoStore, "store", "s", "", "store config path (.ini)")
	infoCmd.Flags().StringVarP(&infoName, "contract", "c", "", "contract name from the manifest")
}
