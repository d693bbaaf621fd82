package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	pauseManifest string
	pauseStore    string
	pauseName     string
	pauseCaller   string
)

// pauseCmd trips a contract's circuit breaker.
var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause a contract's mutating operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if pauseName == "" {
			return fmt.Errorf("--contract is required")
		}
		caller, err := parseCaller(pauseCaller)
		if err != nil {
			return err
		}
		ct, provider, err := openContract(pauseManifest, pauseStore, pauseName)
		if err != nil {
			return err
		}
		defer provider.Close()

		if err := ct.Pause(caller); err != nil {
			return err
		}
		fmt.Println("OK")
		return nil
	},
}

// unpauseCmd resets a contract's circuit breaker.
var unpauseCmd = &cobra.Command{
	Use:   "unpause",
	Short: "Resume a paused contract",
	RunE: func(cmd *cobra.Command, args []string) error {
		if pauseName == "" {
			return fmt.Errorf("--contract is required")
		}
		caller, err := parseCaller(pauseCaller)
		if err != nil {
			return err
		}
		ct, provider, err := openContract(pauseManifest, pauseStore, pauseName)
		if err != nil {
			return err
		}
		defer provider.Close()

		if err := ct.Unpause(caller); err != nil {
			return err
		}
		fmt.Println("OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(unpauseCmd)

	for _, c := range []*cobra.Command{pauseCmd, unpauseCmd} {
		c.Flags().StringVarP(&pauseManifest, "manifest", "m", "deploy.yml", "deploy manifest path")
		c.Flags().StringVarP(&pauseStore, "store", "s", "", "store config path (.ini)")
		c.Flags().StringVarP(&pauseName, "contract", "c", "", "contract name from the manifest")
		c.Flags().StringVar(&pauseCaller, "caller", "", "calling account address")
	}
}
