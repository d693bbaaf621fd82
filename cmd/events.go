package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chainstd/jsonx"
)

var (
	eventsManifest string
	eventsStore    string
	eventsName     string
	eventsAfter    uint64
	eventsLimit    int
)

// eventsCmd prints the contract's journal as JSON lines, oldest first.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Read a contract's event journal",
	Long: `Prints journaled events in sequence order, one JSON object per line.

Examples:
  # Everything since the beginning
  chainstd events -c vault

  # Page through 50 at a time
  chainstd events -c vault --after 150 --limit 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if eventsName == "" {
			return fmt.Errorf("--contract is required")
		}
		ct, provider, err := openContract(eventsManifest, eventsStore, eventsName)
		if err != nil {
			return err
		}
		defer provider.Close()

		records, err := ct.Events(eventsAfter, eventsLimit)
		if err != nil {
			return err
		}
		for _, rec := range records {
			line, err := jsonx.Marshal(rec)
			if err != nil {
				return err
			}
			fmt.Println(string(line))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.Flags().StringVarP(&eventsManifest, "manifest", "m", "deploy.yml", "deploy manifest path")
	eventsCmd.Flags().StringVarP(&eventsStore, "store", "s", "", "store config path (.ini)")
	eventsCmd.Flags().StringVarP(&eventsName, "contract", "c", "", "contract name from the manifest")
	eventsCmd.Flags().Uint64Var(&eventsAfter, "after", 0, "skip records at or below this sequence number")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 0, "maximum records to print (0 = all)")
}
