package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chainstd/config"
	"chainstd/logx"
)

var (
	auditManifest string
	auditStore    string
	auditName     string
)

// auditCmd re-derives the accounting invariants from storage. Without
// --contract it audits every contract in the manifest.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Verify a contract's accounting invariants",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := []string{auditName}
		if auditName == "" {
			manifest, err := config.LoadDeployConfig(auditManifest)
			if err != nil {
				return fmt.Errorf("load manifest: %w", err)
			}
			names = names[:0]
			for _, cc := range manifest.Contracts {
				names = append(names, cc.Name)
			}
		}

		for _, name := range names {
			ct, provider, err := openContract(auditManifest, auditStore, name)
			if err != nil {
				return err
			}
			err = ct.Audit()
			provider.Close()
			if err != nil {
				return fmt.Errorf("audit %s: %w", name, err)
			}
			logx.Info("AUDIT CLI", fmt.Sprintf("Contract %s checks out", name))
		}
		fmt.Println("OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVarP(&auditManifest, "manifest", "m", "deploy.yml", "deploy manifest path")
	auditCmd.Flags().StringVarP(&auditStore, "store", "s", "", "store config path (.ini)")
	auditCmd.Flags().StringVarP(&auditName, "contract", "c", "", "contract name (default: all in manifest)")
}
