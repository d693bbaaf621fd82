package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chainstd/config"
	"chainstd/logx"
	"chainstd/snapshot"
)

var (
	snapManifest string
	snapStore    string
	snapDir      string
	snapFile     string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Export, restore and verify contract state snapshots",
}

// snapshotExportCmd dumps every manifest contract's namespace to a
// digest-bound snapshot file.
var snapshotExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a snapshot of all manifest contracts",
	RunE: func(cmd *cobra.Command, args []string) error {
		manifest, err := config.LoadDeployConfig(snapManifest)
		if err != nil {
			return fmt.Errorf("load manifest: %w", err)
		}
		provider, err := openProvider(snapStore)
		if err != nil {
			return err
		}
		defer provider.Close()

		namespaces := make([]string, 0, len(manifest.Contracts))
		for _, cc := range manifest.Contracts {
			namespaces = append(namespaces, cc.Name)
		}
		file, err := snapshot.Export(provider, namespaces...)
		if err != nil {
			return err
		}
		path, err := snapshot.Write(snapDir, file)
		if err != nil {
			return err
		}
		logx.Info("SNAPSHOT CLI", fmt.Sprintf("Wrote %s (digest %s)", path, file.Digest))
		fmt.Println(path)
		return nil
	},
}

// snapshotRestoreCmd loads a snapshot file back into the store.
var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore contract state from a snapshot file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if snapFile == "" {
			return fmt.Errorf("--file is required")
		}
		file, err := snapshot.Read(snapFile)
		if err != nil {
			return err
		}
		provider, err := openProvider(snapStore)
		if err != nil {
			return err
		}
		defer provider.Close()

		if err := snapshot.Restore(provider, file); err != nil {
			return err
		}
		fmt.Println("OK")
		return nil
	},
}

// snapshotVerifyCmd recomputes a snapshot file's digest.
var snapshotVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a snapshot file's digest",
	RunE: func(cmd *cobra.Command, args []string) error {
		if snapFile == "" {
			return fmt.Errorf("--file is required")
		}
		file, err := snapshot.Read(snapFile)
		if err != nil {
			return err
		}
		if err := snapshot.Verify(file); err != nil {
			return err
		}
		fmt.Println("OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotExportCmd)
	snapshotCmd.AddCommand(snapshotRestoreCmd)
	snapshotCmd.AddCommand(snapshotVerifyCmd)

	snapshotExportCmd.Flags().StringVarP(&snapManifest, "manifest", "m", "deploy.yml", "deploy manifest path")
	snapshotExportCmd.Flags().StringVarP(&snapStore, "store", "s", "", "store config path (.ini)")
	snapshotExportCmd.Flags().StringVarP(&snapDir, "dir", "d", "snapshots", "snapshot directory")
	snapshotRestoreCmd.Flags().StringVarP(&snapStore, "store", "s", "", "store config path (.ini)")
	snapshotRestoreCmd.Flags().StringVarP(&snapFile, "file", "f", "", "snapshot file path")
	snapshotVerifyCmd.Flags().StringVarP(&snapFile, "file", "f", "", "snapshot file path")
}
