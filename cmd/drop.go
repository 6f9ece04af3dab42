package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

// dropCmd deletes the snapshot and the mirror database.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the snapshot and the mirror database",
	Long:  "Permanently delete the snapshot file and the SQLite mirror. The next 'fetch' reloads every game from the API.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete:\n  %s\n  %s\n", dataPath, dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := snapshotFile().Remove(); err != nil {
		return fmt.Errorf("remove snapshot: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dataPath)

	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove database: %w", err)
		}
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}
