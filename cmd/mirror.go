package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Rebuild the SQLite mirror from the snapshot file",
	Long:  "Copy every game and player record of the stored snapshot into the SQLite database without contacting the API.",
	Args:  cobra.NoArgs,
	RunE:  runMirror,
}

func runMirror(cmd *cobra.Command, args []string) error {
	snap, err := snapshotFile().Load()
	if err != nil {
		return err
	}
	if snap == nil {
		return fmt.Errorf("no snapshot at %s; run 'academystats fetch' first", dataPath)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := mirrorSnapshot(db, snap, uuid.New().String(), "mirror", 0); err != nil {
		return err
	}
	cOK.Printf("Mirrored %d games into %s\n", snap.GameCount, dbPath)
	return nil
}
