package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/academystats/internal/merge"
	"github.com/pable/academystats/internal/model"
	"github.com/pable/academystats/internal/planets"
	"github.com/pable/academystats/internal/report"
	"github.com/pable/academystats/internal/storage"
)

// fetch command flags.
var (
	// fetchLimit caps the number of games the listing returns (0 = all).
	fetchLimit int
	// fetchNoMirror skips updating the SQLite mirror.
	fetchNoMirror bool
)

// fetchCmd merges games the snapshot has not seen yet.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Merge new Academy games into the snapshot",
	Long: `Lists the running, finished and on-hold Academy games and compares the
count with the stored snapshot:

  no snapshot        every listed game is fetched (cold load)
  same count         nothing is fetched or written
  more games listed  only the new game ids are fetched (delta load)
  fewer listed       the snapshot is considered corrupted; remove it with
                     'academystats drop --force' and re-run

After a successful run the snapshot is mirrored into the SQLite database.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 0, "only list this many games (0 = all)")
	fetchCmd.Flags().BoolVar(&fetchNoMirror, "no-mirror", false, "do not update the SQLite mirror")
}

func runFetch(cmd *cobra.Command, args []string) error {
	store := snapshotFile()
	ctrl := merge.New(planets.NewClient(apiBase), store, merge.Config{
		Limit:  fetchLimit,
		Logger: logrus.StandardLogger(),
	})

	res, err := ctrl.Run(cmd.Context())
	if err != nil {
		var corrupt *merge.CorruptionError
		if errors.As(err, &corrupt) || errors.Is(err, merge.ErrEmptyDelta) {
			cError.Fprintln(os.Stderr, "snapshot is inconsistent with the live listing")
			cMuted.Fprintln(os.Stderr, "run 'academystats drop --force' and fetch again")
		}
		return err
	}

	switch res.Outcome {
	case merge.OutcomeUnchanged:
		cMuted.Printf("No new games (%d stored).\n", res.Snapshot.GameCount)
	case merge.OutcomeColdLoad:
		cOK.Printf("Loaded %d games into %s\n", len(res.NewGames), store.Path())
	case merge.OutcomeDelta:
		cOK.Printf("Merged %d new game(s); %d stored.\n", len(res.NewGames), res.Snapshot.GameCount)
	}
	if res.Unrecognized > 0 {
		cWarn.Printf("%d event(s) of unknown kind were ignored.\n", res.Unrecognized)
	}

	if fetchNoMirror {
		return nil
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := mirrorSnapshot(db, res.Snapshot, res.RunID, res.Outcome.String(), len(res.NewGames)); err != nil {
		return err
	}
	if len(res.NewGames) == 0 || res.Outcome == merge.OutcomeColdLoad {
		return nil
	}
	games, err := db.GamesByID(res.NewGames)
	if err != nil {
		return fmt.Errorf("query new games: %w", err)
	}
	fmt.Println()
	report.PrintGameTable(os.Stdout, games)
	return nil
}

func mirrorSnapshot(db *storage.DB, snap *model.Snapshot, runID, outcome string, newGames int) error {
	run := storage.SyncRun{
		ID:        runID,
		Outcome:   outcome,
		NewGames:  newGames,
		GameCount: snap.GameCount,
		SyncedAt:  time.Now(),
	}
	if err := db.SyncSnapshot(snap, run); err != nil {
		return fmt.Errorf("mirror snapshot: %w", err)
	}
	return nil
}
