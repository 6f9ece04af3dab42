package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/academystats/internal/model"
	"github.com/pable/academystats/internal/report"
	"github.com/pable/academystats/internal/storage"
)

var playerCmd = &cobra.Command{
	Use:   "player <name>",
	Short: "Show every stored game of one player",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayer,
}

func runPlayer(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return showPlayer(db, args[0])
}

func showPlayer(db *storage.DB, name string) error {
	rows, err := db.GetPlayerGames(name)
	if err != nil {
		return fmt.Errorf("query player: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "No games stored for %q\n", name)
		return nil
	}
	ids := make([]model.GameID, len(rows))
	for i, r := range rows {
		ids[i] = r.GameID
	}
	games, err := db.GamesByID(ids)
	if err != nil {
		return fmt.Errorf("query games: %w", err)
	}
	report.PrintPlayerHistory(os.Stdout, rows, games)
	return nil
}
