package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/academystats/internal/model"
	"github.com/pable/academystats/internal/report"
	"github.com/pable/academystats/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <gameid>",
	Short: "Show the players of a stored game",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return showGame(db, model.GameID(args[0]))
}

func showGame(db *storage.DB, id model.GameID) error {
	game, err := db.GetGame(id)
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if game == nil {
		fmt.Fprintf(os.Stderr, "No game %s stored\n", id)
		return nil
	}
	players, err := db.GetGamePlayers(id)
	if err != nil {
		return fmt.Errorf("get players: %w", err)
	}
	report.PrintGameSummary(os.Stdout, *game)
	report.PrintPlayerTable(os.Stdout, players, game.Winner)
	return nil
}
