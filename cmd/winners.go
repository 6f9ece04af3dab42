package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/academystats/internal/report"
	"github.com/pable/academystats/internal/storage"
)

// winnersCmd prints win statistics across all stored games.
var winnersCmd = &cobra.Command{
	Use:   "winners",
	Short: "Show wins per player and race",
	Long: `Count the stored games each player won, split by the race they joined
with, followed by each player's overall record.`,
	Args: cobra.NoArgs,
	RunE: runWinners,
}

func runWinners(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return printWinners(db)
}

func printWinners(db *storage.DB) error {
	wins, err := db.WinsByRace()
	if err != nil {
		return fmt.Errorf("wins by race: %w", err)
	}
	if len(wins) == 0 {
		fmt.Fprintln(os.Stdout, "No winners stored yet. Run 'academystats fetch' to add games.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "\n--- Wins by race ---\n\n")
	report.PrintWinsByRace(os.Stdout, wins)

	totals, err := db.PlayerTotalsAll()
	if err != nil {
		return fmt.Errorf("player totals: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Players ---\n\n")
	report.PrintPlayerTotals(os.Stdout, totals)
	return nil
}
