package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/academystats/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored games, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	games, err := db.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'academystats fetch' to add some.")
		return nil
	}
	report.PrintGameTable(os.Stdout, games)
	fmt.Fprintf(os.Stdout, "\n(%d games)\n", len(games))
	return nil
}
