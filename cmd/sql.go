package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/academystats/internal/report"
	"github.com/pable/academystats/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the mirror database",
	Long: `Run an arbitrary SQL query against the mirror database and print results as a table.

Schema overview:
  games(id TEXT, name, status, date_created, date_ended, turn, winner)
  player_games(game_id, player, race, races, final_status, final_turn,
    finished, rank, capital_ships, freighters, planets, starbases,
    military_score, percent)
  player_status(game_id, player, seq, label, turn)
  sync_runs(run_id, outcome, new_games, game_count, synced_at)

Note: game ids are stored as TEXT. Use quotes: WHERE game_id = '203471'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return printQuery(db, strings.Join(args, " "))
}

func printQuery(db *storage.DB, query string) error {
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	report.PrintRawTable(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
