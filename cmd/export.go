package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/academystats/internal/model"
	"github.com/pable/academystats/internal/report"
)

var (
	exportOut    string
	exportFormat string
)

// exportCmd writes the stored games to a file, oldest first.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored games as CSV or JSON",
	Long: `Write every game of the snapshot file, ordered by creation date.

Columns: id, name, status, datecreated, dateended, turn, winner.
Use --out - to write to stdout.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "academygames.csv", "output file (- for stdout)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or json")
}

func runExport(cmd *cobra.Command, args []string) error {
	var write func(io.Writer, []model.Game) error
	switch exportFormat {
	case "csv":
		write = report.WriteGamesCSV
	case "json":
		write = report.WriteGamesJSON
	default:
		return fmt.Errorf("unknown format %q (want csv or json)", exportFormat)
	}

	snap, err := snapshotFile().Load()
	if err != nil {
		return err
	}
	if snap == nil {
		return fmt.Errorf("no snapshot at %s; run 'academystats fetch' first", dataPath)
	}
	games := make([]model.Game, 0, len(snap.Games))
	for _, id := range snap.GameIDs() {
		games = append(games, *snap.Games[id])
	}
	report.SortByCreated(games)

	if exportOut == "-" {
		return write(os.Stdout, games)
	}
	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOut, err)
	}
	if err := write(f, games); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %d games to %s\n", len(games), exportOut)
	return nil
}
