package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/pable/academystats/internal/model"
)

// ExportColumns is the header row of the games CSV.
var ExportColumns = []string{"id", "name", "status", "datecreated", "dateended", "turn", "winner"}

// SortByCreated orders games by creation date, then numeric id.
func SortByCreated(games []model.Game) {
	sort.SliceStable(games, func(i, j int) bool {
		if games[i].DateCreated != games[j].DateCreated {
			return games[i].DateCreated < games[j].DateCreated
		}
		return model.LessGameID(games[i].ID, games[j].ID)
	})
}

// WriteGamesCSV writes one row per game in the given order.
func WriteGamesCSV(w io.Writer, games []model.Game) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return err
	}
	for _, g := range games {
		if err := cw.Write([]string{
			string(g.ID), g.Name, g.Status.String(), g.DateCreated, g.DateEnded,
			strconv.Itoa(g.Turn), g.Winner,
		}); err != nil {
			return fmt.Errorf("write game %s: %w", g.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGamesJSON writes games as an indented JSON array.
func WriteGamesJSON(w io.Writer, games []model.Game) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if games == nil {
		games = []model.Game{}
	}
	return enc.Encode(games)
}
