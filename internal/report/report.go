package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/academystats/internal/model"
	"github.com/pable/academystats/internal/storage"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintGameSummary prints a one-line header for a game.
func PrintGameSummary(w io.Writer, g model.Game) {
	ended := g.DateEnded
	if ended == "" {
		ended = "—"
	}
	winner := g.Winner
	if winner == "" {
		winner = "—"
	}
	fmt.Fprintf(w, "\nGame %s: %s  |  %s  |  Created: %s  |  Ended: %s  |  Turn %d  |  Winner: %s\n\n",
		g.ID, g.Name, g.Status, g.DateCreated, ended, g.Turn, winner)
}

// PrintGameTable prints one row per game.
func PrintGameTable(w io.Writer, games []model.Game) {
	table := newTable(w)
	table.Header("ID", "NAME", "STATUS", "CREATED", "ENDED", "TURN", "WINNER")
	for _, g := range games {
		table.Append(
			string(g.ID),
			g.Name,
			g.Status.String(),
			g.DateCreated,
			dash(g.DateEnded),
			strconv.Itoa(g.Turn),
			dash(g.Winner),
		)
	}
	table.Render()
}

// PrintPlayerTable prints the players of one game. The winner's row is
// marked with ">".
func PrintPlayerTable(w io.Writer, players []storage.PlayerRow, winner string) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "RACE", "RANK", "STATUS", "PLANETS", "BASES", "WARSHIPS", "FREIGHTERS", "MILITARY", "%")
	for _, p := range players {
		marker := " "
		if winner != "" && p.Player == winner {
			marker = ">"
		}
		rank := strconv.Itoa(p.Rank)
		if !p.Finished {
			rank = "(" + rank + ")"
		}
		race := model.ShortRace(p.Race)
		if p.Races > 1 {
			race += fmt.Sprintf(" (+%d)", p.Races-1)
		}
		table.Append(
			marker,
			p.Player,
			race,
			rank,
			fmt.Sprintf("%s@%d", p.FinalStatus, p.FinalTurn),
			nullInt(p.Planets.Int64, p.Planets.Valid),
			nullInt(p.Starbases.Int64, p.Starbases.Valid),
			nullInt(p.CapitalShips.Int64, p.CapitalShips.Valid),
			nullInt(p.Freighters.Int64, p.Freighters.Valid),
			nullFloat(p.MilitaryScore.Float64, p.MilitaryScore.Valid, "%.0f"),
			nullFloat(p.Percent.Float64, p.Percent.Valid, "%.1f"),
		)
	}
	table.Render()
}

// PrintPlayerHistory prints one player's record in each game, with the
// game's name and winner taken from games.
func PrintPlayerHistory(w io.Writer, rows []storage.PlayerRow, games []model.Game) {
	byID := make(map[model.GameID]model.Game, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}
	table := newTable(w)
	table.Header("GAME", "NAME", "CREATED", "RACE", "RANK", "STATUS", "WINNER")
	for _, p := range rows {
		g := byID[p.GameID]
		rank := strconv.Itoa(p.Rank)
		if !p.Finished {
			rank = "(" + rank + ")"
		}
		table.Append(
			string(p.GameID),
			dash(g.Name),
			dash(g.DateCreated),
			model.ShortRace(p.Race),
			rank,
			fmt.Sprintf("%s@%d", p.FinalStatus, p.FinalTurn),
			dash(g.Winner),
		)
	}
	table.Render()
}

// PrintWinsByRace prints win counts per player and race.
func PrintWinsByRace(w io.Writer, wins []storage.RaceWins) {
	table := newTable(w)
	table.Header("PLAYER", "RACE", "WINS")
	for _, r := range wins {
		table.Append(r.Player, model.ShortRace(r.Race), strconv.Itoa(r.Wins))
	}
	table.Render()
}

// PrintPlayerTotals prints each player's record across all games.
func PrintPlayerTotals(w io.Writer, totals []storage.PlayerTotals) {
	table := newTable(w)
	table.Header("PLAYER", "GAMES", "WINS", "WIN%", "RESIGNED", "DROPPED", "DIED")
	for _, p := range totals {
		pct := "—"
		if p.Games > 0 {
			pct = fmt.Sprintf("%.0f%%", float64(p.Wins)/float64(p.Games)*100)
		}
		table.Append(
			p.Player,
			strconv.Itoa(p.Games),
			strconv.Itoa(p.Wins),
			pct,
			strconv.Itoa(p.Resigned),
			strconv.Itoa(p.Dropped),
			strconv.Itoa(p.Died),
		)
	}
	table.Render()
}

// PrintRawTable prints the result of an arbitrary query.
func PrintRawTable(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)
	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
}

func dash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func nullInt(v int64, ok bool) string {
	if !ok {
		return "—"
	}
	return strconv.FormatInt(v, 10)
}

func nullFloat(v float64, ok bool, format string) string {
	if !ok {
		return "—"
	}
	return fmt.Sprintf(format, v)
}
