package storage

import (
	"strings"

	"github.com/pable/academystats/internal/model"
)

// RaceWins is how often a player won a game playing one race.
type RaceWins struct {
	Player string
	Race   string
	Wins   int
}

// PlayerTotals summarizes one player's record across all mirrored games.
type PlayerTotals struct {
	Player   string
	Games    int
	Wins     int
	Resigned int
	Dropped  int
	Died     int
}

// WinsByRace counts, per player and race, the games the player won. The
// race is the first one the player joined the game with.
func (db *DB) WinsByRace() ([]RaceWins, error) {
	rows, err := db.conn.Query(`
		SELECT pg.player, pg.race, COUNT(1) AS wins
		FROM player_games pg
		JOIN games g ON g.id = pg.game_id AND g.winner = pg.player
		GROUP BY pg.player, pg.race
		ORDER BY wins DESC, pg.player, pg.race`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RaceWins
	for rows.Next() {
		var r RaceWins
		if err := rows.Scan(&r.Player, &r.Race, &r.Wins); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PlayerTotalsAll returns per-player totals ordered by wins, then games played.
func (db *DB) PlayerTotalsAll() ([]PlayerTotals, error) {
	rows, err := db.conn.Query(`
		SELECT pg.player,
		       COUNT(1),
		       SUM(CASE WHEN g.winner = pg.player THEN 1 ELSE 0 END),
		       SUM(CASE WHEN pg.final_status = 'resigned' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN pg.final_status = 'dropped' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN pg.final_status = 'dead' THEN 1 ELSE 0 END)
		FROM player_games pg
		JOIN games g ON g.id = pg.game_id
		GROUP BY pg.player
		ORDER BY 3 DESC, 2 DESC, pg.player`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerTotals
	for rows.Next() {
		var p PlayerTotals
		if err := rows.Scan(&p.Player, &p.Games, &p.Wins, &p.Resigned, &p.Dropped, &p.Died); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GamesByID returns the mirrored games among ids, ordered by creation date.
// Unknown ids are skipped.
func (db *DB) GamesByID(ids []model.GameID) ([]model.Game, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = string(id)
	}
	rows, err := db.conn.Query(`SELECT `+gameColumns+`
		FROM games WHERE id IN (`+placeholders(len(ids))+`)
		ORDER BY date_created, CAST(id AS INTEGER)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// placeholders returns a comma-separated string of n "?" for SQL IN clauses,
// e.g. placeholders(3) → "?,?,?".
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
