package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pable/academystats/internal/model"
)

// SyncRun is one recorded fetch run.
type SyncRun struct {
	ID        string
	Outcome   string
	NewGames  int
	GameCount int
	SyncedAt  time.Time
}

// PlayerRow is one player's line in a game, flattened for display.
type PlayerRow struct {
	GameID        model.GameID
	Player        string
	Race          string
	Races         int
	FinalStatus   string
	FinalTurn     int
	Finished      bool
	Rank          int
	CapitalShips  sql.NullInt64
	Freighters    sql.NullInt64
	Planets       sql.NullInt64
	Starbases     sql.NullInt64
	MilitaryScore sql.NullFloat64
	Percent       sql.NullFloat64
}

// SyncSnapshot mirrors every game and player record of snap and records
// the run. Uses INSERT OR REPLACE, so mirroring the same snapshot twice
// is a no-op apart from the run log.
func (db *DB) SyncSnapshot(snap *model.Snapshot, run SyncRun) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	gameStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO games(id, name, status, date_created, date_ended, turn, winner)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer gameStmt.Close()

	for _, id := range snap.GameIDs() {
		g := snap.Games[id]
		if _, err := gameStmt.Exec(string(g.ID), g.Name, g.Status.String(),
			g.DateCreated, g.DateEnded, g.Turn, g.Winner); err != nil {
			return fmt.Errorf("insert game %s: %w", id, err)
		}
	}

	playerStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_games(
			game_id, player, race, races, final_status, final_turn, finished, rank,
			capital_ships, freighters, planets, starbases, military_score, percent
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer playerStmt.Close()

	statusStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_status(game_id, player, seq, label, turn)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer statusStmt.Close()

	for name, games := range snap.Players {
		for id, rec := range games {
			final, _ := rec.FinalStatus()
			var score model.ScoreRecord
			if rec.Score != nil {
				score = *rec.Score
			}
			if _, err := playerStmt.Exec(
				string(id), name, rec.FirstRace(), len(rec.Race), final.Label, final.Turn,
				score.Finished, score.Rank,
				score.CapitalShips, score.Freighters, score.Planets, score.Starbases,
				score.MilitaryScore, score.Percent,
			); err != nil {
				return fmt.Errorf("insert player %s in game %s: %w", name, id, err)
			}
			for seq, st := range rec.Status {
				if _, err := statusStmt.Exec(string(id), name, seq, st.Label, st.Turn); err != nil {
					return fmt.Errorf("insert status of %s in game %s: %w", name, id, err)
				}
			}
		}
	}

	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO sync_runs(run_id, outcome, new_games, game_count, synced_at)
		VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Outcome, run.NewGames, run.GameCount, run.SyncedAt.UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}
	return tx.Commit()
}

const gameColumns = `id, name, status, date_created, date_ended, turn, winner`

func scanGame(row interface{ Scan(...any) error }) (model.Game, error) {
	var g model.Game
	var id, status string
	if err := row.Scan(&id, &g.Name, &status, &g.DateCreated, &g.DateEnded, &g.Turn, &g.Winner); err != nil {
		return g, err
	}
	g.ID = model.GameID(id)
	g.Status = parseStatus(status)
	return g, nil
}

// ListGames returns all mirrored games ordered by creation date, then id.
func (db *DB) ListGames() ([]model.Game, error) {
	rows, err := db.conn.Query(`SELECT ` + gameColumns + `
		FROM games ORDER BY date_created, CAST(id AS INTEGER)`)
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

// GetGame returns the mirrored game with the given id, or nil if absent.
func (db *DB) GetGame(id model.GameID) (*model.Game, error) {
	g, err := scanGame(db.conn.QueryRow(`SELECT `+gameColumns+` FROM games WHERE id = ?`, string(id)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetGamePlayers returns the players of a game, finishers first by rank.
func (db *DB) GetGamePlayers(id model.GameID) ([]PlayerRow, error) {
	return db.queryPlayers(`WHERE game_id = ? ORDER BY finished DESC, rank, player`, string(id))
}

// GetPlayerGames returns every game record of one player, oldest game first.
func (db *DB) GetPlayerGames(player string) ([]PlayerRow, error) {
	return db.queryPlayers(`WHERE player = ? ORDER BY CAST(game_id AS INTEGER)`, player)
}

func (db *DB) queryPlayers(where string, args ...any) ([]PlayerRow, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, player, race, races, final_status, final_turn, finished, rank,
		       capital_ships, freighters, planets, starbases, military_score, percent
		FROM player_games `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerRow
	for rows.Next() {
		var p PlayerRow
		var gameID string
		var finished int
		if err := rows.Scan(
			&gameID, &p.Player, &p.Race, &p.Races, &p.FinalStatus, &p.FinalTurn, &finished, &p.Rank,
			&p.CapitalShips, &p.Freighters, &p.Planets, &p.Starbases, &p.MilitaryScore, &p.Percent,
		); err != nil {
			return nil, err
		}
		p.GameID = model.GameID(gameID)
		p.Finished = finished != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

// LastRun returns the most recent sync run, or nil if none is recorded.
func (db *DB) LastRun() (*SyncRun, error) {
	var r SyncRun
	var at string
	err := db.conn.QueryRow(`
		SELECT run_id, outcome, new_games, game_count, synced_at
		FROM sync_runs ORDER BY synced_at DESC LIMIT 1`).
		Scan(&r.ID, &r.Outcome, &r.NewGames, &r.GameCount, &at)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.SyncedAt, err = time.Parse(time.RFC3339, at)
	if err != nil {
		return nil, fmt.Errorf("sync run %s: %w", r.ID, err)
	}
	return &r, nil
}

// QueryRaw runs an arbitrary query and returns column names and rows as strings.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func parseStatus(s string) model.GameStatus {
	for code := 0; code <= int(model.StatusOnHold); code++ {
		if st := model.GameStatus(code); st.String() == s {
			return st
		}
	}
	return model.StatusInterest
}
