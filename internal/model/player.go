package model

import (
	"encoding/json"
	"errors"
)

// ErrScoreAlreadySet is returned when a record's score is set twice.
var ErrScoreAlreadySet = errors.New("score already set")

// Status labels recorded in a PlayerGameRecord.
const (
	LabelDead     = "dead"
	LabelDropped  = "dropped"
	LabelResigned = "resigned"
	LabelAlive    = "alive"
)

// StatusEntry is one life-cycle transition of a player within a game.
type StatusEntry struct {
	Label string `json:"label"`
	Turn  int    `json:"turn"`
}

// ScoreRecord is the normalized end-of-game score of a player.
// The numeric fields are only meaningful when Finished is 1.
type ScoreRecord struct {
	Finished      int      `json:"finished"`
	Rank          int      `json:"rank"`
	CapitalShips  *int     `json:"capitalships"`
	Freighters    *int     `json:"freighters"`
	Planets       *int     `json:"planets"`
	Starbases     *int     `json:"starbases"`
	MilitaryScore *float64 `json:"militaryscore"`
	Percent       *float64 `json:"percent"`
}

// MarshalJSON omits the numeric fields of unfinished records and writes
// missing numeric fields of finished records as null.
func (s ScoreRecord) MarshalJSON() ([]byte, error) {
	if s.Finished == 0 {
		return json.Marshal(struct {
			Finished int `json:"finished"`
			Rank     int `json:"rank"`
		}{s.Finished, s.Rank})
	}
	type plain ScoreRecord
	return json.Marshal(plain(s))
}

// PlayerGameRecord is everything known about one player in one game.
// Race and Status only grow; Score is set at most once.
type PlayerGameRecord struct {
	Race   []string      `json:"race"`
	Status []StatusEntry `json:"status"`
	Score  *ScoreRecord  `json:"score,omitempty"`
}

// NewPlayerGameRecord returns an empty record with non-nil slices so it
// serializes as [] rather than null.
func NewPlayerGameRecord() *PlayerGameRecord {
	return &PlayerGameRecord{Race: []string{}, Status: []StatusEntry{}}
}

// AddRace appends a race entry.
func (r *PlayerGameRecord) AddRace(race string) {
	r.Race = append(r.Race, race)
}

// AddStatus appends a status transition.
func (r *PlayerGameRecord) AddStatus(label string, turn int) {
	r.Status = append(r.Status, StatusEntry{Label: label, Turn: turn})
}

// SetScore attaches the final score. It fails if a score is already set.
func (r *PlayerGameRecord) SetScore(s ScoreRecord) error {
	if r.Score != nil {
		return ErrScoreAlreadySet
	}
	r.Score = &s
	return nil
}

// FirstRace returns the first race entry, or "" if there is none.
func (r *PlayerGameRecord) FirstRace() string {
	if len(r.Race) == 0 {
		return ""
	}
	return r.Race[0]
}

// FinalStatus returns the status entry with the highest turn. Ties go to
// the entry appended last.
func (r *PlayerGameRecord) FinalStatus() (StatusEntry, bool) {
	if len(r.Status) == 0 {
		return StatusEntry{}, false
	}
	best := r.Status[0]
	for _, s := range r.Status[1:] {
		if s.Turn >= best.Turn {
			best = s
		}
	}
	return best, true
}

// GamePlayers holds the records of one game keyed by player name.
type GamePlayers map[string]*PlayerGameRecord

// Record returns the record for name, creating it if needed.
func (g GamePlayers) Record(name string) *PlayerGameRecord {
	rec, ok := g[name]
	if !ok {
		rec = NewPlayerGameRecord()
		g[name] = rec
	}
	return rec
}
