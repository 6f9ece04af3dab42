package model

import (
	"errors"
	"fmt"
)

// ErrRecordExists is returned when a merge would replace an existing
// player record.
var ErrRecordExists = errors.New("player record already exists")

// Snapshot is the persisted state shared between runs.
// GameCount equals the number of games ever merged and only grows.
type Snapshot struct {
	Games     map[GameID]*Game                        `json:"games"`
	Players   map[string]map[GameID]*PlayerGameRecord `json:"players"`
	GameCount int                                     `json:"gamecount"`
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Games:   make(map[GameID]*Game),
		Players: make(map[string]map[GameID]*PlayerGameRecord),
	}
}

// GameIDs returns the ids of all stored games in ascending order.
func (s *Snapshot) GameIDs() []GameID {
	ids := make([]GameID, 0, len(s.Games))
	for id := range s.Games {
		ids = append(ids, id)
	}
	SortGameIDs(ids)
	return ids
}

// AddGame stores a newly merged game and bumps GameCount.
func (s *Snapshot) AddGame(g Game) error {
	if _, ok := s.Games[g.ID]; ok {
		return fmt.Errorf("game %s already stored", g.ID)
	}
	s.Games[g.ID] = &g
	s.GameCount++
	return nil
}

// AddPlayers folds one game's reconstructed records into the snapshot.
// Existing records are never replaced.
func (s *Snapshot) AddPlayers(id GameID, players GamePlayers) error {
	for name := range players {
		if _, ok := s.Players[name][id]; ok {
			return fmt.Errorf("%s in game %s: %w", name, id, ErrRecordExists)
		}
	}
	for name, rec := range players {
		games, ok := s.Players[name]
		if !ok {
			games = make(map[GameID]*PlayerGameRecord)
			s.Players[name] = games
		}
		games[id] = rec
	}
	return nil
}

// Normalize replaces nil maps left by decoding a sparse document.
func (s *Snapshot) Normalize() {
	if s.Games == nil {
		s.Games = make(map[GameID]*Game)
	}
	if s.Players == nil {
		s.Players = make(map[string]map[GameID]*PlayerGameRecord)
	}
}
