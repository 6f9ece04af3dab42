package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// GameID is the canonical string form of the API's numeric game id.
// The API client normalizes every id it receives; nothing downstream
// converts between integer and string ids.
type GameID string

// GameIDFromInt returns the canonical GameID for a numeric API id.
func GameIDFromInt(id int64) GameID {
	return GameID(strconv.FormatInt(id, 10))
}

// SortGameIDs sorts ids in ascending numeric order. Ids that are not
// numeric sort after numeric ones, lexically.
func SortGameIDs(ids []GameID) {
	sort.Slice(ids, func(i, j int) bool { return LessGameID(ids[i], ids[j]) })
}

// LessGameID reports whether a sorts before b in SortGameIDs order.
func LessGameID(a, b GameID) bool {
	x, xErr := strconv.ParseInt(string(a), 10, 64)
	y, yErr := strconv.ParseInt(string(b), 10, 64)
	switch {
	case xErr == nil && yErr == nil:
		return x < y
	case xErr == nil:
		return true
	case yErr == nil:
		return false
	default:
		return a < b
	}
}

// GameStatus is the lifecycle state reported by games/list.
type GameStatus int

const (
	StatusInterest GameStatus = 0
	StatusJoining  GameStatus = 1
	StatusRunning  GameStatus = 2
	StatusFinished GameStatus = 3
	StatusOnHold   GameStatus = 4
)

var statusLabels = map[GameStatus]string{
	StatusInterest: "Interest",
	StatusJoining:  "Joining",
	StatusRunning:  "Running",
	StatusFinished: "Finished",
	StatusOnHold:   "On Hold",
}

func (s GameStatus) String() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return "?"
}

// ParseGameStatus maps an API status code to a GameStatus.
func ParseGameStatus(code int) (GameStatus, error) {
	s := GameStatus(code)
	if _, ok := statusLabels[s]; !ok {
		return 0, fmt.Errorf("unknown game status %d", code)
	}
	return s, nil
}

// MarshalJSON writes the status as its label ("Finished", "On Hold", ...).
func (s GameStatus) MarshalJSON() ([]byte, error) {
	l, ok := statusLabels[s]
	if !ok {
		return nil, fmt.Errorf("unknown game status %d", int(s))
	}
	return json.Marshal(l)
}

// UnmarshalJSON accepts the label form written by MarshalJSON.
func (s *GameStatus) UnmarshalJSON(data []byte) error {
	var l string
	if err := json.Unmarshal(data, &l); err != nil {
		return fmt.Errorf("game status: %w", err)
	}
	for k, v := range statusLabels {
		if v == l {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown game status %q", l)
}

// DateLayout is the timestamp layout stored in the snapshot.
const DateLayout = "2006-01-02 15:04:05"

// Game is one Academy game as first observed in the live listing.
// Only Winner is changed after the game has been merged.
type Game struct {
	ID          GameID     `json:"id"`
	Name        string     `json:"name"`
	Status      GameStatus `json:"status"`
	DateCreated string     `json:"datecreated"`
	DateEnded   string     `json:"dateended"`
	Turn        int        `json:"turn"`
	Winner      string     `json:"winner,omitempty"`
}

// Races maps a slot id to the race played from that slot.
var Races = map[int]string{
	1: "The Solar Federation",
	2: "The Lizard Alliance",
	3: "The Empire of the Birds",
	4: "The Fascist Empire",
	5: "The Robotic Imperium",
	6: "The Rebel Confederation",
	7: "The Missing Colonies of Man",
}

// ShortRaces maps a race name to the abbreviation used in tables.
var ShortRaces = map[string]string{
	"The Solar Federation":        "Feds",
	"The Lizard Alliance":         "Lizards",
	"The Empire of the Birds":     "Birds",
	"The Fascist Empire":          "Fascists",
	"The Robotic Imperium":        "Robots",
	"The Rebel Confederation":     "Rebels",
	"The Missing Colonies of Man": "Colos",
}

// ShortRace returns the abbreviation for race, or race itself if unknown.
func ShortRace(race string) string {
	if s, ok := ShortRaces[race]; ok {
		return s
	}
	return race
}
