package model

import "fmt"

// EventKind is the eventtype code of a game event.
type EventKind int

const (
	EventCreated      EventKind = 1
	EventStarted      EventKind = 2
	EventJoined       EventKind = 3
	EventUnknown4     EventKind = 4
	EventWinCondition EventKind = 5
	EventWon          EventKind = 6
	EventDied         EventKind = 7
	EventResigned     EventKind = 8
	EventUnknown9     EventKind = 9
	EventDropped      EventKind = 10
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventStarted:
		return "started"
	case EventJoined:
		return "joined"
	case EventWinCondition:
		return "win-condition"
	case EventWon:
		return "won"
	case EventDied:
		return "died"
	case EventResigned:
		return "resigned"
	case EventDropped:
		return "dropped"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Recognized reports whether the event kind has a known meaning.
// Kinds 4, 9 and anything above 10 are not understood.
func (k EventKind) Recognized() bool {
	return k != EventUnknown4 && k != EventUnknown9 && k <= EventDropped
}

// Event is one entry of game/loadevents. The API returns events in no
// particular order; Turn is the only ordering key.
type Event struct {
	Kind        EventKind `json:"eventtype"`
	Description string    `json:"description"`
	Turn        int       `json:"turn"`
	// SlotID is the game seat (1-7). The API calls it playerid.
	SlotID    int `json:"playerid"`
	AccountID int `json:"accountid"`
}

// Occupant names the API uses for seats without an active player.
const (
	OccupantDead = "dead"
	OccupantOpen = "open"
)

// PlayerInfo is one seat of game/loadinfo at the end of the game.
type PlayerInfo struct {
	SlotID     int       `json:"id"`
	Username   string    `json:"username"`
	FinishRank int       `json:"finishrank"`
	Score      InfoScore `json:"score"`
}

// InfoScore is the score sub-object of a PlayerInfo. Fields the API
// omits stay nil.
type InfoScore struct {
	Turn          int      `json:"turn"`
	CapitalShips  *int     `json:"capitalships"`
	Freighters    *int     `json:"freighters"`
	Planets       *int     `json:"planets"`
	Starbases     *int     `json:"starbases"`
	MilitaryScore *float64 `json:"militaryscore"`
	Percent       *float64 `json:"percent"`
}
