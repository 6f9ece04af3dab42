package aggregator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pable/academystats/internal/accounts"
	"github.com/pable/academystats/internal/model"
)

var (
	// ErrSlotNeverJoined is returned when the final player info names a
	// slot that no join event ever filled.
	ErrSlotNeverJoined = errors.New("slot was never joined")
	// ErrUnknownSlot is returned for a join into a slot outside 1-7.
	ErrUnknownSlot = errors.New("unknown slot")
	// ErrUnparsableEvent is returned when a description does not carry
	// the phrase the player name is cut from.
	ErrUnparsableEvent = errors.New("unparsable event description")
)

// Description phrases that directly follow the player name.
const (
	joinedMarker   = "has joined"
	resignedMarker = "has resigned"
	droppedMarker  = "has been dropped"
)

// occupant is the latest join seen for one slot.
type occupant struct {
	name string
	turn int
}

// Result is the reconstruction of a single game.
type Result struct {
	GameID  model.GameID
	Players model.GamePlayers
	// Occupants maps each joined slot to the player holding it at the end.
	Occupants map[int]string
	// Unrecognized holds events with kinds 4, 9 or above 10.
	Unrecognized []model.Event
}

// Reconstruct turns one game's events and final player info into
// per-player records.
//
// Events are treated as an unordered set and processed in two phases:
// first all joins (filling slot occupancy and the resolver), then all
// status events. Deaths carry no trustworthy name and are resolved
// through the account id. Finally every seat in infos gets its score and,
// unless the seat is dead, an alive entry at its final turn. A player
// holding several seats keeps the score of the first occupied one.
func Reconstruct(id model.GameID, events []model.Event, infos []model.PlayerInfo,
	resolver *accounts.Resolver, log logrus.FieldLogger) (*Result, error) {
	if resolver == nil {
		return nil, fmt.Errorf("nil resolver")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("game", id)
	resolver.BeginPass()

	res := &Result{
		GameID:    id,
		Players:   make(model.GamePlayers),
		Occupants: make(map[int]string),
	}

	// ---- Pass 1: joins. ----

	occupancy := make(map[int]occupant)
	for _, ev := range events {
		if ev.Kind != model.EventJoined {
			continue
		}
		name, err := nameBefore(ev.Description, joinedMarker)
		if err != nil {
			return nil, fmt.Errorf("game %s turn %d: %w", id, ev.Turn, err)
		}
		race, ok := model.Races[ev.SlotID]
		if !ok {
			return nil, fmt.Errorf("game %s: join of %q into slot %d: %w", id, name, ev.SlotID, ErrUnknownSlot)
		}

		// A slot can be rejoined after a drop; the latest join holds it.
		if occ, seen := occupancy[ev.SlotID]; !seen || occ.turn < ev.Turn {
			occupancy[ev.SlotID] = occupant{name: name, turn: ev.Turn}
		}
		resolver.ObserveJoin(ev.AccountID, name, ev.Turn)
		// Every join adds a race entry, even a repeat join of one player.
		res.Players.Record(name).AddRace(race)
	}

	// ---- Pass 2: departures. ----

	for _, ev := range events {
		var (
			name  string
			label string
			err   error
		)
		switch ev.Kind {
		case model.EventResigned:
			name, err = nameBefore(ev.Description, resignedMarker)
			label = model.LabelResigned
		case model.EventDropped:
			name, err = nameBefore(ev.Description, droppedMarker)
			label = model.LabelDropped
		case model.EventDied:
			name, err = resolver.Resolve(ev.AccountID)
			name = normalizeName(name)
			label = model.LabelDead
		default:
			if !ev.Kind.Recognized() {
				log.WithFields(logrus.Fields{
					"kind": ev.Kind.String(),
					"turn": ev.Turn,
				}).Warnf("unrecognized event: %s", ev.Description)
				res.Unrecognized = append(res.Unrecognized, ev)
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("game %s turn %d: %w", id, ev.Turn, err)
		}
		res.Players.Record(name).AddStatus(label, ev.Turn)
	}

	// ---- Pass 3: final seats. ----

	for _, info := range seatsByPriority(infos) {
		occ, ok := occupancy[info.SlotID]
		if !ok {
			return nil, fmt.Errorf("game %s slot %d (%s): %w", id, info.SlotID, info.Username, ErrSlotNeverJoined)
		}
		rec := res.Players.Record(occ.name)
		if info.Username != model.OccupantDead {
			rec.AddStatus(model.LabelAlive, info.Score.Turn)
		}
		// A player who left one seat and took another holds both; the
		// first score kept wins, and occupied seats come first.
		if err := rec.SetScore(ClassifyScore(info)); errors.Is(err, model.ErrScoreAlreadySet) {
			log.WithFields(logrus.Fields{
				"player": occ.name,
				"slot":   info.SlotID,
				"rank":   info.FinishRank,
			}).Warn("player holds more than one seat, keeping the first score")
		} else if err != nil {
			return nil, fmt.Errorf("game %s: score for %s: %w", id, occ.name, err)
		}
	}

	for slot, occ := range occupancy {
		res.Occupants[slot] = occ.name
	}
	log.WithFields(logrus.Fields{
		"players":      len(res.Players),
		"events":       len(events),
		"unrecognized": len(res.Unrecognized),
	}).Debug("game reconstructed")
	return res, nil
}

// seatsByPriority returns infos with occupied seats ahead of dead and open
// ones, keeping the original order within each group.
func seatsByPriority(infos []model.PlayerInfo) []model.PlayerInfo {
	out := make([]model.PlayerInfo, len(infos))
	copy(out, infos)
	sort.SliceStable(out, func(i, j int) bool {
		return occupied(out[i]) && !occupied(out[j])
	})
	return out
}

func occupied(info model.PlayerInfo) bool {
	return info.Username != model.OccupantDead && info.Username != model.OccupantOpen
}

// nameBefore cuts the player name that precedes marker in desc.
func nameBefore(desc, marker string) (string, error) {
	i := strings.Index(desc, marker)
	if i < 0 {
		return "", fmt.Errorf("%w: %q has no %q", ErrUnparsableEvent, desc, marker)
	}
	return normalizeName(desc[:i]), nil
}

// normalizeName strips the separator before the marker phrase and turns
// the API's '+' placeholders back into spaces.
func normalizeName(s string) string {
	return strings.ReplaceAll(strings.TrimRight(s, " +"), "+", " ")
}
