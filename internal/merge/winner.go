package merge

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pable/academystats/internal/model"
)

// ErrUnknownGame is returned when a player record points at a game the
// snapshot does not hold.
var ErrUnknownGame = errors.New("game is not registered")

// ResolveWinners sets each game's Winner to the player whose score has
// rank 1. When only is non-nil, records of other games are skipped.
// Players are visited in name order so a shared rank goes to the last
// name alphabetically.
func ResolveWinners(snap *model.Snapshot, only map[model.GameID]bool) error {
	names := make([]string, 0, len(snap.Players))
	for name := range snap.Players {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for id, rec := range snap.Players[name] {
			if only != nil && !only[id] {
				continue
			}
			if rec.Score == nil || rec.Score.Rank != 1 {
				continue
			}
			g, ok := snap.Games[id]
			if !ok {
				return fmt.Errorf("%s won game %s: %w", name, id, ErrUnknownGame)
			}
			g.Winner = name
		}
	}
	return nil
}
