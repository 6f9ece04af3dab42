// Package accounts maps stable account ids to the player name they most
// recently joined a game with.
package accounts

import (
	"errors"
	"fmt"
)

// ErrUnknownAccount is returned by Resolve for an account that has not
// been seen joining any game.
var ErrUnknownAccount = errors.New("account never joined")

type entry struct {
	name string
	turn int
	pass int
}

// Resolver remembers, per account, the name from the latest join.
//
// Across reconstruction passes the most recently processed join wins.
// Within one pass the join with the highest turn wins, so the order of
// the event slice does not matter.
//
// A Resolver is not safe for concurrent use.
type Resolver struct {
	names map[int]entry
	pass  int
}

// New returns an empty Resolver.
func New() *Resolver {
	return &Resolver{names: make(map[int]entry)}
}

// BeginPass starts a new reconstruction pass (one game). Joins recorded
// in earlier passes are overwritten by any join in this pass.
func (r *Resolver) BeginPass() {
	r.pass++
}

// ObserveJoin records that accountID joined as name at turn.
func (r *Resolver) ObserveJoin(accountID int, name string, turn int) {
	prev, ok := r.names[accountID]
	if ok && prev.pass == r.pass && prev.turn > turn {
		return
	}
	r.names[accountID] = entry{name: name, turn: turn, pass: r.pass}
}

// Resolve returns the name last recorded for accountID.
func (r *Resolver) Resolve(accountID int) (string, error) {
	e, ok := r.names[accountID]
	if !ok {
		return "", fmt.Errorf("account %d: %w", accountID, ErrUnknownAccount)
	}
	return e.name, nil
}
